package oracle

import (
	"context"
	"fmt"
	"go/types"

	"golang.org/x/tools/go/packages"

	"github.com/broady/typing/internal/directive"
)

// Source is an Oracle over named types declared in Go packages.
//
// Names are qualified by package name ("fixtures.User"), matching
// reflect.Type.String so runtime values resolve to the same names.
// Interfaces become interfaces; defined basic types with constants become
// enums; structs documented with //typing:trait become traits; everything
// else is a class. Loaded types are user-defined unless documented with
// //typing:internal.
type Source struct {
	*Table
}

// SourceOptions configures source-based loading.
type SourceOptions struct {
	// Packages are the Go package patterns to load.
	Packages []string

	// Dir is the working directory for the go command. Empty means the
	// current directory.
	Dir string
}

// LoadSource loads packages and declares their named types.
func LoadSource(ctx context.Context, opts SourceOptions) (*Source, error) {
	if len(opts.Packages) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}

	pkgs, err := packages.Load(cfg, opts.Packages...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found")
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}

	b := &sourceBuilder{
		named:    make(map[string]*types.Named),
		cats:     make(map[string]Category),
		traits:   make(map[string]bool),
		internal: make(map[string]bool),
	}
	for _, pkg := range pkgs {
		if err := b.collect(pkg); err != nil {
			return nil, err
		}
	}

	s := &Source{Table: NewTable()}
	if err := s.Table.Declare(b.classes()...); err != nil {
		return nil, err
	}
	return s, nil
}

// sourceBuilder accumulates named types across packages.
type sourceBuilder struct {
	order    []string
	named    map[string]*types.Named
	cats     map[string]Category
	traits   map[string]bool
	internal map[string]bool
}

func qualify(pkgName, name string) string {
	return pkgName + "." + name
}

func (b *sourceBuilder) collect(pkg *packages.Package) error {
	dirs, err := directive.ParsePackage(pkg)
	if err != nil {
		return fmt.Errorf("package %s: %w", pkg.PkgPath, err)
	}
	for _, d := range dirs.Directives {
		name := qualify(pkg.Name, d.TypeName)
		switch d.Kind {
		case directive.KindTrait:
			b.traits[name] = true
		case directive.KindInternal:
			b.internal[name] = true
		}
	}

	scope := pkg.Types.Scope()
	for _, objName := range scope.Names() {
		tn, ok := scope.Lookup(objName).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}
		name := qualify(pkg.Name, tn.Name())
		if _, seen := b.named[name]; seen {
			continue
		}
		b.order = append(b.order, name)
		b.named[name] = named
		b.cats[name] = b.category(name, named, scope)
	}
	return nil
}

func (b *sourceBuilder) category(name string, named *types.Named, scope *types.Scope) Category {
	switch named.Underlying().(type) {
	case *types.Interface:
		return CategoryInterface
	case *types.Struct:
		if b.traits[name] {
			return CategoryTrait
		}
	case *types.Basic:
		if hasConstants(named, scope) {
			return CategoryEnum
		}
	}
	return CategoryClass
}

// hasConstants reports whether scope declares a constant of type named.
func hasConstants(named *types.Named, scope *types.Scope) bool {
	for _, n := range scope.Names() {
		c, ok := scope.Lookup(n).(*types.Const)
		if ok && types.Identical(c.Type(), named) {
			return true
		}
	}
	return false
}

func (b *sourceBuilder) classes() []Class {
	out := make([]Class, 0, len(b.order))
	for _, name := range b.order {
		named := b.named[name]
		c := Class{
			Name:      name,
			Category:  b.cats[name],
			Internal:  b.internal[name],
			Invokable: hasInvoke(named),
		}
		for _, other := range b.order {
			// Using a trait does not make a type its subtype.
			if other == name || b.cats[other] == CategoryTrait {
				continue
			}
			if b.relates(named, b.named[other]) {
				c.Parents = append(c.Parents, other)
			}
		}
		if hasMethod(named, "String", "string") {
			c.Parents = append(c.Parents, Stringable)
		}
		if hasMethod(named, "All", "iter.Seq[any]") {
			c.Parents = append(c.Parents, Traversable)
		}
		out = append(out, c)
	}
	return out
}

// relates reports whether a is a direct subtype of b.
func (b *sourceBuilder) relates(a, other *types.Named) bool {
	if iface, ok := other.Underlying().(*types.Interface); ok {
		if types.Implements(a, iface) {
			return true
		}
		if _, isIface := a.Underlying().(*types.Interface); isIface {
			return false
		}
		return types.Implements(types.NewPointer(a), iface)
	}
	st, ok := a.Underlying().(*types.Struct)
	if !ok {
		return false
	}
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if !f.Embedded() {
			continue
		}
		ft := f.Type()
		if p, ok := ft.(*types.Pointer); ok {
			ft = p.Elem()
		}
		if n, ok := ft.(*types.Named); ok && n.Obj() == other.Obj() {
			return true
		}
	}
	return false
}

// hasMethod reports whether named (or *named) has a niladic method returning
// a single value whose type prints as result.
func hasMethod(named *types.Named, method, result string) bool {
	obj, _, _ := types.LookupFieldOrMethod(named, true, nil, method)
	fn, ok := obj.(*types.Func)
	if !ok {
		return false
	}
	sig := fn.Type().(*types.Signature)
	return sig.Params().Len() == 0 &&
		sig.Results().Len() == 1 &&
		sig.Results().At(0).Type().String() == result
}

func hasInvoke(named *types.Named) bool {
	if _, ok := named.Underlying().(*types.Signature); ok {
		return true
	}
	obj, _, _ := types.LookupFieldOrMethod(named, true, nil, InvokeMethod)
	_, ok := obj.(*types.Func)
	return ok
}
