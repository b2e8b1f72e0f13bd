// Package directive parses typing directives from Go source files.
//
// Directives are line comments in the doc of a type declaration:
//
//	//typing:trait
//	//typing:internal
//
// The trait directive marks a struct as a trait: it can be mixed into other
// types but never instantiated or used as a supertype.
//
// The internal directive marks a type as provided by the runtime rather than
// defined by the user.
package directive

import (
	"fmt"
	"go/ast"
	"go/token"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Prefix starts every directive comment.
const Prefix = "//typing:"

// Directive represents a parsed typing directive.
type Directive struct {
	Kind     Kind           // trait or internal
	TypeName string         // name of the annotated type
	Pos      token.Position // source location
}

// Kind represents the type of directive.
type Kind string

const (
	KindTrait    Kind = "trait"
	KindInternal Kind = "internal"
)

// Result contains all directives found in a package.
type Result struct {
	Directives []Directive

	// PackagePath is the import path of the parsed package.
	PackagePath string

	// Dir is the directory containing the package.
	Dir string
}

// Has reports whether typeName carries a directive of kind k.
func (r *Result) Has(typeName string, k Kind) bool {
	for _, d := range r.Directives {
		if d.TypeName == typeName && d.Kind == k {
			return true
		}
	}
	return false
}

// ParseDir loads the package matching pattern, relative to dir, and scans it
// for directives. If dir is empty, the current directory is used.
//
// Returns an error if:
//   - The package cannot be loaded
//   - The pattern matches more than one package
//   - A directive is unknown or not attached to a type declaration
func ParseDir(pattern, dir string) (*Result, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:  dir,
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching %q", pattern)
	}

	if len(pkgs) > 1 {
		return nil, fmt.Errorf("multiple packages found matching %q; specify a single package", pattern)
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("package errors: %v", pkg.Errors[0])
	}

	result, err := ParsePackage(pkg)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ParsePackage scans an already loaded package. The package must have been
// loaded with packages.NeedSyntax.
func ParsePackage(pkg *packages.Package) (*Result, error) {
	result := &Result{
		PackagePath: pkg.PkgPath,
	}
	if len(pkg.GoFiles) > 0 {
		result.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	for _, f := range pkg.Syntax {
		directives, err := ParseFile(pkg.Fset, f)
		if err != nil {
			return nil, err
		}
		result.Directives = append(result.Directives, directives...)
	}
	return result, nil
}

// ParseFile extracts directives from a single file.
func ParseFile(fset *token.FileSet, f *ast.File) ([]Directive, error) {
	type pending struct {
		kind Kind
		pos  token.Position
	}
	// Keyed by the end of the comment group, so they can be matched to the
	// type declaration that follows.
	byGroup := make(map[token.Pos][]pending)

	for _, cg := range f.Comments {
		for _, c := range cg.List {
			if !strings.HasPrefix(c.Text, Prefix) {
				continue
			}
			parts := strings.Fields(strings.TrimPrefix(c.Text, Prefix))
			if len(parts) == 0 {
				continue
			}

			pos := fset.Position(c.Pos())
			switch k := Kind(parts[0]); k {
			case KindTrait, KindInternal:
				byGroup[cg.End()] = append(byGroup[cg.End()], pending{kind: k, pos: pos})
			default:
				return nil, fmt.Errorf("%s: unknown directive %s%s", pos, Prefix, parts[0])
			}
		}
	}

	var directives []Directive
	attach := func(doc *ast.CommentGroup, name string) {
		if doc == nil {
			return
		}
		for _, p := range byGroup[doc.End()] {
			directives = append(directives, Directive{Kind: p.kind, TypeName: name, Pos: p.pos})
		}
		delete(byGroup, doc.End())
	}

	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			attach(ts.Doc, ts.Name.Name)
			// A lone spec without parentheses takes the declaration's doc.
			if len(gen.Specs) == 1 {
				attach(gen.Doc, ts.Name.Name)
			}
		}
	}

	for _, ps := range byGroup {
		p := ps[0]
		return nil, fmt.Errorf("%s: %s%s directive must be followed by a type declaration", p.pos, Prefix, p.kind)
	}

	return directives, nil
}
