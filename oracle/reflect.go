package oracle

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Reflect is an Oracle over Go types registered at runtime.
//
// Interface types become interfaces; types added with AddEnum become enums;
// every other named type is a class. A registered type is a subtype of every
// registered interface it implements (with a value or pointer receiver) and of
// every registered type it embeds.
type Reflect struct {
	*Table

	mu    sync.Mutex
	types map[string]reflect.Type
}

// NewReflect returns a Reflect oracle with Stringable bound to fmt.Stringer
// and Traversable bound to TraversableType.
func NewReflect() *Reflect {
	r := &Reflect{
		Table: NewTable(),
		types: make(map[string]reflect.Type),
	}
	r.bindBuiltin(Stringable, reflect.TypeFor[fmt.Stringer]())
	r.bindBuiltin(Traversable, reflect.TypeFor[TraversableType]())
	return r
}

func (r *Reflect) bindBuiltin(name string, t reflect.Type) {
	// Builtins are always declared, so Bind cannot fail here.
	_ = r.Table.Bind(name, t)
	r.types[name] = t
}

// Add registers named Go types as classes or interfaces.
func (r *Reflect) Add(types ...reflect.Type) error {
	for _, t := range types {
		if t == nil {
			return fmt.Errorf("add: nil type")
		}
		t = deref(t)
		cat := CategoryClass
		if t.Kind() == reflect.Interface {
			cat = CategoryInterface
		}
		if err := r.AddAs(t.String(), t, cat); err != nil {
			return err
		}
	}
	return nil
}

// AddEnum registers named Go types as enums.
func (r *Reflect) AddEnum(types ...reflect.Type) error {
	for _, t := range types {
		if t == nil {
			return fmt.Errorf("add enum: nil type")
		}
		t = deref(t)
		if err := r.AddAs(t.String(), t, CategoryEnum); err != nil {
			return err
		}
	}
	return nil
}

// AddAs registers t under an explicit name and category.
func (r *Reflect) AddAs(name string, t reflect.Type, cat Category) error {
	if t == nil {
		return fmt.Errorf("add %q: nil type", name)
	}
	t = deref(t)
	if t.Name() == "" {
		return fmt.Errorf("add %q: %s is not a named type", name, t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := Class{
		Name:      name,
		Category:  cat,
		Internal:  isStdlib(t.PkgPath()),
		Invokable: invokable(t),
	}
	if err := r.Table.Declare(c); err != nil {
		return err
	}
	if err := r.Table.Bind(name, t); err != nil {
		return err
	}

	for other, ot := range r.types {
		if other == name {
			continue
		}
		if relates(t, ot) {
			r.Table.addParent(name, other)
		}
		if relates(ot, t) {
			r.Table.addParent(other, name)
		}
	}
	r.types[name] = t
	return nil
}

// relates reports whether a is a direct subtype of b.
func relates(a, b reflect.Type) bool {
	if a == b {
		return false
	}
	if b.Kind() == reflect.Interface {
		if a.Implements(b) {
			return true
		}
		return a.Kind() != reflect.Interface && reflect.PointerTo(a).Implements(b)
	}
	if a.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < a.NumField(); i++ {
		f := a.Field(i)
		if f.Anonymous && deref(f.Type) == b {
			return true
		}
	}
	return false
}

func invokable(t reflect.Type) bool {
	if t.Kind() == reflect.Func {
		return true
	}
	if _, ok := t.MethodByName(InvokeMethod); ok {
		return true
	}
	if t.Kind() == reflect.Interface {
		return false
	}
	_, ok := reflect.PointerTo(t).MethodByName(InvokeMethod)
	return ok
}

// isStdlib reports whether pkgPath belongs to the standard library.
// Predeclared types have an empty path.
func isStdlib(pkgPath string) bool {
	first, _, _ := strings.Cut(pkgPath, "/")
	return !strings.Contains(first, ".")
}
