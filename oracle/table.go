package oracle

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Class declares a class-like name.
type Class struct {
	Name     string   `validate:"required"`
	Category Category `validate:"gte=0,lte=3"`

	// Parents are the direct supertypes: extended classes, implemented
	// interfaces and embedded types.
	Parents []string `validate:"dive,required"`

	Internal  bool
	Invokable bool
}

// Table is an Oracle over declared classes.
// The zero value is not usable; create one with NewTable.
type Table struct {
	mu      sync.RWMutex
	classes map[string]*Class
	bound   map[string]reflect.Type
	names   map[reflect.Type]string
}

// NewTable returns a Table seeded with Builtins.
func NewTable() *Table {
	t := &Table{
		classes: make(map[string]*Class),
		bound:   make(map[string]reflect.Type),
		names:   make(map[reflect.Type]string),
	}
	for _, c := range Builtins {
		t.classes[c.Name] = clone(c)
	}
	return t
}

// Declare adds or replaces class declarations.
func (t *Table) Declare(classes ...Class) error {
	for _, c := range classes {
		if err := validate.Struct(c); err != nil {
			return fmt.Errorf("declare %q: %w", c.Name, err)
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range classes {
		t.classes[c.Name] = clone(c)
	}
	return nil
}

// Bind associates a Go type with a declared name, so values of that type (or,
// for interface types, values implementing it) are instances of name.
func (t *Table) Bind(name string, typ reflect.Type) error {
	if typ == nil {
		return fmt.Errorf("bind %q: nil type", name)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.classes[name]; !ok {
		return fmt.Errorf("bind %q: not declared", name)
	}
	typ = deref(typ)
	t.bound[name] = typ
	t.names[typ] = name
	return nil
}

// Lookup returns a copy of the declaration for name.
func (t *Table) Lookup(name string) (Class, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.classes[name]
	if !ok {
		return Class{}, false
	}
	return *clone(*c), true
}

// Names returns all declared names, sorted.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.classes))
	for name := range t.classes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ClassExists reports whether name is a class. Enums are classes too, as they
// are in most hosts; check EnumExists first to tell them apart.
func (t *Table) ClassExists(name string) bool {
	return t.is(name, CategoryClass) || t.is(name, CategoryEnum)
}

func (t *Table) InterfaceExists(name string) bool { return t.is(name, CategoryInterface) }
func (t *Table) TraitExists(name string) bool     { return t.is(name, CategoryTrait) }
func (t *Table) EnumExists(name string) bool      { return t.is(name, CategoryEnum) }

func (t *Table) IsSubtype(name, parent string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.isSubtypeLocked(name, parent)
}

func (t *Table) IsInternal(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.classes[name]
	return ok && c.Internal
}

func (t *Table) IsInvokable(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.classes[name]
	return ok && c.Invokable
}

func (t *Table) IsInstance(v any, name string) bool {
	if v == nil {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	c, ok := t.classes[name]
	if !ok || c.Category == CategoryTrait {
		return false
	}

	rt := reflect.TypeOf(v)
	if name == Closure && rt.Kind() == reflect.Func {
		return true
	}
	if bt, ok := t.bound[name]; ok {
		if bt.Kind() == reflect.Interface {
			if rt.Implements(bt) {
				return true
			}
		} else if deref(rt) == bt {
			return true
		}
	}

	vn, ok := t.nameOfLocked(rt)
	return ok && (vn == name || t.isSubtypeLocked(vn, name))
}

func (t *Table) NameOf(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nameOfLocked(reflect.TypeOf(v))
}

func (t *Table) is(name string, cat Category) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.classes[name]
	return ok && c.Category == cat
}

// addParent records parent as a direct supertype of name.
func (t *Table) addParent(name, parent string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.classes[name]
	if !ok || slices.Contains(c.Parents, parent) {
		return
	}
	c.Parents = append(c.Parents, parent)
}

func (t *Table) isSubtypeLocked(name, parent string) bool {
	if name == parent {
		return false
	}
	seen := map[string]bool{name: true}
	stack := []string{name}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		c, ok := t.classes[cur]
		if !ok {
			continue
		}
		for _, p := range c.Parents {
			if p == parent {
				return true
			}
			if !seen[p] {
				seen[p] = true
				stack = append(stack, p)
			}
		}
	}
	return false
}

func (t *Table) nameOfLocked(rt reflect.Type) (string, bool) {
	rt = deref(rt)
	if name, ok := t.names[rt]; ok {
		return name, true
	}
	if rt.Name() == "" {
		if rt.Kind() == reflect.Func {
			return Closure, true
		}
		return "", false
	}
	name := rt.String()
	if _, ok := t.classes[name]; ok {
		return name, true
	}
	return "", false
}

func clone(c Class) *Class {
	c.Parents = slices.Clone(c.Parents)
	return &c
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
