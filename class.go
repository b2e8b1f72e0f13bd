package typing

import (
	"sync"

	"github.com/broady/typing/oracle"
)

// Class is a nominal declared type. Existence, subtype and instance facts come
// from the oracle it was resolved with.
type Class struct {
	name     string
	category oracle.Category
	oracle   oracle.Oracle

	once     sync.Once
	internal bool
}

// newClass builds the descriptor for a class-like name. Enums are checked
// first because they also pass the class check.
func newClass(name string, o oracle.Oracle) (*Class, error) {
	var cat oracle.Category
	switch {
	case o.EnumExists(name):
		cat = oracle.CategoryEnum
	case o.InterfaceExists(name):
		cat = oracle.CategoryInterface
	case o.TraitExists(name):
		cat = oracle.CategoryTrait
	case o.ClassExists(name):
		cat = oracle.CategoryClass
	default:
		return nil, invalidClass(name)
	}
	return &Class{name: name, category: cat, oracle: o}, nil
}

func isClassLike(name string, o oracle.Oracle) bool {
	return o.EnumExists(name) || o.InterfaceExists(name) || o.TraitExists(name) || o.ClassExists(name)
}

func (c *Class) Name() string              { return c.name }
func (c *Class) String() string            { return c.name }
func (*Class) Kind() Kind                  { return KindClass }
func (c *Class) Category() oracle.Category { return c.category }
func (*Class) sealed()                     {}

func (c *Class) Flags() Flags {
	f := classFlags
	if c.category == oracle.CategoryTrait {
		f = traitFlags
	}
	c.once.Do(func() {
		c.internal = c.oracle.IsInternal(c.name)
	})
	if c.internal {
		return f | FlagInternal
	}
	return f | FlagUserDefined
}

func (c *Class) IsSubtypeOf(name string) bool {
	return c.oracle.IsSubtype(c.name, name)
}

func (c *Class) IsSupertypeOf(name string) bool {
	return c.oracle.IsSubtype(name, c.name)
}

func (c *Class) IsInvokable() bool {
	return c.oracle.IsInvokable(c.name)
}

func (c *Class) AssignableFrom(other Descriptor) bool {
	o, ok := other.(ClassLike)
	if !ok {
		return false
	}
	return o.Name() == c.name || o.IsSubtypeOf(c.name)
}

func (c *Class) AssignableTo(other Descriptor) bool {
	o, ok := other.(ClassLike)
	if !ok {
		return false
	}
	return o.Name() == c.name || o.IsSupertypeOf(c.name)
}

// OfValue reports whether v is an instance of the class or one of its
// subtypes. Traits never describe a value.
func (c *Class) OfValue(v any) bool {
	if c.category == oracle.CategoryTrait {
		return false
	}
	return c.oracle.IsInstance(v, c.name)
}

// Closure is the class of Go func values. It is class-like and also a child of
// callable, so a Closure can be used wherever callable is expected.
type Closure struct {
	*Class
	parent Descriptor
}

func newClosure(base *Class, env Env) (ClassLike, error) {
	parent, err := env.Resolve(Callable)
	if err != nil {
		return nil, err
	}
	return &Closure{Class: base, parent: parent}, nil
}

func (c *Closure) Parent() Descriptor { return c.parent }
func (*Closure) IsAlias() bool        { return false }

func (c *Closure) AssignableTo(other Descriptor) bool {
	if other == nil {
		return false
	}
	return c.Class.AssignableTo(other) || c.parent.AssignableTo(other)
}
