// Package typingtest provides shared fixtures for tests: an oracle with a
// small class hierarchy and helpers for HTTP handler tests.
// It does not import the typing package, so typing's own tests can use it.
package typingtest

import (
	"fmt"
	"reflect"

	"github.com/broady/typing/internal/testfixtures"
	"github.com/broady/typing/oracle"
)

// Fixture class-like names declared by NewOracle.
const (
	BasicInterface  = "BasicInterface"
	BasicClass      = "BasicClass"
	ChildClass      = "ChildClass"
	StringableClass = "StringableClass"
	IterableClass   = "IterableClass"
	InvokableClass  = "InvokableClass"
	BasicEnum       = "BasicEnum"
	IterableEnum    = "IterableEnum"
	BasicTrait      = "BasicTrait"
	InternalClass   = "ArrayIterator"
)

// Classes are the fixture declarations.
var Classes = []oracle.Class{
	{Name: BasicInterface, Category: oracle.CategoryInterface},
	{Name: BasicClass, Category: oracle.CategoryClass, Parents: []string{BasicInterface}},
	{Name: ChildClass, Category: oracle.CategoryClass, Parents: []string{BasicClass}},
	{Name: StringableClass, Category: oracle.CategoryClass, Parents: []string{oracle.Stringable}},
	{Name: IterableClass, Category: oracle.CategoryClass, Parents: []string{oracle.Traversable}},
	{Name: InvokableClass, Category: oracle.CategoryClass, Invokable: true},
	{Name: BasicEnum, Category: oracle.CategoryEnum},
	{Name: IterableEnum, Category: oracle.CategoryEnum, Parents: []string{oracle.Traversable}},
	{Name: BasicTrait, Category: oracle.CategoryTrait},
	{Name: InternalClass, Category: oracle.CategoryClass, Parents: []string{oracle.Traversable}, Internal: true},
}

var bindings = map[string]reflect.Type{
	oracle.Stringable:  reflect.TypeFor[fmt.Stringer](),
	oracle.Traversable: reflect.TypeFor[oracle.TraversableType](),
	BasicInterface:     reflect.TypeFor[testfixtures.BasicInterface](),
	BasicClass:         reflect.TypeFor[testfixtures.BasicClass](),
	ChildClass:         reflect.TypeFor[testfixtures.ChildClass](),
	StringableClass:    reflect.TypeFor[testfixtures.StringableClass](),
	IterableClass:      reflect.TypeFor[testfixtures.IterableClass](),
	InvokableClass:     reflect.TypeFor[testfixtures.InvokableClass](),
	BasicEnum:          reflect.TypeFor[testfixtures.BasicEnum](),
	IterableEnum:       reflect.TypeFor[testfixtures.IterableEnum](),
}

// NewOracle returns a Table declaring Classes, with the testfixtures types
// bound to their short names.
func NewOracle() *oracle.Table {
	t := oracle.NewTable()
	if err := t.Declare(Classes...); err != nil {
		panic(err)
	}
	for name, typ := range bindings {
		if err := t.Bind(name, typ); err != nil {
			panic(err)
		}
	}
	return t
}
