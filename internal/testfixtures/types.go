// Package testfixtures provides Go types used to exercise the oracles.
package testfixtures

import "iter"

// BasicInterface is implemented by BasicClass and everything embedding it.
type BasicInterface interface {
	Basic()
}

// BasicClass is a plain class.
type BasicClass struct {
	ID int
}

func (BasicClass) Basic() {}

// ChildClass extends BasicClass by embedding.
type ChildClass struct {
	BasicClass
	Name string
}

// StringableClass implements fmt.Stringer.
type StringableClass struct {
	Value string
}

func (s StringableClass) String() string { return s.Value }

// IterableClass implements the Traversable capability with a pointer receiver.
type IterableClass struct {
	Items []any
}

func (c *IterableClass) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, it := range c.Items {
			if !yield(it) {
				return
			}
		}
	}
}

// InvokableClass can be called through its Invoke method.
type InvokableClass struct{}

func (InvokableClass) Invoke() {}

// BasicEnum is an enum of ints.
type BasicEnum int

const (
	BasicEnumFirst BasicEnum = iota
	BasicEnumSecond
)

// IterableEnum is an enum that is also traversable.
type IterableEnum string

const (
	IterableEnumRed  IterableEnum = "red"
	IterableEnumBlue IterableEnum = "blue"
)

func (e IterableEnum) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, r := range string(e) {
			if !yield(r) {
				return
			}
		}
	}
}

// Timestamps is mixed into other structs.
//
//typing:trait
type Timestamps struct {
	CreatedAt int64
	UpdatedAt int64
}

// Post uses the Timestamps trait.
type Post struct {
	Timestamps
	Title string
}

// Callback is a named func type.
type Callback func()

// Handle stands in for a runtime-provided class.
//
//typing:internal
type Handle struct {
	ID int
}
