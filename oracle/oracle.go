// Package oracle answers nominal type questions for the typing engine.
//
// The engine never inspects Go types itself. Whether a name denotes a class,
// interface, trait or enum, which names are subtypes of others, and whether a
// runtime value is an instance of a name are all delegated to an Oracle.
//
// Three implementations are provided:
//   - Table holds declared facts and is the store the other two build on.
//   - Reflect derives facts from Go types registered at runtime.
//   - Source derives facts from Go packages loaded with golang.org/x/tools/go/packages.
package oracle

import "iter"

// Oracle answers class-like existence, subtype and instance queries.
// Implementations must be safe for concurrent use and free of side effects.
type Oracle interface {
	ClassExists(name string) bool
	InterfaceExists(name string) bool
	TraitExists(name string) bool
	EnumExists(name string) bool

	// IsSubtype reports whether name is a strict subtype of parent.
	// A name is never a subtype of itself.
	IsSubtype(name, parent string) bool

	// IsInternal reports whether name is provided by the runtime rather than
	// defined by the user.
	IsInternal(name string) bool

	// IsInvokable reports whether instances of name can be called.
	IsInvokable(name string) bool

	// IsInstance reports whether v is an instance of name or of one of its subtypes.
	IsInstance(v any, name string) bool

	// NameOf returns the class-like name of a runtime value, if known.
	NameOf(v any) (string, bool)
}

// Category identifies the kind of a class-like name.
type Category int

const (
	CategoryClass Category = iota
	CategoryInterface
	CategoryTrait
	CategoryEnum
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryClass:
		return "class"
	case CategoryInterface:
		return "interface"
	case CategoryTrait:
		return "trait"
	case CategoryEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Names of the builtin class-like types the engine treats specially.
const (
	Closure     = "Closure"
	Stringable  = "Stringable"
	Traversable = "Traversable"
)

// InvokeMethod is the method name that makes a Go type invokable.
const InvokeMethod = "Invoke"

// TraversableType is the Go shape of the Traversable capability.
type TraversableType interface {
	All() iter.Seq[any]
}

// Builtins are the class-like declarations every oracle starts with.
var Builtins = []Class{
	{Name: Closure, Category: CategoryClass, Internal: true, Invokable: true},
	{Name: Stringable, Category: CategoryInterface, Internal: true},
	{Name: Traversable, Category: CategoryInterface, Internal: true},
}
