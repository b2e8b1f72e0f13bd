package typing

import "github.com/broady/typing/oracle"

// Kind identifies the variant of a [Descriptor].
type Kind int

const (
	KindPrimitive Kind = iota
	KindChild
	KindClass
	KindNullable
	KindUnion
	KindIntersection
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindChild:
		return "child"
	case KindClass:
		return "class"
	case KindNullable:
		return "nullable"
	case KindUnion:
		return "union"
	case KindIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// Mode is the comparison mode of an [Aggregate].
type Mode int

const (
	// ModeAny matches when at least one child matches.
	ModeAny Mode = iota
	// ModeAll matches only when every child matches.
	ModeAll
)

func (m Mode) String() string {
	if m == ModeAll {
		return "all"
	}
	return "any"
}

// Descriptor is an immutable resolved type.
//
// Descriptors are created by a [Registry] and compared by identity: two
// resolutions of the same canonical name return the same instance. The set
// of implementations is closed.
type Descriptor interface {
	// Name returns the canonical name, lowercased for primitives and exact
	// case for class-like names.
	Name() string

	// String returns the canonical name.
	String() string

	Kind() Kind

	// Flags returns the classification predicates that hold for the type.
	Flags() Flags

	// AssignableFrom reports whether a value of other can be used where
	// this type is expected.
	AssignableFrom(other Descriptor) bool

	// AssignableTo reports whether a value of this type can be used where
	// other is expected.
	AssignableTo(other Descriptor) bool

	// OfValue reports whether the runtime value v is of this type.
	OfValue(v any) bool

	sealed()
}

// Parented is a descriptor with a single parent it delegates to by default.
// array, double and Closure are parented.
type Parented interface {
	Descriptor
	Parent() Descriptor
	IsAlias() bool
}

// Aggregate is a descriptor built from an ordered list of children.
type Aggregate interface {
	Descriptor
	Children() []Descriptor
	Mode() Mode
}

// ClassLike is a nominal declared type: class, interface, trait or enum.
type ClassLike interface {
	Descriptor
	Category() oracle.Category

	// IsSubtypeOf reports whether the type is a strict subtype of name.
	IsSubtypeOf(name string) bool

	// IsSupertypeOf reports whether name is a strict subtype of the type.
	IsSupertypeOf(name string) bool

	IsInvokable() bool
}

// Flags is a set of classification predicates.
type Flags uint16

const (
	FlagNative Flags = 1 << iota
	FlagNullable
	FlagPrimitive
	FlagScalar
	FlagCompound
	FlagSpecial
	FlagBuiltin
	FlagInternal
	FlagUserDefined
	FlagParameterType
	FlagPropertyType
	FlagReturnType
	FlagStandalone
	FlagNativeStandalone

	flagCount = iota
)

// AllFlags is the set of every predicate.
const AllFlags Flags = 1<<flagCount - 1

var flagNames = [flagCount]string{
	"native",
	"nullable",
	"primitive",
	"scalar",
	"compound",
	"special",
	"builtin",
	"internal",
	"user_defined",
	"parameter_type",
	"property_type",
	"return_type",
	"standalone",
	"native_standalone",
}

// Has reports whether every predicate in flag holds.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// Names returns the names of the set predicates in declaration order.
func (f Flags) Names() []string {
	names := make([]string, 0, flagCount)
	for i, name := range flagNames {
		if f&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return names
}

// FlagByName returns the flag with the given name, as returned by Names.
func FlagByName(name string) (Flags, bool) {
	for i, n := range flagNames {
		if n == name {
			return 1 << i, true
		}
	}
	return 0, false
}

// Truth tables shared by the variants.
const (
	positionFlags = FlagParameterType | FlagPropertyType | FlagReturnType
	builtinFlags  = FlagNative | FlagPrimitive | FlagBuiltin | positionFlags

	scalarFlags   = builtinFlags | FlagScalar | FlagStandalone | FlagNativeStandalone
	compoundFlags = builtinFlags | FlagCompound | FlagStandalone | FlagNativeStandalone
	callableFlags = compoundFlags &^ (FlagPropertyType | FlagReturnType)
	resourceFlags = builtinFlags | FlagSpecial
	nullFlags     = resourceFlags | FlagNullable
	falseFlags    = resourceFlags | FlagStandalone
	trueFlags     = FlagPrimitive | FlagSpecial | positionFlags | FlagStandalone
	doubleFlags   = FlagPrimitive | FlagScalar | positionFlags | FlagStandalone

	classFlags = positionFlags | FlagStandalone | FlagNativeStandalone
	traitFlags = FlagReturnType | FlagStandalone | FlagNativeStandalone
)
