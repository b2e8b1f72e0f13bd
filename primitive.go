package typing

import "github.com/broady/typing/oracle"

// Canonical primitive names.
const (
	Bool     = "bool"
	Int      = "int"
	Float    = "float"
	String   = "string"
	Array    = "array"
	Object   = "object"
	Callable = "callable"
	Iterable = "iterable"
	Resource = "resource"
	Null     = "null"
	False    = "false"
	True     = "true"
	Double   = "double"
)

// Primitive is a leaf native type, or one of the non-native special leaves.
//
// Unless a primitive overrides it, assignability in both directions holds only
// between equal canonical names.
type Primitive struct {
	name  string
	flags Flags
	match func(v any) bool
	from  func(other Descriptor) bool
	to    func(other Descriptor) bool
}

func (p *Primitive) Name() string   { return p.name }
func (p *Primitive) String() string { return p.name }
func (*Primitive) Kind() Kind       { return KindPrimitive }
func (p *Primitive) Flags() Flags   { return p.flags }
func (*Primitive) sealed()          {}

func (p *Primitive) AssignableFrom(other Descriptor) bool {
	if other == nil {
		return false
	}
	if p.from != nil {
		return p.from(other)
	}
	return other.Name() == p.name
}

func (p *Primitive) AssignableTo(other Descriptor) bool {
	if other == nil {
		return false
	}
	if p.to != nil {
		return p.to(other)
	}
	return other.Name() == p.name
}

func (p *Primitive) OfValue(v any) bool {
	return p.match(v)
}

func newInt(Env) (Descriptor, error) {
	return &Primitive{name: Int, flags: scalarFlags, match: isInt}, nil
}

func newFloat(Env) (Descriptor, error) {
	// A child of float (double) is interchangeable with it.
	rule := func(other Descriptor) bool {
		if c, ok := other.(Parented); ok {
			return c.Parent().Name() == Float
		}
		return other.Name() == Float
	}
	return &Primitive{name: Float, flags: scalarFlags, match: isFloat, from: rule, to: rule}, nil
}

func newString(env Env) (Descriptor, error) {
	return &Primitive{
		name:  String,
		flags: scalarFlags,
		match: func(v any) bool {
			return isString(v) || env.Oracle.IsInstance(v, oracle.Stringable)
		},
		from: func(other Descriptor) bool {
			return other.Name() == String || implements(other, oracle.Stringable)
		},
	}, nil
}

func newObject(Env) (Descriptor, error) {
	return &Primitive{
		name:  Object,
		flags: compoundFlags,
		match: isObject,
		from: func(other Descriptor) bool {
			_, ok := other.(ClassLike)
			return ok || other.Name() == Object
		},
	}, nil
}

func newIterable(env Env) (Descriptor, error) {
	return &Primitive{
		name:  Iterable,
		flags: compoundFlags,
		match: func(v any) bool {
			return isArray(v) || isSeq(v) || env.Oracle.IsInstance(v, oracle.Traversable)
		},
		from: func(other Descriptor) bool {
			switch other.Name() {
			case Iterable, Array:
				return true
			}
			return implements(other, oracle.Traversable)
		},
	}, nil
}

func newCallable(Env) (Descriptor, error) {
	return &Primitive{
		name:  Callable,
		flags: callableFlags,
		match: isCallable,
		from: func(other Descriptor) bool {
			if other.Name() == Callable {
				return true
			}
			if c, ok := other.(Parented); ok && c.Parent().Name() == Callable {
				return true
			}
			c, ok := other.(ClassLike)
			return ok && c.IsInvokable()
		},
	}, nil
}

func newResource(Env) (Descriptor, error) {
	return &Primitive{name: Resource, flags: resourceFlags, match: isResource}, nil
}

func newNull(Env) (Descriptor, error) {
	return &Primitive{
		name:  Null,
		flags: nullFlags,
		match: func(v any) bool { return v == nil },
		from:  func(other Descriptor) bool { return other.Name() == Null },
		to:    func(other Descriptor) bool { return other.Flags().Has(FlagNullable) },
	}, nil
}

func newFalse(Env) (Descriptor, error) {
	return newLiteral(False, falseFlags, false), nil
}

func newTrue(Env) (Descriptor, error) {
	return newLiteral(True, trueFlags, true), nil
}

// newLiteral builds true or false. Both are interchangeable with bool.
func newLiteral(name string, flags Flags, value bool) *Primitive {
	rule := func(other Descriptor) bool {
		return other.Name() == name || other.Name() == Bool
	}
	return &Primitive{
		name:  name,
		flags: flags,
		match: func(v any) bool {
			b, ok := v.(bool)
			return ok && b == value
		},
		from: rule,
		to:   rule,
	}
}

// implements reports whether other is class-like and either is the named
// capability or a subtype of it.
func implements(other Descriptor, capability string) bool {
	c, ok := other.(ClassLike)
	return ok && (c.Name() == capability || c.IsSubtypeOf(capability))
}
