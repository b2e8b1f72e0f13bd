package typing

import "github.com/broady/typing/oracle"

// Decorated wraps a class-like type that provides a recognized capability,
// such as a fmt.Stringer class providing string.
//
// It aggregates the class and the capability under ModeAny, so it is
// assignable to whatever either of them is assignable to. Every other question
// is answered by the wrapped class.
//
// Kind reports KindClass, the kind of the wrapped class. Detect decoration
// through Aggregate or Unwrap rather than Kind: a plain class is never an
// Aggregate.
type Decorated struct {
	impl       ClassLike
	capability Descriptor
}

// Decorate returns a Decorator that pairs a class with the named capability.
func Decorate(capability string) Decorator {
	return func(base ClassLike, env Env) (ClassLike, error) {
		d, err := env.Resolve(capability)
		if err != nil {
			return nil, err
		}
		return &Decorated{impl: base, capability: d}, nil
	}
}

// Unwrap returns the decorated class.
func (d *Decorated) Unwrap() ClassLike { return d.impl }

// Capability returns the descriptor the class provides.
func (d *Decorated) Capability() Descriptor { return d.capability }

func (d *Decorated) Name() string   { return d.impl.Name() }
func (d *Decorated) String() string { return d.impl.Name() }
func (*Decorated) Kind() Kind       { return KindClass }
func (*Decorated) Mode() Mode       { return ModeAny }
func (*Decorated) sealed()          {}

func (d *Decorated) Children() []Descriptor {
	return []Descriptor{d.impl, d.capability}
}

// Flags takes origin and position flags from the wrapped class and class
// defaults for the rest.
func (d *Decorated) Flags() Flags {
	const forwarded = FlagInternal | FlagUserDefined | positionFlags
	return classFlags&^forwarded | d.impl.Flags()&forwarded
}

func (d *Decorated) Category() oracle.Category      { return d.impl.Category() }
func (d *Decorated) IsSubtypeOf(name string) bool   { return d.impl.IsSubtypeOf(name) }
func (d *Decorated) IsSupertypeOf(name string) bool { return d.impl.IsSupertypeOf(name) }
func (d *Decorated) IsInvokable() bool              { return d.impl.IsInvokable() }
func (d *Decorated) AssignableFrom(other Descriptor) bool {
	return d.impl.AssignableFrom(other)
}

func (d *Decorated) AssignableTo(other Descriptor) bool {
	if other == nil {
		return false
	}
	return aggregate(ModeAny, d.Children(), func(c Descriptor) bool { return c.AssignableTo(other) })
}

func (d *Decorated) OfValue(v any) bool {
	return d.impl.OfValue(v)
}
