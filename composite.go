package typing

import (
	"slices"
	"strings"

	"github.com/broady/typing/internal/decl"
)

// Composite aggregates an ordered list of children under a comparison mode.
// Nullable types, unions, intersections and bool are composites.
//
// Only assignability looks at the mode. Flags and OfValue hold for a
// composite only if they hold for every child, whatever the mode.
type Composite struct {
	name     string
	kind     Kind
	mode     Mode
	children []Descriptor

	// The fields below replace the derived behavior when set.
	fixed    bool
	flags    Flags
	nullable bool
	match    func(v any) bool
}

func (c *Composite) Name() string           { return c.name }
func (c *Composite) String() string         { return c.name }
func (c *Composite) Kind() Kind             { return c.kind }
func (c *Composite) Mode() Mode             { return c.mode }
func (c *Composite) Children() []Descriptor { return slices.Clone(c.children) }
func (*Composite) sealed()                  {}

func (c *Composite) Flags() Flags {
	if c.fixed {
		return c.flags
	}
	f := AllFlags
	for _, child := range c.children {
		f &= child.Flags()
	}
	if c.nullable {
		f |= FlagNullable
	}
	return f
}

func (c *Composite) AssignableFrom(other Descriptor) bool {
	if other == nil {
		return false
	}
	return aggregate(c.mode, c.children, func(d Descriptor) bool { return d.AssignableFrom(other) })
}

func (c *Composite) AssignableTo(other Descriptor) bool {
	if other == nil {
		return false
	}
	return aggregate(c.mode, c.children, func(d Descriptor) bool { return d.AssignableTo(other) })
}

func (c *Composite) OfValue(v any) bool {
	if c.match != nil {
		return c.match(v)
	}
	for _, child := range c.children {
		if !child.OfValue(v) {
			return false
		}
	}
	return true
}

// aggregate applies pred to children in order. Under ModeAny the first
// match returns true; under ModeAll the first miss returns false. A loop that
// runs to completion returns false in both modes, so an empty composite and a
// fully matched intersection are never assignable.
func aggregate(mode Mode, children []Descriptor, pred func(Descriptor) bool) bool {
	for _, child := range children {
		ok := pred(child)
		if ok && mode == ModeAny {
			return true
		}
		if !ok && mode == ModeAll {
			return false
		}
	}
	return false
}

func newBool(env Env) (Descriptor, error) {
	t, err := env.Resolve(True)
	if err != nil {
		return nil, err
	}
	f, err := env.Resolve(False)
	if err != nil {
		return nil, err
	}
	return &Composite{
		name:     Bool,
		kind:     KindPrimitive,
		mode:     ModeAny,
		children: []Descriptor{t, f},
		fixed:    true,
		flags:    scalarFlags,
		match:    isBool,
	}, nil
}

func newNullable(null, inner Descriptor) *Composite {
	children := []Descriptor{null, inner}
	return &Composite{
		name:     joinNames(children, decl.UnionSeparator),
		kind:     KindNullable,
		mode:     ModeAny,
		children: children,
		nullable: true,
	}
}

func newUnion(members []Descriptor) *Composite {
	members = canonical(members)
	return &Composite{
		name:     joinNames(members, decl.UnionSeparator),
		kind:     KindUnion,
		mode:     ModeAny,
		children: members,
	}
}

func newIntersection(members []Descriptor) *Composite {
	members = canonical(members)
	return &Composite{
		name:     joinNames(members, decl.IntersectionSeparator),
		kind:     KindIntersection,
		mode:     ModeAll,
		children: members,
	}
}

// canonical sorts members by name and drops repeated names.
func canonical(members []Descriptor) []Descriptor {
	out := slices.Clone(members)
	slices.SortStableFunc(out, func(a, b Descriptor) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return slices.CompactFunc(out, func(a, b Descriptor) bool {
		return a.Name() == b.Name()
	})
}

func joinNames(members []Descriptor, sep string) string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name()
	}
	return strings.Join(names, sep)
}
