package typing

// Child is a descriptor with a single parent. array is a child of iterable;
// double is an alias of float.
//
// By default a name match short-circuits and everything else is delegated to
// the parent in the same direction.
type Child struct {
	name   string
	flags  Flags
	parent Descriptor
	alias  bool
	match  func(v any) bool
	from   func(other Descriptor) bool
	to     func(other Descriptor) bool
}

func (c *Child) Name() string       { return c.name }
func (c *Child) String() string     { return c.name }
func (*Child) Kind() Kind           { return KindChild }
func (c *Child) Flags() Flags       { return c.flags }
func (c *Child) Parent() Descriptor { return c.parent }
func (c *Child) IsAlias() bool      { return c.alias }
func (*Child) sealed()              {}

func (c *Child) AssignableFrom(other Descriptor) bool {
	if other == nil {
		return false
	}
	if c.from != nil {
		return c.from(other)
	}
	return other.Name() == c.name || c.parent.AssignableFrom(other)
}

func (c *Child) AssignableTo(other Descriptor) bool {
	if other == nil {
		return false
	}
	if c.to != nil {
		return c.to(other)
	}
	return other.Name() == c.name || c.parent.AssignableTo(other)
}

func (c *Child) OfValue(v any) bool {
	if c.match != nil {
		return c.match(v)
	}
	return c.parent.OfValue(v)
}

func newArray(env Env) (Descriptor, error) {
	parent, err := env.Resolve(Iterable)
	if err != nil {
		return nil, err
	}
	c := &Child{
		name:   Array,
		flags:  compoundFlags,
		parent: parent,
		match:  isArray,
		// Only array itself can be used where an array is expected;
		// iterable is not narrowed back down.
		from: func(other Descriptor) bool { return other.Name() == Array },
	}
	return c, nil
}

func newDouble(env Env) (Descriptor, error) {
	parent, err := env.Resolve(Float)
	if err != nil {
		return nil, err
	}
	return &Child{name: Double, flags: doubleFlags, parent: parent, alias: true}, nil
}
