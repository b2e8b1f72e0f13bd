package typing

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/broady/typing/internal/decl"
	"github.com/broady/typing/oracle"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Env is what a constructor sees while a descriptor is being built.
// It is only valid for the duration of the constructor call.
type Env struct {
	Oracle oracle.Oracle

	// Resolve resolves another declaration within the same resolution.
	Resolve func(name string) (Descriptor, error)
}

// Constructor builds a primitive or alias descriptor.
type Constructor func(env Env) (Descriptor, error)

// ClassConstructor replaces the descriptor built for a specific class-like
// name, such as Closure.
type ClassConstructor func(base *Class, env Env) (ClassLike, error)

// Decorator wraps a class-like descriptor that is, or is a subtype of, a
// special class.
type Decorator func(base ClassLike, env Env) (ClassLike, error)

// MappingKind selects the table a mapping is registered into.
type MappingKind int

const (
	// MappingPrimitive registers a Constructor under a case-insensitive
	// primitive or alias name.
	MappingPrimitive MappingKind = iota
	// MappingClass registers a ClassConstructor under an exact class name.
	MappingClass
	// MappingSpecialClass registers a Decorator under an exact class name.
	// Special classes are matched in registration order.
	MappingSpecialClass
)

func (k MappingKind) String() string {
	switch k {
	case MappingPrimitive:
		return "primitive"
	case MappingClass:
		return "class"
	case MappingSpecialClass:
		return "special_class"
	default:
		return "unknown"
	}
}

// Mapping is a name and constructor pair for RegisterAll.
type Mapping struct {
	Name        string `validate:"required"`
	Constructor any    `validate:"required"`
}

// DefaultPrimitives are the native primitive types.
var DefaultPrimitives = []Mapping{
	{Bool, newBool},
	{Int, newInt},
	{Float, newFloat},
	{String, newString},
	{Array, newArray},
	{Object, newObject},
	{Callable, newCallable},
	{Iterable, newIterable},
	{Resource, newResource},
	{Null, newNull},
	{False, newFalse},
}

// DefaultFakes are the non-native primitive leaves.
var DefaultFakes = []Mapping{
	{Double, newDouble},
	{True, newTrue},
}

// DefaultClasses replace the descriptors of specific classes.
var DefaultClasses = []Mapping{
	{oracle.Closure, newClosure},
}

// DefaultSpecialClasses decorate classes providing a builtin capability.
var DefaultSpecialClasses = []Mapping{
	{oracle.Stringable, Decorate(String)},
	{oracle.Traversable, Decorate(Iterable)},
}

type special struct {
	name     string
	decorate Decorator
}

// Registry resolves declarations into descriptors and caches them by
// canonical name.
//
// A Registry is safe for concurrent use. A whole top-level resolution runs
// under one lock, so the same canonical name always yields the same instance.
type Registry struct {
	mu         sync.Mutex
	oracle     oracle.Oracle
	logger     *slog.Logger
	primitives map[string]Constructor
	classes    map[string]ClassConstructor
	specials   []special
	cache      map[string]Descriptor
}

// NewRegistry returns a registry over o with the default mappings installed.
func NewRegistry(o oracle.Oracle) *Registry {
	r := &Registry{
		oracle:     o,
		primitives: make(map[string]Constructor),
		classes:    make(map[string]ClassConstructor),
		cache:      make(map[string]Descriptor),
	}
	defaults := []struct {
		mappings []Mapping
		kind     MappingKind
	}{
		{DefaultPrimitives, MappingPrimitive},
		{DefaultFakes, MappingPrimitive},
		{DefaultClasses, MappingClass},
		{DefaultSpecialClasses, MappingSpecialClass},
	}
	for _, d := range defaults {
		if err := r.RegisterAll(d.mappings, d.kind); err != nil {
			panic(fmt.Sprintf("typing: default mappings: %v", err))
		}
	}
	return r
}

// WithLogger sets a custom logger for the registry.
// If not set, slog.Default() will be used.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
	return r
}

// Oracle returns the oracle the registry resolves class-like names with.
func (r *Registry) Oracle() oracle.Oracle {
	return r.oracle
}

func (r *Registry) log() *slog.Logger {
	if r.logger == nil {
		return slog.Default()
	}
	return r.logger
}

// Register adds a mapping. ctor must be a Constructor for MappingPrimitive,
// a ClassConstructor for MappingClass, or a Decorator for
// MappingSpecialClass; plain funcs with the same signatures are accepted.
//
// Registering a name again replaces the previous mapping. Descriptors that
// were already resolved are not rebuilt.
func (r *Registry) Register(name string, ctor any, kind MappingKind) error {
	if err := validate.Struct(Mapping{Name: name, Constructor: ctor}); err != nil {
		return FromValidation(CodeInvalidClass, err).WithDetail("type", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch kind {
	case MappingPrimitive:
		c, ok := asConstructor(ctor)
		if !ok {
			return invalidClass(fmt.Sprintf("%T", ctor))
		}
		key := strings.ToLower(name)
		if _, exists := r.primitives[key]; exists {
			r.replaced(key, kind)
		}
		r.primitives[key] = c

	case MappingClass:
		c, ok := asClassConstructor(ctor)
		if !ok {
			return r.badMapping(name, ctor)
		}
		if _, exists := r.classes[name]; exists {
			r.replaced(name, kind)
		}
		r.classes[name] = c

	case MappingSpecialClass:
		d, ok := asDecorator(ctor)
		if !ok {
			return r.badMapping(name, ctor)
		}
		for i, s := range r.specials {
			if s.name == name {
				r.replaced(name, kind)
				r.specials[i].decorate = d
				return nil
			}
		}
		r.specials = append(r.specials, special{name: name, decorate: d})

	default:
		return Errorf(CodeInvalidClassMapping, "unknown mapping kind %d", int(kind)).
			WithDetail("type", name)
	}
	return nil
}

// RegisterAll registers mappings in order, stopping at the first error.
func (r *Registry) RegisterAll(mappings []Mapping, kind MappingKind) error {
	for _, m := range mappings {
		if err := r.Register(m.Name, m.Constructor, kind); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) replaced(name string, kind MappingKind) {
	r.log().Warn("mapping replaced",
		slog.String("name", name),
		slog.String("kind", kind.String()))
}

// badMapping reports a class mapping whose constructor is not a func at all as
// an invalid class, and one with the wrong signature as an invalid mapping.
func (r *Registry) badMapping(name string, ctor any) error {
	if !isFunc(ctor) {
		return invalidClass(fmt.Sprintf("%T", ctor))
	}
	return invalidClassMapping(name, ctor)
}

func asConstructor(ctor any) (Constructor, bool) {
	switch f := ctor.(type) {
	case Constructor:
		return f, f != nil
	case func(Env) (Descriptor, error):
		return f, f != nil
	}
	return nil, false
}

func asClassConstructor(ctor any) (ClassConstructor, bool) {
	switch f := ctor.(type) {
	case ClassConstructor:
		return f, f != nil
	case func(*Class, Env) (ClassLike, error):
		return f, f != nil
	}
	return nil, false
}

func asDecorator(ctor any) (Decorator, bool) {
	switch f := ctor.(type) {
	case Decorator:
		return f, f != nil
	case func(ClassLike, Env) (ClassLike, error):
		return f, f != nil
	}
	return nil, false
}

// Resolve returns the descriptor for a declaration.
func (r *Registry) Resolve(name string) (Descriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolve(name)
}

// ResolveOrPassThrough returns v if it is already a Descriptor and resolves it
// if it is a string.
func (r *Registry) ResolveOrPassThrough(v any) (Descriptor, error) {
	switch x := v.(type) {
	case Descriptor:
		return x, nil
	case string:
		return r.Resolve(x)
	default:
		return nil, Errorf(CodeInvalidArgument, "expected a declaration or a descriptor, got %T", v)
	}
}

// DescriptorOf resolves the type of a runtime value.
func (r *Registry) DescriptorOf(v any) (Descriptor, error) {
	name, err := typeNameOf(v, r.oracle)
	if err != nil {
		return nil, err
	}
	return r.Resolve(name)
}

// AssignableFrom reports whether source can be used where target is expected.
func (r *Registry) AssignableFrom(target, source string) (bool, error) {
	t, s, err := r.pair(target, source)
	if err != nil {
		return false, err
	}
	return t.AssignableFrom(s), nil
}

// AssignableTo reports whether source can be used where target is expected,
// asked from the source side.
func (r *Registry) AssignableTo(source, target string) (bool, error) {
	t, s, err := r.pair(target, source)
	if err != nil {
		return false, err
	}
	return s.AssignableTo(t), nil
}

func (r *Registry) pair(target, source string) (Descriptor, Descriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.resolve(target)
	if err != nil {
		return nil, nil, err
	}
	s, err := r.resolve(source)
	if err != nil {
		return nil, nil, err
	}
	return t, s, nil
}

// Cached returns the cached descriptor for a canonical name, if any.
func (r *Registry) Cached(name string) (Descriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.cache[name]
	return d, ok
}

// Len returns the number of cached descriptors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

func (r *Registry) env() Env {
	return Env{Oracle: r.oracle, Resolve: r.resolve}
}

// resolve is Resolve without locking. The caller holds r.mu.
func (r *Registry) resolve(raw string) (Descriptor, error) {
	d, err := decl.Parse(raw)
	if err != nil {
		return nil, parseError(raw, err)
	}

	switch d.Form {
	case decl.FormNullable:
		return r.nullable(d)
	case decl.FormNull:
		return r.primitive(Null)
	case decl.FormUnion:
		return r.union(d)
	case decl.FormIntersection:
		return r.intersection(d)
	}

	if isClassLike(raw, r.oracle) {
		return r.class(raw)
	}
	return r.primitive(raw)
}

func (r *Registry) nullable(d decl.Decl) (Descriptor, error) {
	inner, err := r.resolve(d.Inner)
	if err != nil {
		return nil, err
	}
	null, err := r.primitive(Null)
	if err != nil {
		return nil, err
	}
	return r.store(newNullable(null, inner)), nil
}

func (r *Registry) union(d decl.Decl) (Descriptor, error) {
	members := make([]Descriptor, 0, len(d.Parts))
	for _, part := range d.Parts {
		m, err := r.resolve(part)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return r.composite(newUnion(members)), nil
}

func (r *Registry) intersection(d decl.Decl) (Descriptor, error) {
	members := make([]Descriptor, 0, len(d.Parts))
	for _, part := range d.Parts {
		if !isClassLike(part, r.oracle) {
			return nil, invalidIntersection(d.Raw).WithDetail("member", part)
		}
		m, err := r.class(part)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return r.composite(newIntersection(members)), nil
}

// composite stores c, unless its members collapsed to a single name: that
// member is already cached under the name, and is returned instead.
func (r *Registry) composite(c *Composite) Descriptor {
	if len(c.children) == 1 {
		return c.children[0]
	}
	return r.store(c)
}

func (r *Registry) primitive(name string) (Descriptor, error) {
	key := strings.ToLower(name)
	if d, ok := r.cache[key]; ok {
		return d, nil
	}
	ctor, ok := r.primitives[key]
	if !ok {
		return nil, noMapping(key)
	}
	d, err := ctor(r.env())
	if err != nil {
		return nil, err
	}
	return r.store(d), nil
}

// class builds a class-like descriptor, applies a class mapping if one is
// registered, and decorates it with the first matching special class.
func (r *Registry) class(name string) (ClassLike, error) {
	if d, ok := r.cache[name]; ok {
		if c, ok := d.(ClassLike); ok {
			return c, nil
		}
	}

	base, err := newClass(name, r.oracle)
	if err != nil {
		return nil, err
	}

	var c ClassLike = base
	if ctor, ok := r.classes[name]; ok {
		if c, err = ctor(base, r.env()); err != nil {
			return nil, err
		}
	}

	for _, s := range r.specials {
		if c.Name() == s.name || c.IsSubtypeOf(s.name) {
			if c, err = s.decorate(c, r.env()); err != nil {
				return nil, err
			}
			break
		}
	}

	r.store(c)
	return c, nil
}

func (r *Registry) store(d Descriptor) Descriptor {
	r.cache[d.Name()] = d
	r.log().Debug("descriptor constructed",
		slog.String("name", d.Name()),
		slog.String("kind", d.Kind().String()))
	return d
}
