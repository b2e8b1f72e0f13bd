// Package typing models a nominal type system as first-class values.
//
// Every declaration string resolves to an immutable [Descriptor] that can
// classify itself and answer assignability questions against other
// descriptors:
//
//	reg := typing.NewRegistry(oracle.NewReflect())
//	d, err := reg.Resolve("?int")
//	if err != nil {
//		return err
//	}
//	d.Kind()                  // KindNullable
//	d.AssignableFrom(intDesc) // true
//
// # Declarations
//
// A declaration is one of:
//
//	T        a primitive, alias or class-like name
//	?T       nullable T
//	A|B|...  union
//	A&B&...  intersection of class-like names
//
// Only one compound operator is allowed per declaration; "?A|B" is rejected.
// Primitive names are case-insensitive. Class-like names are exact and are
// looked up through an [oracle.Oracle].
//
// # Registry
//
// A [Registry] holds the constructor tables and the descriptor cache. Tests
// and applications create their own; the package-level functions use
// [Default], which is built on first use over an [oracle.Reflect].
package typing

import (
	"sync"

	"github.com/broady/typing/oracle"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it on first use.
// Register Go types with its oracle before resolving them:
//
//	typing.Default().Oracle().(*oracle.Reflect).Add(reflect.TypeFor[User]())
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(oracle.NewReflect())
	})
	return defaultRegistry
}

// Resolve resolves a declaration with the default registry.
func Resolve(name string) (Descriptor, error) {
	return Default().Resolve(name)
}

// ResolveOrPassThrough returns v if it is a Descriptor and otherwise resolves
// it with the default registry.
func ResolveOrPassThrough(v any) (Descriptor, error) {
	return Default().ResolveOrPassThrough(v)
}

// DescriptorOf resolves the type of a runtime value with the default registry.
func DescriptorOf(v any) (Descriptor, error) {
	return Default().DescriptorOf(v)
}
