package oracle

import (
	"reflect"
	"strings"
	"testing"

	"github.com/broady/typing/internal/testfixtures"
)

func newFixtureReflect(t *testing.T) *Reflect {
	t.Helper()
	r := NewReflect()
	err := r.Add(
		reflect.TypeFor[testfixtures.BasicInterface](),
		reflect.TypeFor[testfixtures.BasicClass](),
		reflect.TypeFor[testfixtures.ChildClass](),
		reflect.TypeFor[testfixtures.StringableClass](),
		reflect.TypeFor[*testfixtures.IterableClass](),
		reflect.TypeFor[testfixtures.InvokableClass](),
		reflect.TypeFor[testfixtures.Callback](),
		reflect.TypeFor[strings.Builder](),
	)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := r.AddEnum(
		reflect.TypeFor[testfixtures.BasicEnum](),
		reflect.TypeFor[testfixtures.IterableEnum](),
	); err != nil {
		t.Fatalf("AddEnum failed: %v", err)
	}
	return r
}

func TestReflect_Categories(t *testing.T) {
	r := newFixtureReflect(t)

	if !r.InterfaceExists("testfixtures.BasicInterface") {
		t.Error("BasicInterface should be an interface")
	}
	if !r.ClassExists("testfixtures.BasicClass") {
		t.Error("BasicClass should be a class")
	}
	if !r.ClassExists("testfixtures.IterableClass") {
		t.Error("pointer registration should use the element name")
	}
	if !r.EnumExists("testfixtures.BasicEnum") || !r.ClassExists("testfixtures.BasicEnum") {
		t.Error("BasicEnum should be an enum and a class")
	}
	if r.TraitExists("testfixtures.BasicClass") {
		t.Error("reflection never yields traits on its own")
	}
}

func TestReflect_IsSubtype(t *testing.T) {
	r := newFixtureReflect(t)

	tests := []struct {
		name, parent string
		want         bool
	}{
		{"testfixtures.ChildClass", "testfixtures.BasicClass", true},
		{"testfixtures.ChildClass", "testfixtures.BasicInterface", true},
		{"testfixtures.BasicClass", "testfixtures.BasicInterface", true},
		{"testfixtures.BasicClass", "testfixtures.ChildClass", false},
		{"testfixtures.BasicClass", "testfixtures.BasicClass", false},
		{"testfixtures.StringableClass", Stringable, true},
		{"testfixtures.BasicClass", Stringable, false},
		{"testfixtures.IterableClass", Traversable, true},
		{"testfixtures.IterableEnum", Traversable, true},
		{"testfixtures.BasicEnum", Traversable, false},
	}
	for _, tt := range tests {
		t.Run(tt.name+"<"+tt.parent, func(t *testing.T) {
			if got := r.IsSubtype(tt.name, tt.parent); got != tt.want {
				t.Errorf("IsSubtype(%q, %q) = %v, want %v", tt.name, tt.parent, got, tt.want)
			}
		})
	}
}

func TestReflect_RegistrationOrder(t *testing.T) {
	// Relations are found regardless of which side is added first.
	r := NewReflect()
	if err := r.Add(reflect.TypeFor[testfixtures.ChildClass]()); err != nil {
		t.Fatal(err)
	}
	if err := r.Add(reflect.TypeFor[testfixtures.BasicClass]()); err != nil {
		t.Fatal(err)
	}
	if !r.IsSubtype("testfixtures.ChildClass", "testfixtures.BasicClass") {
		t.Error("ChildClass should be a subtype of BasicClass")
	}
}

func TestReflect_Facts(t *testing.T) {
	r := newFixtureReflect(t)

	if r.IsInternal("testfixtures.BasicClass") {
		t.Error("fixtures are user-defined")
	}
	if !r.IsInternal("strings.Builder") {
		t.Error("strings.Builder is internal")
	}
	if !r.IsInternal(Stringable) {
		t.Error("Stringable is internal")
	}
	if !r.IsInvokable("testfixtures.InvokableClass") {
		t.Error("InvokableClass has an Invoke method")
	}
	if !r.IsInvokable("testfixtures.Callback") {
		t.Error("func types are invokable")
	}
	if r.IsInvokable("testfixtures.BasicClass") {
		t.Error("BasicClass is not invokable")
	}
}

func TestReflect_Values(t *testing.T) {
	r := newFixtureReflect(t)

	tests := []struct {
		name  string
		value any
		class string
		want  bool
	}{
		{"exact", testfixtures.BasicClass{}, "testfixtures.BasicClass", true},
		{"embedded", testfixtures.ChildClass{}, "testfixtures.BasicClass", true},
		{"interface", &testfixtures.ChildClass{}, "testfixtures.BasicInterface", true},
		{"parent is not child", testfixtures.BasicClass{}, "testfixtures.ChildClass", false},
		{"stringer", testfixtures.StringableClass{}, Stringable, true},
		{"not a stringer", strings.NewReplacer(), Stringable, false},
		{"traversable pointer", &testfixtures.IterableClass{}, Traversable, true},
		{"traversable value", testfixtures.IterableClass{}, Traversable, true},
		{"enum", testfixtures.BasicEnumSecond, "testfixtures.BasicEnum", true},
		{"closure", func() {}, Closure, true},
		{"int", 42, "testfixtures.BasicClass", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.IsInstance(tt.value, tt.class); got != tt.want {
				t.Errorf("IsInstance(%T, %q) = %v, want %v", tt.value, tt.class, got, tt.want)
			}
		})
	}

	if name, ok := r.NameOf(&testfixtures.ChildClass{}); !ok || name != "testfixtures.ChildClass" {
		t.Errorf("NameOf(*ChildClass) = (%q, %v)", name, ok)
	}
}

func TestReflect_AddErrors(t *testing.T) {
	r := NewReflect()
	if err := r.Add(reflect.TypeFor[[]int]()); err == nil {
		t.Error("unnamed types cannot be added")
	}
	if err := r.Add(nil); err == nil {
		t.Error("nil types cannot be added")
	}
	if err := r.AddEnum(nil); err == nil {
		t.Error("nil enums cannot be added")
	}
	if err := r.AddAs("", reflect.TypeFor[testfixtures.BasicClass](), CategoryClass); err == nil {
		t.Error("empty names fail validation")
	}
}

func TestIsStdlib(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"", true},
		{"fmt", true},
		{"net/http", true},
		{"github.com/broady/typing", false},
		{"example.com/x", false},
	}
	for _, tt := range tests {
		if got := isStdlib(tt.path); got != tt.want {
			t.Errorf("isStdlib(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
