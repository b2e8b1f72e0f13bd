package typing

import (
	"testing"

	"github.com/broady/typing/internal/typingtest"
)

func newTestRegistry() *Registry {
	return NewRegistry(typingtest.NewOracle())
}

func mustResolve(t *testing.T, r *Registry, name string) Descriptor {
	t.Helper()
	d, err := r.Resolve(name)
	if err != nil {
		t.Fatalf("Resolve(%q) error = %v", name, err)
	}
	return d
}

func wantCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if got := CodeOf(err); got != code {
		t.Errorf("expected code %s, got %s (%v)", code, got, err)
	}
}
