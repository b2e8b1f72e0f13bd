package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORS_NilConfig(t *testing.T) {
	req := httptest.NewRequest("GET", "/resolve", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()

	CORS(nil)(okHandler).ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected Access-Control-Allow-Origin *, got %s", got)
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestCORS_SpecificOrigins(t *testing.T) {
	cfg := &CORSConfig{AllowOrigins: []string{"http://allowed.com"}}

	tests := []struct {
		origin string
		want   string
	}{
		{"http://allowed.com", "http://allowed.com"},
		{"http://other.com", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			CORS(cfg)(okHandler).ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("expected Access-Control-Allow-Origin %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	cfg := &CORSConfig{AllowHeaders: []string{"X-Custom"}, MaxAge: 600}
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest("OPTIONS", "/resolve", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	CORS(cfg)(next).ServeHTTP(w, req)

	if called {
		t.Error("preflight should not reach the handler")
	}
	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
	checks := map[string]string{
		"Access-Control-Allow-Methods": "GET, OPTIONS",
		"Access-Control-Allow-Headers": "X-Custom",
		"Access-Control-Max-Age":       "600",
	}
	for k, want := range checks {
		if got := w.Header().Get(k); got != want {
			t.Errorf("expected %s %q, got %q", k, want, got)
		}
	}
}
