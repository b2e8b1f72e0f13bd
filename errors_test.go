package typing

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/broady/typing/internal/decl"
	"github.com/go-playground/validator/v10"
)

func TestNewError(t *testing.T) {
	err := NewError(CodeNoMapping, "no mapping")
	if err.Code != CodeNoMapping {
		t.Errorf("expected code %s, got %s", CodeNoMapping, err.Code)
	}
	if err.Error() != "no_mapping: no mapping" {
		t.Errorf("unexpected Error(): %q", err.Error())
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf(CodeInvalidClass, "Provided type '%s' is not a valid class", "Foo")
	if err.Message != "Provided type 'Foo' is not a valid class" {
		t.Errorf("expected formatted message, got %s", err.Message)
	}
}

func TestWithDetail(t *testing.T) {
	base := NewError(CodeInvalidUnionType, "bad")
	withA := base.WithDetail("a", 1)
	withB := withA.WithDetails(map[string]any{"b": 2})

	if base.Details != nil {
		t.Error("WithDetail should not mutate the receiver")
	}
	if len(withA.Details) != 1 || withB.Details["a"] != 1 || withB.Details["b"] != 2 {
		t.Errorf("details = %v, %v", withA.Details, withB.Details)
	}
	if withB.WithDetails(nil) != withB {
		t.Error("WithDetails(nil) should return the receiver")
	}
}

func TestCodeOf(t *testing.T) {
	e := NewError(CodeCompoundNull, "x")
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"plain", fmt.Errorf("plain"), ""},
		{"direct", e, CodeCompoundNull},
		{"wrapped", fmt.Errorf("resolve: %w", e), CodeCompoundNull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	tests := []struct {
		err  error
		code ErrorCode
	}{
		{decl.ErrCompoundNull, CodeCompoundNull},
		{decl.ErrMultiType, CodeInvalidMultiType},
		{decl.ErrUnion, CodeInvalidUnionType},
		{decl.ErrIntersection, CodeInvalidIntersectionType},
		{fmt.Errorf("other"), CodeInvalidArgument},
	}
	for _, tt := range tests {
		e := parseError("raw", tt.err)
		if e.Code != tt.code {
			t.Errorf("parseError(%v).Code = %s, want %s", tt.err, e.Code, tt.code)
		}
		if e.Details["type"] != "raw" {
			t.Errorf("parseError(%v) should carry the declaration", tt.err)
		}
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeInvalidUnionType, http.StatusBadRequest},
		{CodeInvalidIntersectionType, http.StatusBadRequest},
		{CodeInvalidMultiType, http.StatusBadRequest},
		{CodeCompoundNull, http.StatusBadRequest},
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeNoMapping, http.StatusNotFound},
		{CodeInvalidClass, http.StatusNotFound},
		{CodeNotFound, http.StatusNotFound},
		{CodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{CodeInvalidClassMapping, http.StatusUnprocessableEntity},
		{CodeInternal, http.StatusInternalServerError},
		{ErrorCode("unknown"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Errorf("%s.HTTPStatus() = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestFromValidation(t *testing.T) {
	type query struct {
		Type string `validate:"required"`
		Mode string `validate:"omitempty,oneof=any all"`
	}
	err := validator.New().Struct(query{Mode: "some"})

	e := FromValidation(CodeInvalidArgument, err)
	if e.Code != CodeInvalidArgument {
		t.Errorf("code = %s, want %s", e.Code, CodeInvalidArgument)
	}
	if e.Details["Type"] != "required" {
		t.Errorf("Type detail = %v, want required", e.Details["Type"])
	}
	if e.Details["Mode"] != "must be one of: any all" {
		t.Errorf("Mode detail = %v", e.Details["Mode"])
	}
	if e.Message != "Type: required; Mode: must be one of: any all" {
		t.Errorf("message = %q", e.Message)
	}
}

func TestFromValidation_OtherError(t *testing.T) {
	e := FromValidation(CodeInvalidClass, fmt.Errorf("boom"))
	if e.Message != "boom" || e.Details != nil {
		t.Errorf("got %+v, want plain message without details", e)
	}
}
