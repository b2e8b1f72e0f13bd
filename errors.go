package typing

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/broady/typing/internal/decl"
	"github.com/go-playground/validator/v10"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	CodeInvalidClass            ErrorCode = "invalid_class"
	CodeInvalidClassMapping     ErrorCode = "invalid_class_mapping"
	CodeNoMapping               ErrorCode = "no_mapping"
	CodeInvalidMultiType        ErrorCode = "invalid_multi_type"
	CodeCompoundNull            ErrorCode = "compound_null"
	CodeInvalidUnionType        ErrorCode = "invalid_union_type"
	CodeInvalidIntersectionType ErrorCode = "invalid_intersection_type"

	// Used by the outer surfaces, never by resolution.
	CodeInvalidArgument  ErrorCode = "invalid_argument"
	CodeNotFound         ErrorCode = "not_found"
	CodeMethodNotAllowed ErrorCode = "method_not_allowed"
	CodeInternal         ErrorCode = "internal"
)

// Error is the typed error returned by resolution and registration.
// Every resolution failure is deterministic; retrying the same input fails
// the same way until the registry changes.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates a new error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetail returns a new Error with the key-value pair added to details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// WithDetails returns a new Error with the provided map merged into details.
func (e *Error) WithDetails(details map[string]any) *Error {
	if len(details) == 0 {
		return e
	}
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: merged,
	}
}

// CodeOf returns the code of the first *Error in err's chain, or the empty
// code if there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HTTPStatus maps an ErrorCode to an HTTP status code.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeInvalidMultiType, CodeCompoundNull, CodeInvalidUnionType,
		CodeInvalidIntersectionType, CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNoMapping, CodeInvalidClass, CodeNotFound:
		return http.StatusNotFound
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case CodeInvalidClassMapping:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func invalidClass(name string) *Error {
	return Errorf(CodeInvalidClass, "Provided type '%s' is not a valid class", name).
		WithDetail("type", name)
}

func invalidClassMapping(name string, ctor any) *Error {
	return Errorf(CodeInvalidClassMapping, "Provided constructor '%T' is not a valid mapping for type '%s'", ctor, name).
		WithDetail("type", name)
}

func noMapping(name string) *Error {
	return Errorf(CodeNoMapping, "There is no mapping for the provided type '%s'", name).
		WithDetail("type", name)
}

func invalidIntersection(raw string) *Error {
	return Errorf(CodeInvalidIntersectionType, "The provided type '%s', is not a valid intersection type", raw).
		WithDetail("type", raw)
}

// parseError translates a declaration parser error into an *Error.
func parseError(raw string, err error) *Error {
	var e *Error
	switch {
	case errors.Is(err, decl.ErrCompoundNull):
		e = NewError(CodeCompoundNull, "The type 'null' cannot be compounded to be nullable")
	case errors.Is(err, decl.ErrMultiType):
		e = Errorf(CodeInvalidMultiType, "Types cannot mix the nullable, union and intersection operators '%s'", raw)
	case errors.Is(err, decl.ErrUnion):
		e = Errorf(CodeInvalidUnionType, "The provided type '%s', is not a valid union type", raw)
	case errors.Is(err, decl.ErrIntersection):
		return invalidIntersection(raw)
	default:
		e = Errorf(CodeInvalidArgument, "%v", err)
	}
	return e.WithDetail("type", raw)
}

// FromValidation converts validator errors into an *Error with one detail
// per failed field. Other errors keep their message.
func FromValidation(code ErrorCode, err error) *Error {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return NewError(code, err.Error())
	}
	details := make(map[string]any)
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		msg := formatValidationError(ve)
		details[ve.Field()] = msg
		messages = append(messages, ve.Field()+": "+msg)
	}
	return NewError(code, strings.Join(messages, "; ")).WithDetails(details)
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
