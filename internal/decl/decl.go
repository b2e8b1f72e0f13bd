// Package decl classifies type declaration strings.
//
// A declaration is one of:
//
//	?T          nullable T
//	null        the null literal
//	A|B|...     union
//	A&B&...     intersection
//	Name        a primitive, alias or class-like name
//
// The first matching form wins, in the order listed above. Parse only looks at
// the syntax; deciding whether a bare name is class-like is left to the caller.
package decl

import (
	"errors"
	"strings"
)

const (
	NullableMarker        = "?"
	UnionSeparator        = "|"
	IntersectionSeparator = "&"
	NullLiteral           = "null"
)

var (
	// ErrMultiType reports a nullable marker combined with a union or
	// intersection separator.
	ErrMultiType = errors.New("nullable declarations cannot be combined with union or intersection")

	// ErrCompoundNull reports a nullable marker applied to null itself.
	ErrCompoundNull = errors.New("null cannot be made nullable")

	// ErrUnion reports a union with a leading or trailing separator.
	ErrUnion = errors.New("invalid union declaration")

	// ErrIntersection reports an intersection with a leading or trailing separator.
	ErrIntersection = errors.New("invalid intersection declaration")
)

// Form identifies the construction path for a declaration.
type Form int

const (
	FormName Form = iota
	FormNull
	FormNullable
	FormUnion
	FormIntersection
)

// String returns the string representation of the form.
func (f Form) String() string {
	switch f {
	case FormName:
		return "Name"
	case FormNull:
		return "Null"
	case FormNullable:
		return "Nullable"
	case FormUnion:
		return "Union"
	case FormIntersection:
		return "Intersection"
	default:
		return "Unknown"
	}
}

// Decl is a classified declaration.
type Decl struct {
	Form Form

	// Raw is the declaration as given.
	Raw string

	// Inner is the wrapped declaration for FormNullable.
	Inner string

	// Parts are the members of a union or intersection, in source order.
	Parts []string
}

// Parse classifies a declaration string.
func Parse(s string) (Decl, error) {
	d := Decl{Raw: s}

	if strings.HasPrefix(s, NullableMarker) {
		if strings.Contains(s, UnionSeparator) || strings.Contains(s, IntersectionSeparator) {
			return d, ErrMultiType
		}
		inner := s[len(NullableMarker):]
		if strings.EqualFold(inner, NullLiteral) {
			return d, ErrCompoundNull
		}
		d.Form = FormNullable
		d.Inner = inner
		return d, nil
	}

	if s == NullLiteral {
		d.Form = FormNull
		return d, nil
	}

	if strings.Contains(s, UnionSeparator) {
		if !bounded(s, UnionSeparator) {
			return d, ErrUnion
		}
		d.Form = FormUnion
		d.Parts = strings.Split(s, UnionSeparator)
		return d, nil
	}

	if strings.Contains(s, IntersectionSeparator) {
		if !bounded(s, IntersectionSeparator) {
			return d, ErrIntersection
		}
		d.Form = FormIntersection
		d.Parts = strings.Split(s, IntersectionSeparator)
		return d, nil
	}

	d.Form = FormName
	return d, nil
}

// bounded reports whether s neither starts nor ends with sep.
func bounded(s, sep string) bool {
	return !strings.HasPrefix(s, sep) && !strings.HasSuffix(s, sep)
}
