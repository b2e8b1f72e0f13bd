package typing

import (
	"reflect"

	"github.com/broady/typing/oracle"
)

// Value matchers for the primitive descriptors. They look at the Go kind of a
// value only; class-like questions go to the oracle.

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

func isInt(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isFloat(v any) bool {
	return kindOf(v) == reflect.Float32 || kindOf(v) == reflect.Float64
}

func isString(v any) bool {
	return kindOf(v) == reflect.String
}

func isArray(v any) bool {
	switch kindOf(v) {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}

// isSeq reports whether v is a range-over-func iterator:
// func(yield func(...) bool) with at most two yielded values.
func isSeq(v any) bool {
	if kindOf(v) != reflect.Func {
		return false
	}
	t := reflect.TypeOf(v)
	if t.NumIn() != 1 || t.NumOut() != 0 {
		return false
	}
	y := t.In(0)
	return y.Kind() == reflect.Func &&
		y.NumIn() <= 2 &&
		y.NumOut() == 1 &&
		y.Out(0).Kind() == reflect.Bool
}

func isObject(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Struct
}

func isCallable(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Func {
		return !rv.IsNil()
	}
	_, ok := rv.Type().MethodByName(oracle.InvokeMethod)
	return ok
}

func isResource(v any) bool {
	switch kindOf(v) {
	case reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

func isFunc(v any) bool {
	return kindOf(v) == reflect.Func
}

func kindOf(v any) reflect.Kind {
	if v == nil {
		return reflect.Invalid
	}
	return reflect.TypeOf(v).Kind()
}

// typeNameOf returns the declaration that describes the runtime type of v.
// Class-like names known to o take precedence over the Go kind.
func typeNameOf(v any, o oracle.Oracle) (string, error) {
	if v == nil {
		return Null, nil
	}
	if name, ok := o.NameOf(v); ok {
		return name, nil
	}
	rt := reflect.TypeOf(v)
	switch rt.Kind() {
	case reflect.Bool:
		return Bool, nil
	case reflect.Float32, reflect.Float64:
		return Float, nil
	case reflect.String:
		return String, nil
	case reflect.Slice, reflect.Array, reflect.Map:
		return Array, nil
	case reflect.Func:
		return oracle.Closure, nil
	case reflect.Chan, reflect.UnsafePointer:
		return Resource, nil
	case reflect.Struct, reflect.Pointer, reflect.Interface:
		return Object, nil
	}
	if isInt(v) {
		return Int, nil
	}
	return "", Errorf(CodeNoMapping, "There is no mapping for the provided type '%s'", rt).
		WithDetail("type", rt.String())
}
