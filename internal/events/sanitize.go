package events

import (
	"reflect"
)

// Sanitize recursively rewrites a record so that every "missing" value is an
// explicit null before it crosses the persistence boundary. Typed-nil pointers
// and nil interfaces become untyped nil, maps and slices are rewritten
// element-wise with key sets, ordering and lengths preserved, and scalars pass
// through unchanged. Sanitize is idempotent.
func Sanitize(v any) any {
	if v == nil {
		return nil
	}
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Sanitize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Sanitize(val)
		}
		return out
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Sanitize(rv.Elem().Interface())
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
	}
	return v
}
