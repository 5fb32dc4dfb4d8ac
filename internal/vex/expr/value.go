package expr

import (
	"reflect"
	"strconv"
)

// Context is the runtime data a template renders against. Values are
// nil, bool, float64, string, []any, or map[string]any (nested contexts).
type Context map[string]any

// Merge copies every key of delta into c, overwriting existing keys.
func (c Context) Merge(delta map[string]any) {
	for k, v := range delta {
		c[k] = v
	}
}

// Clone returns a shallow copy of c.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Format renders an evaluated value the way it appears in text nodes and
// attributes. nil renders empty.
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	default:
		if n, ok := toNumber(t); ok {
			return n != 0
		}
		return true
	}
}

// Equal reports whether two evaluated values compare equal; numbers
// compare numerically regardless of concrete type.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if na, ok := toNumber(a); ok {
		if nb, ok := toNumber(b); ok {
			return na == nb
		}
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Comparable() && rb.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

func toNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}
