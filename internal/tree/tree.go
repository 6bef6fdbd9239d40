package tree

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ArrayKind classifies an array for merging.
type ArrayKind int

const (
	// KindPrimitive is an empty array, an array of scalars, or a mixed array.
	KindPrimitive ArrayKind = iota
	// KindObject is a non-empty array whose every element is an object.
	KindObject
)

// String implements fmt.Stringer.
func (k ArrayKind) String() string {
	if k == KindObject {
		return "object"
	}
	return "primitive"
}

// Classify reports whether arr is an object array or a primitive array.
func Classify(arr []any) ArrayKind {
	if len(arr) == 0 {
		return KindPrimitive
	}
	for _, v := range arr {
		if _, ok := v.(map[string]any); !ok {
			return KindPrimitive
		}
	}
	return KindObject
}

// IsObjectArray reports whether arr is non-empty and holds only objects.
func IsObjectArray(arr []any) bool {
	return Classify(arr) == KindObject
}

// Objects returns the elements of an object array as maps. Any other
// array yields nil.
func Objects(arr []any) []map[string]any {
	if !IsObjectArray(arr) {
		return nil
	}
	out := make([]map[string]any, len(arr))
	for i, v := range arr {
		out[i] = v.(map[string]any)
	}
	return out
}

// Clone returns a deep copy of v. Scalars are returned as is.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneMap(t)
	case []any:
		return CloneSlice(t)
	default:
		return v
	}
}

// CloneMap returns a deep copy of m. A nil map yields nil.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Clone(v)
	}
	return out
}

// CloneSlice returns a deep copy of s. A nil slice yields nil.
func CloneSlice(s []any) []any {
	if s == nil {
		return nil
	}
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = Clone(v)
	}
	return out
}

// Key returns a canonical identity for v that includes its type, so the
// number 1, the string "1", and true all have different keys. Objects and
// arrays are keyed by their compact JSON with sorted object keys.
func Key(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool:" + strconv.FormatBool(t)
	case string:
		return "string:" + t
	case json.Number:
		return "number:" + t.String()
	case map[string]any:
		return "object:" + compact(t)
	case []any:
		return "array:" + compact(t)
	}
	if n, ok := numberOf(v); ok {
		return "number:" + n.String()
	}
	return "other:" + compact(v)
}

func compact(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "?"
	}
	return string(b)
}

// TypeName names v's JSON type for messages: object, array, string,
// number, boolean, or null.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	}
	if _, ok := numberOf(v); ok {
		return "number"
	}
	return "unknown"
}

// Lookup follows keys through nested objects and returns the value found.
// It reports false when a key is missing or an intermediate value is not
// an object.
func Lookup(m map[string]any, keys ...string) (any, bool) {
	var cur any = m
	for _, k := range keys {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Plain converts json.Number values to int (when integral and in range)
// or float64. Tools such as gojq accept only those numeric types.
func Plain(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Plain(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Plain(e)
		}
		return out
	case json.Number:
		s := t.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := strconv.ParseInt(s, 10, strconv.IntSize); err == nil {
				return int(i)
			}
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return s
	default:
		return v
	}
}
