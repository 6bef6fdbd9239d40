package tree

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/donygeorge/claude-toolkit/internal/errors"
)

// Normalize converts a value decoded by a YAML or TOML library into tree
// shapes: map[any]any and typed maps become map[string]any, typed slices
// become []any, and every integer or float becomes json.Number. Times and
// other text-marshalable values such as TOML local dates become strings.
// NaN and infinities cannot be represented in JSON and are rejected.
func Normalize(v any) (any, error) {
	return normalize(v, "")
}

func normalize(v any, path string) (any, error) {
	switch t := v.(type) {
	case nil, bool, string, json.Number:
		return t, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			n, err := normalize(e, join(path, k))
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			ks := fmt.Sprint(k)
			n, err := normalize(e, join(path, ks))
			if err != nil {
				return nil, err
			}
			out[ks] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			n, err := normalize(e, join(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case time.Time:
		return t.Format(time.RFC3339Nano), nil
	case encoding.TextMarshaler:
		text, err := t.MarshalText()
		if err != nil {
			return nil, errors.Wrapf(err, "%s", display(path))
		}
		return string(text), nil
	}

	if n, ok := numberOf(v); ok {
		if n == "" {
			return nil, errors.Newf("%s: number %v cannot be represented in JSON", display(path), v)
		}
		return n, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			ks := fmt.Sprint(iter.Key().Interface())
			n, err := normalize(iter.Value().Interface(), join(path, ks))
			if err != nil {
				return nil, err
			}
			out[ks] = n
		}
		return out, nil
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			n, err := normalize(rv.Index(i).Interface(), join(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}

	return nil, errors.Newf("%s: unsupported value of type %T", display(path), v)
}

// numberOf formats Go numeric kinds as json.Number. Floats that are
// integral keep a ".0" suffix so they stay distinct from integers.
// It returns "" with ok for NaN and infinities.
func numberOf(v any) (json.Number, bool) {
	switch t := v.(type) {
	case int:
		return json.Number(strconv.FormatInt(int64(t), 10)), true
	case int8:
		return json.Number(strconv.FormatInt(int64(t), 10)), true
	case int16:
		return json.Number(strconv.FormatInt(int64(t), 10)), true
	case int32:
		return json.Number(strconv.FormatInt(int64(t), 10)), true
	case int64:
		return json.Number(strconv.FormatInt(t, 10)), true
	case uint:
		return json.Number(strconv.FormatUint(uint64(t), 10)), true
	case uint8:
		return json.Number(strconv.FormatUint(uint64(t), 10)), true
	case uint16:
		return json.Number(strconv.FormatUint(uint64(t), 10)), true
	case uint32:
		return json.Number(strconv.FormatUint(uint64(t), 10)), true
	case uint64:
		return json.Number(strconv.FormatUint(t, 10)), true
	case float32:
		return formatFloat(float64(t), 32), true
	case float64:
		return formatFloat(t, 64), true
	}
	return "", false
}

func formatFloat(f float64, bits int) json.Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return json.Number(s)
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func display(path string) string {
	if path == "" {
		return "value"
	}
	return path
}
