package tree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		arr  []any
		want ArrayKind
	}{
		{"nil", nil, KindPrimitive},
		{"empty", []any{}, KindPrimitive},
		{"strings", []any{"a", "b"}, KindPrimitive},
		{"numbers and bools", []any{json.Number("1"), true}, KindPrimitive},
		{"objects", []any{map[string]any{"matcher": "Bash"}, map[string]any{}}, KindObject},
		{"mixed", []any{map[string]any{}, "x"}, KindPrimitive},
		{"nested arrays", []any{[]any{}}, KindPrimitive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.arr))
			assert.Equal(t, tt.want == KindObject, IsObjectArray(tt.arr))
		})
	}
}

func TestArrayKind_String(t *testing.T) {
	assert.Equal(t, "primitive", KindPrimitive.String())
	assert.Equal(t, "object", KindObject.String())
}

func TestObjects(t *testing.T) {
	a := map[string]any{"matcher": "Bash"}
	got := Objects([]any{a})
	require.Len(t, got, 1)
	assert.Equal(t, a, got[0])

	assert.Nil(t, Objects([]any{}))
	assert.Nil(t, Objects([]any{a, "x"}))
}

func TestClone_Deep(t *testing.T) {
	orig := map[string]any{
		"env": map[string]any{"A": "1"},
		"permissions": map[string]any{
			"allow": []any{"Read", map[string]any{"x": []any{json.Number("1")}}},
		},
		"n": nil,
	}
	cp := CloneMap(orig)
	require.Equal(t, orig, cp)

	cp["env"].(map[string]any)["A"] = "changed"
	allow := cp["permissions"].(map[string]any)["allow"].([]any)
	allow[0] = "Write"
	allow[1].(map[string]any)["x"].([]any)[0] = json.Number("2")

	assert.Equal(t, "1", orig["env"].(map[string]any)["A"])
	origAllow := orig["permissions"].(map[string]any)["allow"].([]any)
	assert.Equal(t, "Read", origAllow[0])
	assert.Equal(t, json.Number("1"), origAllow[1].(map[string]any)["x"].([]any)[0])
}

func TestClone_Nil(t *testing.T) {
	assert.Nil(t, CloneMap(nil))
	assert.Nil(t, CloneSlice(nil))
	assert.Nil(t, Clone(nil))
	assert.Equal(t, "s", Clone("s"))
}

func TestKey_TypeDistinct(t *testing.T) {
	values := []any{
		json.Number("1"),
		"1",
		true,
		"true",
		nil,
		"null",
		json.Number("1.0"),
		[]any{json.Number("1")},
		map[string]any{"a": json.Number("1")},
	}
	seen := map[string]any{}
	for _, v := range values {
		k := Key(v)
		if prev, dup := seen[k]; dup {
			t.Errorf("Key(%#v) collides with Key(%#v): %q", v, prev, k)
		}
		seen[k] = v
	}
}

func TestKey_Equivalent(t *testing.T) {
	assert.Equal(t, Key(json.Number("3")), Key(3))
	assert.Equal(t, Key(json.Number("3")), Key(int64(3)))
	assert.Equal(t, Key(json.Number("2.5")), Key(2.5))
	assert.Equal(t, Key(json.Number("2.0")), Key(2.0))
	assert.Equal(t,
		Key(map[string]any{"b": "2", "a": "1"}),
		Key(map[string]any{"a": "1", "b": "2"}),
	)
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		v    any
		want string
	}{
		{nil, "null"},
		{map[string]any{}, "object"},
		{[]any{}, "array"},
		{"s", "string"},
		{true, "boolean"},
		{json.Number("1"), "number"},
		{42, "number"},
		{1.5, "number"},
		{struct{}{}, "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TypeName(tt.v), "TypeName(%#v)", tt.v)
	}
}

func TestLookup(t *testing.T) {
	m := map[string]any{
		"hooks": map[string]any{
			"auto-approve": map[string]any{"bash_commands": []any{"ls"}},
		},
		"env": "oops",
	}

	v, ok := Lookup(m, "hooks", "auto-approve", "bash_commands")
	require.True(t, ok)
	assert.Equal(t, []any{"ls"}, v)

	_, ok = Lookup(m, "hooks", "missing")
	assert.False(t, ok)

	_, ok = Lookup(m, "env", "A")
	assert.False(t, ok, "cannot descend into a string")

	v, ok = Lookup(m)
	assert.True(t, ok)
	assert.Equal(t, m, v)
}

func TestPlain(t *testing.T) {
	in := map[string]any{
		"i":   json.Number("42"),
		"f":   json.Number("1.5"),
		"e":   json.Number("1e3"),
		"big": json.Number("123456789012345678901234567890"),
		"arr": []any{json.Number("-7"), "s", nil},
	}
	got := Plain(in).(map[string]any)

	assert.Equal(t, 42, got["i"])
	assert.Equal(t, 1.5, got["f"])
	assert.Equal(t, 1000.0, got["e"])
	assert.IsType(t, float64(0), got["big"])
	assert.Equal(t, []any{-7, "s", nil}, got["arr"])
	assert.Equal(t, json.Number("42"), in["i"], "input unchanged")
}
