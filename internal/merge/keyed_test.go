package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donygeorge/claude-toolkit/internal/tree"
)

type objs = []map[string]any

func TestMergeKeyedArrays(t *testing.T) {
	tests := []struct {
		name    string
		base    objs
		overlay objs
		want    objs
	}{
		{
			name:    "both empty",
			base:    nil,
			overlay: nil,
			want:    objs{},
		},
		{
			name: "matched hooks concatenate in base then overlay order",
			base: objs{
				{"matcher": "Bash", "hooks": arr{obj{"command": "one"}}},
			},
			overlay: objs{
				{"matcher": "Bash", "hooks": arr{obj{"command": "two"}}},
			},
			want: objs{
				{"matcher": "Bash", "hooks": arr{obj{"command": "one"}, obj{"command": "two"}}},
			},
		},
		{
			name: "hooks concatenation keeps duplicates",
			base: objs{
				{"matcher": "Bash", "hooks": arr{"same"}},
			},
			overlay: objs{
				{"matcher": "Bash", "hooks": arr{"same"}},
			},
			want: objs{
				{"matcher": "Bash", "hooks": arr{"same", "same"}},
			},
		},
		{
			name: "base order first then overlay-only in overlay order",
			base: objs{
				{"matcher": "A"},
				{"matcher": "B"},
			},
			overlay: objs{
				{"matcher": "D"},
				{"matcher": "B", "x": "1"},
				{"matcher": "C"},
			},
			want: objs{
				{"matcher": "A"},
				{"matcher": "B", "x": "1"},
				{"matcher": "D"},
				{"matcher": "C"},
			},
		},
		{
			name: "missing key elements merge together",
			base: objs{
				{"hooks": arr{"a"}},
			},
			overlay: objs{
				{"hooks": arr{"b"}},
			},
			want: objs{
				{"hooks": arr{"a", "b"}},
			},
		},
		{
			name: "null key is the same as a missing key",
			base: objs{
				{"hooks": arr{"a"}},
			},
			overlay: objs{
				{"matcher": nil, "hooks": arr{"b"}},
			},
			want: objs{
				{"hooks": arr{"a", "b"}},
			},
		},
		{
			name: "missing key does not collide with a named key",
			base: objs{
				{"hooks": arr{"a"}},
			},
			overlay: objs{
				{"matcher": "", "hooks": arr{"b"}},
				{"matcher": "None", "hooks": arr{"c"}},
			},
			want: objs{
				{"hooks": arr{"a"}},
				{"matcher": "", "hooks": arr{"b"}},
				{"matcher": "None", "hooks": arr{"c"}},
			},
		},
		{
			name: "key values are type distinct",
			base: objs{
				{"matcher": num("1"), "v": "number"},
			},
			overlay: objs{
				{"matcher": "1", "v": "string"},
			},
			want: objs{
				{"matcher": num("1"), "v": "number"},
				{"matcher": "1", "v": "string"},
			},
		},
		{
			name: "last duplicate in base wins at first position",
			base: objs{
				{"matcher": "A", "v": "first"},
				{"matcher": "B"},
				{"matcher": "A", "v": "last"},
			},
			overlay: nil,
			want: objs{
				{"matcher": "A", "v": "last"},
				{"matcher": "B"},
			},
		},
		{
			name: "last duplicate in overlay wins",
			base: objs{
				{"matcher": "A", "hooks": arr{"base"}},
			},
			overlay: objs{
				{"matcher": "A", "hooks": arr{"first"}},
				{"matcher": "A", "hooks": arr{"second"}},
			},
			want: objs{
				{"matcher": "A", "hooks": arr{"base", "second"}},
			},
		},
		{
			name: "other fields follow standard rules",
			base: objs{
				{"matcher": "Bash", "timeout": num("10"), "tags": arr{"a"}, "opts": obj{"x": "1", "y": "2"}, "gone": "v"},
			},
			overlay: objs{
				{"matcher": "Bash", "timeout": num("30"), "tags": arr{"a", "b"}, "opts": obj{"y": nil}, "gone": nil},
			},
			want: objs{
				{"matcher": "Bash", "timeout": num("30"), "tags": arr{"a", "b"}, "opts": obj{"x": "1"}},
			},
		},
		{
			name: "hooks of different types fall back to standard rules",
			base: objs{
				{"matcher": "Bash", "hooks": "not-a-list"},
			},
			overlay: objs{
				{"matcher": "Bash", "hooks": arr{"x"}},
			},
			want: objs{
				{"matcher": "Bash", "hooks": arr{"x"}},
			},
		},
		{
			name: "nested object arrays inside an element merge by key",
			base: objs{
				{"matcher": "Bash", "rules": arr{obj{"matcher": "r1", "hooks": arr{"a"}}}},
			},
			overlay: objs{
				{"matcher": "Bash", "rules": arr{obj{"matcher": "r1", "hooks": arr{"b"}}}},
			},
			want: objs{
				{"matcher": "Bash", "rules": arr{obj{"matcher": "r1", "hooks": arr{"a", "b"}}}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeKeyedArrays(tt.base, tt.overlay, DefaultKeyField))
		})
	}
}

func TestMergeKeyedArrays_NoAliasing(t *testing.T) {
	base := objs{{"matcher": "A", "hooks": arr{obj{"command": "x"}}}}
	overlay := objs{{"matcher": "B", "hooks": arr{obj{"command": "y"}}}}

	got := MergeKeyedArrays(base, overlay, DefaultKeyField)
	got[0]["hooks"].(arr)[0].(obj)["command"] = "changed"
	got[1]["hooks"].(arr)[0].(obj)["command"] = "changed"

	assert.Equal(t, "x", base[0]["hooks"].(arr)[0].(obj)["command"])
	assert.Equal(t, "y", overlay[0]["hooks"].(arr)[0].(obj)["command"])
}

func TestMergeKeyedArrays_KeyField(t *testing.T) {
	base := objs{{"name": "a", "matcher": "x"}}
	overlay := objs{{"name": "a", "matcher": "y"}}

	got := MergeKeyedArrays(base, overlay, "name")
	assert.Equal(t, objs{{"name": "a", "matcher": "y"}}, got)

	byMatcher := MergeKeyedArrays(base, overlay, "matcher")
	assert.Len(t, byMatcher, 2)
}

func TestKeyOf(t *testing.T) {
	assert.Equal(t, elementKey{}, keyOf(map[string]any{}, "matcher"))
	assert.Equal(t, elementKey{}, keyOf(map[string]any{"matcher": nil}, "matcher"))
	assert.Equal(t, elementKey{present: true, value: tree.Key("Bash")}, keyOf(map[string]any{"matcher": "Bash"}, "matcher"))
}
