package configcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	data := decode(t, `
[project]
name = "it's <mine>"
stacks = ["python", "ios"]

[hooks.setup]
python_min_version = "3.11"

[hooks.session-end]
agent_memory_max_lines = 200

[hooks.post-edit-lint.linters.py]
cmd = "ruff check --fix"

[notifications]
app_name = "Claude"

[extra]
enabled = true
ratio = 2.0
released = 2024-05-01
`)

	got, err := Flatten(data, Prefix)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Key: "TOOLKIT_EXTRA_ENABLED", Value: "true"},
		{Key: "TOOLKIT_EXTRA_RATIO", Value: "2.0"},
		{Key: "TOOLKIT_EXTRA_RELEASED", Value: "2024-05-01"},
		{Key: "TOOLKIT_HOOKS_POST_EDIT_LINT_LINTERS_PY_CMD", Value: "ruff check --fix"},
		{Key: "TOOLKIT_HOOKS_SESSION_END_AGENT_MEMORY_MAX_LINES", Value: "200"},
		{Key: "TOOLKIT_HOOKS_SETUP_PYTHON_MIN_VERSION", Value: "3.11"},
		{Key: "TOOLKIT_NOTIFICATIONS_APP_NAME", Value: "Claude"},
		{Key: "TOOLKIT_PROJECT_NAME", Value: "it's <mine>"},
		{Key: "TOOLKIT_PROJECT_STACKS", Value: `["python","ios"]`},
	}, got)
}

func TestFlatten_Errors(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want string
	}{
		{
			name: "unsafe key",
			data: map[string]any{"bad key": "x"},
			want: "unsafe variable name generated: 'TOOLKIT_BAD KEY' from key 'bad key'",
		},
		{
			name: "carriage return",
			data: map[string]any{"a": "line\rinjection"},
			want: "value for 'TOOLKIT_A' contains control character 0x0d; only \\n and \\t are allowed",
		},
		{
			name: "control char in list",
			data: map[string]any{"a": []any{"ok", "bell\a"}},
			want: "value for 'TOOLKIT_A' contains control character 0x07; only \\n and \\t are allowed",
		},
		{
			name: "delete char",
			data: map[string]any{"a": map[string]any{"b": "x\x7f"}},
			want: "value for 'TOOLKIT_A_B' contains control character 0x7f; only \\n and \\t are allowed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Flatten(tt.data, Prefix)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestFlatten_AllowsNewlineAndTab(t *testing.T) {
	got, err := Flatten(map[string]any{"rules": "a\n\tb"}, Prefix)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Key: "TOOLKIT_RULES", Value: "a\n\tb"}}, got)
}

func TestQuote(t *testing.T) {
	tests := map[string]string{
		"plain":     "'plain'",
		"it's":      `'it'\''s'`,
		"":          "''",
		`["a","b"]`: `'["a","b"]'`,
		"$HOME `x`": "'$HOME `x`'",
	}
	for in, want := range tests {
		assert.Equal(t, want, Quote(in), "Quote(%q)", in)
	}
}
