package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var knownEvents = strings.Join(HookEvents, ", ")

func TestCheck_Clean(t *testing.T) {
	merged := map[string]any{
		"hooks": map[string]any{
			"auto-approve": map[string]any{"bash_commands": []any{"ls"}, "anything": true},
			"PreToolUse": []any{
				map[string]any{"matcher": "Bash", "hooks": []any{map[string]any{"type": "command", "command": "x.sh"}}},
			},
		},
		"permissions":    map[string]any{"allow": []any{"Read"}, "deny": []any{}},
		"env":            map[string]any{"A": "1"},
		"preferences":    map[string]any{},
		"mcpServers":     map[string]any{},
		"mcp":            map[string]any{},
		"sandbox":        map[string]any{},
		"enabledPlugins": map[string]any{},
	}
	assert.Empty(t, Check(merged))
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name   string
		merged map[string]any
		want   []string
	}{
		{
			name:   "unknown top-level keys sorted with suggestions",
			merged: map[string]any{"zzz": 1, "hoks": map[string]any{}, "Env": map[string]any{}},
			want: []string{
				"Unknown top-level key: 'Env' (possible typo) - did you mean 'env'?",
				"Unknown top-level key: 'hoks' (possible typo) - did you mean 'hooks'?",
				"Unknown top-level key: 'zzz' (possible typo)",
			},
		},
		{
			name:   "hooks not an object",
			merged: map[string]any{"hooks": []any{}},
			want:   []string{"'hooks' should be an object, got array"},
		},
		{
			name:   "unknown event",
			merged: map[string]any{"hooks": map[string]any{"PreTooluse": []any{}}},
			want: []string{
				"Unknown hook event type: 'PreTooluse' (known: " + knownEvents + ") - did you mean 'PreToolUse'?",
			},
		},
		{
			name: "unknown entry fields and bad hooks list",
			merged: map[string]any{"hooks": map[string]any{"Stop": []any{
				map[string]any{"matchr": "x", "hooks": "cmd.sh", "zzzzzz": 1},
				"not an entry",
			}}},
			want: []string{
				"Unknown field 'matchr' in hook entry for event 'Stop' - did you mean 'matcher'?",
				"Unknown field 'zzzzzz' in hook entry for event 'Stop'",
				"Hook entry 'hooks' field should be an array in event 'Stop'",
			},
		},
		{
			name:   "event value not a list is tolerated",
			merged: map[string]any{"hooks": map[string]any{"Stop": "x"}},
			want:   nil,
		},
		{
			name:   "permissions not an object",
			merged: map[string]any{"permissions": "all"},
			want:   []string{"'permissions' should be an object, got string"},
		},
		{
			name:   "permissions fields",
			merged: map[string]any{"permissions": map[string]any{"alow": []any{}, "allow": "Read", "deny": true}},
			want: []string{
				"Unknown permissions field: 'alow' - did you mean 'allow'?",
				"'permissions.allow' should be an array, got string",
				"'permissions.deny' should be an array, got boolean",
			},
		},
		{
			name:   "env not an object",
			merged: map[string]any{"env": []any{"A=1"}},
			want:   []string{"'env' should be an object, got array"},
		},
		{
			name:   "null sections are ignored",
			merged: map[string]any{"hooks": nil, "permissions": nil, "env": nil},
			want:   nil,
		},
		{
			name: "checks run in section order",
			merged: map[string]any{
				"env":         "x",
				"permissions": 1,
				"hooks":       true,
				"extra":       1,
			},
			want: []string{
				"Unknown top-level key: 'extra' (possible typo)",
				"'hooks' should be an object, got boolean",
				"'permissions' should be an object, got number",
				"'env' should be an object, got string",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.merged))
		})
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name   string
		known  []string
		want   string
		wantOK bool
	}{
		{"hoks", TopLevelKeys, "hooks", true},
		{"PERMISSIONS", TopLevelKeys, "permissions", true},
		{"sessionstart", HookEvents, "SessionStart", true},
		{"Stopp", HookEvents, "Stop", true},
		{"completely-unrelated", TopLevelKeys, "", false},
		{"x", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Suggest(tt.name, tt.known)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggest_TieBreaksAlphabetically(t *testing.T) {
	got, ok := Suggest("ab", []string{"ac", "aa"})
	require.True(t, ok)
	assert.Equal(t, "aa", got)
}

func TestKnownListsSorted(t *testing.T) {
	for name, list := range map[string][]string{
		"TopLevelKeys":     TopLevelKeys,
		"HookEvents":       HookEvents,
		"HookEntryFields":  HookEntryFields,
		"PermissionFields": PermissionFields,
	} {
		assert.IsNonDecreasing(t, list, name)
	}
	assert.Len(t, HookEvents, 14)
}
