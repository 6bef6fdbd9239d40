// Package schema produces advisory warnings about merged settings that
// do not look like a Claude settings file. Warnings never block output.
package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/donygeorge/claude-toolkit/internal/tree"
)

// AutoApproveKey is the toolkit's own section under "hooks"; it is not an
// event and has its own shape.
const AutoApproveKey = "auto-approve"

// maxSuggestDistance bounds "did you mean" suggestions.
const maxSuggestDistance = 2

// TopLevelKeys are the recognized top-level settings keys.
var TopLevelKeys = []string{
	"enabledPlugins",
	"env",
	"hooks",
	"mcp",
	"mcpServers",
	"permissions",
	"preferences",
	"sandbox",
}

// HookEvents are the recognized hook event names.
var HookEvents = []string{
	"Notification",
	"PermissionRequest",
	"PostCompact",
	"PostToolUse",
	"PostToolUseFailure",
	"PreCompact",
	"PreToolUse",
	"SessionEnd",
	"SessionStart",
	"Stop",
	"SubagentStart",
	"SubagentStop",
	"TaskCompleted",
	"UserPromptSubmit",
}

// HookEntryFields are the recognized fields of one hook entry.
var HookEntryFields = []string{
	"command",
	"description",
	"event",
	"hooks",
	"matcher",
	"timeout",
	"type",
}

// PermissionFields are the recognized fields of "permissions".
var PermissionFields = []string{"allow", "deny"}

// Check inspects merged settings and returns warnings in a stable order:
// top-level keys, then hooks, then permissions, then env.
func Check(merged map[string]any) []string {
	var warnings []string

	for _, key := range sortedKeys(merged) {
		if !slices.Contains(TopLevelKeys, key) {
			warnings = append(warnings, withSuggestion(
				fmt.Sprintf("Unknown top-level key: '%s' (possible typo)", key), key, TopLevelKeys))
		}
	}

	if hooks, ok := merged["hooks"]; ok && hooks != nil {
		warnings = append(warnings, checkHooks(hooks)...)
	}
	if perms, ok := merged["permissions"]; ok && perms != nil {
		warnings = append(warnings, checkPermissions(perms)...)
	}
	if env, ok := merged["env"]; ok && env != nil {
		if _, isObj := env.(map[string]any); !isObj {
			warnings = append(warnings, "'env' should be an object, got "+tree.TypeName(env))
		}
	}

	return warnings
}

func checkHooks(v any) []string {
	hooks, ok := v.(map[string]any)
	if !ok {
		return []string{"'hooks' should be an object, got " + tree.TypeName(v)}
	}

	var warnings []string
	for _, event := range sortedKeys(hooks) {
		if event == AutoApproveKey {
			continue
		}
		if !slices.Contains(HookEvents, event) {
			warnings = append(warnings, withSuggestion(
				fmt.Sprintf("Unknown hook event type: '%s' (known: %s)", event, strings.Join(HookEvents, ", ")),
				event, HookEvents))
		}

		entries, ok := hooks[event].([]any)
		if !ok {
			continue
		}
		for _, e := range entries {
			entry, ok := e.(map[string]any)
			if !ok {
				continue
			}
			for _, field := range sortedKeys(entry) {
				if !slices.Contains(HookEntryFields, field) {
					warnings = append(warnings, withSuggestion(
						fmt.Sprintf("Unknown field '%s' in hook entry for event '%s'", field, event),
						field, HookEntryFields))
				}
			}
			if inner, ok := entry["hooks"]; ok {
				if _, isList := inner.([]any); !isList {
					warnings = append(warnings, fmt.Sprintf("Hook entry 'hooks' field should be an array in event '%s'", event))
				}
			}
		}
	}
	return warnings
}

func checkPermissions(v any) []string {
	perms, ok := v.(map[string]any)
	if !ok {
		return []string{"'permissions' should be an object, got " + tree.TypeName(v)}
	}

	var warnings []string
	for _, key := range sortedKeys(perms) {
		if !slices.Contains(PermissionFields, key) {
			warnings = append(warnings, withSuggestion(
				fmt.Sprintf("Unknown permissions field: '%s'", key), key, PermissionFields))
		}
	}
	for _, field := range PermissionFields {
		val, ok := perms[field]
		if !ok || val == nil {
			continue
		}
		if _, isList := val.([]any); !isList {
			warnings = append(warnings, fmt.Sprintf("'permissions.%s' should be an array, got %s", field, tree.TypeName(val)))
		}
	}
	return warnings
}

// Suggest returns the known name closest to name, compared
// case-insensitively, when it is within maxSuggestDistance edits.
// Ties go to the name that sorts first.
func Suggest(name string, known []string) (string, bool) {
	lower := strings.ToLower(name)
	best, bestDist := "", maxSuggestDistance+1
	for _, k := range known {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(k))
		if d < bestDist || (d == bestDist && k < best) {
			best, bestDist = k, d
		}
	}
	if best == "" || bestDist > maxSuggestDistance {
		return "", false
	}
	return best, true
}

func withSuggestion(msg, name string, known []string) string {
	if s, ok := Suggest(name, known); ok {
		return msg + fmt.Sprintf(" - did you mean '%s'?", s)
	}
	return msg
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
