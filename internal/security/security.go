// Package security rejects auto-approve rules and permission lists that
// would let the assistant run arbitrary code unattended.
//
// Failures are returned as human-readable messages. Callers treat any
// message as fatal and refuse to write output.
package security

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/donygeorge/claude-toolkit/internal/tree"
)

// dangerousBare are commands that grant a shell or fetch code when
// auto-approved with any arguments.
var dangerousBare = map[string]struct{}{
	"*":          {},
	"sh":         {},
	"bash":       {},
	"zsh":        {},
	"fish":       {},
	"osascript":  {},
	"powershell": {},
	"curl":       {},
	"wget":       {},
	"eval":       {},
}

// inlineExec matches interpreters given code on the command line.
var inlineExec = []*regexp.Regexp{
	regexp.MustCompile(`^python\s+-c\b`),
	regexp.MustCompile(`^python3\s+-c\b`),
	regexp.MustCompile(`^node\s+-e\b`),
	regexp.MustCompile(`^perl\s+-e\b`),
	regexp.MustCompile(`^ruby\s+-e\b`),
}

var pipeToShell = regexp.MustCompile(`\|\s*(sh|bash|python|python3)\b`)

// ValidateAutoApprove checks auto-approve command prefixes. Non-string
// entries are ignored and each command is trimmed first. Every rule is
// checked independently, so one command can produce several messages.
func ValidateAutoApprove(commands []any) []string {
	var errs []string
	for _, c := range commands {
		s, ok := c.(string)
		if !ok {
			continue
		}
		cmd := strings.TrimSpace(s)

		if _, bad := dangerousBare[cmd]; bad {
			errs = append(errs, fmt.Sprintf("Auto-approve blocked: '%s' is a dangerous bare command", cmd))
		}
		if slices.ContainsFunc(inlineExec, func(re *regexp.Regexp) bool { return re.MatchString(cmd) }) {
			errs = append(errs, fmt.Sprintf("Auto-approve blocked: '%s' uses interpreter exec flag", cmd))
		}
		if pipeToShell.MatchString(cmd) {
			errs = append(errs, fmt.Sprintf("Auto-approve blocked: '%s' contains pipe-to-shell pattern", cmd))
		}
	}
	return errs
}

// ValidateAllowDenyConflicts reports, in sorted order, every string that
// appears verbatim in both lists. Non-string entries are ignored.
func ValidateAllowDenyConflicts(allow, deny []any) []string {
	denied := make(map[string]struct{}, len(deny))
	for _, d := range Strings(deny) {
		denied[d] = struct{}{}
	}

	conflicts := make(map[string]struct{})
	for _, a := range Strings(allow) {
		if _, ok := denied[a]; ok {
			conflicts[a] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(conflicts))
	for c := range conflicts {
		sorted = append(sorted, c)
	}
	slices.Sort(sorted)

	errs := make([]string, 0, len(sorted))
	for _, c := range sorted {
		errs = append(errs, fmt.Sprintf("Allow/deny conflict: '%s' appears in both allow and deny lists", c))
	}
	return errs
}

// ValidateMerged runs every check against a merged settings tree:
// hooks["auto-approve"].bash_commands and permissions.allow/deny, each
// only when it has the expected shape.
func ValidateMerged(merged map[string]any) []string {
	var errs []string

	if cmds, ok := tree.Lookup(merged, "hooks", "auto-approve", "bash_commands"); ok {
		if list, ok := cmds.([]any); ok {
			errs = append(errs, ValidateAutoApprove(list)...)
		}
	}

	if perms, ok := merged["permissions"].(map[string]any); ok {
		allow, aok := listOrEmpty(perms["allow"])
		deny, dok := listOrEmpty(perms["deny"])
		if aok && dok {
			errs = append(errs, ValidateAllowDenyConflicts(allow, deny)...)
		}
	}

	return errs
}

// listOrEmpty treats a missing value as an empty list.
func listOrEmpty(v any) ([]any, bool) {
	if v == nil {
		return nil, true
	}
	list, ok := v.([]any)
	return list, ok
}

// Strings returns the string elements of v when v is an array.
func Strings(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, e := range list {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
