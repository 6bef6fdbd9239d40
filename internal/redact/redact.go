// Package redact masks secrets before they reach logs or terminal output.
//
// Settings env blocks, cached config values, and log attributes all pass
// through here when printed. Nothing written to disk is redacted.
package redact

import "strings"

// Mask is the replacement for values too short to show a suffix.
const Mask = "********"

// keyPatterns are substrings of variable or attribute names that mark
// the value as sensitive. Matching is case-insensitive.
var keyPatterns = []string{
	"TOKEN",
	"SECRET",
	"PASSWORD",
	"PASSWD",
	"AUTH",
	"CREDENTIAL",
	"API_KEY",
	"APIKEY",
	"ACCESS_KEY",
	"PRIVATE",
}

// tokenPrefixes identify values that are credentials whatever they are called.
var tokenPrefixes = []string{
	"sk-ant-",
	"sk-",
	"ghp_",
	"gho_",
	"ghu_",
	"ghs_",
	"ghr_",
	"github_pat_",
	"glpat-",
	"AKIA",
	"xoxb-",
	"xoxp-",
	"xoxa-",
	"xoxr-",
}

// ShouldMask reports whether key looks like it names a secret.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, p := range keyPatterns {
		if strings.Contains(upper, p) {
			return true
		}
	}
	return false
}

// ContainsTokenPrefix reports whether value begins with a known token prefix.
func ContainsTokenPrefix(value string) bool {
	for _, p := range tokenPrefixes {
		if strings.HasPrefix(value, p) {
			return true
		}
	}
	return false
}

// MaskValue hides all but the last four characters of value.
// Values of four characters or fewer are hidden entirely.
func MaskValue(value string) string {
	if len(value) <= 4 {
		return Mask
	}
	return "****" + value[len(value)-4:]
}

// Value masks value when either its key or its content marks it as secret.
func Value(key, value string) string {
	if ShouldMask(key) || ContainsTokenPrefix(value) {
		return MaskValue(value)
	}
	return MaskURL(value)
}

// Env returns a copy of env with sensitive values masked.
func Env(env map[string]string) map[string]string {
	if env == nil {
		return nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = Value(k, v)
	}
	return out
}

// MaskURL replaces the password in a URL's userinfo. The rest of the URL
// is left byte-for-byte unchanged so masked asterisks are not escaped.
func MaskURL(raw string) string {
	scheme := strings.Index(raw, "://")
	if scheme < 0 {
		return raw
	}
	rest := raw[scheme+3:]
	at := strings.Index(rest, "@")
	if at < 0 {
		return raw
	}
	if end := strings.IndexAny(rest, "/?#"); end >= 0 && end < at {
		return raw
	}
	user, pw, ok := strings.Cut(rest[:at], ":")
	if !ok || pw == "" {
		return raw
	}
	return raw[:scheme+3] + user + ":" + MaskValue(pw) + rest[at:]
}

// Tree returns a copy of a decoded JSON tree with sensitive string leaves
// masked. Array elements are judged by the key holding the array.
func Tree(v any) any {
	return tree("", v)
}

func tree(key string, v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = tree(k, e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = tree(key, e)
		}
		return out
	case string:
		return Value(key, t)
	default:
		return v
	}
}
