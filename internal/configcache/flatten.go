package configcache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/donygeorge/claude-toolkit/internal/errors"
	"github.com/donygeorge/claude-toolkit/internal/tree"
)

// Prefix starts every generated variable name.
const Prefix = "TOOLKIT"

var envName = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

// Entry is one generated variable. Value is unquoted.
type Entry struct {
	Key   string
	Value string
}

// Line renders the entry as a single-quoted bash assignment.
func (e Entry) Line() string {
	return e.Key + "=" + Quote(e.Value)
}

// Quote single-quotes s for bash, closing and reopening the quotes around
// each embedded single quote.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Flatten walks data in sorted key order and returns one entry per leaf.
// It fails when a key cannot form a bash variable name or a string holds a
// control character other than newline and tab.
func Flatten(data map[string]any, prefix string) ([]Entry, error) {
	var entries []Entry
	for _, key := range sortedKeys(data) {
		value := data[key]
		name := prefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		if !envName.MatchString(name) {
			return nil, errors.Newf("unsafe variable name generated: '%s' from key '%s'", name, key)
		}

		switch v := value.(type) {
		case map[string]any:
			sub, err := Flatten(v, name)
			if err != nil {
				return nil, err
			}
			entries = append(entries, sub...)
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					if err := checkControl(s, name); err != nil {
						return nil, err
					}
				}
			}
			encoded, err := compactJSON(v)
			if err != nil {
				return nil, errors.Wrapf(err, "encoding %s", name)
			}
			entries = append(entries, Entry{Key: name, Value: encoded})
		case string:
			if err := checkControl(v, name); err != nil {
				return nil, err
			}
			entries = append(entries, Entry{Key: name, Value: v})
		case bool:
			entries = append(entries, Entry{Key: name, Value: strconv.FormatBool(v)})
		default:
			s, err := scalar(v)
			if err != nil {
				return nil, errors.Wrapf(err, "encoding %s", name)
			}
			entries = append(entries, Entry{Key: name, Value: s})
		}
	}
	return entries, nil
}

func checkControl(s, name string) error {
	for _, r := range s {
		if r == '\n' || r == '\t' {
			continue
		}
		if r < 0x20 || r == 0x7f {
			return errors.Newf("value for '%s' contains control character 0x%02x; only \\n and \\t are allowed", name, r)
		}
	}
	return nil
}

// compactJSON encodes a list without whitespace or HTML escaping.
func compactJSON(v []any) (string, error) {
	n, err := tree.Normalize(v)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(n); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// scalar renders numbers and dates the way they appear in JSON.
func scalar(v any) (string, error) {
	n, err := tree.Normalize(v)
	if err != nil {
		return "", err
	}
	switch t := n.(type) {
	case json.Number:
		return t.String(), nil
	case string:
		return t, nil
	}
	return fmt.Sprint(n), nil
}
