package configcache

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/donygeorge/claude-toolkit/internal/tree"
)

// Kind is the expected type of a schema node.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindList
	// KindTable holds a sub-table whose keys are not fixed, such as
	// linters keyed by file extension.
	KindTable
	// KindSection holds a sub-table with known Fields.
	KindSection
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindList:
		return "list"
	default:
		return "table"
	}
}

// Node describes one key of toolkit.toml.
type Node struct {
	Kind   Kind
	Fields map[string]Node
}

func section(fields map[string]Node) Node { return Node{Kind: KindSection, Fields: fields} }

var (
	str     = Node{Kind: KindString}
	integer = Node{Kind: KindInteger}
	list    = Node{Kind: KindList}
	table   = Node{Kind: KindTable}
)

// Schema lists the known sections of toolkit.toml.
var Schema = map[string]Node{
	"toolkit": section(map[string]Node{
		"remote_url": str,
	}),
	"project": section(map[string]Node{
		"name":         str,
		"version_file": str,
		"stacks":       list,
	}),
	"hooks": section(map[string]Node{
		"setup": section(map[string]Node{
			"python_min_version": str,
			"required_tools":     list,
			"optional_tools":     list,
			"security_tools":     list,
		}),
		"post-edit-lint": section(map[string]Node{
			"linters": table,
		}),
		"task-completed": section(map[string]Node{
			"gates": table,
		}),
		"auto-approve": section(map[string]Node{
			"write_paths":       list,
			"bash_commands":     list,
			"mcp_tool_prefixes": list,
		}),
		"subagent-context": section(map[string]Node{
			"critical_rules":  list,
			"available_tools": list,
			"stack_info":      str,
		}),
		"compact": section(map[string]Node{
			"source_dirs":       list,
			"source_extensions": list,
			"state_dirs":        list,
		}),
		"session-end": section(map[string]Node{
			"agent_memory_max_lines": integer,
			"hook_log_max_lines":     integer,
		}),
	}),
	"skills": section(map[string]Node{
		"implement": section(map[string]Node{
			"tdd_enforcement": str,
		}),
	}),
	"notifications": section(map[string]Node{
		"app_name":         str,
		"permission_sound": str,
	}),
}

// Enums restricts string keys, by dotted path, to a fixed set of values.
var Enums = map[string][]string{
	"skills.implement.tdd_enforcement": {"strict", "guided", "off"},
}

// Validate checks decoded TOML against Schema and Enums. Problems are
// reported in sorted key order, schema problems first.
func Validate(data map[string]any) []string {
	errs := validate(data, Schema, "")
	return append(errs, validateEnums(data)...)
}

func validate(data map[string]any, schema map[string]Node, path string) []string {
	var errs []string
	for _, key := range sortedKeys(data) {
		value := data[key]
		full := dotted(path, key)

		node, ok := schema[key]
		if !ok {
			errs = append(errs, fmt.Sprintf("Unknown key: '%s'", full))
			continue
		}

		sub, isTable := value.(map[string]any)
		switch node.Kind {
		case KindSection:
			if !isTable {
				errs = append(errs, mismatch(node.Kind, full, value))
				continue
			}
			errs = append(errs, validate(sub, node.Fields, full)...)
		case KindTable:
			if !isTable {
				errs = append(errs, mismatch(node.Kind, full, value))
			}
		case KindString:
			if _, ok := value.(string); !ok {
				errs = append(errs, mismatch(node.Kind, full, value))
			}
		case KindInteger:
			if !isInteger(value) {
				errs = append(errs, mismatch(node.Kind, full, value))
			}
		case KindList:
			if _, ok := value.([]any); !ok {
				errs = append(errs, mismatch(node.Kind, full, value))
			}
		}
	}
	return errs
}

func validateEnums(data map[string]any) []string {
	var errs []string
	for _, path := range sortedKeys(Enums) {
		allowed := Enums[path]
		value, ok := tree.Lookup(data, strings.Split(path, ".")...)
		if !ok {
			continue
		}
		s, ok := value.(string)
		if !ok || slices.Contains(allowed, s) {
			continue
		}
		quoted := make([]string, len(allowed))
		for i, a := range allowed {
			quoted[i] = "'" + a + "'"
		}
		errs = append(errs, fmt.Sprintf("Invalid value for '%s': '%s' (allowed: %s)", path, s, strings.Join(quoted, ", ")))
	}
	return errs
}

func mismatch(want Kind, key string, got any) string {
	return fmt.Sprintf("Expected %s for '%s', got %s", want, key, typeName(got))
}

func isInteger(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// typeName names a decoded TOML value in TOML's own vocabulary.
func typeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float32, float64:
		return "float"
	case []any:
		return "array"
	case map[string]any:
		return "table"
	case time.Time, toml.LocalDate, toml.LocalTime, toml.LocalDateTime:
		return "datetime"
	}
	if isInteger(v) {
		return "integer"
	}
	return fmt.Sprintf("%T", v)
}

func dotted(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
