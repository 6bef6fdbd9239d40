package merge

import (
	"github.com/donygeorge/claude-toolkit/internal/tree"
)

// Default field names.
const (
	DefaultKeyField    = "matcher"
	DefaultConcatField = "hooks"
	DefaultRegistryKey = "mcpServers"

	// MetaKey is stripped from stack layers before they are merged.
	MetaKey = "_meta"
)

// Options names the fields with special merge behavior.
type Options struct {
	// KeyField identifies elements of object arrays.
	KeyField string
	// ConcatField is concatenated, not merged, when two keyed elements match.
	ConcatField string
	// RegistryKey is the top-level object whose entries MergeServerRegistry
	// replaces whole.
	RegistryKey string
}

// DefaultOptions returns matcher, hooks, and mcpServers.
func DefaultOptions() Options {
	return Options{
		KeyField:    DefaultKeyField,
		ConcatField: DefaultConcatField,
		RegistryKey: DefaultRegistryKey,
	}
}

// Merger applies the merge rules with a fixed set of Options.
// It holds no state beyond its options and is safe for concurrent use.
type Merger struct {
	opts Options
}

// New returns a Merger. Empty option fields take their defaults.
func New(opts Options) *Merger {
	def := DefaultOptions()
	if opts.KeyField == "" {
		opts.KeyField = def.KeyField
	}
	if opts.ConcatField == "" {
		opts.ConcatField = def.ConcatField
	}
	if opts.RegistryKey == "" {
		opts.RegistryKey = def.RegistryKey
	}
	return &Merger{opts: opts}
}

// Options returns the options in effect.
func (m *Merger) Options() Options {
	return m.opts
}

var std = New(DefaultOptions())

// Merge merges overlay into base with the default options.
func Merge(base, overlay map[string]any) map[string]any {
	return std.Merge(base, overlay)
}

// Merge returns a new tree holding base with overlay applied.
func (m *Merger) Merge(base, overlay map[string]any) map[string]any {
	return m.mergeObjects(base, overlay, "")
}

// mergeObjects builds the merged object fresh. When concat is non-empty,
// a key with that name holding arrays on both sides is concatenated
// without deduplication.
func (m *Merger) mergeObjects(base, overlay map[string]any, concat string) map[string]any {
	result := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		if _, replaced := overlay[k]; !replaced {
			result[k] = tree.Clone(v)
		}
	}

	for k, ov := range overlay {
		if ov == nil {
			continue
		}
		bv, exists := base[k]
		if !exists {
			result[k] = tree.Clone(ov)
			continue
		}
		if concat != "" && k == concat {
			bs, bok := bv.([]any)
			ol, ook := ov.([]any)
			if bok && ook {
				result[k] = concatenate(bs, ol)
				continue
			}
		}
		result[k] = m.mergeValues(bv, ov)
	}
	return result
}

// mergeValues merges two non-null values found under the same key.
func (m *Merger) mergeValues(base, overlay any) any {
	switch b := base.(type) {
	case map[string]any:
		if o, ok := overlay.(map[string]any); ok {
			return m.mergeObjects(b, o, "")
		}
	case []any:
		if o, ok := overlay.([]any); ok {
			return m.mergeArrays(b, o)
		}
	}
	return tree.Clone(overlay)
}

func (m *Merger) mergeArrays(base, overlay []any) []any {
	if tree.IsObjectArray(base) || tree.IsObjectArray(overlay) {
		merged := m.MergeKeyedArrays(tree.Objects(base), tree.Objects(overlay))
		out := make([]any, len(merged))
		for i, e := range merged {
			out[i] = e
		}
		return out
	}
	return dedup(base, overlay)
}

// dedup concatenates base and overlay, keeping the first occurrence of each
// value. Values of different types never compare equal.
func dedup(base, overlay []any) []any {
	out := make([]any, 0, len(base)+len(overlay))
	seen := make(map[string]struct{}, len(base)+len(overlay))
	for _, list := range [][]any{base, overlay} {
		for _, v := range list {
			k := tree.Key(v)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, tree.Clone(v))
		}
	}
	return out
}

func concatenate(base, overlay []any) []any {
	out := make([]any, 0, len(base)+len(overlay))
	for _, v := range base {
		out = append(out, tree.Clone(v))
	}
	for _, v := range overlay {
		out = append(out, tree.Clone(v))
	}
	return out
}
