package merge

import (
	"github.com/donygeorge/claude-toolkit/internal/tree"
)

// StripMeta returns a shallow copy of layer without its top-level _meta key.
func StripMeta(layer map[string]any) map[string]any {
	out := make(map[string]any, len(layer))
	for k, v := range layer {
		if k != MetaKey {
			out[k] = v
		}
	}
	return out
}

// ComposeLayers folds base, stacks, and project with the default options.
func ComposeLayers(base map[string]any, stacks []map[string]any, project map[string]any) map[string]any {
	return std.ComposeLayers(base, stacks, project)
}

// ComposeLayers merges each stack (minus its _meta) onto base in order and
// then the project layer, if any. Later layers take precedence.
func (m *Merger) ComposeLayers(base map[string]any, stacks []map[string]any, project map[string]any) map[string]any {
	result := tree.CloneMap(base)
	if result == nil {
		result = map[string]any{}
	}
	for _, s := range stacks {
		result = m.Merge(result, StripMeta(s))
	}
	if project != nil {
		result = m.Merge(result, project)
	}
	return result
}
