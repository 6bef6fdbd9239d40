package merge

import (
	"github.com/donygeorge/claude-toolkit/internal/tree"
)

// MergeServerRegistry merges with the default options.
func MergeServerRegistry(base, overlay map[string]any) map[string]any {
	return std.MergeServerRegistry(base, overlay)
}

// MergeServerRegistry merges overlay into base like Merge, except when both
// sides hold an object under the registry key: there each overlay entry
// replaces the base entry whole, and a null entry removes it. Server
// arguments are positional, so they are never concatenated.
func (m *Merger) MergeServerRegistry(base, overlay map[string]any) map[string]any {
	regKey := m.opts.RegistryKey

	baseReg, bok := base[regKey].(map[string]any)
	overlayReg, ook := overlay[regKey].(map[string]any)
	if !bok || !ook {
		return m.Merge(base, overlay)
	}

	rest := make(map[string]any, len(overlay))
	for k, v := range overlay {
		if k != regKey {
			rest[k] = v
		}
	}
	result := m.Merge(base, rest)

	reg := make(map[string]any, len(baseReg)+len(overlayReg))
	for name, entry := range baseReg {
		if _, replaced := overlayReg[name]; !replaced {
			reg[name] = tree.Clone(entry)
		}
	}
	for name, entry := range overlayReg {
		if entry != nil {
			reg[name] = tree.Clone(entry)
		}
	}
	result[regKey] = reg
	return result
}

// ProjectRegistryOverlay extracts the server registry overrides carried by
// a project layer with the default options.
func ProjectRegistryOverlay(project map[string]any) map[string]any {
	return std.ProjectRegistryOverlay(project)
}

// ProjectRegistryOverlay returns the part of a project layer that applies
// to the MCP registry: the registry key itself when present, otherwise the
// contents of an "mcp" object, otherwise an empty overlay.
func (m *Merger) ProjectRegistryOverlay(project map[string]any) map[string]any {
	if v, ok := project[m.opts.RegistryKey]; ok {
		return map[string]any{m.opts.RegistryKey: tree.Clone(v)}
	}
	if mcp, ok := project["mcp"].(map[string]any); ok {
		return tree.CloneMap(mcp)
	}
	return map[string]any{}
}
