// Package tree holds the helpers shared by everything that handles JSON
// value trees: settings layers, MCP registries, and merged output.
//
// A tree is an any holding one of
//
//	map[string]any  object
//	[]any           array
//	string
//	json.Number     number
//	bool
//	nil             null
//
// [Decode] produces exactly these shapes from JSON. YAML and TOML decoders
// produce other Go types; [Normalize] folds them into the same shapes so
// the merge engine never sees anything else.
//
// Every function here returns fresh values and never modifies its input.
package tree
