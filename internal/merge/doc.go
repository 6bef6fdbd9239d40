// Package merge composes layered settings trees.
//
// Layers are JSON object trees (see package tree). A merge never modifies
// its inputs; every result is freshly allocated, so one base can be merged
// against many overlays.
//
// Rules, applied per key of the overlay:
//
//   - null deletes the key.
//   - A key missing from the base takes a deep copy of the overlay value.
//   - Two objects merge recursively.
//   - Two arrays: if either is a non-empty array of objects, elements are
//     matched by the key field ("matcher") and merged pairwise, with their
//     "hooks" lists concatenated. Otherwise the arrays are concatenated and
//     deduplicated by value and type, keeping first-seen order.
//   - Anything else: the overlay value wins.
//
// [ComposeLayers] folds base, stack, and project layers with these rules.
// [MergeServerRegistry] is the variant used for .mcp.json, where each
// server entry is replaced whole instead of merged.
package merge
