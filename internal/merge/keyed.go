package merge

import (
	"github.com/donygeorge/claude-toolkit/internal/tree"
)

// elementKey identifies a keyed element. Elements without the key field,
// or with it set to null, share the absent key.
type elementKey struct {
	present bool
	value   string
}

func keyOf(elem map[string]any, field string) elementKey {
	v, ok := elem[field]
	if !ok || v == nil {
		return elementKey{}
	}
	return elementKey{present: true, value: tree.Key(v)}
}

// index maps each key to the last element carrying it and records keys in
// order of first appearance.
func index(elems []map[string]any, field string) (map[elementKey]map[string]any, []elementKey) {
	byKey := make(map[elementKey]map[string]any, len(elems))
	order := make([]elementKey, 0, len(elems))
	for _, e := range elems {
		k := keyOf(e, field)
		if _, seen := byKey[k]; !seen {
			order = append(order, k)
		}
		byKey[k] = e
	}
	return byKey, order
}

// MergeKeyedArrays merges two object arrays keyed by keyField using the
// default concat field.
func MergeKeyedArrays(base, overlay []map[string]any, keyField string) []map[string]any {
	opts := DefaultOptions()
	opts.KeyField = keyField
	return New(opts).MergeKeyedArrays(base, overlay)
}

// MergeKeyedArrays merges two object arrays. Elements are matched by the
// key field; within one side the last element with a given key wins.
// Base keys come first in base order, then keys only the overlay has in
// overlay order. Matched pairs are merged with the concat field
// concatenated and every other field merged by the standard rules.
func (m *Merger) MergeKeyedArrays(base, overlay []map[string]any) []map[string]any {
	baseByKey, baseOrder := index(base, m.opts.KeyField)
	overlayByKey, overlayOrder := index(overlay, m.opts.KeyField)

	result := make([]map[string]any, 0, len(baseOrder)+len(overlayOrder))
	for _, k := range baseOrder {
		b := baseByKey[k]
		if o, ok := overlayByKey[k]; ok {
			result = append(result, m.mergeObjects(b, o, m.opts.ConcatField))
			continue
		}
		result = append(result, tree.CloneMap(b))
	}

	for _, k := range overlayOrder {
		if _, inBase := baseByKey[k]; inBase {
			continue
		}
		result = append(result, tree.CloneMap(overlayByKey[k]))
	}
	return result
}
