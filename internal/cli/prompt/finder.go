package prompt

import (
	"slices"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/donygeorge/claude-toolkit/internal/errors"
)

// FindStacks runs a fuzzy multi-select over stacks. Tab marks entries;
// the result follows the order of stacks. preview may be nil.
func FindStacks(stacks []string, preview func(name string) string) ([]string, error) {
	if len(stacks) == 0 {
		return nil, ErrNoStacks
	}

	opts := []fuzzyfinder.Option{
		fuzzyfinder.WithHeader("Select stacks (Tab to mark, Enter to confirm)"),
	}
	if preview != nil {
		opts = append(opts, fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return preview(stacks[i])
		}))
	}

	idx, err := fuzzyfinder.FindMulti(stacks, func(i int) string { return stacks[i] }, opts...)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "stack picker failed")
	}

	slices.Sort(idx)
	picked := make([]string, len(idx))
	for i, n := range idx {
		picked[i] = stacks[n]
	}
	return picked, nil
}
