package settings

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/donygeorge/claude-toolkit/internal/errors"
	"github.com/donygeorge/claude-toolkit/internal/tree"
	"github.com/donygeorge/claude-toolkit/pkg/fileutil"
)

// Render serializes a generated tree deterministically.
func Render(v any) ([]byte, error) {
	return tree.Marshal(v)
}

// Write atomically replaces path with data, creating parent directories.
func Write(path string, data []byte) error {
	return fileutil.WriteFile(path, data, fileutil.PermPublic)
}

// Diff compares rendered output with the file at path. It returns a
// unified diff and whether the file would change. A missing file counts
// as changed.
func Diff(path string, rendered []byte) (string, bool, error) {
	current, err := fileutil.ReadFileWithLimit(path)
	if err != nil && !os.IsNotExist(err) {
		return "", false, errors.Wrapf(err, "reading %s", path)
	}

	before, after := string(current), string(rendered)
	if before == after {
		return "", false, nil
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n", path)
	fmt.Fprintf(&sb, "+++ %s (generated)\n", path)
	sb.WriteString(dmp.PatchToText(dmp.PatchMake(before, diffs)))
	return sb.String(), true, nil
}

// Query evaluates a jq expression against v and returns every result.
func Query(ctx context.Context, v any, expr string) ([]any, error) {
	q, err := gojq.Parse(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing query %q", expr)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling query %q", expr)
	}

	var out []any
	iter := code.RunWithContext(ctx, tree.Plain(v))
	for {
		r, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := r.(error); ok {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				break
			}
			return nil, errors.Wrap(err, "evaluating query")
		}
		out = append(out, r)
	}
	return out, nil
}
