package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/donygeorge/claude-toolkit/internal/errors"
	"github.com/donygeorge/claude-toolkit/internal/git"
	"github.com/donygeorge/claude-toolkit/internal/tree"
)

// resolveProjectRoot returns the project root for dir: the enclosing git
// work tree, or dir itself. An empty dir means the working directory.
func resolveProjectRoot(ctx context.Context, dir string) (string, error) {
	abs, err := resolveDir(dir)
	if err != nil {
		return "", err
	}
	return git.ProjectRoot(ctx, abs), nil
}

// resolveDir makes dir absolute and checks that it is a directory.
func resolveDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "getting working directory")
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", dir)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", errors.NewUserError(errors.Newf("not a directory: %s", dir), "")
	}
	return abs, nil
}

// writeJSON writes v in the same deterministic form as generated files.
func writeJSON(w io.Writer, v any) error {
	data, err := tree.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "writing output")
}

// exitStatus is an error that sets the exit code without a message.
func exitStatus(code int) error {
	return errors.NewExitError(nil, code)
}
