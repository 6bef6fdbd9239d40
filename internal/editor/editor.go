// Package editor launches the user's text editor on toolkit files.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"

	"mvdan.cc/sh/v3/shell"

	"github.com/donygeorge/claude-toolkit/internal/errors"
)

// IO connects the editor to a terminal.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdIO returns the process's standard streams.
func StdIO() IO {
	return IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Command returns the editor invocation for path. $EDITOR and $VISUAL
// may carry arguments ("code --wait") and are split with shell quoting
// rules. Without either, nano is preferred over vi.
func Command(path string) ([]string, error) {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		fields, err := shell.Fields(v, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing $%s", env)
		}
		if len(fields) == 0 {
			continue
		}
		return append(fields, path), nil
	}

	if _, err := exec.LookPath("nano"); err == nil {
		return []string{"nano", path}, nil
	}
	return []string{"vi", path}, nil
}

// Open runs the editor on path and waits for it to exit.
func Open(ctx context.Context, path string, stdio IO) error {
	argv, err := Command(path)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = stdio.In
	cmd.Stdout = stdio.Out
	cmd.Stderr = stdio.Err

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", argv[0])
	}
	return nil
}
