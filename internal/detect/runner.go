package detect

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/donygeorge/claude-toolkit/internal/errors"
)

// Timeouts for external programs.
const (
	NameTimeout     = 5 * time.Second
	ProbeTimeout    = 10 * time.Second
	ValidateTimeout = 60 * time.Second
)

// ErrTimeout reports that a command ran past its deadline.
var ErrTimeout = errors.New("timeout")

// Runner runs external programs for the detector.
type Runner interface {
	// LookPath reports where an executable lives on PATH.
	LookPath(file string) (string, error)
	// Output runs name with args in dir and returns its stdout. A non-zero
	// exit is an error.
	Output(ctx context.Context, dir, name string, args ...string) (string, error)
	// Shell runs command through sh in dir and returns its exit code.
	Shell(ctx context.Context, dir, command string) (int, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

// LookPath implements Runner.
func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Output implements Runner.
func (ExecRunner) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		return "", ErrTimeout
	}
	return string(out), err
}

// Shell implements Runner. Output is discarded.
func (ExecRunner) Shell(ctx context.Context, dir, command string) (int, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	var sink bytes.Buffer
	cmd.Stdout = &sink
	cmd.Stderr = &sink

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return -1, ErrTimeout
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}
