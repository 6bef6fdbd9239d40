// Package main is the entry point for the toolkit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/donygeorge/claude-toolkit/cmd/toolkit/commands"
	"github.com/donygeorge/claude-toolkit/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	// An ExitError without a cause carries only a status; its output
	// was already written.
	var exitErr *errors.ExitError
	isExit := errors.As(err, &exitErr)
	if !isExit || exitErr.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	if isExit && exitErr.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", exitErr.Suggestion)
	}
	os.Exit(errors.CodeOf(err))
}
