// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/donygeorge/claude-toolkit/internal/errors"
	"github.com/donygeorge/claude-toolkit/internal/logging"
)

// Sentinel errors for stack selection.
var (
	ErrNoStacks           = errors.New("no stacks to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Selector handles numbered selection prompts on plain readers.
type Selector struct {
	reader io.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stderr, keeping
// stdout free for generated output.
func NewSelector() *Selector {
	return &Selector{
		reader: os.Stdin,
		writer: os.Stderr,
	}
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// SelectStacks prompts for any number of stacks, by number or name,
// separated by commas or spaces. The answer's order is the layer order.
// An empty answer selects nothing.
//
// Returns:
//   - ErrNoStacks if the list is empty
//   - ErrInvalidSelection for an unknown name or out-of-range number
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func (s *Selector) SelectStacks(stacks []string) ([]string, error) {
	if len(stacks) == 0 {
		return nil, ErrNoStacks
	}

	fmt.Fprintln(s.writer, "Available stacks:")
	for i, name := range stacks {
		fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, name)
	}
	fmt.Fprintf(s.writer, "Select stacks in layer order (e.g. 1,3) [none]: ")

	input, err := bufio.NewReader(s.reader).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || input == "") {
		if errors.Is(err, io.EOF) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "reading selection")
	}

	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	var picked []string
	for _, f := range fields {
		name, err := resolve(f, stacks)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(picked, name) {
			picked = append(picked, name)
		}
	}
	return picked, nil
}

func resolve(field string, stacks []string) (string, error) {
	if n, err := strconv.Atoi(field); err == nil {
		if n < 1 || n > len(stacks) {
			return "", errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", n, len(stacks))
		}
		return stacks[n-1], nil
	}
	if slices.Contains(stacks, field) {
		return field, nil
	}
	return "", errors.Wrapf(ErrInvalidSelection, "unknown stack %q", field)
}

// PickStacks selects stacks with the fuzzy finder when stdin is a
// terminal, falling back to the numbered prompt otherwise.
func PickStacks(stacks []string, preview func(name string) string) ([]string, error) {
	if logging.IsTTY(os.Stdin) {
		return FindStacks(stacks, preview)
	}
	return NewSelector().SelectStacks(stacks)
}
