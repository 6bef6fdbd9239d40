package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/donygeorge/claude-toolkit/internal/errors"
)

var stacks = []string{"ios", "python", "typescript"}

func TestSelectStacks_EmptyList(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSelectorWithIO(strings.NewReader(""), &buf)

	_, err := s.SelectStacks(nil)
	if !errors.Is(err, ErrNoStacks) {
		t.Fatalf("expected ErrNoStacks, got: %v", err)
	}
	if buf.Len() > 0 {
		t.Errorf("expected no output, got: %s", buf.String())
	}
}

func TestSelectStacks_ValidSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "single number", input: "2\n", want: []string{"python"}},
		{name: "comma list keeps order", input: "3,1\n", want: []string{"typescript", "ios"}},
		{name: "names and spaces", input: " python  ios \n", want: []string{"python", "ios"}},
		{name: "duplicates dropped", input: "1, ios, 1\n", want: []string{"ios"}},
		{name: "empty selects none", input: "\n", want: nil},
		{name: "no trailing newline", input: "1", want: []string{"ios"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			s := NewSelectorWithIO(strings.NewReader(tt.input), &buf)

			got, err := s.SelectStacks(stacks)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("SelectStacks() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(buf.String(), "[3] typescript") {
				t.Errorf("prompt missing stack list: %s", buf.String())
			}
		})
	}
}

func TestSelectStacks_InvalidSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{name: "zero", input: "0\n", wantMsg: "out of range"},
		{name: "too large", input: "4\n", wantMsg: "out of range"},
		{name: "unknown name", input: "rust\n", wantMsg: `unknown stack "rust"`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewSelectorWithIO(strings.NewReader(tt.input), &bytes.Buffer{})
			_, err := s.SelectStacks(stacks)
			if !errors.Is(err, ErrInvalidSelection) {
				t.Fatalf("expected ErrInvalidSelection, got: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestSelectStacks_EOF(t *testing.T) {
	t.Parallel()

	s := NewSelectorWithIO(strings.NewReader(""), &bytes.Buffer{})
	_, err := s.SelectStacks(stacks)
	if !errors.Is(err, ErrSelectionCancelled) {
		t.Errorf("expected ErrSelectionCancelled, got: %v", err)
	}
}

func TestFindStacks_EmptyList(t *testing.T) {
	t.Parallel()

	if _, err := FindStacks(nil, nil); !errors.Is(err, ErrNoStacks) {
		t.Errorf("expected ErrNoStacks, got: %v", err)
	}
}
