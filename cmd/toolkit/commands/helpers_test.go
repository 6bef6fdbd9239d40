package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/donygeorge/claude-toolkit/internal/logging"
)

// newTestCmd returns a bare command with captured output and a test
// logger in its context.
func newTestCmd(t *testing.T) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(bytes.NewReader(nil))
	cmd.SetContext(logging.NewContext(context.Background(), logging.ForTest(t)))
	return cmd, &out, &errOut
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveDir(t *testing.T) {
	dir := t.TempDir()
	got, err := resolveDir(dir)
	if err != nil {
		t.Fatalf("resolveDir: %v", err)
	}
	if got != dir {
		t.Errorf("resolveDir = %q, want %q", got, dir)
	}

	file := filepath.Join(dir, "f")
	writeTestFile(t, file, "x")
	if _, err := resolveDir(file); err == nil {
		t.Error("expected error for a regular file")
	}
}

func TestWriteJSON_SortedAndUnescaped(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, map[string]any{"b": "<x>", "a": 1}); err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": 1,\n  \"b\": \"<x>\"\n}\n"
	if buf.String() != want {
		t.Errorf("writeJSON = %q, want %q", buf.String(), want)
	}
}
