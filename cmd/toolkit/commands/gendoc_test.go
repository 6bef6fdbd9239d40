package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFilePrepender(t *testing.T) {
	got := filePrepender("/tmp/docs/toolkit_settings_generate.md")
	want := "---\ntitle: \"toolkit settings generate\"\ndescription: \"Reference for toolkit settings generate command\"\n---\n"
	if got != want {
		t.Errorf("filePrepender() = %q, want %q", got, want)
	}
}

func TestGenDoc_RequiresDir(t *testing.T) {
	cmd, _, _ := newTestCmd(t)
	if err := runGenDoc(cmd, ""); err == nil {
		t.Error("expected error without --dir")
	}
}

func TestLinkHandler(t *testing.T) {
	if got := linkHandler("toolkit_cache.md"); got != "toolkit_cache.md" {
		t.Errorf("linkHandler() = %q", got)
	}
}

func TestGenDoc(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")
	cmd, out, _ := newTestCmd(t)
	if err := runGenDoc(cmd, dir); err != nil {
		t.Fatalf("gen-doc: %v", err)
	}
	if !strings.Contains(out.String(), "Documentation generated in "+dir) {
		t.Errorf("output = %q", out.String())
	}

	data, err := os.ReadFile(filepath.Join(dir, "toolkit_settings_generate.md"))
	if err != nil {
		t.Fatalf("reading generated page: %v", err)
	}
	if !strings.HasPrefix(string(data), "---\ntitle: \"toolkit settings generate\"") {
		t.Errorf("page missing front matter:\n%s", data)
	}
}
