package layer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donygeorge/claude-toolkit/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestFormatOf(t *testing.T) {
	tests := map[string]Format{
		"base.json":    FormatJSON,
		"base.jsonc":   FormatJSON,
		"python.yaml":  FormatYAML,
		"python.YML":   FormatYAML,
		"ios.toml":     FormatTOML,
		"settings":     FormatJSON,
		"dir.d/x.conf": FormatJSON,
	}
	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, want, FormatOf(path))
		})
	}
}

func TestNewSource(t *testing.T) {
	src := NewSource("/toolkit/templates/stacks/python.json", KindStack)
	assert.Equal(t, Source{Name: "python", Path: "/toolkit/templates/stacks/python.json", Kind: KindStack}, src)
}

func TestLoad_JSONC(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "base.json", `{
  // comment
  "env": {"A": "1",},
  "timeout": 30,
  "ratio": 1.5,
}`)

	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"env":     map[string]any{"A": "1"},
		"timeout": json.Number("30"),
		"ratio":   json.Number("1.5"),
	}, got)
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "python.yaml", `
_meta:
  name: python
permissions:
  allow:
    - Bash(pytest:*)
hooks:
  PostToolUse:
    - matcher: Edit
      hooks:
        - type: command
          command: ruff format
          timeout: 10
`)

	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"_meta":       map[string]any{"name": "python"},
		"permissions": map[string]any{"allow": []any{"Bash(pytest:*)"}},
		"hooks": map[string]any{"PostToolUse": []any{
			map[string]any{"matcher": "Edit", "hooks": []any{
				map[string]any{"type": "command", "command": "ruff format", "timeout": json.Number("10")},
			}},
		}},
	}, got)
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "ios.toml", `
[env]
XCODE = "16"

[permissions]
allow = ["Bash(xcodebuild:*)"]
`)

	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"env":         map[string]any{"XCODE": "16"},
		"permissions": map[string]any{"allow": []any{"Bash(xcodebuild:*)"}},
	}, got)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		is      error
	}{
		{name: "json array", file: "a.json", content: `[1, 2]`, is: errors.ErrInvalidLayer},
		{name: "json syntax", file: "b.json", content: `{"a":`, is: errors.ErrInvalidLayer},
		{name: "empty json", file: "c.json", content: ``, is: errors.ErrInvalidLayer},
		{name: "yaml scalar", file: "d.yaml", content: `just a string`, is: errors.ErrInvalidLayer},
		{name: "empty yaml", file: "e.yaml", content: ``, is: errors.ErrInvalidLayer},
		{name: "bad toml", file: "f.toml", content: `a = `, is: errors.ErrInvalidLayer},
		{name: "yaml nan", file: "g.yaml", content: "x: .nan\n", is: errors.ErrInvalidLayer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, dir, tt.file, tt.content)
			_, err := Load(p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.is), "err = %v", err)
			assert.Contains(t, err.Error(), p)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.json"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrNotFound))
	})
}

func TestParse_EmptyTOMLIsEmptyObject(t *testing.T) {
	got, err := Parse([]byte("# nothing\n"), FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, got)
}

func TestLoad_Dotenv(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "local.env", "# local overrides\nAPI_URL=http://localhost:8080\nexport MODE='dev'\nEMPTY=\n")

	got, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"env": map[string]any{
			"API_URL": "http://localhost:8080",
			"MODE":    "dev",
			"EMPTY":   "",
		},
	}, got)
}
