package configcache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donygeorge/claude-toolkit/internal/errors"
)

func writeTOML(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "toolkit.toml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestGenerate(t *testing.T) {
	p := writeTOML(t, `
[project]
name = "it's"
stacks = ["python"]

[hooks.auto-approve]
bash_commands = ["git status", "ls"]
`)

	got, err := Generate(p)
	require.NoError(t, err)
	assert.Equal(t, Header+"\n"+
		"# Source: "+p+"\n"+
		"\n"+
		`TOOLKIT_HOOKS_AUTO_APPROVE_BASH_COMMANDS='["git status","ls"]'`+"\n"+
		`TOOLKIT_PROJECT_NAME='it'\''s'`+"\n"+
		`TOOLKIT_PROJECT_STACKS='["python"]'`+"\n", got)
}

func TestGenerate_Empty(t *testing.T) {
	p := writeTOML(t, "# nothing configured\n")
	got, err := Generate(p)
	require.NoError(t, err)
	assert.Equal(t, Header+"\n# Source: "+p+"\n\n", got)
}

func TestGenerate_Errors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := Generate(filepath.Join(t.TempDir(), "toolkit.toml"))
		assert.True(t, errors.Is(err, errors.ErrNotFound))
	})

	t.Run("parse error", func(t *testing.T) {
		p := writeTOML(t, "[project\nname = 1")
		_, err := Generate(p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TOML parse error in "+p)
	})

	t.Run("schema error", func(t *testing.T) {
		p := writeTOML(t, "[project]\nnmae = \"x\"\nname = 1\n")
		_, err := Generate(p)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrValidationFailed))

		var schemaErr *SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, []string{
			"Expected string for 'project.name', got integer",
			"Unknown key: 'project.nmae'",
		}, schemaErr.Problems)
		assert.Equal(t, "schema validation failed for "+p+":\n"+
			"  - Expected string for 'project.name', got integer\n"+
			"  - Unknown key: 'project.nmae'", schemaErr.Error())
	})

	t.Run("control character", func(t *testing.T) {
		p := writeTOML(t, "[project]\nname = \"a\\u0007b\"\n")
		_, err := Generate(p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "control character 0x07")
	})
}

func TestParse_RoundTrip(t *testing.T) {
	entries := []Entry{
		{Key: "TOOLKIT_A", Value: "it's a \"test\""},
		{Key: "TOOLKIT_B", Value: `["x","y z"]`},
		{Key: "TOOLKIT_C", Value: "multi\nline\tvalue"},
		{Key: "TOOLKIT_D", Value: "$HOME and $(whoami)"},
		{Key: "TOOLKIT_E", Value: ""},
	}
	content := Render("toolkit.toml", entries)

	require.NoError(t, Verify(content))
	got, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestVerify_Rejects(t *testing.T) {
	tests := map[string]string{
		"unterminated quote": "TOOLKIT_A='oops\n",
		"command":            "TOOLKIT_A='x'\nrm -rf /\n",
		"assignment prefix":  "TOOLKIT_A='x' echo hi\n",
		"substitution":       "TOOLKIT_A=$(whoami)\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, Verify(content))
		})
	}
}

func TestWriteCacheAndRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".claude", "toolkit-cache.env")
	content := Render("toolkit.toml", []Entry{{Key: "TOOLKIT_PROJECT_NAME", Value: "demo"}})

	require.NoError(t, WriteCache(path, content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Key: "TOOLKIT_PROJECT_NAME", Value: "demo"}}, got)

	_, err = Read(filepath.Join(dir, "missing.env"))
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	bad := filepath.Join(dir, "bad.env")
	require.NoError(t, os.WriteFile(bad, []byte("echo hi\n"), 0o600))
	_, err = Read(bad)
	assert.True(t, strings.Contains(err.Error(), "expected a variable assignment"), err)
}
