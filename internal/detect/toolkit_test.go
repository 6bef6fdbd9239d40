package detect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectToolkit_NotInstalled(t *testing.T) {
	st := InspectToolkit(newFS(t, nil), root, "")
	assert.Equal(t, ToolkitState{
		BrokenSymlinks: []string{},
		MissingAgents:  []string{},
		MissingSkills:  []string{},
	}, st)
}

func TestInspectToolkit(t *testing.T) {
	example := "[project]\nname = \"\"\n"
	fs := newFS(t, map[string]string{
		".claude/toolkit/templates/toolkit.toml.example": example,
		".claude/toolkit/skills/review/SKILL.md":         "",
		".claude/toolkit/skills/implement/SKILL.md":      "",
		".claude/toolkit/skills/README.md":               "",
		".claude/toolkit/agents/reviewer.md":             "",
		".claude/toolkit/agents/planner.md":              "",
		".claude/toolkit/agents/notes.txt":               "",
		".claude/skills/review/":                         "",
		".claude/agents/planner.md":                      "",
		".claude/toolkit.toml":                           "\n" + example + "\n\n",
		".claude/settings.json":                          "{}",
	})

	st := InspectToolkit(fs, root, "")
	assert.True(t, st.SubtreeExists)
	assert.True(t, st.TomlExists)
	assert.True(t, st.TomlIsExample)
	assert.True(t, st.SettingsGenerated)
	assert.Equal(t, []string{"implement"}, st.MissingSkills)
	assert.Equal(t, []string{"reviewer.md"}, st.MissingAgents)
	assert.Equal(t, []string{}, st.BrokenSymlinks)
}

func TestInspectToolkit_CustomDir(t *testing.T) {
	fs := newFS(t, map[string]string{"vendor/toolkit/skills/x/": ""})
	st := InspectToolkit(fs, root, "vendor/toolkit")
	assert.True(t, st.SubtreeExists)
	assert.Equal(t, []string{"x"}, st.MissingSkills)
}

func TestInspectToolkit_BrokenSymlinks(t *testing.T) {
	dir := t.TempDir()
	claude := filepath.Join(dir, ".claude")
	require.NoError(t, os.MkdirAll(filepath.Join(claude, "skills"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(claude, "real.md"), nil, 0o644))
	require.NoError(t, os.Symlink(filepath.Join(claude, "real.md"), filepath.Join(claude, "ok.md")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), filepath.Join(claude, "skills", "gone")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "nope"), filepath.Join(claude, "a-dangling")))

	st := InspectToolkit(afero.NewOsFs(), dir, "")
	assert.Equal(t, []string{"a-dangling", filepath.Join("skills", "gone")}, st.BrokenSymlinks)
}
