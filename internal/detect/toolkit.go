package detect

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/donygeorge/claude-toolkit/internal/paths"
)

// ToolkitState describes how far the toolkit is installed in a project.
type ToolkitState struct {
	BrokenSymlinks    []string `json:"broken_symlinks"`
	MissingAgents     []string `json:"missing_agents"`
	MissingSkills     []string `json:"missing_skills"`
	SettingsGenerated bool     `json:"settings_generated"`
	SubtreeExists     bool     `json:"subtree_exists"`
	TomlExists        bool     `json:"toml_exists"`
	TomlIsExample     bool     `json:"toml_is_example"`
}

// InspectToolkit reports the installation state under root. toolkitDir is
// resolved with paths.ToolkitDir.
func InspectToolkit(fsys afero.Fs, root, toolkitDir string) ToolkitState {
	claude := paths.ClaudeDir(root)
	toolkit := paths.ToolkitDir(root, toolkitDir)
	tomlPath := paths.ToolkitTOMLPath(root)

	st := ToolkitState{
		BrokenSymlinks: []string{},
		MissingAgents:  []string{},
		MissingSkills:  []string{},
	}
	st.SubtreeExists, _ = afero.IsDir(fsys, toolkit)
	st.TomlExists = isFile(fsys, tomlPath)
	st.SettingsGenerated = isFile(fsys, paths.SettingsPath(root))

	if example := paths.ExampleTOMLPath(toolkit); st.TomlExists && isFile(fsys, example) {
		a, errA := afero.ReadFile(fsys, tomlPath)
		b, errB := afero.ReadFile(fsys, example)
		if errA == nil && errB == nil {
			st.TomlIsExample = strings.TrimSpace(string(a)) == strings.TrimSpace(string(b))
		}
	}

	if st.SubtreeExists {
		st.MissingSkills = missing(fsys, paths.ToolkitSkillsDir(toolkit), paths.ProjectSkillsDir(root), func(fi os.FileInfo) bool {
			return fi.IsDir()
		})
		st.MissingAgents = missing(fsys, paths.ToolkitAgentsDir(toolkit), paths.ProjectAgentsDir(root), func(fi os.FileInfo) bool {
			return fi.Mode().IsRegular() && filepath.Ext(fi.Name()) == ".md"
		})
	}

	st.BrokenSymlinks = brokenSymlinks(fsys, claude)
	return st
}

// missing lists the entries of src accepted by keep that have no
// counterpart of the same name in dst.
func missing(fsys afero.Fs, src, dst string, keep func(os.FileInfo) bool) []string {
	out := []string{}
	entries, err := afero.ReadDir(fsys, src)
	if err != nil {
		return out
	}
	for _, e := range entries {
		// Stat follows symlinks; a link to a skill directory still counts.
		fi, err := fsys.Stat(filepath.Join(src, e.Name()))
		if err != nil || !keep(fi) {
			continue
		}
		if ok, _ := afero.Exists(fsys, filepath.Join(dst, e.Name())); !ok {
			out = append(out, e.Name())
		}
	}
	return out
}

// brokenSymlinks lists, relative to dir, every symlink under dir whose
// target does not exist.
func brokenSymlinks(fsys afero.Fs, dir string) []string {
	out := []string{}
	if ok, _ := afero.IsDir(fsys, dir); !ok {
		return out
	}
	_ = afero.Walk(fsys, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.Mode()&os.ModeSymlink == 0 {
			return nil
		}
		if _, statErr := fsys.Stat(p); statErr != nil {
			rel, relErr := filepath.Rel(dir, p)
			if relErr != nil {
				rel = p
			}
			out = append(out, rel)
		}
		return nil
	})
	slices.Sort(out)
	return out
}

func isFile(fsys afero.Fs, p string) bool {
	fi, err := fsys.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
