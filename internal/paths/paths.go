package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/donygeorge/claude-toolkit/internal/errors"
)

// AppName names the per-user config directory.
const AppName = "claude-toolkit"

// ConfigDirEnv overrides the per-user config directory when set.
const ConfigDirEnv = "CLAUDE_TOOLKIT_CONFIG_DIR"

// Project layout, relative to the project root.
const (
	ClaudeDirName     = ".claude"
	SettingsFile      = "settings.json"
	MCPFile           = ".mcp.json"
	ToolkitTOMLFile   = "toolkit.toml"
	CacheFile         = "toolkit-cache.env"
	DefaultToolkitDir = ".claude/toolkit"
	DefaultContextDir = "docs/context"
)

// Layout inside the toolkit subtree.
const (
	templatesDir       = "templates"
	stacksDir          = "stacks"
	exampleTOMLFile    = "toolkit.toml.example"
	baseSettingsFile   = "settings-base.json"
	mcpBaseFile        = "mcp-base.json"
	toolkitSkillsDir   = "skills"
	toolkitAgentsDir   = "agents"
	claudeProjectsPath = ".claude/projects"
)

// ErrHomeDirNotFound indicates the user's home directory could not be determined.
var ErrHomeDirNotFound = errors.New("home directory not found")

// DefaultDirPerm is the default permission for newly created directories.
const DefaultDirPerm = 0o755

// EnsureDir creates path and any missing parents. A zero perm means
// DefaultDirPerm. Existing directories are left alone.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	if err := os.MkdirAll(path, perm); err != nil {
		return errors.Wrapf(err, "creating directory %s", path)
	}
	return nil
}

// ResolveHome returns the user's home directory.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
func ConfigHome() string {
	return xdg.ConfigHome
}

// ConfigDir returns the per-user toolkit config directory:
// $CLAUDE_TOOLKIT_CONFIG_DIR when set, else <ConfigHome>/claude-toolkit.
func ConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	return filepath.Join(ConfigHome(), AppName)
}

// ClaudeDir returns <root>/.claude.
func ClaudeDir(root string) string {
	return filepath.Join(root, ClaudeDirName)
}

// SettingsPath returns the generated settings file for a project.
func SettingsPath(root string) string {
	return filepath.Join(ClaudeDir(root), SettingsFile)
}

// MCPPath returns the generated MCP server registry file for a project.
func MCPPath(root string) string {
	return filepath.Join(root, MCPFile)
}

// ToolkitTOMLPath returns the project's toolkit.toml.
func ToolkitTOMLPath(root string) string {
	return filepath.Join(ClaudeDir(root), ToolkitTOMLFile)
}

// CachePath returns the generated shell cache for toolkit.toml.
func CachePath(root string) string {
	return filepath.Join(ClaudeDir(root), CacheFile)
}

// ToolkitDir resolves the toolkit subtree. A relative dir is joined to
// root; an empty dir means DefaultToolkitDir.
func ToolkitDir(root, dir string) string {
	if dir == "" {
		dir = DefaultToolkitDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

// StacksDir returns <toolkitDir>/templates/stacks.
func StacksDir(toolkitDir string) string {
	return filepath.Join(toolkitDir, templatesDir, stacksDir)
}

// BaseSettingsPath returns the toolkit's base settings layer.
func BaseSettingsPath(toolkitDir string) string {
	return filepath.Join(toolkitDir, templatesDir, baseSettingsFile)
}

// MCPBasePath returns the toolkit's base MCP server registry.
func MCPBasePath(toolkitDir string) string {
	return filepath.Join(toolkitDir, templatesDir, mcpBaseFile)
}

// ExampleTOMLPath returns the toolkit.toml template shipped with the toolkit.
func ExampleTOMLPath(toolkitDir string) string {
	return filepath.Join(toolkitDir, templatesDir, exampleTOMLFile)
}

// ToolkitSkillsDir returns the skills shipped with the toolkit.
func ToolkitSkillsDir(toolkitDir string) string {
	return filepath.Join(toolkitDir, toolkitSkillsDir)
}

// ToolkitAgentsDir returns the agents shipped with the toolkit.
func ToolkitAgentsDir(toolkitDir string) string {
	return filepath.Join(toolkitDir, toolkitAgentsDir)
}

// ProjectSkillsDir returns <root>/.claude/skills.
func ProjectSkillsDir(root string) string {
	return filepath.Join(ClaudeDir(root), toolkitSkillsDir)
}

// ProjectAgentsDir returns <root>/.claude/agents.
func ProjectAgentsDir(root string) string {
	return filepath.Join(ClaudeDir(root), toolkitAgentsDir)
}

// TranscriptsDir returns ~/.claude/projects, where session transcripts live.
func TranscriptsDir() (string, error) {
	home, err := ResolveHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, claudeProjectsPath), nil
}
