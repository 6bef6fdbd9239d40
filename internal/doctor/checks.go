package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/donygeorge/claude-toolkit/internal/configcache"
	"github.com/donygeorge/claude-toolkit/internal/detect"
	"github.com/donygeorge/claude-toolkit/internal/errors"
	"github.com/donygeorge/claude-toolkit/internal/git"
	"github.com/donygeorge/claude-toolkit/internal/paths"
	"github.com/donygeorge/claude-toolkit/internal/tree"
	"github.com/donygeorge/claude-toolkit/pkg/fileutil"
)

// Project locates the install the checks inspect. FS backs the
// install-state checks; toolkit.toml and the cache are read from disk.
type Project struct {
	FS         afero.Fs
	Root       string
	ToolkitDir string
}

func (p Project) state() detect.ToolkitState {
	fs := p.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return detect.InspectToolkit(fs, p.Root, p.ToolkitDir)
}

// DefaultChecks returns every toolkit check in report order.
func DefaultChecks(p Project) []Check {
	return []Check{
		&SubtreeCheck{p},
		&GitRepoCheck{p},
		&TOMLCheck{p},
		&RemoteURLCheck{p},
		&SyntaxCheck{p},
		&SettingsCheck{p},
		&CacheCheck{p},
		&InstallCheck{p},
		&SymlinkCheck{p},
	}
}

func newResult(c Check) *CheckResult {
	return &CheckResult{Name: c.Name(), Category: c.Category(), Status: SeverityPass}
}

// SubtreeCheck verifies the toolkit subtree exists.
type SubtreeCheck struct{ Project }

func (c *SubtreeCheck) Name() string     { return "toolkit-subtree" }
func (c *SubtreeCheck) Category() string { return "toolkit" }

func (c *SubtreeCheck) Run() *CheckResult {
	r := newResult(c)
	dir := paths.ToolkitDir(c.Root, c.ToolkitDir)
	r.Details = map[string]any{"path": dir}
	if !c.state().SubtreeExists {
		r.Status = SeverityError
		r.Message = "toolkit subtree not found"
		r.FixHint = "git subtree add --prefix=" + paths.DefaultToolkitDir + " <remote> main --squash"
		return r
	}
	r.Message = "toolkit subtree present"
	return r
}

// GitRepoCheck reports whether the project root is a git work tree.
type GitRepoCheck struct{ Project }

func (c *GitRepoCheck) Name() string     { return "git-repo" }
func (c *GitRepoCheck) Category() string { return "project" }

func (c *GitRepoCheck) Run() *CheckResult {
	r := newResult(c)
	if err := git.ValidateRepo(c.Root); err != nil {
		r.Status = SeverityInfo
		r.Message = err.Error()
		return r
	}
	r.Message = "project is a git repository"
	return r
}

// TOMLCheck validates .claude/toolkit.toml against the config schema.
type TOMLCheck struct{ Project }

func (c *TOMLCheck) Name() string     { return "toolkit-toml" }
func (c *TOMLCheck) Category() string { return "config" }

func (c *TOMLCheck) Run() *CheckResult {
	r := newResult(c)
	path := paths.ToolkitTOMLPath(c.Root)
	r.Details = map[string]any{"path": path}

	_, err := configcache.Check(path)
	var schemaErr *configcache.SchemaError
	switch {
	case errors.Is(err, errors.ErrNotFound):
		r.Status = SeverityWarning
		r.Message = "toolkit.toml not found"
		r.FixHint = "cp " + paths.ExampleTOMLPath(paths.DefaultToolkitDir) + " " + filepath.Join(paths.ClaudeDirName, paths.ToolkitTOMLFile)
		return r
	case errors.As(err, &schemaErr):
		r.Status = SeverityError
		r.Message = fmt.Sprintf("toolkit.toml has %d schema problem(s)", len(schemaErr.Problems))
		r.Details["problems"] = schemaErr.Problems
		r.FixHint = "Run: toolkit cache validate"
		return r
	case err != nil:
		r.Status = SeverityError
		r.Message = err.Error()
		return r
	}

	if c.state().TomlIsExample {
		r.Status = SeverityWarning
		r.Message = "toolkit.toml is an unmodified copy of the example"
		r.FixHint = "edit .claude/toolkit.toml for this project"
		return r
	}
	r.Message = "toolkit.toml is valid"
	return r
}

// RemoteURLCheck validates toolkit.remote_url when it is set.
type RemoteURLCheck struct{ Project }

func (c *RemoteURLCheck) Name() string     { return "remote-url" }
func (c *RemoteURLCheck) Category() string { return "config" }

func (c *RemoteURLCheck) Run() *CheckResult {
	r := newResult(c)
	data, err := configcache.Load(paths.ToolkitTOMLPath(c.Root))
	if err != nil {
		r.Status = SeverityInfo
		r.Message = "skipped: toolkit.toml unavailable"
		return r
	}
	url, ok := tree.Lookup(data, "toolkit", "remote_url")
	s, isString := url.(string)
	if !ok || !isString || s == "" {
		r.Status = SeverityInfo
		r.Message = "toolkit.remote_url not set"
		return r
	}
	if err := git.ValidateURL(s); err != nil {
		r.Status = SeverityError
		r.Message = err.Error()
		r.FixHint = "use an https://, ssh://, or user@host:path.git URL"
		return r
	}
	r.Message = "toolkit.remote_url is valid"
	return r
}

// SyntaxCheck parses the generated JSON files and toolkit.toml, reporting
// the line and column of the first syntax error in each.
type SyntaxCheck struct{ Project }

func (c *SyntaxCheck) Name() string     { return "config-syntax" }
func (c *SyntaxCheck) Category() string { return "config" }

// syntaxFileResult represents the validation result for a single file.
type syntaxFileResult struct {
	Path    string `json:"path"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (c *SyntaxCheck) Run() *CheckResult {
	r := newResult(c)
	files := []string{
		paths.SettingsPath(c.Root),
		paths.MCPPath(c.Root),
		paths.ToolkitTOMLPath(c.Root),
	}

	var results []syntaxFileResult
	var failed, passed int
	for _, f := range files {
		fr := validateSyntax(f)
		switch fr.Status {
		case "missing":
			continue
		case "error":
			failed++
		default:
			passed++
		}
		results = append(results, fr)
	}
	r.Details = map[string]any{"files": results}

	switch {
	case failed > 0:
		r.Status = SeverityError
		r.Message = fmt.Sprintf("%d file(s) have syntax errors", failed)
		r.FixHint = "fix the file, or regenerate it with toolkit settings generate"
	case passed > 0:
		r.Message = fmt.Sprintf("%d file(s) parsed successfully", passed)
	default:
		r.Status = SeverityInfo
		r.Message = "no config files found to validate"
	}
	return r
}

func validateSyntax(path string) syntaxFileResult {
	fr := syntaxFileResult{Path: path, Status: "pass"}
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if os.IsNotExist(err) {
			fr.Status = "missing"
			return fr
		}
		fr.Status = "error"
		fr.Message = fmt.Sprintf("read error: %v", err)
		return fr
	}

	var v any
	if filepath.Ext(path) == ".toml" {
		if err := toml.Unmarshal(data, &v); err != nil {
			fr.Status = "error"
			fr.Message = formatTOMLError(err)
		}
		return fr
	}
	if err := json.Unmarshal(data, &v); err != nil {
		fr.Status = "error"
		fr.Message = formatJSONError(err, data)
	}
	return fr
}

// formatJSONError extracts position information from JSON syntax errors.
func formatJSONError(err error, data []byte) string {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(data, int(syntaxErr.Offset))
		return fmt.Sprintf("JSON syntax error at line %d, column %d: %s", line, col, syntaxErr.Error())
	}
	return fmt.Sprintf("JSON error: %v", err)
}

// formatTOMLError extracts position information from TOML decode errors.
func formatTOMLError(err error) string {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Sprintf("TOML syntax error at line %d, column %d: %s", row, col, decodeErr.Error())
	}
	return fmt.Sprintf("TOML error: %v", err)
}

// offsetToLineCol converts a byte offset to 1-indexed line and column.
func offsetToLineCol(data []byte, offset int) (line, col int) {
	offset = max(0, min(offset, len(data)))
	line = 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if data[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, offset - lineStart + 1
}

// SettingsCheck verifies .claude/settings.json has been generated.
type SettingsCheck struct{ Project }

func (c *SettingsCheck) Name() string     { return "settings-generated" }
func (c *SettingsCheck) Category() string { return "settings" }

func (c *SettingsCheck) Run() *CheckResult {
	r := newResult(c)
	if !c.state().SettingsGenerated {
		r.Status = SeverityWarning
		r.Message = "settings.json has not been generated"
		r.FixHint = "Run: toolkit settings generate"
		return r
	}
	r.Message = "settings.json present"
	return r
}

// CacheCheck compares the env cache with what toolkit.toml generates now.
type CacheCheck struct{ Project }

func (c *CacheCheck) Name() string     { return "config-cache" }
func (c *CacheCheck) Category() string { return "settings" }

func (c *CacheCheck) Run() *CheckResult {
	r := newResult(c)
	tomlPath := paths.ToolkitTOMLPath(c.Root)
	cachePath := paths.CachePath(c.Root)
	r.Details = map[string]any{"path": cachePath}

	want, err := configcache.Generate(tomlPath)
	if err != nil {
		r.Status = SeverityInfo
		r.Message = "skipped: toolkit.toml missing or invalid"
		return r
	}
	wantEntries, err := configcache.Parse(want)
	if err != nil {
		r.Status = SeverityError
		r.Message = err.Error()
		return r
	}

	got, err := configcache.Read(cachePath)
	switch {
	case errors.Is(err, errors.ErrNotFound):
		r.Status = SeverityWarning
		r.Message = "config cache has not been generated"
		r.FixHint = "Run: toolkit cache generate"
		return r
	case err != nil:
		r.Status = SeverityError
		r.Message = err.Error()
		r.FixHint = "Run: toolkit cache generate"
		return r
	}

	if !slices.Equal(got, wantEntries) {
		r.Status = SeverityWarning
		r.Message = "config cache is stale"
		r.FixHint = "Run: toolkit cache generate"
		return r
	}
	r.Message = fmt.Sprintf("config cache up to date (%d variables)", len(got))
	return r
}

// InstallCheck reports toolkit skills and agents that are not linked into
// the project.
type InstallCheck struct{ Project }

func (c *InstallCheck) Name() string     { return "skills-agents" }
func (c *InstallCheck) Category() string { return "install" }

func (c *InstallCheck) Run() *CheckResult {
	r := newResult(c)
	st := c.state()
	if !st.SubtreeExists {
		r.Status = SeverityInfo
		r.Message = "skipped: toolkit subtree not found"
		return r
	}
	if len(st.MissingSkills) == 0 && len(st.MissingAgents) == 0 {
		r.Message = "all toolkit skills and agents installed"
		return r
	}
	r.Status = SeverityWarning
	r.Message = fmt.Sprintf("%d skill(s) and %d agent(s) not installed", len(st.MissingSkills), len(st.MissingAgents))
	r.Details = map[string]any{
		"missing_skills": st.MissingSkills,
		"missing_agents": st.MissingAgents,
	}
	r.FixHint = "symlink them into .claude/skills and .claude/agents"
	return r
}

// SymlinkCheck reports symlinks under .claude whose targets are gone.
type SymlinkCheck struct{ Project }

func (c *SymlinkCheck) Name() string     { return "broken-symlinks" }
func (c *SymlinkCheck) Category() string { return "install" }

func (c *SymlinkCheck) Run() *CheckResult {
	r := newResult(c)
	broken := c.state().BrokenSymlinks
	if len(broken) == 0 {
		r.Message = "no broken symlinks"
		return r
	}
	r.Status = SeverityError
	r.Message = fmt.Sprintf("%d broken symlink(s) under .claude", len(broken))
	r.Details = map[string]any{"links": broken}
	r.FixHint = "remove or re-point the links"
	return r
}
