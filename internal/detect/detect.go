package detect

import (
	"context"
	"encoding/json"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/donygeorge/claude-toolkit/internal/errors"
	"github.com/donygeorge/claude-toolkit/internal/logging"
)

// Report is the detection result. Field order matches the sorted JSON keys.
type Report struct {
	Format           map[string]FormatCommand `json:"format"`
	Lint             map[string]LintCommand   `json:"lint"`
	MakefileTargets  []string                 `json:"makefile_targets"`
	Name             string                   `json:"name"`
	PackageScripts   []string                 `json:"package_scripts"`
	SourceDirs       []string                 `json:"source_dirs"`
	SourceExtensions []string                 `json:"source_extensions"`
	Stacks           []string                 `json:"stacks"`
	Test             TestCommand              `json:"test"`
	ToolkitState     ToolkitState             `json:"toolkit_state"`
	Validations      []Validation             `json:"validations,omitempty"`
	VersionFile      *string                  `json:"version_file"`
}

// LintCommand is the lint command found for one stack.
type LintCommand struct {
	Available bool   `json:"available"`
	Cmd       string `json:"cmd"`
}

// FormatCommand is the format command found for one stack. CheckCmd
// verifies formatting without rewriting files.
type FormatCommand struct {
	Available bool   `json:"available"`
	CheckCmd  string `json:"check_cmd"`
	Cmd       string `json:"cmd"`
}

// TestCommand is the project's test command and where it was found:
// "makefile", "package.json", "executable", or empty.
type TestCommand struct {
	Cmd    string `json:"cmd"`
	Source string `json:"source"`
}

// Validation records one detected command actually being run.
type Validation struct {
	Cmd        string `json:"cmd"`
	Error      string `json:"error,omitempty"`
	Passed     bool   `json:"passed"`
	ReturnCode *int   `json:"returncode,omitempty"`
	Stack      string `json:"stack,omitempty"`
	Type       string `json:"type"`
}

// Detector scans one project.
type Detector struct {
	FS   afero.Fs
	Root string
	// ToolkitDir locates the toolkit subtree, relative to Root unless
	// absolute. Empty means .claude/toolkit.
	ToolkitDir string
	Runner     Runner
}

// New returns a detector for root on the real filesystem.
func New(root string) *Detector {
	return &Detector{FS: afero.NewOsFs(), Root: root, Runner: ExecRunner{}}
}

// Run performs detection. With validate set, detected commands are run
// and their outcomes recorded.
func (d *Detector) Run(ctx context.Context, validate bool) (*Report, error) {
	logger := logging.FromContext(ctx)

	if ok, err := afero.IsDir(d.FS, d.Root); err != nil || !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "not a directory: %s", d.Root)
	}

	stacks := d.stacks()
	logger.Debug("detected stacks", "path", d.Root, "stacks", stacks)

	targets := d.makefileTargets()
	scripts := d.packageScripts()

	r := &Report{
		Name:             d.name(ctx),
		Stacks:           stacks,
		VersionFile:      d.versionFile(),
		SourceDirs:       d.sourceDirs(),
		SourceExtensions: extensionsFor(stacks),
		Lint:             d.lintCommands(ctx, stacks),
		Format:           d.formatCommands(ctx, stacks),
		Test:             d.testCommand(targets, scripts),
		MakefileTargets:  targets,
		PackageScripts:   scripts,
		ToolkitState:     InspectToolkit(d.FS, d.Root, d.ToolkitDir),
	}

	if validate {
		r.Validations = d.validate(ctx, r)
		logger.Info("validated commands", "count", len(r.Validations))
	}
	return r, nil
}

func (d *Detector) path(elem ...string) string {
	return filepath.Join(append([]string{d.Root}, elem...)...)
}

func (d *Detector) exists(elem ...string) bool {
	ok, _ := afero.Exists(d.FS, d.path(elem...))
	return ok
}

func (d *Detector) stacks() []string {
	fsys := afero.NewIOFS(afero.NewBasePathFs(d.FS, d.Root))

	found := func(ind indicator) bool {
		if slices.ContainsFunc(ind.files, func(f string) bool { return d.exists(f) }) {
			return true
		}
		for _, pattern := range ind.globs {
			for _, p := range []string{pattern, "*/" + pattern} {
				if matches, err := doublestar.Glob(fsys, p); err == nil && len(matches) > 0 {
					return true
				}
			}
		}
		return false
	}

	stacks := []string{}
	for name, ind := range stackIndicators {
		if found(ind) {
			stacks = append(stacks, name)
		}
	}
	slices.Sort(stacks)
	return stacks
}

func (d *Detector) name(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, NameTimeout)
	defer cancel()

	if out, err := d.Runner.Output(ctx, d.Root, "git", "rev-parse", "--show-toplevel"); err == nil {
		if top := strings.TrimSpace(out); top != "" {
			return filepath.Base(top)
		}
	}
	return filepath.Base(d.Root)
}

func (d *Detector) versionFile() *string {
	for _, f := range versionFiles {
		if d.exists(f) {
			return &f
		}
	}
	return nil
}

func (d *Detector) sourceDirs() []string {
	dirs := []string{}
	for _, c := range sourceDirCandidates {
		if ok, _ := afero.IsDir(d.FS, d.path(c)); ok {
			dirs = append(dirs, c)
		}
	}
	return dirs
}

func extensionsFor(stacks []string) []string {
	exts := []string{}
	for _, s := range stacks {
		for _, e := range sourceExtensions[s] {
			if !slices.Contains(exts, e) {
				exts = append(exts, e)
			}
		}
	}
	return exts
}

// probe reports whether exe is on PATH and answers its version flag.
func (d *Detector) probe(ctx context.Context, t tool) bool {
	if _, err := d.Runner.LookPath(t.Exe); err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()
	_, err := d.Runner.Output(ctx, d.Root, t.Exe, t.VersionFlag)
	return err == nil
}

func commandLine(exe, args string) string {
	return strings.TrimSpace(exe + " " + args)
}

func (d *Detector) lintCommands(ctx context.Context, stacks []string) map[string]LintCommand {
	lint := make(map[string]LintCommand, len(stacks))
	for _, s := range stacks {
		lint[s] = LintCommand{}
		for _, t := range lintTools[s] {
			if d.probe(ctx, t) {
				lint[s] = LintCommand{Available: true, Cmd: commandLine(t.Exe, t.Args)}
				break
			}
		}
	}
	return lint
}

func (d *Detector) formatCommands(ctx context.Context, stacks []string) map[string]FormatCommand {
	format := make(map[string]FormatCommand, len(stacks))
	for _, s := range stacks {
		format[s] = FormatCommand{}
		for _, t := range formatTools[s] {
			if d.probe(ctx, t) {
				fc := FormatCommand{Available: true, Cmd: commandLine(t.Exe, t.Args)}
				if t.CheckArgs != "" {
					fc.CheckCmd = commandLine(t.Exe, t.CheckArgs)
				}
				format[s] = fc
				break
			}
		}
	}
	return format
}

var makeTarget = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_-]*)\s*:`)

// makefileTargets lists rule names in file order. Variable assignments
// written with := are not rules.
func (d *Detector) makefileTargets() []string {
	targets := []string{}
	data, err := afero.ReadFile(d.FS, d.path("Makefile"))
	if err != nil {
		return targets
	}
	for _, line := range strings.Split(string(data), "\n") {
		m := makeTarget.FindStringSubmatchIndex(line)
		if m == nil || strings.HasPrefix(line[m[1]:], "=") {
			continue
		}
		targets = append(targets, line[m[2]:m[3]])
	}
	return targets
}

func (d *Detector) packageScripts() []string {
	scripts := []string{}
	data, err := afero.ReadFile(d.FS, d.path("package.json"))
	if err != nil {
		return scripts
	}
	var pkg map[string]any
	if err := json.Unmarshal(data, &pkg); err != nil {
		return scripts
	}
	if m, ok := pkg["scripts"].(map[string]any); ok {
		for name := range m {
			scripts = append(scripts, name)
		}
	}
	slices.Sort(scripts)
	return scripts
}

// testCommand prefers a Makefile test target, then a package.json test
// script, then pytest on PATH. An exact "test" name beats other matches.
func (d *Detector) testCommand(targets, scripts []string) TestCommand {
	pick := func(names []string) (string, bool) {
		var matches []string
		for _, n := range names {
			if strings.Contains(strings.ToLower(n), "test") {
				matches = append(matches, n)
			}
		}
		if len(matches) == 0 {
			return "", false
		}
		if slices.Contains(matches, "test") {
			return "test", true
		}
		return matches[0], true
	}

	if t, ok := pick(targets); ok {
		return TestCommand{Cmd: "make " + t, Source: "makefile"}
	}
	if s, ok := pick(scripts); ok {
		if s == "test" {
			return TestCommand{Cmd: "npm test", Source: "package.json"}
		}
		return TestCommand{Cmd: "npm run " + s, Source: "package.json"}
	}
	if _, err := d.Runner.LookPath("pytest"); err == nil {
		return TestCommand{Cmd: "pytest", Source: "executable"}
	}
	return TestCommand{}
}

func (d *Detector) validate(ctx context.Context, r *Report) []Validation {
	out := []Validation{}

	for _, s := range r.Stacks {
		if lc := r.Lint[s]; lc.Cmd != "" {
			v := d.runCommand(ctx, lc.Cmd)
			v.Type, v.Stack = "lint", s
			out = append(out, v)
		}
	}

	if r.Test.Cmd != "" {
		v := d.runCommand(ctx, r.Test.Cmd)
		v.Type = "test"
		out = append(out, v)
	}

	for _, s := range r.Stacks {
		fc := r.Format[s]
		switch {
		case fc.CheckCmd != "":
			v := d.runCommand(ctx, fc.CheckCmd)
			v.Type, v.Stack = "format", s
			out = append(out, v)
		case fc.Cmd != "":
			v := Validation{Type: "format", Stack: s, Cmd: fc.Cmd, Passed: true}
			if _, err := d.Runner.LookPath(strings.Fields(fc.Cmd)[0]); err != nil {
				v.Passed, v.Error = false, "executable not found"
			}
			out = append(out, v)
		}
	}
	return out
}

func (d *Detector) runCommand(ctx context.Context, cmd string) Validation {
	ctx, cancel := context.WithTimeout(ctx, ValidateTimeout)
	defer cancel()

	code, err := d.Runner.Shell(ctx, d.Root, cmd)
	switch {
	case errors.Is(err, ErrTimeout):
		return Validation{Cmd: cmd, Error: "timeout"}
	case err != nil:
		return Validation{Cmd: cmd, Error: err.Error()}
	}
	return Validation{Cmd: cmd, Passed: code == 0, ReturnCode: &code}
}
