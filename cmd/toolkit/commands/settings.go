package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/donygeorge/claude-toolkit/internal/cli/prompt"
	"github.com/donygeorge/claude-toolkit/internal/errors"
	"github.com/donygeorge/claude-toolkit/internal/layer"
	"github.com/donygeorge/claude-toolkit/internal/logging"
	"github.com/donygeorge/claude-toolkit/internal/paths"
	"github.com/donygeorge/claude-toolkit/internal/redact"
	"github.com/donygeorge/claude-toolkit/internal/settings"
	"github.com/donygeorge/claude-toolkit/internal/validator"
	"github.com/donygeorge/claude-toolkit/pkg/fileutil"
)

// previewBytes bounds the stack preview shown by --pick-stacks.
const previewBytes = 4096

// layerFlags select the layers every settings subcommand composes.
type layerFlags struct {
	projectDir string
	base       string
	stacks     string
	stacksDir  string
	project    string
	mcpBase    string
	pickStacks bool
}

// outputFlags control where generated files go.
type outputFlags struct {
	output    string
	mcpOutput string
	check     bool
}

// queryFlags shape settings query results.
type queryFlags struct {
	redact bool
	raw    bool
	mcp    bool
}

var (
	settingsLayers layerFlags
	settingsOut    outputFlags
	settingsQuery  queryFlags
	validateFormat string
)

func init() {
	pf := settingsCmd.PersistentFlags()
	pf.StringVar(&settingsLayers.projectDir, "project-dir", "",
		"project directory (default: enclosing git work tree)")
	pf.StringVar(&settingsLayers.base, "base", "",
		"base settings layer (default: <toolkit>/templates/settings-base.json)")
	pf.StringVar(&settingsLayers.stacks, "stacks", "",
		"comma-separated stack names, paths, or globs, applied in order")
	pf.StringVar(&settingsLayers.stacksDir, "stacks-dir", "",
		"directory for stack names and relative globs (default: <toolkit>/templates/stacks)")
	pf.BoolVar(&settingsLayers.pickStacks, "pick-stacks", false,
		"choose stacks interactively; picked stacks follow --stacks")
	pf.StringVar(&settingsLayers.project, "project", "",
		"project overlay layer, applied last")
	pf.StringVar(&settingsLayers.mcpBase, "mcp-base", "",
		"base MCP server registry; enables the MCP pass")

	settingsGenerateCmd.Flags().StringVarP(&settingsOut.output, "output", "o", "",
		"settings output file (default: stdout)")
	settingsGenerateCmd.Flags().StringVar(&settingsOut.mcpOutput, "mcp-output", "",
		"MCP registry output file (default: stdout)")
	settingsGenerateCmd.Flags().BoolVar(&settingsOut.check, "check", false,
		"exit 1 if the output files would change; write nothing")

	settingsValidateCmd.Flags().StringVar(&validateFormat, "format", "text",
		"report format: text, json")

	settingsDiffCmd.Flags().StringVarP(&settingsOut.output, "output", "o", "",
		"settings file to compare (default: .claude/settings.json)")
	settingsDiffCmd.Flags().StringVar(&settingsOut.mcpOutput, "mcp-output", "",
		"MCP registry file to compare (default: .mcp.json)")

	settingsQueryCmd.Flags().BoolVar(&settingsQuery.redact, "redact", false,
		"mask secret-looking values before querying")
	settingsQueryCmd.Flags().BoolVarP(&settingsQuery.raw, "raw", "r", false,
		"print string results without JSON quoting")
	settingsQueryCmd.Flags().BoolVar(&settingsQuery.mcp, "mcp", false,
		"query the merged MCP registry instead of settings")

	settingsCmd.AddCommand(settingsGenerateCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	settingsCmd.AddCommand(settingsDiffCmd)
	settingsCmd.AddCommand(settingsQueryCmd)
	rootCmd.AddCommand(settingsCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Compose settings.json from layered sources",
	Long: `Compose .claude/settings.json (and optionally .mcp.json) from a base
layer, stack overlays, and a project overlay.

Layers may be JSON (comments and trailing commas allowed), YAML, TOML, or
a .env file that fills the "env" block. Stack overlays may carry a "_meta"
key for documentation; it is removed before merging.`,
}

var settingsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate merged settings",
	Long: `Merge the layers and write the result.

Schema warnings are printed but do not block output. Security errors
(dangerous auto-approve commands, allow/deny conflicts) block output and
exit 1.`,
	Example: `  # Print merged settings
  toolkit settings generate --stacks python

  # Write settings and the MCP registry
  toolkit settings generate --stacks python,typescript --project .claude/project.json \
    --output .claude/settings.json --mcp-base .claude/toolkit/templates/mcp-base.json --mcp-output .mcp.json

  # Verify committed output in CI
  toolkit settings generate --stacks python --output .claude/settings.json --check

See Also: toolkit settings diff, toolkit settings validate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSettingsGenerate(cmd, settingsLayers, settingsOut)
	},
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the layers merge cleanly",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSettingsValidate(cmd, settingsLayers, validator.Format(validateFormat))
	},
}

var settingsDiffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show how generated settings differ from the files on disk",
	Long: `Print a unified diff between the files on disk and what generate would
write. Exits 1 when they differ.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSettingsDiff(cmd, settingsLayers, settingsOut)
	},
}

var settingsQueryCmd = &cobra.Command{
	Use:   "query <jq-expression>",
	Short: "Run a jq expression against the merged settings",
	Example: `  # List auto-approved commands
  toolkit settings query '.hooks["auto-approve"].bash_commands[]' --stacks python -r

  # Inspect env with secrets masked
  toolkit settings query .env --redact`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSettingsQuery(cmd, settingsLayers, settingsQuery, args[0])
	},
}

// resolveLayers turns flags into generation options. It returns the
// project root used for defaults.
func resolveLayers(ctx context.Context, f layerFlags) (settings.Options, string, error) {
	root, err := resolveProjectRoot(ctx, f.projectDir)
	if err != nil {
		return settings.Options{}, "", err
	}
	c := currentConfig()
	toolkit := c.ToolkitPath(root)

	opts := settings.Options{
		BasePath:    f.base,
		ProjectPath: f.project,
		MCPBasePath: f.mcpBase,
		Merge:       c.MergeOptions(),
	}
	if opts.BasePath == "" {
		opts.BasePath = paths.BaseSettingsPath(toolkit)
	}

	stacksDir := f.stacksDir
	if stacksDir == "" {
		stacksDir = c.StacksPath(root)
	}

	specs := layer.SplitSpecs(f.stacks)
	if f.pickStacks {
		picked, err := pickStacks(stacksDir)
		if err != nil {
			return settings.Options{}, "", err
		}
		specs = append(specs, picked...)
	}
	if len(specs) > 0 {
		if opts.StackPaths, err = layer.ResolveStacks(stacksDir, specs); err != nil {
			return settings.Options{}, "", errors.NewUserError(err, "Available stacks are listed by: toolkit settings generate --pick-stacks")
		}
	}

	logging.FromContext(ctx).Debug("resolved layers", "root", root, "base", opts.BasePath, "stacks", opts.StackPaths, "project", opts.ProjectPath)
	return opts, root, nil
}

func pickStacks(stacksDir string) ([]string, error) {
	available, err := layer.AvailableStacks(stacksDir)
	if err != nil {
		return nil, errors.NewUserError(err, "check --stacks-dir")
	}
	picked, err := prompt.PickStacks(available, func(name string) string {
		resolved, err := layer.ResolveStacks(stacksDir, []string{name})
		if err != nil || len(resolved) == 0 {
			return ""
		}
		data, err := fileutil.ReadFileWithLimit(resolved[0])
		if err != nil {
			return err.Error()
		}
		if len(data) > previewBytes {
			data = data[:previewBytes]
		}
		return string(data)
	})
	if errors.Is(err, prompt.ErrSelectionCancelled) {
		return nil, errors.NewUserError(err, "")
	}
	return picked, err
}

// generate composes settings and reports findings to stderr. Security
// errors become a user error; nothing should be written after one.
func generate(cmd *cobra.Command, f layerFlags) (*settings.Result, string, error) {
	opts, root, err := resolveLayers(cmd.Context(), f)
	if err != nil {
		return nil, "", err
	}
	res, err := settings.Generate(cmd.Context(), opts)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, "", errors.NewUserError(err, "check the layer paths, or run from the project root")
		}
		return nil, "", errors.NewUserError(err, "")
	}

	v := res.Validation()
	if !res.Valid() || (v.HasWarnings() && !quiet) {
		rep := validator.NewReporter(cmd.ErrOrStderr(), validator.FormatText)
		if err := rep.Report(v); err != nil {
			return nil, "", err
		}
	}
	if !res.Valid() {
		return nil, "", errors.NewUserError(v.Err(), "fix the layers above; no output was written")
	}
	return res, root, nil
}

// outputTarget pairs a generated tree with its destination; an empty
// path means stdout.
type outputTarget struct {
	tree map[string]any
	path string
}

func runSettingsGenerate(cmd *cobra.Command, f layerFlags, out outputFlags) error {
	res, _, err := generate(cmd, f)
	if err != nil {
		return err
	}

	if out.check {
		return checkTargets(cmd, res, out)
	}

	targets := []outputTarget{{res.Settings, out.output}}
	if res.MCP != nil {
		targets = append(targets, outputTarget{res.MCP, out.mcpOutput})
	}

	for _, t := range targets {
		data, err := settings.Render(t.tree)
		if err != nil {
			return err
		}
		if t.path == "" {
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return errors.Wrap(err, "writing output")
			}
			continue
		}
		if err := settings.Write(t.path, data); err != nil {
			return errors.NewSystemError(err, "check that the output directory is writable")
		}
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "Generated: %s\n", t.path)
		}
	}
	return nil
}

// checkTargets implements --check: it writes nothing and fails when a
// file would change.
func checkTargets(cmd *cobra.Command, res *settings.Result, out outputFlags) error {
	if out.output == "" {
		return errors.NewUserError(errors.New("--check requires --output"), "")
	}
	if res.MCP != nil && out.mcpOutput == "" {
		return errors.NewUserError(errors.New("--check with --mcp-base requires --mcp-output"), "")
	}

	stale, err := diffTarget(io.Discard, out.output, res.Settings)
	if err != nil {
		return err
	}
	if res.MCP != nil {
		mcpStale, err := diffTarget(io.Discard, out.mcpOutput, res.MCP)
		if err != nil {
			return err
		}
		stale = append(stale, mcpStale...)
	}
	if len(stale) > 0 {
		for _, p := range stale {
			fmt.Fprintf(cmd.ErrOrStderr(), "Out of date: %s\n", p)
		}
		return errors.NewUserError(errors.Wrapf(errors.ErrOutOfDate, "%d file(s)", len(stale)),
			"Run the same command without --check, or see: toolkit settings diff")
	}
	if !quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), "Up to date")
	}
	return nil
}

// diffTarget writes the diff for one file to w and returns the path when
// it would change.
func diffTarget(w io.Writer, path string, v map[string]any) ([]string, error) {
	data, err := settings.Render(v)
	if err != nil {
		return nil, err
	}
	diff, changed, err := settings.Diff(path, data)
	if err != nil {
		return nil, errors.NewSystemError(err, "")
	}
	if !changed {
		return nil, nil
	}
	if _, err := io.WriteString(w, diff); err != nil {
		return nil, errors.Wrap(err, "writing diff")
	}
	return []string{path}, nil
}

func runSettingsValidate(cmd *cobra.Command, f layerFlags, format validator.Format) error {
	opts, _, err := resolveLayers(cmd.Context(), f)
	if err != nil {
		return err
	}
	res, err := settings.Generate(cmd.Context(), opts)
	if err != nil {
		return errors.NewUserError(err, "")
	}

	v := res.Validation()
	if err := validator.NewReporter(cmd.OutOrStdout(), format).Report(v); err != nil {
		return err
	}
	if v.HasErrors() {
		return exitStatus(errors.ExitUser)
	}
	return nil
}

func runSettingsDiff(cmd *cobra.Command, f layerFlags, out outputFlags) error {
	res, root, err := generate(cmd, f)
	if err != nil {
		return err
	}

	settingsPath := out.output
	if settingsPath == "" {
		settingsPath = paths.SettingsPath(root)
	}
	stale, err := diffTarget(cmd.OutOrStdout(), settingsPath, res.Settings)
	if err != nil {
		return err
	}

	if res.MCP != nil {
		mcpPath := out.mcpOutput
		if mcpPath == "" {
			mcpPath = paths.MCPPath(root)
		}
		mcpStale, err := diffTarget(cmd.OutOrStdout(), mcpPath, res.MCP)
		if err != nil {
			return err
		}
		stale = append(stale, mcpStale...)
	}

	if len(stale) > 0 {
		return exitStatus(errors.ExitUser)
	}
	return nil
}

func runSettingsQuery(cmd *cobra.Command, f layerFlags, q queryFlags, expr string) error {
	res, _, err := generate(cmd, f)
	if err != nil {
		return err
	}

	var v any = res.Settings
	if q.mcp {
		if res.MCP == nil {
			return errors.NewUserError(errors.New("--mcp requires --mcp-base"), "")
		}
		v = res.MCP
	}
	if q.redact {
		v = redact.Tree(v)
	}

	results, err := settings.Query(cmd.Context(), v, expr)
	if err != nil {
		return errors.NewUserError(err, "see https://jqlang.org/manual/ for jq syntax")
	}
	w := cmd.OutOrStdout()
	for _, r := range results {
		if s, ok := r.(string); ok && q.raw {
			fmt.Fprintln(w, s)
			continue
		}
		if err := writeJSON(w, r); err != nil {
			return err
		}
	}
	return nil
}
