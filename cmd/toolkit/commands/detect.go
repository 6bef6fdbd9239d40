package commands

import (
	"github.com/spf13/cobra"

	"github.com/donygeorge/claude-toolkit/internal/detect"
)

var (
	detectProjectDir string
	detectValidate   bool
)

func init() {
	detectCmd.Flags().StringVar(&detectProjectDir, "project-dir", "",
		"directory to inspect (default: enclosing git work tree)")
	detectCmd.Flags().BoolVar(&detectValidate, "validate", false,
		"run the detected lint, test, and format commands and record the results")
	rootCmd.AddCommand(detectCmd)
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect a project's stacks and tooling",
	Long: `Inspect a project and print what the toolkit would configure for it,
as JSON: stacks, source directories and extensions, lint/format/test
commands found on PATH, and the state of the toolkit install.

With --validate, each detected command is run in the project (60s limit
each) and its outcome recorded under "validations".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDetect(cmd, detectProjectDir, detectValidate)
	},
}

func runDetect(cmd *cobra.Command, dir string, validate bool) error {
	// An explicit directory is inspected as given, not widened to its
	// work tree.
	root, err := resolveDir(dir)
	if dir == "" && err == nil {
		root, err = resolveProjectRoot(cmd.Context(), "")
	}
	if err != nil {
		return err
	}
	d := detect.New(root)
	d.ToolkitDir = currentConfig().ToolkitDir

	report, err := d.Run(cmd.Context(), validate)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), report)
}
