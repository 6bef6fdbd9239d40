package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/donygeorge/claude-toolkit/internal/doctor"
	"github.com/donygeorge/claude-toolkit/internal/errors"
)

var (
	doctorJSON       bool
	doctorVerbose    bool
	doctorProjectDir string
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "all", false,
		"show every check, including passed ones")
	doctorCmd.Flags().StringVar(&doctorProjectDir, "project-dir", "",
		"project directory (default: enclosing git work tree)")
	doctorCmd.MarkFlagsMutuallyExclusive("json", "all")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose toolkit install issues",
	Long: `Run health checks on a project's toolkit install: the toolkit subtree,
toolkit.toml and its cache, generated settings, installed skills and
agents, and symlinks under .claude.

Output modes:
  (default)   Show errors and warnings
  --all       Show all checks including passed ones
  --json      Machine-readable JSON output
  -q          No output, exit code only

Exit codes:
  0 - No errors or warnings
  1 - Warnings present, no errors
  2 - Errors present`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		root, err := resolveProjectRoot(cmd.Context(), doctorProjectDir)
		if err != nil {
			return err
		}
		return runDoctor(cmd, doctor.Project{
			FS:         afero.NewOsFs(),
			Root:       root,
			ToolkitDir: currentConfig().ToolkitDir,
		})
	},
}

func runDoctor(cmd *cobra.Command, p doctor.Project) error {
	report := doctor.NewRunner(doctor.DefaultChecks(p)...).Run()

	if err := outputReport(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	switch report.Worst() {
	case doctor.SeverityError:
		return exitStatus(errors.ExitSystem)
	case doctor.SeverityWarning:
		return exitStatus(errors.ExitUser)
	}
	return nil
}

func outputReport(w io.Writer, report *doctor.Report) error {
	switch {
	case quiet:
		return nil
	case doctorJSON:
		return writeJSON(w, report)
	}
	outputDoctorText(w, report, doctorVerbose)
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.Report, showAll bool) {
	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return color.CyanString("ℹ")
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}
