package commands

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/donygeorge/claude-toolkit/internal/smartcontext"
)

var (
	hookContextDir    string
	hookAlwaysInclude []string
)

func init() {
	smartContextCmd.Flags().StringVar(&hookContextDir, "context-dir", "",
		"context directory relative to the prompt's cwd (default from config)")
	smartContextCmd.Flags().StringSliceVar(&hookAlwaysInclude, "always-include", nil,
		"context files loaded for every prompt")
	hookCmd.AddCommand(smartContextCmd)
	rootCmd.AddCommand(hookCmd)
}

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run Claude hook handlers",
}

var smartContextCmd = &cobra.Command{
	Use:   "smart-context",
	Short: "UserPromptSubmit hook that injects matching domain context",
	Long: `Read the hook payload ({"prompt": ..., "cwd": ...}) from stdin and print
the domain context files whose keywords appear in the prompt.

Context files end in -domain.md and declare keywords in a header:

  <!-- keywords: billing, invoice -->

Bad input produces no output and exit 0, so the hook never blocks a
prompt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSmartContext(cmd, afero.NewOsFs())
	},
}

func runSmartContext(cmd *cobra.Command, fs afero.Fs) error {
	c := currentConfig().SmartContext
	opts := smartcontext.Options{
		ContextDir:    c.ContextDir,
		Suffix:        c.Suffix,
		MaxSize:       c.MaxSize,
		AlwaysInclude: hookAlwaysInclude,
	}
	if hookContextDir != "" {
		opts.ContextDir = hookContextDir
	}
	return smartcontext.Run(fs, cmd.InOrStdin(), cmd.OutOrStdout(), opts)
}
