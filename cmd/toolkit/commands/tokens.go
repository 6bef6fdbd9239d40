package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donygeorge/claude-toolkit/internal/errors"
	"github.com/donygeorge/claude-toolkit/internal/tokens"
)

// tokensFlags select transcripts and override pricing.
type tokensFlags struct {
	input        string
	warnings     bool
	inputPrice   float64
	outputPrice  float64
	cacheWrite   float64
	cacheRead    float64
	changedPrice map[string]bool
}

var tokensOpts tokensFlags

func init() {
	f := tokensCmd.Flags()
	f.StringVarP(&tokensOpts.input, "input", "i", "",
		"transcript file, or a session directory of *.jsonl files")
	f.BoolVar(&tokensOpts.warnings, "warnings", false,
		"print malformed-line and read warnings to stderr")
	f.Float64Var(&tokensOpts.inputPrice, "pricing-input", 0,
		"USD per million input tokens (default from config)")
	f.Float64Var(&tokensOpts.outputPrice, "pricing-output", 0,
		"USD per million output tokens (default from config)")
	f.Float64Var(&tokensOpts.cacheWrite, "pricing-cache-write", 0,
		"USD per million cache-write tokens (default from config)")
	f.Float64Var(&tokensOpts.cacheRead, "pricing-cache-read", 0,
		"USD per million cache-read tokens (default from config)")
	_ = tokensCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(tokensCmd)
}

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Summarize token usage and cost for a session",
	Long: `Read Claude session transcripts and report token usage per agent with
an estimated cost.

A directory is scanned for *.jsonl transcripts and for subagent
transcripts in */subagents/*.jsonl. Only assistant messages with usage
data are counted.`,
	Example: `  # Analyze one session
  toolkit tokens -i ~/.claude/projects/my-project/abc123.jsonl

  # Analyze a project's sessions with custom pricing
  toolkit tokens -i ~/.claude/projects/my-project --pricing-input 3 --pricing-output 15`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f := tokensOpts
		f.changedPrice = map[string]bool{}
		for _, name := range []string{"pricing-input", "pricing-output", "pricing-cache-write", "pricing-cache-read"} {
			f.changedPrice[name] = cmd.Flags().Changed(name)
		}
		return runTokens(cmd, f)
	},
}

func (f tokensFlags) pricing() tokens.Pricing {
	c := currentConfig().Pricing
	p := tokens.Pricing{Input: c.Input, Output: c.Output, CacheWrite: c.CacheWrite, CacheRead: c.CacheRead}
	if f.changedPrice["pricing-input"] {
		p.Input = f.inputPrice
	}
	if f.changedPrice["pricing-output"] {
		p.Output = f.outputPrice
	}
	if f.changedPrice["pricing-cache-write"] {
		p.CacheWrite = f.cacheWrite
	}
	if f.changedPrice["pricing-cache-read"] {
		p.CacheRead = f.cacheRead
	}
	return p
}

func runTokens(cmd *cobra.Command, f tokensFlags) error {
	pricing := f.pricing()
	if err := pricing.Validate(); err != nil {
		return errors.NewUserError(err, "")
	}

	files, err := tokens.CollectFiles(f.input)
	if err != nil {
		return errors.NewUserError(err, "")
	}
	if len(files) == 0 {
		return errors.NewUserError(errors.Newf("no .jsonl files found in %s", f.input), "")
	}

	summary := tokens.Analyze(files)
	if f.warnings {
		for _, w := range summary.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
	}
	return tokens.Render(cmd.OutOrStdout(), summary, pricing)
}
