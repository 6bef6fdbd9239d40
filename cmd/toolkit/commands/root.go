// Package commands implements the CLI commands for toolkit.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/donygeorge/claude-toolkit/cmd"
	"github.com/donygeorge/claude-toolkit/internal/config"
	"github.com/donygeorge/claude-toolkit/internal/errors"
	"github.com/donygeorge/claude-toolkit/internal/logging"
)

// debugEnv raises the log level when set: 1 or true for debug, 2 for trace.
const debugEnv = "TOOLKIT_DEBUG"

var (
	// verbosity holds the count of -v flags.
	verbosity int
	// quiet holds the value of the -q/--quiet flag.
	quiet bool
	// logFormat holds the value of the --log-format flag.
	logFormat string
	// logFile holds the path to the log file.
	logFile string
	// configFile holds the value of the --config flag.
	configFile string

	// cfg is the loaded configuration; configLoadErr records why it failed.
	cfg           *config.Config
	configLoadErr error
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: $XDG_CONFIG_HOME/claude-toolkit/config.yaml)")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("toolkit version {{.Version}}\n")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	cfg, configLoadErr = config.Load(configFile)
}

// currentConfig returns the loaded configuration, or defaults when
// loading has not happened (as in tests).
func currentConfig() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "toolkit",
	Short: "Compose and maintain Claude settings for a project",
	Long: `toolkit builds a project's .claude/settings.json and .mcp.json from
layered sources: a shared base, per-stack overlays, and a project overlay.

Layers are deep-merged in order. Later layers win for scalars, primitive
arrays are unioned, hook entries are matched by their "matcher", and an
explicit null removes a key. The result is checked for dangerous
auto-approve rules and allow/deny conflicts before it is written.

It also generates the shell cache for toolkit.toml, detects project
stacks, analyzes session token usage, and serves the smart-context hook.`,
	Example: `  # Generate settings with two stacks
  toolkit settings generate --stacks python,typescript --output .claude/settings.json

  # Check whether the committed settings are current
  toolkit settings generate --stacks python --output .claude/settings.json --check

  # Check install health
  toolkit doctor

  See Also: toolkit settings, toolkit cache, toolkit doctor`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv(debugEnv); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig reports a broken config file before any command that
// depends on it runs.
func checkConfig(cmd *cobra.Command, _ []string) error {
	switch cmd.Name() {
	case "help", "version", "path", "init", "edit", "gen-doc", "smart-context":
		return nil
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
