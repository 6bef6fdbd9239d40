package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/donygeorge/claude-toolkit/internal/config"
	"github.com/donygeorge/claude-toolkit/internal/editor"
	"github.com/donygeorge/claude-toolkit/internal/errors"
	"github.com/donygeorge/claude-toolkit/internal/paths"
	"github.com/donygeorge/claude-toolkit/pkg/fileutil"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false,
		"overwrite an existing config file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage toolkit configuration",
	Long: `Manage the toolkit's own configuration, stored in
$XDG_CONFIG_HOME/claude-toolkit/config.yaml.

Every key can be overridden by an environment variable prefixed with
CLAUDE_TOOLKIT_, with dots replaced by underscores:

  CLAUDE_TOOLKIT_MERGE_KEY_FIELD=matcher
  CLAUDE_TOOLKIT_PRICING_INPUT=3

Without a subcommand, shows the effective configuration.`,
	Example: `  # Show the effective configuration
  toolkit config

  # Write a config file with the defaults
  toolkit config init

See Also: toolkit doctor`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default values",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $EDITOR",
	Long: `Open the config file in $EDITOR (or $VISUAL). A file with the default
values is written first if none exists.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runConfigEdit(cmd, editor.StdIO())
	},
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	data, err := yaml.Marshal(currentConfig())
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	_, err = cmd.OutOrStdout().Write(data)
	return errors.Wrap(err, "writing output")
}

// defaultConfigPath is where init writes and where Load looks first.
func defaultConfigPath() string {
	return filepath.Join(paths.ConfigDir(), "config.yaml")
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	if used := config.FileUsed(); used != "" {
		fmt.Fprintln(w, used)
		return nil
	}
	fmt.Fprintf(w, "%s (not created; using defaults)\n", defaultConfigPath())
	return nil
}

// editablePath is the file config init and edit act on.
func editablePath() string {
	if configFile != "" {
		return configFile
	}
	if used := config.FileUsed(); used != "" {
		return used
	}
	return defaultConfigPath()
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := editablePath()

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return errors.NewUserError(errors.Newf("config file already exists: %s", path), "use --force to overwrite it")
	}
	if err := fileutil.WriteYAML(path, config.Default(), fileutil.PermPublic); err != nil {
		return errors.NewSystemError(err, "check that the config directory is writable")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigEdit(cmd *cobra.Command, stdio editor.IO) error {
	path := editablePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := fileutil.WriteYAML(path, config.Default(), fileutil.PermPublic); err != nil {
			return errors.NewSystemError(err, "check that the config directory is writable")
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Location: %s\n", path)
	if err := editor.Open(cmd.Context(), path, stdio); err != nil {
		return errors.NewUserError(err, "set $EDITOR to your preferred editor")
	}
	return nil
}
