package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/donygeorge/claude-toolkit/internal/configcache"
	"github.com/donygeorge/claude-toolkit/internal/errors"
	"github.com/donygeorge/claude-toolkit/internal/paths"
	"github.com/donygeorge/claude-toolkit/internal/redact"
	"github.com/donygeorge/claude-toolkit/internal/validator"
)

// cacheFlags locate toolkit.toml and its generated cache.
type cacheFlags struct {
	projectDir string
	toml       string
	output     string
	file       string
	noRedact   bool
}

var cacheOpts cacheFlags

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheOpts.projectDir, "project-dir", "",
		"project directory (default: enclosing git work tree)")
	for _, c := range []*cobra.Command{cacheGenerateCmd, cacheValidateCmd} {
		c.Flags().StringVar(&cacheOpts.toml, "toml", "",
			"toolkit.toml to read (default: .claude/toolkit.toml)")
	}
	cacheGenerateCmd.Flags().StringVarP(&cacheOpts.output, "output", "o", "",
		"cache file to write (default: stdout)")
	cacheShowCmd.Flags().StringVar(&cacheOpts.file, "file", "",
		"cache file to read (default: .claude/toolkit-cache.env)")
	cacheShowCmd.Flags().BoolVar(&cacheOpts.noRedact, "no-redact", false,
		"print secret-looking values unmasked")

	cacheCmd.AddCommand(cacheGenerateCmd)
	cacheCmd.AddCommand(cacheValidateCmd)
	cacheCmd.AddCommand(cacheShowCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Generate the shell cache for toolkit.toml",
	Long: `Flatten toolkit.toml into TOOLKIT_* shell variables so hooks can source
one file instead of parsing TOML.

Keys are uppercased and joined with underscores under TOOLKIT; lists are
encoded as compact JSON. Values are single-quoted for bash.`,
}

var cacheGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Validate toolkit.toml and render the cache",
	Example: `  # Write the cache next to toolkit.toml
  toolkit cache generate --output .claude/toolkit-cache.env`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCacheGenerate(cmd, cacheOpts)
	},
}

var cacheValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check toolkit.toml against the schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCacheValidate(cmd, cacheOpts)
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the variables in a generated cache",
	Long: `Print each variable in the cache as KEY=value. Values whose names or
contents look like secrets are masked unless --no-redact is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCacheShow(cmd, cacheOpts)
	},
}

func (f cacheFlags) tomlPath(cmd *cobra.Command) (string, error) {
	if f.toml != "" {
		return f.toml, nil
	}
	root, err := resolveProjectRoot(cmd.Context(), f.projectDir)
	if err != nil {
		return "", err
	}
	return paths.ToolkitTOMLPath(root), nil
}

func runCacheGenerate(cmd *cobra.Command, f cacheFlags) error {
	path, err := f.tomlPath(cmd)
	if err != nil {
		return err
	}
	content, err := configcache.Generate(path)
	if err != nil {
		return cacheError(cmd.ErrOrStderr(), path, err)
	}

	if f.output == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), content)
		return errors.Wrap(err, "writing output")
	}
	if err := configcache.WriteCache(f.output, content); err != nil {
		return errors.NewSystemError(err, "check that the output directory is writable")
	}
	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Generated: %s\n", f.output)
	}
	return nil
}

func runCacheValidate(cmd *cobra.Command, f cacheFlags) error {
	path, err := f.tomlPath(cmd)
	if err != nil {
		return err
	}
	if _, err := configcache.Check(path); err != nil {
		return cacheError(cmd.ErrOrStderr(), path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", path)
	return nil
}

// cacheError reports schema problems one per line and converts err to a
// user error.
func cacheError(w io.Writer, path string, err error) error {
	var schemaErr *configcache.SchemaError
	if errors.As(err, &schemaErr) {
		res := validator.FromMessages(path, schemaErr.Problems, nil)
		if repErr := validator.NewReporter(w, validator.FormatText).Report(res); repErr != nil {
			return repErr
		}
		return errors.NewUserError(res.Err(), "see .claude/toolkit/templates/toolkit.toml.example for the expected keys")
	}
	if errors.Is(err, errors.ErrNotFound) {
		return errors.NewUserError(err, "cp .claude/toolkit/templates/toolkit.toml.example .claude/toolkit.toml")
	}
	return errors.NewUserError(err, "")
}

func runCacheShow(cmd *cobra.Command, f cacheFlags) error {
	path := f.file
	if path == "" {
		root, err := resolveProjectRoot(cmd.Context(), f.projectDir)
		if err != nil {
			return err
		}
		path = paths.CachePath(root)
	}

	entries, err := configcache.Read(path)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return errors.NewUserError(err, "Run: toolkit cache generate --output "+path)
		}
		return errors.NewUserError(err, "")
	}

	w := cmd.OutOrStdout()
	for _, e := range entries {
		value := e.Value
		if !f.noRedact {
			value = redact.Value(e.Key, value)
		}
		fmt.Fprintf(w, "%s=%s\n", e.Key, value)
	}
	return nil
}
