package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/donygeorge/claude-toolkit/internal/errors"
	"github.com/donygeorge/claude-toolkit/internal/paths"
)

var genDocDir string

func init() {
	genDocCmd.Flags().StringVarP(&genDocDir, "dir", "d", "", "output directory for the Markdown pages")
	_ = genDocCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(genDocCmd)
}

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate Markdown reference pages for every command",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runGenDoc(cmd, genDocDir)
	},
}

func runGenDoc(cmd *cobra.Command, dir string) error {
	if dir == "" {
		return errors.NewUserError(errors.New("output directory is required"), "pass --dir")
	}
	if err := paths.EnsureDir(dir, paths.DefaultDirPerm); err != nil {
		return errors.NewSystemError(err, "")
	}
	if err := doc.GenMarkdownTreeCustom(rootCmd, dir, filePrepender, linkHandler); err != nil {
		return errors.Wrap(err, "generating markdown")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Documentation generated in %s\n", dir)
	return nil
}

// filePrepender writes front matter titled after the command path, so
// toolkit_settings_generate.md becomes "toolkit settings generate".
func filePrepender(filename string) string {
	title := strings.ReplaceAll(strings.TrimSuffix(filepath.Base(filename), ".md"), "_", " ")
	return "---\ntitle: \"" + title + "\"\ndescription: \"Reference for " + title + " command\"\n---\n"
}

func linkHandler(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".md"
}
