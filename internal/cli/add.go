package cli

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stettberger/git-external/internal/config"
	"github.com/stettberger/git-external/internal/external"
	"github.com/stettberger/git-external/internal/ignore"
	"github.com/stettberger/git-external/internal/source"
)

var (
	addVCS    string
	addBranch string
)

var addCmd = &cobra.Command{
	Use:   "add <url> <path>",
	Short: "Declare a new external in the persisted store",
	Long: `Append a new declaration to .gitexternals and add the path to the
ignore list. The declaration becomes input to the next update run; nothing
is cloned by add itself.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		url, path := args[0], args[1]

		if err := a.fs.ValidateRelPath(path); err != nil {
			return fmt.Errorf("%w: %v", external.ErrConfig, err)
		}

		def := external.New(path, path)
		def.URL = url
		if err := def.SetAttr(external.AttrVCS, addVCS); err != nil {
			return err
		}
		if addBranch != "" {
			def.Branch = addBranch
		}

		storePath := filepath.Join(a.root, config.StoreFileName)
		if err := source.AppendDefinition(a.fs, storePath, def); err != nil {
			return err
		}

		ignorePath := filepath.Join(a.root, config.IgnoreFileName)
		if err := ignore.EnsureEntry(a.fs, ignorePath, def.Path); err != nil {
			return err
		}

		color.Green("Added external %s (%s)", def.Path, def.URL)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addVCS, "vcs", "git", "Version control system (git, svn, git-svn, none)")
	addCmd.Flags().StringVar(&addBranch, "branch", "", "Branch to track (default master)")
}
