// Package cli wires the git-external commands.
package cli

import (
	"github.com/spf13/cobra"
)

// rootCmd is the root command for git-external.
var rootCmd = &cobra.Command{
	Use:     "git-external",
	Version: "dev",
	Short:   "Keep externally versioned directories inside a parent repository in sync",
	Long: `git-external lets a repository declare externals: subordinate
version-controlled directories fetched from independent sources. It keeps
them synchronized without coupling the parent's commit history to theirs.

Externals are declared in .gitexternals, merged with externals embedded in
the repository's VCS metadata, and rewritten by the global override rules
before anything is cloned or updated.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// SetVersion overrides the version reported by --version.
func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(cloneCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(showCmd)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
