package cli

import (
	"github.com/spf13/cobra"

	"github.com/stettberger/git-external/internal/engine"
)

var (
	updateNoRecurse bool
	updateCloneArgs []string
	updatePullArgs  []string
)

var updateCmd = &cobra.Command{
	Use:   "update [name]",
	Short: "Clone missing externals and bring present ones up to date",
	Long: `Walk the merged external definitions in order, cloning what is missing
and updating what is present. With a name, only that external is processed
(its auto setting is overridden).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		req := &engine.Request{
			Root:      a.root,
			Recurse:   !updateNoRecurse,
			Automatic: true,
			CloneArgs: updateCloneArgs,
			PullArgs:  updatePullArgs,
		}
		if len(args) == 1 {
			req.Name = args[0]
		}
		return a.engine.Run(req)
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateNoRecurse, "no-recurse", false, "Do not descend into nested externals")
	updateCmd.Flags().StringArrayVar(&updateCloneArgs, "clone-arg", nil, "Extra argument for git clone (repeatable)")
	updateCmd.Flags().StringArrayVar(&updatePullArgs, "pull-arg", nil, "Extra argument for git pull (repeatable)")
}
