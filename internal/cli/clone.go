package cli

import (
	"github.com/spf13/cobra"

	"github.com/stettberger/git-external/internal/engine"
	"github.com/stettberger/git-external/internal/external"
)

var (
	cloneNoRecurse bool
	cloneCloneArgs []string
)

var cloneCmd = &cobra.Command{
	Use:   "clone [name]",
	Short: "Clone missing externals without touching present ones",
	Long: `Like update, but restricted to the clone action: missing externals are
cloned or symlinked, present ones are only switched to their configured
branch when necessary.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		req := &engine.Request{
			Root:      a.root,
			Actions:   external.ActionSet(external.ActionClone),
			Recurse:   !cloneNoRecurse,
			Automatic: true,
			CloneArgs: cloneCloneArgs,
		}
		if len(args) == 1 {
			req.Name = args[0]
		}
		return a.engine.Run(req)
	},
}

func init() {
	cloneCmd.Flags().BoolVar(&cloneNoRecurse, "no-recurse", false, "Do not descend into nested externals")
	cloneCmd.Flags().StringArrayVar(&cloneCloneArgs, "clone-arg", nil, "Extra argument for git clone (repeatable)")
}
