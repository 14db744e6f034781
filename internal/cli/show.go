package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stettberger/git-external/internal/external"
)

var keyColor = color.New(color.FgCyan, color.Bold)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the merged external configuration",
	Long: `Print the fully resolved configuration for this repository: all sources
merged, templates substituted, and override rules applied. This is exactly
the set an update run would act on.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		set, err := a.loader.Load(a.root)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, def := range set.Definitions() {
			fmt.Fprintln(out, keyColor.Sprintf("[%s]", def.Key))
			for _, name := range external.AttrNames() {
				value, _ := def.Attr(name)
				if value == "" {
					continue
				}
				fmt.Fprintf(out, "  %s = %s\n", name, value)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}
