package commands

import (
	"github.com/spf13/cobra"

	"github.com/gdlpLG/lbcwatch/pkg/commands/options"
	"github.com/gdlpLG/lbcwatch/pkg/runner/bulk"
)

func addHide(topLevel *cobra.Command) {
	wo := &options.WatchOptions{}

	cmd := &cobra.Command{
		Use:   "hide <id>...",
		Short: "Hide ads so the server stops showing them.",
		Example: `
lbcwatch hide 2741 --watch velo
lbcwatch hide 2741 2742 2750
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(false)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			s := bulk.Hide{
				Session: e.session(nil, nil),
				Printer: e.printer(),
				Watch:   e.watch(wo),
				IDs:     args,
				JSON:    output.JSON,
			}
			err = s.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddWatchArgs(cmd, wo)
	options.AddOutputArg(cmd, output)
	registerWatchCompletion(cmd)

	topLevel.AddCommand(cmd)
}

func addMove(topLevel *cobra.Command) {
	wo := &options.WatchOptions{}
	target := ""

	cmd := &cobra.Command{
		Use:   "move <id>... --to <watch>",
		Short: "Move ads to another watch.",
		Example: `
lbcwatch move 2741 2742 --watch velo --to "velo route"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(false)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			s := bulk.Move{
				Session: e.session(nil, nil),
				Printer: e.printer(),
				Watch:   e.watch(wo),
				IDs:     args,
				Target:  target,
				JSON:    output.JSON,
			}
			err = s.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddWatchArgs(cmd, wo)
	options.AddOutputArg(cmd, output)
	cmd.Flags().StringVar(&target, "to", "", "Target watch.")
	_ = cmd.MarkFlagRequired("to")
	registerWatchCompletion(cmd)
	_ = cmd.RegisterFlagCompletionFunc("to", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return watchCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
