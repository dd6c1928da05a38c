package commands

import (
	"github.com/spf13/cobra"

	"github.com/gdlpLG/lbcwatch/pkg/commands/options"
	"github.com/gdlpLG/lbcwatch/pkg/runner/refresh"
	"github.com/gdlpLG/lbcwatch/pkg/runner/watches"
)

func addWatches(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "watches [name]",
		Aliases: []string{"watch"},
		Short:   "List the watches, or show one of them.",
		Example: `
lbcwatch watches
lbcwatch watch velo
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(false)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			s := watches.Watches{
				Session: e.session(nil, nil),
				Printer: e.printer(),
				JSON:    output.JSON,
			}
			if len(args) == 1 {
				s.Name = args[0]
			}
			err = s.Do(cmd.Context())
			return output.HandleError(err)
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return watchCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addRefresh(topLevel *cobra.Command) {
	wo := &options.WatchOptions{}

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Re-scan a watch on the server and report gems and price drops.",
		Example: `
lbcwatch refresh --watch velo
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(false)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			s := refresh.Refresh{
				Session: e.session(nil, nil),
				Printer: e.printer(),
				Watch:   e.watch(wo),
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
