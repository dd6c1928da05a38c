package commands

import (
	"github.com/spf13/cobra"

	"github.com/gdlpLG/lbcwatch/pkg/commands/options"
	"github.com/gdlpLG/lbcwatch/pkg/runner/export"
	"github.com/gdlpLG/lbcwatch/pkg/runner/history"
	"github.com/gdlpLG/lbcwatch/pkg/runner/updates"
)

func addUpdates(topLevel *cobra.Command) {
	wo := &options.WatchOptions{}

	cmd := &cobra.Command{
		Use:   "updates",
		Short: "Count the ads that arrived since a watch was last listed.",
		Example: `
lbcwatch updates
lbcwatch updates --watch velo
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(false)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			s := updates.Updates{
				Counter: e.client,
				Prefs:   e.prefs,
				Printer: e.printer(),
				Watch:   wo.Watch,
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

func addHistory(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show the price history of an ad.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(false)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			s := history.History{
				Session: e.session(nil, nil),
				Printer: e.printer(),
				ID:      args[0],
				JSON:    output.JSON,
			}
			err = s.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addExport(topLevel *cobra.Command) {
	wo := &options.WatchOptions{}
	file := ""
	includeAI := true

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the top 10 deals of a watch as a plain text report.",
		Example: `
lbcwatch export --watch velo
lbcwatch export --watch velo --file ~/deals.txt
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(false)
			if err != nil {
				return err
			}
			defer e.Close()
			s := export.Export{
				Session:   e.session(nil, nil),
				Printer:   e.printer(),
				Watch:     e.watch(wo),
				File:      file,
				IncludeAI: includeAI,
			}
			return s.Do(cmd.Context())
		},
	}

	options.AddWatchArgs(cmd, wo)
	cmd.Flags().StringVarP(&file, "file", "o", "", "Write the report to this file.")
	cmd.Flags().BoolVar(&includeAI, "ai", true, "Include AI summaries.")
	registerWatchCompletion(cmd)

	topLevel.AddCommand(cmd)
}
