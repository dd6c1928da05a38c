package commands

import (
	"github.com/spf13/cobra"

	"github.com/gdlpLG/lbcwatch/pkg/commands/options"
	"github.com/gdlpLG/lbcwatch/pkg/runner/analyze"
	"github.com/gdlpLG/lbcwatch/pkg/runner/status"
)

func addAnalyze(topLevel *cobra.Command) {
	wo := &options.WatchOptions{}
	fo := &options.FollowOptions{}
	prompt := ""

	cmd := &cobra.Command{
		Use:   "analyze [id...]",
		Short: "Start the AI analysis of a watch, or of some ads with a custom prompt.",
		Example: `
lbcwatch analyze --watch velo --follow
lbcwatch analyze 2741 2742 --prompt "Which one is the best deal for a beginner?"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(fo.Follow)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			s := analyze.Analyze{
				Session: e.session(nil, nil),
				Printer: e.printer(),
				Watch:   e.watch(wo),
				IDs:     args,
				Prompt:  prompt,
				Follow:  fo.Follow,
			}
			return s.Do(cmd.Context())
		},
	}

	options.AddWatchArgs(cmd, wo)
	options.AddFollowArg(cmd, fo)
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Custom prompt, required when ids are given.")
	registerWatchCompletion(cmd)

	topLevel.AddCommand(cmd)
}

func addStatus(topLevel *cobra.Command) {
	fo := &options.FollowOptions{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the AI analysis job.",
		Example: `
lbcwatch status
lbcwatch status --follow
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(fo.Follow)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			s := status.Status{
				Session: e.session(nil, nil),
				Printer: e.printer(),
				Follow:  fo.Follow,
				JSON:    output.JSON,
			}
			err = s.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddFollowArg(cmd, fo)
	options.AddOutputArg(cmd, output)
	topLevel.AddCommand(cmd)
}

func addStop(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Ask the server to stop the AI analysis job.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(false)
			if err != nil {
				return err
			}
			defer e.Close()
			s := status.Stop{
				Session: e.session(nil, nil),
				Printer: e.printer(),
			}
			return s.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}

func addCompare(topLevel *cobra.Command) {
	wo := &options.WatchOptions{}
	noAI := false

	cmd := &cobra.Command{
		Use:   "compare <id> <id>...",
		Short: "Compare ads side by side and ask the AI which one is the better deal.",
		Example: `
lbcwatch compare 2741 2742 --watch velo
lbcwatch compare 2741 2742 2750 --no-ai
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(false)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			s := analyze.Compare{
				Session: e.session(nil, nil),
				Printer: e.printer(),
				Watch:   e.watch(wo),
				IDs:     args,
				NoAI:    noAI,
				JSON:    output.JSON,
			}
			err = s.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddWatchArgs(cmd, wo)
	options.AddOutputArg(cmd, output)
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "Only print the table, skip the AI verdict.")
	registerWatchCompletion(cmd)

	topLevel.AddCommand(cmd)
}

func addClearAnalysis(topLevel *cobra.Command) {
	wo := &options.WatchOptions{}
	all := false

	cmd := &cobra.Command{
		Use:   "clear-analysis [id...]",
		Short: "Remove AI scores and summaries so ads can be analyzed again.",
		Example: `
lbcwatch clear-analysis 2741 2742 --watch velo
lbcwatch clear-analysis --all --watch velo
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(false)
			if err != nil {
				return err
			}
			defer e.Close()
			s := analyze.ClearAnalyses{
				Session: e.session(nil, nil),
				Printer: e.printer(),
				Watch:   e.watch(wo),
				IDs:     args,
				All:     all,
			}
			return s.Do(cmd.Context())
		},
	}

	options.AddWatchArgs(cmd, wo)
	cmd.Flags().BoolVar(&all, "all", false, "Clear every analysis of the watch.")
	registerWatchCompletion(cmd)

	topLevel.AddCommand(cmd)
}
