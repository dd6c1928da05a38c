package commands

import (
	"github.com/spf13/cobra"

	"github.com/gdlpLG/lbcwatch/pkg/commands/options"
	"github.com/gdlpLG/lbcwatch/pkg/runner/ads"
	"github.com/gdlpLG/lbcwatch/pkg/runner/tags"
	"github.com/gdlpLG/lbcwatch/pkg/timeutil"
)

func addAds(topLevel *cobra.Command) {
	wo := &options.WatchOptions{}
	lo := &options.ListOptions{}

	cmd := &cobra.Command{
		Use:     "ads",
		Aliases: []string{"ls"},
		Short:   "List the ads of a watch.",
		Example: `
lbcwatch ads --watch velo
lbcwatch ads --tag carbone --tag shimano --sort price
lbcwatch ads --all --top 10
lbcwatch ads --since 2d
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			since, err := timeutil.ParseWindow(lo.Since)
			if err != nil {
				return output.HandleError(err)
			}
			e, err := loadEnv(false)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			s := ads.Ads{
				Session:    e.session(nil, nil),
				Printer:    e.printer(),
				Watch:      e.watch(wo),
				Tags:       lo.Tags,
				ManualOnly: lo.ManualOnly,
				Sort:       lo.Sort,
				Since:      since,
				Top:        lo.Top,
				JSON:       output.JSON,
			}
			err = s.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	options.AddWatchArgs(cmd, wo)
	options.AddListArgs(cmd, lo)
	options.AddOutputArg(cmd, output)
	options.AddVerboseArg(cmd, output)
	registerWatchCompletion(cmd)

	topLevel.AddCommand(cmd)
}

func addTags(topLevel *cobra.Command) {
	wo := &options.WatchOptions{}

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Show the most frequent words of a watch, usable as --tag filters.",
		Example: `
lbcwatch tags --watch velo
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(false)
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()
			s := tags.Tags{
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
