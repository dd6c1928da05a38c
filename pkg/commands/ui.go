package commands

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/gdlpLG/lbcwatch/pkg/commands/options"
	"github.com/gdlpLG/lbcwatch/pkg/events"
	"github.com/gdlpLG/lbcwatch/pkg/notify"
	"github.com/gdlpLG/lbcwatch/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	wo := &options.WatchOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based dashboard",
		Example: `
lbcwatch ui
lbcwatch ui --watch velo
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return errors.New("the dashboard needs a terminal")
			}
			// Logs would tear the screen; they go to the log file or nowhere.
			e, err := loadEnv(true)
			if err != nil {
				return err
			}
			defer e.Close()
			e.watchConfig()
			bus := events.NewBus(256)
			var n notify.Notifier = notify.NewBus(bus)
			if !e.cfg.Notify {
				n = notify.Nop{}
			}
			i := ui.UI{
				Session: e.session(bus, n),
				Prefs:   e.prefs,
				Watch:   e.watch(wo),
			}
			if err := i.Do(cmd.Context()); err != nil {
				return err
			}
			return nil
		},
	}

	options.AddWatchArgs(cmd, wo)
	registerWatchCompletion(cmd)

	topLevel.AddCommand(cmd)
}
