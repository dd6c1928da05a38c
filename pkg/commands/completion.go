package commands

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gdlpLG/lbcwatch/pkg/config"
	"github.com/gdlpLG/lbcwatch/pkg/prefs"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(lbcwatch completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(lbcwatch completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func registerWatchCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("watch", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return watchCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

// watchCompletions offers the watches seen locally, so completion works
// without the server.
func watchCompletions(toComplete string) []string {
	cfg, err := config.Load(vp)
	if err != nil {
		return nil
	}
	var ws []string
	for _, w := range prefs.Open(cfg.PrefsPath).Watches() {
		if strings.HasPrefix(w, toComplete) {
			ws = append(ws, strconv.Quote(w))
		}
	}
	return ws
}
