package commands

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"github.com/gdlpLG/lbcwatch/pkg/commands/options"
	"github.com/gdlpLG/lbcwatch/pkg/config"
)

var (
	output = &options.OutputOptions{}
	vp     *viper.Viper
)

func New() *cobra.Command {
	vp = config.New()
	noColor := false

	cmd := &cobra.Command{
		Use:   "lbcwatch",
		Short: base.Wrap80("Follow your classified ad watches and their AI analysis from the command line."),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("server", "", "Backend base URL, default http://localhost:5000.")
	flags.String("log-level", "", "One of debug, info, warn or error.")
	flags.String("log-file", "", "Append logs to this file instead of stderr.")
	flags.BoolVar(&noColor, "no-color", false, "Disable colors.")
	_ = vp.BindPFlag(config.KeyServer, flags.Lookup("server"))
	_ = vp.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = vp.BindPFlag(config.KeyLogFile, flags.Lookup("log-file"))

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addAds(topLevel)
	addTags(topLevel)
	addWatches(topLevel)
	addRefresh(topLevel)
	addHide(topLevel)
	addMove(topLevel)
	addAnalyze(topLevel)
	addCompare(topLevel)
	addClearAnalysis(topLevel)
	addStatus(topLevel)
	addStop(topLevel)
	addUpdates(topLevel)
	addHistory(topLevel)
	addExport(topLevel)
	addInfo(topLevel)
	addMCP(topLevel)
	addCompletions(topLevel)
	addVersion(topLevel)
}
