// Package options defines shared flag helpers for CLI commands.
package options

import (
	"strings"

	"github.com/spf13/cobra"
)

// WatchOptions selects the watch a command works on.
type WatchOptions struct {
	Watch string
	All   bool
}

// AddWatchArgs wires the watch flags on the provided command.
func AddWatchArgs(cmd *cobra.Command, o *WatchOptions) {
	cmd.Flags().StringVarP(&o.Watch, "watch", "w", "",
		"Specify the watch. Defaults to the last one opened.")
	cmd.Flags().BoolVar(&o.All, "all", false,
		"Use the ads of every watch.")
}

// Resolve returns the watch to open, falling back to last.
func (o *WatchOptions) Resolve(last string) string {
	if o.All {
		return ""
	}
	if w := strings.TrimSpace(o.Watch); w != "" {
		return w
	}
	return last
}

// ListOptions narrows and orders an ad listing.
type ListOptions struct {
	Tags       []string
	ManualOnly bool
	Sort       string
	Since      string
	Top        int
}

func AddListArgs(cmd *cobra.Command, o *ListOptions) {
	cmd.Flags().StringSliceVarP(&o.Tags, "tag", "t", nil,
		"Only show ads containing every tag.")
	cmd.Flags().BoolVarP(&o.ManualOnly, "manual", "m", false,
		"Only show manually searched ads.")
	cmd.Flags().StringVarP(&o.Sort, "sort", "s", "",
		"Sort by one of price, score or date.")
	cmd.Flags().StringVar(&o.Since, "since", "",
		"Only show ads published within this window, e.g. 12h, 2d or 1w.")
	cmd.Flags().IntVar(&o.Top, "top", 0,
		"Only show the n best scored ads.")
}
