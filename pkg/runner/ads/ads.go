// Package ads provides the CLI runner listing the ads of a watch.
package ads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
	"github.com/gdlpLG/lbcwatch/pkg/adstore"
	"github.com/gdlpLG/lbcwatch/pkg/printers"
	"github.com/gdlpLG/lbcwatch/pkg/session"
)

// Ads loads a watch and prints its filtered view.
type Ads struct {
	Session    *session.ClientSession
	Printer    *printers.PrettyPrint
	Watch      string
	Tags       []string
	ManualOnly bool
	Sort       string
	// Since, when positive, hides ads published longer ago.
	Since time.Duration
	// Top, when positive, lists only the best scored ads.
	Top  int
	JSON bool
	now  func() time.Time
}

func (n *Ads) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not list ads, no session")
	}
	if err := n.Session.Open(ctx, n.Watch); err != nil {
		return err
	}
	if n.Sort != "" {
		key, ok := adstore.ParseSortKey(n.Sort)
		if !ok {
			return fmt.Errorf("unknown sort %q, expected one of %v", n.Sort, adstore.SortKeys)
		}
		n.Session.Sort(key)
	}
	for _, t := range n.Tags {
		n.Session.ToggleTag(t)
	}
	n.Session.SetManualOnly(n.ManualOnly)

	list := n.Session.Visible()
	title := n.Watch
	if n.Top > 0 {
		list = n.Session.Top(n.Top)
		title = fmt.Sprintf("Top %d", n.Top)
		if n.Watch != "" {
			title += " - " + n.Watch
		}
	}
	if title == "" {
		title = "All watches"
	}
	if n.Since > 0 {
		list = n.recent(list)
	}

	if n.JSON {
		return n.Printer.JSON(list)
	}
	n.Printer.TitleWithCount(title, len(list))
	n.Printer.Ads(list, n.Session.Selection().Contains)
	return nil
}

func (n *Ads) recent(list []ad.Ad) []ad.Ad {
	now := time.Now()
	if n.now != nil {
		now = n.now()
	}
	cutoff := now.Add(-n.Since)
	out := make([]ad.Ad, 0, len(list))
	for _, a := range list {
		if p := a.Published(); !p.IsZero() && p.After(cutoff) {
			out = append(out, a)
		}
	}
	return out
}
