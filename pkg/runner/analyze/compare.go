package analyze

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
	"github.com/gdlpLG/lbcwatch/pkg/printers"
	"github.com/gdlpLG/lbcwatch/pkg/session"
)

// Compare prints ads of a watch side by side, then the AI verdict on them
// unless NoAI is set.
type Compare struct {
	Session *session.ClientSession
	Printer *printers.PrettyPrint
	Watch   string
	IDs     []string
	NoAI    bool
	JSON    bool
}

func (n *Compare) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not compare, no session")
	}
	if len(n.IDs) < session.MinCompare {
		return fmt.Errorf("compare needs at least %d ads", session.MinCompare)
	}
	if err := open(ctx, n.Session, n.Watch, n.IDs); err != nil {
		return err
	}
	items := n.Session.Selection().Items()

	if n.NoAI {
		if n.JSON {
			return n.Printer.JSON(items)
		}
		n.Printer.Compare(items)
		return nil
	}
	res, err := n.Session.CompareSelected(ctx)
	if err != nil {
		return err
	}
	if n.JSON {
		return n.Printer.JSON(struct {
			Ads      []ad.Ad `json:"ads"`
			Analysis string  `json:"analysis"`
		}{items, res.Analysis})
	}
	n.Printer.Compare(items)
	n.Printer.Analysis("AI verdict", res.Analysis)
	return nil
}

// ClearAnalyses drops the AI results of the given ads, or of the whole watch
// when All is set.
type ClearAnalyses struct {
	Session *session.ClientSession
	Printer *printers.PrettyPrint
	Watch   string
	IDs     []string
	All     bool
}

func (n *ClearAnalyses) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not clear analyses, no session")
	}
	switch {
	case len(n.IDs) > 0 && n.All:
		return errors.New("pass ad ids or --all, not both")
	case len(n.IDs) == 0 && !n.All:
		return errors.New("pass ad ids, or --all to clear the whole watch")
	}
	if err := open(ctx, n.Session, n.Watch, n.IDs); err != nil {
		return err
	}
	cleared, err := n.Session.ClearAnalyses(ctx, !n.All)
	if err != nil {
		return err
	}
	if n.All {
		n.Printer.Println(fmt.Sprintf("Analyses of %q cleared.", n.Session.Store().Watch()))
		return nil
	}
	n.Printer.Println(fmt.Sprintf("%d analysis(es) cleared.", cleared))
	return nil
}

// open loads watch and selects ids, failing on ids the watch does not hold.
func open(ctx context.Context, s *session.ClientSession, watch string, raw []string) error {
	if err := s.Open(ctx, watch); err != nil {
		return err
	}
	ids := make([]ad.ID, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, ad.ID(id))
	}
	if missing := s.SelectIDs(ids); len(missing) > 0 {
		return fmt.Errorf("unknown ad id(s) %v", missing)
	}
	return nil
}
