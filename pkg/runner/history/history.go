package history

import (
	"context"
	"errors"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
	"github.com/gdlpLG/lbcwatch/pkg/printers"
	"github.com/gdlpLG/lbcwatch/pkg/session"
)

// History prints the price changes recorded for one ad.
type History struct {
	Session *session.ClientSession
	Printer *printers.PrettyPrint
	ID      string
	JSON    bool
}

func (n *History) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not get history, no session")
	}
	if n.ID == "" {
		return errors.New("an ad id is required")
	}
	pts, err := n.Session.PriceHistory(ctx, ad.ID(n.ID))
	if err != nil {
		return err
	}
	if n.JSON {
		return n.Printer.JSON(pts)
	}
	n.Printer.History(ad.ID(n.ID), pts)
	return nil
}
