package refresh

import (
	"context"
	"errors"

	"github.com/gdlpLG/lbcwatch/pkg/printers"
	"github.com/gdlpLG/lbcwatch/pkg/session"
)

// Refresh re-scans a watch on the server and prints what it found.
type Refresh struct {
	Session *session.ClientSession
	Printer *printers.PrettyPrint
	Watch   string
	JSON    bool
}

func (n *Refresh) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not refresh, no session")
	}
	if n.Watch == "" {
		return session.ErrNoWatch
	}
	if err := n.Session.Open(ctx, n.Watch); err != nil {
		return err
	}
	res, err := n.Session.RefreshWatch(ctx)
	if err != nil {
		return err
	}
	if n.JSON {
		return n.Printer.JSON(res)
	}
	if res.Message != "" {
		n.Printer.Println(res.Message)
	}
	if len(res.Gems) > 0 {
		n.Printer.TitleWithCount("Gems", len(res.Gems))
		n.Printer.Ads(res.Gems, nil)
	}
	if len(res.PriceDrops) > 0 {
		n.Printer.TitleWithCount("Price drops", len(res.PriceDrops))
		n.Printer.Ads(res.PriceDrops, nil)
	}
	return nil
}
