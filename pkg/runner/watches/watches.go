package watches

import (
	"context"
	"errors"

	"github.com/gdlpLG/lbcwatch/pkg/printers"
	"github.com/gdlpLG/lbcwatch/pkg/session"
)

// Watches lists the watches, or shows one when Name is set.
type Watches struct {
	Session *session.ClientSession
	Printer *printers.PrettyPrint
	Name    string
	JSON    bool
}

func (n *Watches) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not list watches, no session")
	}
	if n.Name != "" {
		w, err := n.Session.Watch(ctx, n.Name)
		if err != nil {
			return err
		}
		if n.JSON {
			return n.Printer.JSON(w)
		}
		n.Printer.Watch(w)
		return nil
	}

	ws, err := n.Session.Watches(ctx)
	if err != nil {
		return err
	}
	if n.JSON {
		return n.Printer.JSON(ws)
	}
	n.Printer.Watches(ws)
	return nil
}
