package tags

import (
	"context"
	"errors"

	"github.com/gdlpLG/lbcwatch/pkg/printers"
	"github.com/gdlpLG/lbcwatch/pkg/session"
)

// Tags prints the keyword vocabulary of a watch.
type Tags struct {
	Session *session.ClientSession
	Printer *printers.PrettyPrint
	Watch   string
	JSON    bool
}

func (n *Tags) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not list tags, no session")
	}
	if err := n.Session.Open(ctx, n.Watch); err != nil {
		return err
	}
	tags := n.Session.Tags()
	if n.JSON {
		return n.Printer.JSON(tags)
	}
	n.Printer.Tags(tags, n.Session.Filter().Active())
	return nil
}
