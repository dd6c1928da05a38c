package analyze

import (
	"context"
	"errors"

	"github.com/gdlpLG/lbcwatch/pkg/printers"
	"github.com/gdlpLG/lbcwatch/pkg/runner/status"
	"github.com/gdlpLG/lbcwatch/pkg/session"
)

// Analyze launches an AI analysis over a watch, or over the given ads with a
// custom prompt.
type Analyze struct {
	Session *session.ClientSession
	Printer *printers.PrettyPrint
	Watch   string
	IDs     []string
	Prompt  string
	Follow  bool
}

func (n *Analyze) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not analyze, no session")
	}
	if err := open(ctx, n.Session, n.Watch, n.IDs); err != nil {
		return err
	}

	msg, err := n.Session.Analyze(ctx, session.AnalyzeRequest{
		Selected: len(n.IDs) > 0,
		Prompt:   n.Prompt,
	})
	if err != nil {
		return err
	}
	if msg != "" {
		n.Printer.Println(msg)
	}
	if !n.Follow {
		n.Session.Close()
		return nil
	}
	return status.Follow(ctx, n.Session, n.Printer)
}
