// Package bulk provides the hide and move runners.
package bulk

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
	"github.com/gdlpLG/lbcwatch/pkg/printers"
	"github.com/gdlpLG/lbcwatch/pkg/selection"
	"github.com/gdlpLG/lbcwatch/pkg/session"
)

// Hide hides ads of a watch. One id goes through the single-ad path, more
// through the best-effort batch.
type Hide struct {
	Session *session.ClientSession
	Printer *printers.PrettyPrint
	Watch   string
	IDs     []string
	JSON    bool
}

func (n *Hide) Do(ctx context.Context) error {
	if err := load(ctx, n.Session, n.Watch); err != nil {
		return err
	}
	if len(n.IDs) == 1 {
		id := ad.ID(n.IDs[0])
		if err := n.Session.HideAd(ctx, id); err != nil {
			return err
		}
		return n.report(selection.BatchResult{Succeeded: []ad.ID{id}}, "hidden")
	}
	if err := selectIDs(n.Session, n.IDs); err != nil {
		return err
	}
	res, err := n.Session.HideSelected(ctx)
	if err != nil {
		return err
	}
	return n.report(res, "hidden")
}

func (n *Hide) report(res selection.BatchResult, verb string) error {
	return report(n.Printer, n.JSON, res, verb)
}

// Move reassigns ads of a watch to Target.
type Move struct {
	Session *session.ClientSession
	Printer *printers.PrettyPrint
	Watch   string
	IDs     []string
	Target  string
	JSON    bool
}

func (n *Move) Do(ctx context.Context) error {
	if err := load(ctx, n.Session, n.Watch); err != nil {
		return err
	}
	if err := selectIDs(n.Session, n.IDs); err != nil {
		return err
	}
	res, err := n.Session.MoveSelected(ctx, n.Target)
	if err != nil {
		return err
	}
	return report(n.Printer, n.JSON, res, "moved to "+n.Target)
}

func load(ctx context.Context, s *session.ClientSession, watch string) error {
	if s == nil {
		return errors.New("can not run bulk operation, no session")
	}
	return s.Open(ctx, watch)
}

func selectIDs(s *session.ClientSession, raw []string) error {
	ids := make([]ad.ID, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, ad.ID(id))
	}
	if missing := s.SelectIDs(ids); len(missing) > 0 {
		return fmt.Errorf("unknown ad id(s) %v", missing)
	}
	return nil
}

type result struct {
	Succeeded []ad.ID `json:"succeeded"`
	Failed    int     `json:"failed"`
}

func report(pp *printers.PrettyPrint, asJSON bool, res selection.BatchResult, verb string) error {
	if asJSON {
		return pp.JSON(result{Succeeded: res.Succeeded, Failed: res.Failed})
	}
	pp.Println(fmt.Sprintf("%d ad(s) %s.", len(res.Succeeded), verb))
	if res.Failed > 0 {
		pp.Println(fmt.Sprintf("%d failed.", res.Failed))
	}
	return nil
}
