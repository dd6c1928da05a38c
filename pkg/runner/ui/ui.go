package ui

import (
	"context"
	"errors"

	"github.com/gdlpLG/lbcwatch/pkg/prefs"
	"github.com/gdlpLG/lbcwatch/pkg/session"
	teaui "github.com/gdlpLG/lbcwatch/pkg/tui/app"
)

// UI runs the dashboard on a session until the user quits.
type UI struct {
	Session *session.ClientSession
	Prefs   *prefs.Store
	Watch   string
}

func (d *UI) Do(ctx context.Context) error {
	if d.Session == nil {
		return errors.New("can not open the dashboard, no session")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Recover a job left running by an earlier client, then watch for new ads.
	d.Session.Start(ctx)
	defer d.Session.Close()

	return teaui.Run(ctx, d.Session, d.Prefs, d.Watch)
}
