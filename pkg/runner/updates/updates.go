package updates

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdlpLG/lbcwatch/pkg/events"
	"github.com/gdlpLG/lbcwatch/pkg/prefs"
	"github.com/gdlpLG/lbcwatch/pkg/printers"
	"github.com/gdlpLG/lbcwatch/pkg/schedule"
	"github.com/gdlpLG/lbcwatch/pkg/updates"
)

// Updates compares the server count of a watch with the count seen on the
// last load, without loading the ads.
type Updates struct {
	Counter updates.Counter
	Prefs   *prefs.Store
	Printer *printers.PrettyPrint
	Watch   string
	JSON    bool
}

// seen is a baseline read from the preferences instead of a loaded store.
type seen struct {
	watch string
	count int
	ok    bool
}

func (s seen) Watch() string { return s.watch }
func (s seen) Loaded() bool  { return s.ok }
func (s seen) LastSeen() int { return s.count }

type result struct {
	Watch string `json:"watch"`
	New   int    `json:"new"`
}

func (n *Updates) Do(ctx context.Context) error {
	if n.Counter == nil || n.Prefs == nil {
		return errors.New("can not check updates, no client")
	}
	watch := n.Watch
	if watch == "" {
		watch = n.Prefs.LastWatch()
	}
	if watch == "" {
		return errors.New("no watch given and no watch opened before")
	}
	base := seen{watch: watch, count: n.Prefs.SeenCount(watch), ok: true}

	bus := events.NewBus(1)
	w := updates.New(n.Counter, base, schedule.NewManual(), bus, 0, nil)
	count, _ := w.Check(ctx)
	if n.JSON {
		return n.Printer.JSON(result{Watch: watch, New: count})
	}
	if count == 0 {
		n.Printer.Println(fmt.Sprintf("No new ads for %q.", watch))
		return nil
	}
	n.Printer.Println(updates.BannerText(count))
	return nil
}
