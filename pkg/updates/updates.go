// Package updates watches the server for ads that arrived after the last load
// and raises a single banner for them.
package updates

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gdlpLG/lbcwatch/pkg/events"
	"github.com/gdlpLG/lbcwatch/pkg/schedule"
)

// DefaultInterval is the check period.
const DefaultInterval = 30 * time.Second

// Counter reports how many ads the server holds for a watch.
type Counter interface {
	CountAds(ctx context.Context, watch string) (int, error)
}

// Baseline is the local view the count is compared against. *adstore.Store
// satisfies it.
type Baseline interface {
	Watch() string
	Loaded() bool
	LastSeen() int
}

// BannerText renders the banner for n new ads.
func BannerText(n int) string {
	return fmt.Sprintf("%d new ad(s) available, refresh to load them.", n)
}

// Watcher compares the remote count to the last-seen count. It never touches
// the store; refreshing is left to the user or the session.
type Watcher struct {
	counter  Counter
	base     Baseline
	sched    schedule.Scheduler
	bus      *events.Bus
	interval time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	task    schedule.Task
	watch   string
	pending int
}

// New builds a watcher. interval <= 0 means DefaultInterval.
func New(counter Counter, base Baseline, sched schedule.Scheduler, bus *events.Bus, interval time.Duration, logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		counter:  counter,
		base:     base,
		sched:    sched,
		bus:      bus,
		interval: interval,
		log:      logger.With("component", "updates"),
	}
}

// Check runs one comparison. It returns the number of new ads and whether the
// banner was raised or changed by this call.
func (w *Watcher) Check(ctx context.Context) (int, bool) {
	watch := w.base.Watch()
	if !w.base.Loaded() || watch == "" {
		return 0, false
	}
	n, err := w.counter.CountAds(ctx, watch)
	if err != nil {
		w.log.Debug("update check failed", "watch", watch, "err", err)
		return 0, false
	}
	if w.base.Watch() != watch {
		// The user switched watch while the count was in flight.
		return 0, false
	}
	diff := n - w.base.LastSeen()
	if diff <= 0 {
		return 0, false
	}

	w.mu.Lock()
	if w.watch == watch && w.pending == diff {
		w.mu.Unlock()
		return diff, false
	}
	w.watch, w.pending = watch, diff
	w.mu.Unlock()

	w.log.Info("new ads on server", "watch", watch, "new", diff)
	w.bus.Emit(events.UpdateBannerMsg{
		Component: "updates",
		Watch:     watch,
		New:       diff,
		Text:      BannerText(diff),
	})
	return diff, true
}

// Pending returns the count shown on the banner, 0 when hidden.
func (w *Watcher) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending
}

// Dismiss hides the banner. Called when the user refreshes or switches watch.
func (w *Watcher) Dismiss() {
	w.mu.Lock()
	had := w.pending > 0
	w.watch, w.pending = "", 0
	w.mu.Unlock()
	if had {
		w.bus.Emit(events.UpdateBannerMsg{Component: "updates"})
	}
}

// Start schedules Check every interval. Calling Start twice is a no-op.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.task != nil {
		return
	}
	w.task = w.sched.Every(w.interval, func() { w.Check(ctx) })
}

// Stop cancels the periodic check.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.task != nil {
		w.task.Cancel()
		w.task = nil
	}
}
