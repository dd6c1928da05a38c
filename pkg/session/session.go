// Package session wires the ad store, filter, selection, job poller and
// update watcher into one client session.
package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
	"github.com/gdlpLG/lbcwatch/pkg/adstore"
	"github.com/gdlpLG/lbcwatch/pkg/api"
	"github.com/gdlpLG/lbcwatch/pkg/events"
	"github.com/gdlpLG/lbcwatch/pkg/filter"
	"github.com/gdlpLG/lbcwatch/pkg/job"
	"github.com/gdlpLG/lbcwatch/pkg/notify"
	"github.com/gdlpLG/lbcwatch/pkg/prefs"
	"github.com/gdlpLG/lbcwatch/pkg/schedule"
	"github.com/gdlpLG/lbcwatch/pkg/selection"
	"github.com/gdlpLG/lbcwatch/pkg/updates"
)

const component = events.ComponentID("session")

// API is the backend surface the session needs. *api.Client implements it.
type API interface {
	FetchAds(ctx context.Context, watch string) ([]ad.Ad, error)
	CountAds(ctx context.Context, watch string) (int, error)
	FetchJobStatus(ctx context.Context) (job.Report, error)
	RequestStopJob(ctx context.Context) error
	HideAd(ctx context.Context, id ad.ID) error
	MoveAds(ctx context.Context, ids []ad.ID, target string) error
	RefreshWatch(ctx context.Context, watch string) (api.RefreshResult, error)
	StartAnalysis(ctx context.Context, req api.AnalyzeRequest) (string, error)
	ListWatches(ctx context.Context) ([]ad.Watch, error)
	GetWatch(ctx context.Context, name string) (ad.Watch, error)
	MarkViewed(ctx context.Context, name string) error
	PriceHistory(ctx context.Context, id ad.ID) ([]ad.PricePoint, error)
	CompareAds(ctx context.Context, ads []ad.Ad) (api.Comparison, error)
	ClearAnalyses(ctx context.Context, req api.ClearAnalysisRequest) error
}

// Options configures a session. Zero values pick sensible defaults.
type Options struct {
	Bus       *events.Bus
	Scheduler schedule.Scheduler
	Notifier  notify.Notifier
	Logger    *slog.Logger
	Prefs     *prefs.Store

	PollInterval    time.Duration
	UpdatesInterval time.Duration
	IdleGrace       int
	// BulkRate caps bulk calls per second; 0 means unpaced.
	BulkRate float64
}

// ClientSession owns every piece of client state. Sessions share nothing,
// so several may run side by side.
type ClientSession struct {
	id       string
	api      API
	bus      *events.Bus
	notifier notify.Notifier
	log      *slog.Logger
	prefs    *prefs.Store
	limiter  *rate.Limiter

	store   *adstore.Store
	filter  *filter.Filter
	sel     *selection.Set
	poller  *job.Poller
	updates *updates.Watcher

	mu      sync.Mutex
	loadSeq uint64

	// launched is set between a successful StartAnalysis and the end of the
	// poll cycle that follows it.
	launched atomic.Bool
}

// New builds a session on top of client.
func New(client API, opts Options) *ClientSession {
	if opts.Bus == nil {
		opts.Bus = events.NewBus(0)
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.NewCron(opts.Logger)
	}
	id := uuid.NewString()
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("session", id)

	s := &ClientSession{
		id:       id,
		api:      client,
		bus:      opts.Bus,
		notifier: opts.Notifier,
		log:      log,
		prefs:    opts.Prefs,
		store:    adstore.New("adstore", opts.Bus),
		filter:   &filter.Filter{},
		sel:      selection.New(),
	}
	if opts.BulkRate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.BulkRate), 1)
	}
	s.poller = job.NewPoller(client, opts.Scheduler, &jobSink{s: s}, job.Options{
		Interval:  opts.PollInterval,
		IdleGrace: opts.IdleGrace,
		Logger:    log,
		OnRefresh: func(ctx context.Context) {
			s.launched.Store(false)
			s.reloadIfLoaded(ctx)
		},
		OnIdleStop: s.settleLaunch,
	})
	s.updates = updates.New(client, s.store, opts.Scheduler, opts.Bus, opts.UpdatesInterval, log)
	return s
}

// ID identifies the session in logs.
func (s *ClientSession) ID() string { return s.id }

// Bus returns the event bus the session emits on.
func (s *ClientSession) Bus() *events.Bus { return s.bus }

// Store exposes the ad store for read access.
func (s *ClientSession) Store() *adstore.Store { return s.store }

// Selection exposes the selection set for read access.
func (s *ClientSession) Selection() *selection.Set { return s.sel }

// Filter exposes the active filter for read access.
func (s *ClientSession) Filter() *filter.Filter { return s.filter }

// Poller exposes the job poller.
func (s *ClientSession) Poller() *job.Poller { return s.poller }

// Updates exposes the update watcher.
func (s *ClientSession) Updates() *updates.Watcher { return s.updates }

// Start recovers a running job, if any, and begins watching for new ads.
func (s *ClientSession) Start(ctx context.Context) {
	s.poller.Check(ctx)
	s.updates.Start(ctx)
}

// Close cancels every timer the session owns.
func (s *ClientSession) Close() {
	s.poller.Cancel()
	s.updates.Stop()
}

// Open loads the ads of watch ("" for every watch) into the store. When a
// newer Open started while this one was in flight, its result is dropped.
func (s *ClientSession) Open(ctx context.Context, watch string) error {
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	s.mu.Unlock()

	ads, err := s.api.FetchAds(ctx, watch)
	if err != nil {
		return s.fail(err, "Could not load ads.", "watch", watch)
	}

	s.mu.Lock()
	if seq != s.loadSeq {
		s.mu.Unlock()
		s.log.Debug("dropping stale ad load", "watch", watch, "seq", seq)
		return nil
	}
	switched := !s.store.Loaded() || s.store.Watch() != watch
	s.store.Replace(watch, ads)
	s.mu.Unlock()

	s.filter.Clear()
	if switched {
		s.sel.Clear()
	} else if dropped := s.sel.Retain(s.store.Has); dropped > 0 {
		s.log.Debug("pruned selection", "dropped", dropped)
	}
	s.emitSelection()
	s.updates.Dismiss()
	s.log.Info("ads loaded", "watch", watch, "count", len(ads))

	if watch != "" {
		s.remember(watch, len(ads))
		if err := s.api.MarkViewed(ctx, watch); err != nil {
			s.log.Debug("mark viewed failed", "watch", watch, "err", err)
		}
	}
	return nil
}

// Reload re-fetches the current scope.
func (s *ClientSession) Reload(ctx context.Context) error {
	return s.Open(ctx, s.store.Watch())
}

func (s *ClientSession) reloadIfLoaded(ctx context.Context) {
	if !s.store.Loaded() {
		return
	}
	_ = s.Reload(ctx)
}

func (s *ClientSession) remember(watch string, count int) {
	if s.prefs == nil {
		return
	}
	if err := s.prefs.SetLastWatch(watch); err != nil {
		s.log.Warn("saving last watch", "err", err)
	}
	if err := s.prefs.SetSeenCount(watch, count); err != nil {
		s.log.Warn("saving seen count", "err", err)
	}
}

// ToggleSelect flips the selection of the ad with id.
func (s *ClientSession) ToggleSelect(id ad.ID) bool {
	a, ok := s.store.Get(id)
	if !ok {
		return false
	}
	on := s.sel.Toggle(a)
	s.emitSelection()
	return on
}

// SelectIDs adds the ads with ids to the selection and returns the ids the
// store does not hold.
func (s *ClientSession) SelectIDs(ids []ad.ID) []ad.ID {
	var missing []ad.ID
	for _, id := range ids {
		a, ok := s.store.Get(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		if !s.sel.Contains(id) {
			s.sel.Toggle(a)
		}
	}
	s.emitSelection()
	return missing
}

// SelectAllVisible selects every ad passing the current filter.
func (s *ClientSession) SelectAllVisible() int {
	n := s.sel.SelectAll(s.Visible())
	s.emitSelection()
	return n
}

func (s *ClientSession) ClearSelection() {
	s.sel.Clear()
	s.emitSelection()
}

// ToggleTag flips a filter tag.
func (s *ClientSession) ToggleTag(tag string) bool {
	on := s.filter.Toggle(tag)
	s.emitFilter()
	return on
}

func (s *ClientSession) ClearTags() {
	s.filter.Clear()
	s.emitFilter()
}

func (s *ClientSession) SetManualOnly(on bool) {
	s.filter.SetManualOnly(on)
	s.emitFilter()
}

// Sort re-orders the store.
func (s *ClientSession) Sort(key adstore.SortKey) {
	s.store.Sort(key)
}

// Visible is the filtered view of the store.
func (s *ClientSession) Visible() []ad.Ad {
	return s.filter.Apply(s.store.Snapshot())
}

// Tags is the vocabulary of the unfiltered store.
func (s *ClientSession) Tags() []filter.Tag {
	return filter.Vocabulary(s.store.Snapshot(), filter.DefaultVocabularySize)
}

// Top returns the n best scored ads, best first. Unscored ads are skipped.
func (s *ClientSession) Top(n int) []ad.Ad {
	var scored []ad.Ad
	for _, a := range s.store.Snapshot() {
		if a.Scored() {
			scored = append(scored, a)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score() > scored[j].Score() })
	if n > 0 && len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

// Watches lists the watches on the server.
func (s *ClientSession) Watches(ctx context.Context) ([]ad.Watch, error) {
	ws, err := s.api.ListWatches(ctx)
	if err != nil {
		return nil, s.fail(err, "Could not load watches.")
	}
	return ws, nil
}

// Watch fetches one watch.
func (s *ClientSession) Watch(ctx context.Context, name string) (ad.Watch, error) {
	w, err := s.api.GetWatch(ctx, name)
	if err != nil {
		return ad.Watch{}, s.fail(err, "Watch not found.", "watch", name)
	}
	return w, nil
}

// PriceHistory fetches the price changes of an ad.
func (s *ClientSession) PriceHistory(ctx context.Context, id ad.ID) ([]ad.PricePoint, error) {
	pts, err := s.api.PriceHistory(ctx, id)
	if err != nil {
		return nil, s.fail(err, "Could not load the price history.", "id", string(id))
	}
	return pts, nil
}

func (s *ClientSession) emitSelection() {
	s.bus.Emit(events.SelectionChangedMsg{Component: component, Count: s.sel.Len()})
}

func (s *ClientSession) emitFilter() {
	s.bus.Emit(events.FilterChangedMsg{
		Component:  component,
		Active:     s.filter.Active(),
		ManualOnly: s.filter.ManualOnly(),
	})
}

func (s *ClientSession) flash(level events.Level, text string) {
	s.bus.Emit(events.FlashMsg{Component: component, Level: level, Text: text})
}
