package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gdlpLG/lbcwatch/pkg/schedule"
)

// Source is the remote side of the job.
type Source interface {
	FetchJobStatus(ctx context.Context) (Report, error)
	RequestStopJob(ctx context.Context) error
}

// Sink receives the user-visible effects of a tick.
type Sink interface {
	Log(status Status, message string)
	Progress(status Status, percent float64, visible bool)
	Panel(open bool)
	Completed()
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Log(Status, string)             {}
func (NopSink) Progress(Status, float64, bool) {}
func (NopSink) Panel(bool)                     {}
func (NopSink) Completed()                     {}

// DefaultInterval is the poll period.
const DefaultInterval = time.Second

// Options configures a Poller.
type Options struct {
	Interval  time.Duration
	IdleGrace int
	Logger    *slog.Logger
	// OnRefresh runs after a completed job, outside the poller lock.
	OnRefresh func(ctx context.Context)
	// OnIdleStop runs when a cycle stops without ever seeing the job active,
	// e.g. a job that finished between two polls.
	OnIdleStop func(ctx context.Context)
}

// Poller owns at most one polling task. Every schedule and cancel bumps an
// epoch; tick results carrying an older epoch are dropped.
type Poller struct {
	src   Source
	sched schedule.Scheduler
	sink  Sink
	opts  Options
	log   *slog.Logger

	mu    sync.Mutex
	state State
	task  schedule.Task
	epoch uint64
}

// NewPoller wires a poller. sink may be nil.
func NewPoller(src Source, sched schedule.Scheduler, sink Sink, opts Options) *Poller {
	if sink == nil {
		sink = NopSink{}
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Poller{
		src:   src,
		sched: sched,
		sink:  sink,
		opts:  opts,
		log:   log.With("component", "job"),
	}
}

// Start begins a fresh poll cycle: any existing task is cancelled, the message
// log is reset, the panel opens and one tick runs before Start returns.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	p.cancelLocked()
	p.state = State{PanelOpen: true, Running: true}
	epoch := p.scheduleLocked(ctx)
	p.mu.Unlock()

	p.log.Debug("poll cycle started", "epoch", epoch)
	p.sink.Panel(true)
	p.tick(ctx, epoch)
}

// Check performs a single tick without a timer. It recovers polling when a
// job is already running, e.g. after the client restarted.
func (p *Poller) Check(ctx context.Context) {
	p.mu.Lock()
	epoch := p.epoch
	p.mu.Unlock()
	p.tick(ctx, epoch)
}

// RequestStop asks the server to stop the job. Local state is untouched; the
// next tick reports what the server actually did.
func (p *Poller) RequestStop(ctx context.Context) error {
	return p.src.RequestStopJob(ctx)
}

// Cancel stops polling without completing the cycle.
func (p *Poller) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
	p.state.Running = false
	p.state.Armed = false
	p.state.IdleTicks = 0
}

// State returns a copy of the current state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SetPanel records that the user opened or closed the status panel.
func (p *Poller) SetPanel(open bool) {
	p.mu.Lock()
	p.state.PanelOpen = open
	p.mu.Unlock()
	p.sink.Panel(open)
}

func (p *Poller) tick(ctx context.Context, epoch uint64) {
	r, err := p.src.FetchJobStatus(ctx)
	if err != nil {
		p.log.Warn("job status poll failed", "err", err)
		return
	}
	r.Status = ParseStatus(string(r.Status))

	p.mu.Lock()
	if epoch != p.epoch {
		p.mu.Unlock()
		p.log.Debug("dropping stale job status", "epoch", epoch, "current", p.epoch, "status", string(r.Status))
		return
	}
	next, effects := Step(p.state, r, StepOptions{IdleGrace: p.opts.IdleGrace})
	p.state = next
	for _, e := range effects {
		switch e.Kind {
		case EffectStartTimer:
			p.cancelLocked()
			p.scheduleLocked(ctx)
		case EffectStopTimer:
			p.cancelLocked()
		}
	}
	p.mu.Unlock()

	p.apply(ctx, effects)
}

func (p *Poller) apply(ctx context.Context, effects []Effect) {
	for _, e := range effects {
		switch e.Kind {
		case EffectLog:
			p.sink.Log(e.Status, e.Message)
		case EffectProgress:
			p.sink.Progress(e.Status, e.Percent, e.Visible)
		case EffectOpenPanel:
			p.sink.Panel(true)
		case EffectNotifyComplete:
			p.log.Info("analysis job finished")
			p.sink.Completed()
		case EffectRefresh:
			if p.opts.OnRefresh != nil {
				p.opts.OnRefresh(ctx)
			}
		}
	}
	if Has(effects, EffectStopTimer) && !Has(effects, EffectNotifyComplete) && p.opts.OnIdleStop != nil {
		p.log.Debug("poll cycle stopped without activity")
		p.opts.OnIdleStop(ctx)
	}
}

// scheduleLocked creates the polling task under a new epoch.
func (p *Poller) scheduleLocked(ctx context.Context) uint64 {
	p.epoch++
	epoch := p.epoch
	p.task = p.sched.Every(p.opts.Interval, func() { p.tick(ctx, epoch) })
	return epoch
}

func (p *Poller) cancelLocked() {
	if p.task != nil {
		p.task.Cancel()
		p.task = nil
	}
	p.epoch++
}
