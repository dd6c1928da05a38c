// Package schedule runs cancellable periodic tasks. Cron backs the real
// clock; Manual is a hand-advanced clock for deterministic tests.
package schedule

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Task is a handle on a scheduled periodic function.
type Task interface {
	// Cancel stops future runs. Runs already in progress finish.
	Cancel()
}

// Scheduler starts periodic tasks.
type Scheduler interface {
	Every(d time.Duration, fn func()) Task
}

// Cron schedules tasks on a robfig/cron runner. A run that outlives its period
// is never overlapped by the next one.
type Cron struct {
	c   *cron.Cron
	log *slog.Logger
}

// NewCron starts a cron runner. Call Stop to release it.
func NewCron(logger *slog.Logger) *Cron {
	if logger == nil {
		logger = slog.Default()
	}
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DiscardLogger),
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	c.Start()
	return &Cron{c: c, log: logger}
}

// Every runs fn every d, rounded to whole seconds with a one second floor.
func (s *Cron) Every(d time.Duration, fn func()) Task {
	if d < time.Second {
		d = time.Second
	}
	id := s.c.Schedule(cron.Every(d), cron.FuncJob(fn))
	s.log.Debug("scheduled task", "entry", int(id), "every", d.String())
	return &cronTask{s: s, id: id}
}

// Stop halts the runner and waits for running tasks, bounded by ctx.
func (s *Cron) Stop(ctx context.Context) {
	done := s.c.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

type cronTask struct {
	s    *Cron
	id   cron.EntryID
	once sync.Once
}

func (t *cronTask) Cancel() {
	t.once.Do(func() {
		t.s.c.Remove(t.id)
		t.s.log.Debug("cancelled task", "entry", int(t.id))
	})
}

// Manual is a simulated clock. Tasks only run inside Advance.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	tasks []*manualTask
}

type manualTask struct {
	m     *Manual
	every time.Duration
	next  time.Duration
	fn    func()
}

// NewManual returns a clock at t=0 with no tasks.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Every(d time.Duration, fn func()) Task {
	if d <= 0 {
		d = time.Second
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTask{m: m, every: d, next: m.now + d, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Advance moves the clock forward by d, firing every due run in time order.
// Task functions run without the clock lock held so they may schedule or
// cancel tasks.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		var due *manualTask
		for _, t := range m.tasks {
			if t.next <= target && (due == nil || t.next < due.next) {
				due = t
			}
		}
		if due == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = due.next
		due.next += due.every
		fn := due.fn
		m.mu.Unlock()

		fn()
	}
}

// Active returns the number of live tasks.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (t *manualTask) Cancel() {
	m := t.m
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, o := range m.tasks {
		if o == t {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return
		}
	}
}
