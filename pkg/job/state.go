// Package job tracks the server-side analysis job. Step is the pure state
// machine; Poller drives it from a scheduled task.
package job

import "strings"

// Status is the job state reported by the server.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusWaiting Status = "waiting"
	StatusError   Status = "error"
)

// ParseStatus lower-cases s. Anything unrecognised is returned as-is and
// treated like waiting by Step.
func ParseStatus(s string) Status {
	return Status(strings.ToLower(strings.TrimSpace(s)))
}

// Badge is the short label shown next to the progress bar.
func (s Status) Badge() string {
	switch s {
	case StatusWaiting:
		return "PAUSED"
	case StatusError:
		return "ERROR"
	case StatusIdle:
		return "DONE"
	default:
		return "WORKING"
	}
}

// Report is one poll response.
type Report struct {
	Status   Status `json:"status"`
	Message  string `json:"message"`
	Progress int    `json:"progress"`
	Total    int    `json:"total"`
}

// Percent returns the completion percentage and whether it should be shown.
// A zero total hides the progress bar.
func (r Report) Percent() (float64, bool) {
	if r.Total <= 0 {
		return 0, false
	}
	p := float64(r.Progress) / float64(r.Total) * 100
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return p, true
}

// State is what the client remembers between ticks.
type State struct {
	Status      Status
	LastMessage string
	// Running is true while a polling timer exists.
	Running bool
	// Armed is set once the running cycle saw a non-idle status. Only an
	// armed cycle completes.
	Armed     bool
	IdleTicks int
	PanelOpen bool
	Percent   float64
	// ShowProgress mirrors the second return of Report.Percent.
	ShowProgress bool
}

// EffectKind enumerates the side effects Step may request.
type EffectKind int

const (
	EffectLog EffectKind = iota
	EffectProgress
	EffectOpenPanel
	EffectStartTimer
	EffectStopTimer
	EffectNotifyComplete
	EffectRefresh
)

func (k EffectKind) String() string {
	switch k {
	case EffectLog:
		return "log"
	case EffectProgress:
		return "progress"
	case EffectOpenPanel:
		return "open-panel"
	case EffectStartTimer:
		return "start-timer"
	case EffectStopTimer:
		return "stop-timer"
	case EffectNotifyComplete:
		return "notify-complete"
	case EffectRefresh:
		return "refresh"
	}
	return "unknown"
}

// Effect is one requested side effect. Status, Message and Percent are only
// meaningful for the log and progress kinds.
type Effect struct {
	Kind    EffectKind
	Status  Status
	Message string
	Percent float64
	Visible bool
}

// DefaultIdleGrace is how many idle ticks an unarmed cycle tolerates before
// stopping silently.
const DefaultIdleGrace = 5

// StepOptions tunes Step.
type StepOptions struct {
	// IdleGrace bounds how long a cycle that never saw the job running keeps
	// polling. Zero means DefaultIdleGrace, negative disables the bound.
	IdleGrace int
}

func (o StepOptions) grace() int {
	if o.IdleGrace == 0 {
		return DefaultIdleGrace
	}
	return o.IdleGrace
}

// Step folds one poll report into prev.
func Step(prev State, r Report, opts StepOptions) (State, []Effect) {
	next := prev
	next.Status = r.Status
	var effects []Effect

	if r.Message != "" && r.Message != prev.LastMessage {
		next.LastMessage = r.Message
		effects = append(effects, Effect{Kind: EffectLog, Status: r.Status, Message: r.Message})
	}

	pct, visible := r.Percent()
	next.Percent, next.ShowProgress = pct, visible
	effects = append(effects, Effect{Kind: EffectProgress, Status: r.Status, Percent: pct, Visible: visible})

	switch r.Status {
	case StatusLoading:
		if !prev.PanelOpen {
			next.PanelOpen = true
			effects = append(effects, Effect{Kind: EffectOpenPanel})
		}
		if !prev.Running {
			next.Running = true
			effects = append(effects, Effect{Kind: EffectStartTimer})
		}
		next.Armed = true
		next.IdleTicks = 0

	case StatusIdle:
		if !prev.Running {
			break
		}
		if prev.Armed {
			next.Running = false
			next.Armed = false
			next.IdleTicks = 0
			effects = append(effects,
				Effect{Kind: EffectStopTimer},
				Effect{Kind: EffectNotifyComplete},
				Effect{Kind: EffectRefresh},
			)
			break
		}
		next.IdleTicks = prev.IdleTicks + 1
		if g := opts.grace(); g > 0 && next.IdleTicks >= g {
			next.Running = false
			next.IdleTicks = 0
			effects = append(effects, Effect{Kind: EffectStopTimer})
		}

	default:
		// waiting, error and unknown statuses keep an existing timer alive.
		if prev.Running {
			next.Armed = true
			next.IdleTicks = 0
		}
	}
	return next, effects
}

// Has reports whether effects contains kind.
func Has(effects []Effect, kind EffectKind) bool {
	for _, e := range effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
