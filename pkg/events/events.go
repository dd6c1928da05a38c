// Package events defines the typed messages the client engine emits as its
// state changes, and the bus that carries them to the dashboard.
package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"
)

// ComponentID identifies the component emitting an event.
type ComponentID string

// Level indicates the severity of a log or flash event.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// AdsReplacedMsg is emitted after the ad store swapped its snapshot.
type AdsReplacedMsg struct {
	Component ComponentID
	Watch     string
	Count     int
	Revision  uint64
}

// Describe renders the event for logs.
func (m AdsReplacedMsg) Describe() string {
	return fmt.Sprintf(`watch:%q count:%d rev:%d`, m.Watch, m.Count, m.Revision)
}

// AdRemovedMsg is emitted after a single ad left the store.
type AdRemovedMsg struct {
	Component ComponentID
	ID        string
	Revision  uint64
}

func (m AdRemovedMsg) Describe() string {
	return fmt.Sprintf(`id:%q rev:%d`, m.ID, m.Revision)
}

// AdsSortedMsg is emitted after the store was re-ordered.
type AdsSortedMsg struct {
	Component ComponentID
	Key       string
	Revision  uint64
}

func (m AdsSortedMsg) Describe() string {
	return fmt.Sprintf(`key:%q rev:%d`, m.Key, m.Revision)
}

// SelectionChangedMsg reports the new selection size.
type SelectionChangedMsg struct {
	Component ComponentID
	Count     int
}

// FilterChangedMsg reports the active tags after a toggle.
type FilterChangedMsg struct {
	Component  ComponentID
	Active     []string
	ManualOnly bool
}

// JobLogMsg carries a de-duplicated job status message.
type JobLogMsg struct {
	Component ComponentID
	Level     Level
	Message   string
}

// JobProgressMsg carries the job progress; Visible is false when the server
// reports no total.
type JobProgressMsg struct {
	Component ComponentID
	Status    string
	Percent   float64
	Visible   bool
}

// JobPanelMsg opens or closes the job status panel.
type JobPanelMsg struct {
	Component ComponentID
	Open      bool
}

// JobDoneMsg is emitted once per completed job.
type JobDoneMsg struct {
	Component ComponentID
}

// UpdateBannerMsg announces new ads on the server for the active watch. New
// is zero when the banner is dismissed.
type UpdateBannerMsg struct {
	Component ComponentID
	Watch     string
	New       int
	Text      string
}

// FlashMsg is a transient user-facing message.
type FlashMsg struct {
	Component ComponentID
	Level     Level
	Text      string
}

// NotifyMsg mirrors a desktop notification (title/body pair).
type NotifyMsg struct {
	Component ComponentID
	Title     string
	Body      string
}

// Bus is a buffered event channel. Emit never blocks: when the consumer lags,
// events are dropped and the next snapshot read catches it up.
type Bus struct {
	ch chan tea.Msg
}

// NewBus creates a bus buffering up to size events (64 when size <= 0).
func NewBus(size int) *Bus {
	if size <= 0 {
		size = 64
	}
	return &Bus{ch: make(chan tea.Msg, size)}
}

// Emit publishes msg without blocking. A nil bus discards everything.
func (b *Bus) Emit(msg tea.Msg) {
	if b == nil {
		return
	}
	select {
	case b.ch <- msg:
	default:
	}
}

// Events exposes the receive side of the bus.
func (b *Bus) Events() <-chan tea.Msg {
	return b.ch
}

// Listen returns a command that waits for the next event. Dashboards re-issue
// it after every delivered event.
func (b *Bus) Listen() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-b.ch
		if !ok {
			return nil
		}
		return msg
	}
}
