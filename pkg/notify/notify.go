// Package notify delivers user notifications (gem finds, price drops, job
// completion). Notifications are informational only.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/gdlpLG/lbcwatch/pkg/events"
)

// Notifier shows a title/body notification.
type Notifier interface {
	Notify(title, body string)
}

// Nop drops notifications.
type Nop struct{}

func (Nop) Notify(string, string) {}

// Terminal prints notifications to a writer, title in bold.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTerminal writes to out, or color.Output when out is nil.
func NewTerminal(out io.Writer) *Terminal {
	if out == nil {
		out = color.Output
	}
	return &Terminal{out: out}
}

var (
	titleColor = color.New(color.Bold, color.FgHiYellow)
	bodyColor  = color.New(color.Faint)
)

func (t *Terminal) Notify(title, body string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if body == "" {
		fmt.Fprintf(t.out, "%s\n", titleColor.Sprint(title))
		return
	}
	fmt.Fprintf(t.out, "%s %s\n", titleColor.Sprint(title), bodyColor.Sprint(body))
}

// Bus forwards notifications to the dashboard as events.
type Bus struct {
	bus *events.Bus
}

func NewBus(bus *events.Bus) *Bus {
	return &Bus{bus: bus}
}

func (b *Bus) Notify(title, body string) {
	b.bus.Emit(events.NotifyMsg{Component: "notify", Title: title, Body: body})
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(title, body string) {
	for _, n := range m {
		n.Notify(title, body)
	}
}

// GemsTitle and PriceDropsTitle render the refresh findings.
func GemsTitle(n int) string { return fmt.Sprintf("✨ %d gem(s) found!", n) }

func GemsBody(watch string) string {
	return fmt.Sprintf("Great opportunities for %q", watch)
}

func PriceDropsTitle(n int) string { return fmt.Sprintf("📉 %d price drop(s)!", n) }

func PriceDropsBody(watch string) string {
	return fmt.Sprintf("Prices fell in your watch %q", watch)
}

// CompletedTitle is shown when the analysis job finishes.
const CompletedTitle = "✅ The AI finished analysing your ads."
