package notify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/muesli/reflow/ansi"

	"github.com/gdlpLG/lbcwatch/pkg/events"
)

func TestTerminalNotify(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	NewTerminal(&buf).Notify(GemsTitle(2), GemsBody("Vélos"))
	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("expected styled output, got %q", out)
	}
	if ansi.PrintableRuneWidth(out) == 0 {
		t.Fatal("empty notification")
	}
	if !strings.Contains(out, `Great opportunities for "Vélos"`) {
		t.Fatalf("body missing: %q", out)
	}
}

func TestMultiAndBus(t *testing.T) {
	bus := events.NewBus(2)
	var buf bytes.Buffer
	Multi{Nop{}, NewTerminal(&buf), NewBus(bus)}.Notify(PriceDropsTitle(1), "")

	msg, ok := (<-bus.Events()).(events.NotifyMsg)
	if !ok || msg.Title != "📉 1 price drop(s)!" {
		t.Fatalf("bus got %#v", msg)
	}
	if !strings.Contains(buf.String(), "price drop") {
		t.Fatalf("terminal got %q", buf.String())
	}
}
