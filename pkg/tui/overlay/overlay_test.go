package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss/v2"
)

func TestComposeCentersForeground(t *testing.T) {
	bg := strings.Join([]string{"..........", "..........", "..........", ".........."}, "\n")
	got := Compose(bg, 10, 4, "ab\ncd", Placement{Horizontal: lipgloss.Center, Vertical: lipgloss.Center})

	want := strings.Join([]string{"..........", "....ab....", "....cd....", ".........."}, "\n")
	if got != want {
		t.Fatalf("Compose =\n%s\nwant\n%s", got, want)
	}
}

func TestComposeHonoursMargins(t *testing.T) {
	got := Compose("", 6, 3, "xy", Placement{Horizontal: lipgloss.Right, Vertical: lipgloss.Bottom, MarginX: 1, MarginY: 1})

	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[1] != "   xy " {
		t.Fatalf("line 1 = %q", lines[1])
	}
	if strings.TrimSpace(lines[0]) != "" || strings.TrimSpace(lines[2]) != "" {
		t.Fatalf("unexpected content outside the overlay: %q", lines)
	}
}

func TestComposeEmptyForegroundKeepsBackground(t *testing.T) {
	if got := Compose("hello", 7, 2, "", Placement{}); got != "hello  \n       " {
		t.Fatalf("Compose = %q", got)
	}
}
