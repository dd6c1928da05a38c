// Package overlay draws a floating panel over an already rendered screen.
package overlay

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// Placement controls overlay alignment. Positions follow lipgloss: 0 is the
// top or left edge, lipgloss.Center the middle. Margins apply at the edges.
type Placement struct {
	Horizontal lipgloss.Position
	Vertical   lipgloss.Position
	MarginX    int
	MarginY    int
}

// Compose draws foreground over background, a width x height screen. Cells
// of the background outside the foreground box are kept.
func Compose(background string, width, height int, foreground string, placement Placement) string {
	bgLines := normalize(background, width, height)
	if foreground == "" || width <= 0 {
		return strings.Join(bgLines, "\n")
	}

	fgLines := strings.Split(foreground, "\n")
	fgWidth := 0
	for _, line := range fgLines {
		fgWidth = max(fgWidth, ansi.StringWidth(line))
	}
	fgWidth = min(fgWidth, width)
	fgHeight := min(len(fgLines), height)

	x, y := offsets(width, height, fgWidth, fgHeight, placement)
	for row := 0; row < fgHeight; row++ {
		base := bgLines[y+row]
		line := pad(ansi.Truncate(fgLines[row], fgWidth, ""), fgWidth)
		bgLines[y+row] = ansi.Cut(base, 0, x) + line + ansi.Cut(base, x+fgWidth, width)
	}
	return strings.Join(bgLines, "\n")
}

func normalize(view string, width, height int) []string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = pad(lines[i], width)
	}
	return lines
}

func pad(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func offsets(width, height, w, h int, p Placement) (int, int) {
	x := int(math.Round(float64(width-w) * float64(p.Horizontal)))
	switch p.Horizontal {
	case lipgloss.Left:
		x += p.MarginX
	case lipgloss.Right:
		x -= p.MarginX
	}
	y := int(math.Round(float64(height-h) * float64(p.Vertical)))
	switch p.Vertical {
	case lipgloss.Top:
		y += p.MarginY
	case lipgloss.Bottom:
		y -= p.MarginY
	}
	return clamp(x, 0, width-w), clamp(y, 0, height-h)
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
