// Package logview renders the analysis job panel: a progress line above a
// streaming log, newest entry first.
package logview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/gdlpLG/lbcwatch/pkg/events"
	"github.com/gdlpLG/lbcwatch/pkg/printers"
	"github.com/gdlpLG/lbcwatch/pkg/tui/theme"
	"github.com/gdlpLG/lbcwatch/pkg/tui/ui"
)

// Entry captures a rendered log line.
type Entry struct {
	Timestamp time.Time
	Summary   string
	Level     events.Level
}

// Model renders the job log.
type Model struct {
	viewport viewport.Model
	entries  []Entry

	maxEntries int

	status       string
	percent      float64
	showProgress bool

	width  int
	height int

	theme theme.Theme
}

// New constructs a log capped at maxEntries.
func New(maxEntries int, th theme.Theme) *Model {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	vp := viewport.New(
		viewport.WithWidth(1),
		viewport.WithHeight(1),
	)
	return &Model{
		viewport:   vp,
		maxEntries: maxEntries,
		theme:      th,
	}
}

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// Update forwards scrolling to the viewport.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	return m, cmd
}

// SetSize resizes the viewport while keeping the header and border intact.
func (m *Model) SetSize(width, height int) {
	if width < 4 {
		width = 4
	}
	if height < 4 {
		height = 4
	}
	if m.width == width && m.height == height {
		return
	}
	m.width = width
	m.height = height

	innerWidth := max(1, width-2)
	innerHeight := max(1, height-2)
	headerRows := 2
	m.viewport.SetWidth(innerWidth)
	m.viewport.SetHeight(max(1, innerHeight-headerRows))
	m.refreshContent()
}

// View renders the bordered panel.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.theme.Panel.Title.Render("AI analysis")
	body := lipgloss.JoinVertical(lipgloss.Left, header, m.progressLine(), m.viewport.View())
	return m.theme.Panel.Frame.Width(m.width).Height(m.height).Render(body)
}

func (m *Model) progressLine() string {
	if !m.showProgress {
		return m.theme.Panel.Body.Render(m.status)
	}
	bar := printers.ProgressBar(m.percent, max(4, m.width-16))
	return m.theme.Panel.Progress.Render(fmt.Sprintf("%s %3.0f%%", bar, m.percent))
}

// SetProgress records the latest progress report. Visible false hides the bar.
func (m *Model) SetProgress(status string, percent float64, visible bool) {
	m.status = status
	m.percent = percent
	m.showProgress = visible
}

// Append inserts a new entry at the top of the log.
func (m *Model) Append(entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	m.entries = append([]Entry{entry}, m.entries...)
	if len(m.entries) > m.maxEntries {
		m.entries = m.entries[:m.maxEntries]
	}
	m.refreshContent()
	m.viewport.SetYOffset(0)
}

// Entries returns the log, newest first.
func (m *Model) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

// Clear drops all logged entries.
func (m *Model) Clear() {
	m.entries = nil
	m.refreshContent()
}

// SetTheme swaps the styling.
func (m *Model) SetTheme(th theme.Theme) {
	m.theme = th
	m.refreshContent()
}

func (m *Model) refreshContent() {
	lines := make([]string, 0, len(m.entries))
	for _, entry := range m.entries {
		lines = append(lines, m.renderEntry(entry))
	}
	content := strings.Join(lines, "\n")
	if content == "" {
		content = m.theme.Ads.Faint.Render("No activity yet")
	}
	m.viewport.SetContent(content)
}

func (m *Model) renderEntry(entry Entry) string {
	ts := m.theme.Ads.Faint.Render(entry.Timestamp.Format("15:04:05"))
	msg := entry.Summary
	switch entry.Level {
	case events.LevelSuccess:
		msg = m.theme.Flash.Success.Render(msg)
	case events.LevelWarn:
		msg = m.theme.Flash.Warn.Render(msg)
	case events.LevelError:
		msg = m.theme.Flash.Error.Render(msg)
	default:
		msg = m.theme.Flash.Info.Render(msg)
	}
	return ts + " " + msg
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
