// Package help renders the dashboard key reference inside a framed viewport.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/gdlpLG/lbcwatch/pkg/tui/theme"
	"github.com/gdlpLG/lbcwatch/pkg/tui/ui"
)

// Binding documents one key.
type Binding struct {
	Key  string
	Desc string
}

// Section groups bindings under a heading.
type Section struct {
	Title    string
	Bindings []Binding
}

// Model renders the key reference.
type Model struct {
	viewport viewport.Model
	sections []Section
	width    int
	height   int
	theme    theme.Theme
}

// New constructs the help panel.
func New(sections []Section, th theme.Theme) *Model {
	vp := viewport.New(
		viewport.WithWidth(1),
		viewport.WithHeight(1),
	)
	vp.MouseWheelEnabled = true
	return &Model{viewport: vp, sections: sections, theme: th}
}

func (m *Model) Init() tea.Cmd { return nil }

// Update forwards scrolling to the viewport.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	return m, cmd
}

// View renders the panel inside its frame.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	return m.theme.Panel.Frame.Width(m.width).Height(m.height).Render(m.viewport.View())
}

// SetSize fits the panel in width x height cells.
func (m *Model) SetSize(width, height int) {
	width = max(width, 24)
	height = max(height, 6)
	if m.width == width && m.height == height {
		return
	}
	m.width = width
	m.height = height
	m.viewport.SetWidth(max(width-2, 1))
	m.viewport.SetHeight(max(height-2, 1))
	m.render()
}

// Lines is the number of rows the content needs, frame excluded.
func (m *Model) Lines() int {
	n := 0
	for _, s := range m.sections {
		n += len(s.Bindings) + 2
	}
	return n
}

func (m *Model) SetTheme(th theme.Theme) {
	m.theme = th
	m.render()
}

func (m *Model) render() {
	keyWidth := 0
	for _, s := range m.sections {
		for _, b := range s.Bindings {
			keyWidth = max(keyWidth, lipgloss.Width(b.Key))
		}
	}
	keyStyle := m.theme.Panel.Title.Width(keyWidth + 2)

	var lines []string
	for i, s := range m.sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, m.theme.Header.Title.Render(s.Title))
		for _, b := range s.Bindings {
			lines = append(lines, keyStyle.Render(b.Key)+m.theme.Panel.Body.Render(b.Desc))
		}
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.SetYOffset(0)
}
