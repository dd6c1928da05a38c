// Package ui holds the contracts shared by dashboard widgets.
package ui

import (
	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/gdlpLG/lbcwatch/pkg/tui/theme"
)

// Component is a Bubble Tea widget laid out by its parent.
type Component interface {
	Init() tea.Cmd
	Update(tea.Msg) (Component, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Themed widgets restyle when the dashboard switches theme.
type Themed interface {
	SetTheme(theme.Theme)
}

// Retheme applies th to every component that supports it.
func Retheme(th theme.Theme, cs ...Component) {
	for _, c := range cs {
		if t, ok := c.(Themed); ok {
			t.SetTheme(th)
		}
	}
}
