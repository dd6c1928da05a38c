package theme

import "github.com/charmbracelet/lipgloss/v2"

// Names accepted by ForName.
const (
	Dark  = "dark"
	Light = "light"
)

// Theme centralizes Lip Gloss styles for the dashboard.
type Theme struct {
	Name   string
	Header HeaderTheme
	Ads    AdsTheme
	Footer FooterTheme
	Panel  PanelTheme
	Flash  FlashTheme
}

// HeaderTheme styles the top bar and the new-ads banner.
type HeaderTheme struct {
	Title  lipgloss.Style
	Info   lipgloss.Style
	Banner lipgloss.Style
}

// AdsTheme styles ad rows and their markers.
type AdsTheme struct {
	Gem      lipgloss.Style
	Drop     lipgloss.Style
	New      lipgloss.Style
	Selected lipgloss.Style
	Faint    lipgloss.Style
	Tag      lipgloss.Style
	TagOn    lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Prompt lipgloss.Style
}

// PanelTheme styles framed panels such as the job log.
type PanelTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Body     lipgloss.Style
	Progress lipgloss.Style
}

// FlashTheme colors transient messages by level.
type FlashTheme struct {
	Info    lipgloss.Style
	Success lipgloss.Style
	Warn    lipgloss.Style
	Error   lipgloss.Style
}

// ForName returns the named theme, Dark for anything unknown.
func ForName(name string) Theme {
	if name == Light {
		return LightTheme()
	}
	return DarkTheme()
}

// DarkTheme is the default.
func DarkTheme() Theme {
	return Theme{
		Name: Dark,
		Header: HeaderTheme{
			Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
			Info:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Banner: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Padding(0, 1),
		},
		Ads: AdsTheme{
			Gem:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
			Drop:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			New:      lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
			Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
			Faint:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			Tag:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
			TagOn:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Prompt: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		},
		Panel: PanelTheme{
			Frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
			Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("248")),
			Body:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
			Progress: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		},
		Flash: FlashTheme{
			Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
			Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			Warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347")),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		},
	}
}

// LightTheme swaps the greys for a light background.
func LightTheme() Theme {
	t := DarkTheme()
	t.Name = Light
	t.Header.Title = t.Header.Title.Foreground(lipgloss.Color("127"))
	t.Header.Info = t.Header.Info.Foreground(lipgloss.Color("240"))
	t.Ads.Gem = t.Ads.Gem.Foreground(lipgloss.Color("136"))
	t.Ads.Drop = t.Ads.Drop.Foreground(lipgloss.Color("28"))
	t.Ads.New = t.Ads.New.Foreground(lipgloss.Color("25"))
	t.Ads.Selected = t.Ads.Selected.Foreground(lipgloss.Color("127"))
	t.Ads.Faint = t.Ads.Faint.Foreground(lipgloss.Color("246"))
	t.Ads.Tag = t.Ads.Tag.Foreground(lipgloss.Color("238"))
	t.Ads.TagOn = t.Ads.TagOn.Foreground(lipgloss.Color("127"))
	t.Footer.Help = t.Footer.Help.Foreground(lipgloss.Color("240"))
	t.Footer.Status = t.Footer.Status.Foreground(lipgloss.Color("238"))
	t.Footer.Prompt = t.Footer.Prompt.Foreground(lipgloss.Color("127"))
	t.Panel.Frame = t.Panel.Frame.BorderForeground(lipgloss.Color("250"))
	t.Panel.Title = t.Panel.Title.Foreground(lipgloss.Color("236"))
	t.Panel.Body = t.Panel.Body.Foreground(lipgloss.Color("235"))
	t.Panel.Progress = t.Panel.Progress.Foreground(lipgloss.Color("127"))
	t.Flash.Info = t.Flash.Info.Foreground(lipgloss.Color("235"))
	t.Flash.Success = t.Flash.Success.Foreground(lipgloss.Color("28"))
	t.Flash.Warn = t.Flash.Warn.Foreground(lipgloss.Color("130"))
	t.Flash.Error = t.Flash.Error.Foreground(lipgloss.Color("160"))
	return t
}
