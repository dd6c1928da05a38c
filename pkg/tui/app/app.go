// Package teaui hosts the Bubble Tea program for the lbcwatch dashboard.
package teaui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
	"github.com/gdlpLG/lbcwatch/pkg/adstore"
	"github.com/gdlpLG/lbcwatch/pkg/api"
	"github.com/gdlpLG/lbcwatch/pkg/events"
	"github.com/gdlpLG/lbcwatch/pkg/prefs"
	"github.com/gdlpLG/lbcwatch/pkg/session"
	"github.com/gdlpLG/lbcwatch/pkg/tui/help"
	"github.com/gdlpLG/lbcwatch/pkg/tui/logview"
	"github.com/gdlpLG/lbcwatch/pkg/tui/overlay"
	"github.com/gdlpLG/lbcwatch/pkg/tui/theme"
	"github.com/gdlpLG/lbcwatch/pkg/tui/ui"
)

type mode int

const (
	modeNormal mode = iota
	modeTags
	modePrompt
	modeHelp
)

type promptKind int

const (
	promptNone promptKind = iota
	promptAnalyze
	promptMove
	promptWatch
)

const (
	panelHeight = 9
	tagsWidth   = 30

	hintText = "? help · space select · t tags · s sort · x hide · i analyze · q quit"
)

var keyHelp = []help.Section{
	{Title: "Ads", Bindings: []help.Binding{
		{Key: "space", Desc: "select or unselect the ad"},
		{Key: "a", Desc: "select every visible ad"},
		{Key: "esc", Desc: "clear the selection"},
		{Key: "x", Desc: "hide the selection, or the ad under the cursor"},
		{Key: "v", Desc: "move the selection to another watch"},
	}},
	{Title: "View", Bindings: []help.Binding{
		{Key: "t", Desc: "pick keyword tags"},
		{Key: "m", Desc: "manual ads only"},
		{Key: "s", Desc: "cycle the sort order"},
		{Key: "w", Desc: "open another watch"},
		{Key: "r", Desc: "refresh the watch on the marketplaces"},
		{Key: "R", Desc: "reload from the server"},
		{Key: "T", Desc: "switch theme"},
	}},
	{Title: "AI analysis", Bindings: []help.Binding{
		{Key: "i", Desc: "analyze the whole watch"},
		{Key: "I", Desc: "ask a question about the selection"},
		{Key: "c", Desc: "compare the selected ads"},
		{Key: "C", Desc: "clear the analyses of the selection"},
		{Key: "S", Desc: "stop the analysis"},
		{Key: "p", Desc: "show or hide the job panel"},
	}},
	{Title: "General", Bindings: []help.Binding{
		{Key: "?", Desc: "toggle this help"},
		{Key: "q", Desc: "quit"},
	}},
}

// messages
type loadedMsg struct {
	watch string
	err   error
}
type doneMsg struct{ err error }
type comparedMsg struct {
	res api.Comparison
	err error
}

// Model contains the dashboard state. Every piece of client state lives in the
// session; the model only keeps what is needed to draw it.
type Model struct {
	s     *session.ClientSession
	prefs *prefs.Store
	ctx   context.Context

	watch string
	mode  mode
	kind  promptKind

	adList  list.Model
	tagList list.Model
	input   textinput.Model
	jobLog  *logview.Model
	help    *help.Model
	theme   theme.Theme

	sortIdx   int
	panelOpen bool
	banner    string
	status    string
	statusLvl events.Level

	termWidth  int
	termHeight int

	now func() time.Time
}

// New creates the dashboard for watch ("" for every watch). p may be nil.
func New(ctx context.Context, s *session.ClientSession, p *prefs.Store, watch string) Model {
	th := theme.DarkTheme()
	if p != nil {
		th = theme.ForName(p.Theme())
	}

	d := list.NewDefaultDelegate()
	d.SetSpacing(0)
	ads := list.New([]list.Item{}, d, 80, 20)
	ads.SetShowHelp(false)
	ads.SetShowStatusBar(false)
	ads.SetFilteringEnabled(false)
	ads.SetShowTitle(false)

	td := list.NewDefaultDelegate()
	td.ShowDescription = false
	td.SetSpacing(0)
	tags := list.New([]list.Item{}, td, tagsWidth, 20)
	tags.Title = "Tags"
	tags.SetShowHelp(false)
	tags.SetShowStatusBar(false)
	tags.SetFilteringEnabled(false)

	ti := textinput.New()
	ti.CharLimit = 512
	ti.Prompt = ""

	return Model{
		s:       s,
		prefs:   p,
		ctx:     ctx,
		watch:   watch,
		adList:  ads,
		tagList: tags,
		input:   ti,
		jobLog:  logview.New(200, th),
		help:    help.New(keyHelp, th),
		theme:   th,
		sortIdx: -1,
		status:  "Loading...",
		now:     time.Now,
	}
}

// Init listens on the session bus and loads the first watch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.s.Bus().Listen(), m.open(m.watch))
}

func (m *Model) open(watch string) tea.Cmd {
	s, ctx := m.s, m.ctx
	return func() tea.Msg {
		return loadedMsg{watch: watch, err: s.Open(ctx, watch)}
	}
}

// run executes fn off the update loop. Failures are already flashed by the
// session, so the result only carries errors from elsewhere.
func (m *Model) run(fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return doneMsg{err: fn(ctx)}
	}
}

func (m *Model) compare() tea.Cmd {
	s, ctx := m.s, m.ctx
	return func() tea.Msg {
		res, err := s.CompareSelected(ctx)
		return comparedMsg{res: res, err: err}
	}
}

// showComparison writes the verdict into the job panel and opens it.
func (m *Model) showComparison(res api.Comparison) {
	now := m.now()
	m.jobLog.Append(logview.Entry{Timestamp: now, Summary: "🤖 Comparison", Level: events.LevelSuccess})
	width := max(m.termWidth-12, 20)
	for _, line := range strings.Split(wordwrap.String(strings.TrimSpace(res.Analysis), width), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m.jobLog.Append(logview.Entry{Timestamp: now, Summary: line, Level: events.LevelInfo})
	}
	if !m.panelOpen {
		m.panelOpen = true
		m.s.Poller().SetPanel(true)
	}
	m.applySizes()
	m.setStatus(events.LevelSuccess, "Comparison ready, see the panel.")
}

// Update handles messages and keybindings.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
		return m, nil

	case loadedMsg:
		if msg.err == nil {
			m.watch = msg.watch
			m.status = ""
		}
		cmds = append(cmds, m.sync()...)
		return m, tea.Batch(cmds...)

	case doneMsg:
		if msg.err != nil && m.status == "" {
			m.setStatus(events.LevelError, session.Describe(msg.err, "Unexpected error."))
		}
		return m, nil

	case comparedMsg:
		if msg.err != nil {
			return m, nil
		}
		m.showComparison(msg.res)
		return m, nil

	case events.AdsReplacedMsg, events.AdRemovedMsg, events.AdsSortedMsg,
		events.SelectionChangedMsg, events.FilterChangedMsg:
		cmds = append(cmds, m.sync()...)
		return m, tea.Batch(append(cmds, m.s.Bus().Listen())...)

	case events.JobLogMsg:
		m.jobLog.Append(logview.Entry{Timestamp: m.now(), Summary: msg.Message, Level: msg.Level})
		return m, m.s.Bus().Listen()

	case events.JobProgressMsg:
		m.jobLog.SetProgress(msg.Status, msg.Percent, msg.Visible)
		return m, m.s.Bus().Listen()

	case events.JobPanelMsg:
		m.panelOpen = msg.Open
		m.applySizes()
		return m, m.s.Bus().Listen()

	case events.JobDoneMsg:
		m.jobLog.Append(logview.Entry{Timestamp: m.now(), Summary: "Analysis complete.", Level: events.LevelSuccess})
		return m, m.s.Bus().Listen()

	case events.UpdateBannerMsg:
		m.banner = ""
		if msg.New > 0 {
			m.banner = msg.Text
		}
		m.applySizes()
		return m, m.s.Bus().Listen()

	case events.FlashMsg:
		m.setStatus(msg.Level, msg.Text)
		return m, m.s.Bus().Listen()

	case events.NotifyMsg:
		text := strings.TrimSpace(msg.Title + " " + msg.Body)
		m.setStatus(events.LevelSuccess, text)
		m.jobLog.Append(logview.Entry{Timestamp: m.now(), Summary: text, Level: events.LevelSuccess})
		return m, m.s.Bus().Listen()

	case tea.KeyPressMsg:
		switch m.mode {
		case modeHelp:
			switch msg.String() {
			case "q", "esc", "?":
				m.mode = modeNormal
				return m, nil
			}
			_, cmd := m.help.Update(msg)
			return m, cmd
		case modePrompt:
			return m.updatePrompt(msg)
		case modeTags:
			return m.updateTags(msg)
		default:
			return m.updateNormal(msg)
		}
	}

	return m, nil
}

func (m Model) updateNormal(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.mode = modeHelp
	case "space", " ":
		if a, ok := m.currentAd(); ok {
			m.s.ToggleSelect(a.ID)
			cmds = append(cmds, m.sync()...)
		}
	case "a":
		m.s.SelectAllVisible()
		cmds = append(cmds, m.sync()...)
	case "esc":
		m.s.ClearSelection()
		cmds = append(cmds, m.sync()...)
	case "t":
		m.mode = modeTags
		m.applySizes()
	case "m":
		m.s.SetManualOnly(!m.s.Filter().ManualOnly())
		cmds = append(cmds, m.sync()...)
	case "s":
		m.sortIdx = (m.sortIdx + 1) % len(adstore.SortKeys)
		m.s.Sort(adstore.SortKeys[m.sortIdx])
		cmds = append(cmds, m.sync()...)
	case "x":
		if m.s.Selection().Len() > 0 {
			cmds = append(cmds, m.run(func(ctx context.Context) error {
				_, err := m.s.HideSelected(ctx)
				return err
			}))
		} else if a, ok := m.currentAd(); ok {
			id := a.ID
			cmds = append(cmds, m.run(func(ctx context.Context) error {
				return m.s.HideAd(ctx, id)
			}))
		}
	case "v":
		if m.s.Selection().Len() == 0 {
			if a, ok := m.currentAd(); ok {
				m.s.ToggleSelect(a.ID)
			}
		}
		cmds = append(cmds, m.startPrompt(promptMove, "Move selection to watch"))
	case "r":
		cmds = append(cmds, m.run(func(ctx context.Context) error {
			_, err := m.s.RefreshWatch(ctx)
			return err
		}))
	case "R":
		cmds = append(cmds, m.open(m.watch))
	case "i":
		cmds = append(cmds, m.run(func(ctx context.Context) error {
			_, err := m.s.Analyze(ctx, session.AnalyzeRequest{})
			return err
		}))
	case "I":
		if m.s.Selection().Len() == 0 {
			m.setStatus(events.LevelWarn, "Select at least one ad.")
			break
		}
		cmds = append(cmds, m.startPrompt(promptAnalyze, "Prompt for the selected ads"))
	case "c":
		return m, m.compare()
	case "C":
		cmds = append(cmds, m.run(func(ctx context.Context) error {
			_, err := m.s.ClearAnalyses(ctx, true)
			return err
		}))
	case "S":
		cmds = append(cmds, m.run(m.s.StopAnalysis))
	case "p":
		m.panelOpen = !m.panelOpen
		m.s.Poller().SetPanel(m.panelOpen)
		m.applySizes()
	case "w":
		cmds = append(cmds, m.startPrompt(promptWatch, "Open watch (empty for all)"))
	case "T":
		m.toggleTheme()
		cmds = append(cmds, m.sync()...)
	default:
		var cmd tea.Cmd
		m.adList, cmd = m.adList.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateTags(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg.String() {
	case "esc", "t", "q":
		m.mode = modeNormal
		m.applySizes()
	case "space", " ", "enter":
		if it, ok := m.tagList.SelectedItem().(tagItem); ok {
			m.s.ToggleTag(it.tag.Word)
			cmds = append(cmds, m.sync()...)
		}
	case "c":
		m.s.ClearTags()
		cmds = append(cmds, m.sync()...)
	default:
		var cmd tea.Cmd
		m.tagList, cmd = m.tagList.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updatePrompt(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.endPrompt()
		m.setStatus(events.LevelInfo, "Cancelled")
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		kind := m.kind
		m.endPrompt()
		switch kind {
		case promptAnalyze:
			return m, m.run(func(ctx context.Context) error {
				_, err := m.s.Analyze(ctx, session.AnalyzeRequest{Selected: true, Prompt: value})
				return err
			})
		case promptMove:
			return m, m.run(func(ctx context.Context) error {
				_, err := m.s.MoveSelected(ctx, value)
				return err
			})
		case promptWatch:
			m.status = "Loading..."
			return m, m.open(value)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) startPrompt(kind promptKind, placeholder string) tea.Cmd {
	m.mode = modePrompt
	m.kind = kind
	m.input.Reset()
	m.input.Placeholder = placeholder
	return m.input.Focus()
}

func (m *Model) endPrompt() {
	m.mode = modeNormal
	m.kind = promptNone
	m.input.Reset()
	m.input.Blur()
}

func (m *Model) toggleTheme() {
	name := theme.Light
	if m.theme.Name == theme.Light {
		name = theme.Dark
	}
	if m.prefs != nil {
		saved, err := m.prefs.ToggleTheme()
		if err != nil {
			m.setStatus(events.LevelWarn, "Could not save the theme.")
		} else {
			name = saved
		}
	}
	m.theme = theme.ForName(name)
	ui.Retheme(m.theme, m.jobLog, m.help)
}

func (m *Model) setStatus(level events.Level, text string) {
	m.statusLvl = level
	m.status = text
}

// sync redraws the lists from the session snapshot.
func (m *Model) sync() []tea.Cmd {
	idx := m.adList.Index()
	cmds := []tea.Cmd{
		m.adList.SetItems(adItems(m.s.Visible(), m.s.Selection().Contains, m.now(), m.theme)),
		m.tagList.SetItems(tagItems(m.s.Tags(), m.s.Filter().IsActive, m.theme)),
	}
	if n := len(m.adList.Items()); n > 0 {
		if idx >= n {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		m.adList.Select(idx)
	}
	return cmds
}

func (m *Model) currentAd() (ad.Ad, bool) {
	it, ok := m.adList.SelectedItem().(adItem)
	if !ok {
		return ad.Ad{}, false
	}
	return it.ad, true
}

// View renders the header, the lists, the job panel and the footer.
func (m Model) View() string {
	rows := []string{m.header()}
	if m.banner != "" {
		rows = append(rows, m.theme.Header.Banner.Render(m.banner))
	}

	body := m.adList.View()
	if m.mode == modeTags {
		gap := lipgloss.NewStyle().Padding(0, 1).Render
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.tagList.View(), gap(" "), body)
	}
	rows = append(rows, body)
	if m.panelOpen {
		rows = append(rows, m.jobLog.View())
	}
	if m.mode == modeHelp && m.termWidth > 0 {
		// The help floats over the body only; the footer keeps its hint.
		base := lipgloss.JoinVertical(lipgloss.Left, rows...)
		base = overlay.Compose(base, m.termWidth, m.termHeight-1, m.help.View(), overlay.Placement{
			Horizontal: lipgloss.Center,
			Vertical:   lipgloss.Center,
		})
		return base + "\n" + m.footer()
	}
	rows = append(rows, m.footer())
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) header() string {
	scope := m.watch
	if scope == "" {
		scope = "All watches"
	}
	info := []string{fmt.Sprintf("%d ads", len(m.adList.Items()))}
	if n := m.s.Selection().Len(); n > 0 {
		info = append(info, fmt.Sprintf("%d selected", n))
	}
	if m.sortIdx >= 0 {
		info = append(info, "sort: "+string(adstore.SortKeys[m.sortIdx]))
	}
	if active := m.s.Filter().Active(); len(active) > 0 {
		info = append(info, "tags: "+strings.Join(active, ","))
	}
	if m.s.Filter().ManualOnly() {
		info = append(info, "manual only")
	}
	if st := m.s.JobState(); st.Running {
		info = append(info, "AI "+st.Status.Badge())
	}
	return m.theme.Header.Title.Render("lbcwatch · "+scope) + "  " +
		m.theme.Header.Info.Render(strings.Join(info, " · "))
}

func (m Model) footer() string {
	switch m.mode {
	case modePrompt:
		return m.theme.Footer.Prompt.Render(m.input.Placeholder+": ") + m.input.View()
	case modeHelp:
		return m.theme.Footer.Help.Render("↑/↓ scroll · esc close help")
	}
	status := m.status
	switch m.statusLvl {
	case events.LevelSuccess:
		status = m.theme.Flash.Success.Render(status)
	case events.LevelWarn:
		status = m.theme.Flash.Warn.Render(status)
	case events.LevelError:
		status = m.theme.Flash.Error.Render(status)
	default:
		status = m.theme.Footer.Status.Render(status)
	}
	hint := m.theme.Footer.Help.Render(hintText)
	if m.mode == modeTags {
		hint = m.theme.Footer.Help.Render("space toggle tag · c clear · esc back")
	}
	return status + "\n" + hint
}

// applySizes recalculates component sizes based on the terminal size.
func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	height := m.termHeight - 3
	if m.banner != "" {
		height--
	}
	if m.panelOpen {
		m.jobLog.SetSize(m.termWidth, panelHeight)
		height -= panelHeight
	}
	if height < 4 {
		height = 4
	}
	width := m.termWidth
	if m.mode == modeTags {
		m.tagList.SetSize(tagsWidth, height)
		width -= tagsWidth + 2
	}
	if width < 20 {
		width = 20
	}
	m.adList.SetSize(width, height)
	m.help.SetSize(min(m.termWidth-4, 64), max(3, min(m.termHeight-3, m.help.Lines()+2)))
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, s *session.ClientSession, p *prefs.Store, watch string) error {
	prog := tea.NewProgram(New(ctx, s, p, watch), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := prog.Run()
	return err
}
