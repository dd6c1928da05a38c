package teaui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
	"github.com/gdlpLG/lbcwatch/pkg/api"
	"github.com/gdlpLG/lbcwatch/pkg/events"
	"github.com/gdlpLG/lbcwatch/pkg/job"
	"github.com/gdlpLG/lbcwatch/pkg/logging"
	"github.com/gdlpLG/lbcwatch/pkg/schedule"
	"github.com/gdlpLG/lbcwatch/pkg/session"
)

type fakeAPI struct {
	ads []ad.Ad
}

func (f *fakeAPI) FetchAds(context.Context, string) ([]ad.Ad, error) { return f.ads, nil }
func (f *fakeAPI) CountAds(context.Context, string) (int, error)    { return len(f.ads), nil }
func (f *fakeAPI) FetchJobStatus(context.Context) (job.Report, error) {
	return job.Report{Status: job.StatusIdle}, nil
}
func (f *fakeAPI) RequestStopJob(context.Context) error          { return nil }
func (f *fakeAPI) HideAd(context.Context, ad.ID) error           { return nil }
func (f *fakeAPI) MoveAds(context.Context, []ad.ID, string) error { return nil }
func (f *fakeAPI) RefreshWatch(context.Context, string) (api.RefreshResult, error) {
	return api.RefreshResult{}, nil
}
func (f *fakeAPI) StartAnalysis(context.Context, api.AnalyzeRequest) (string, error) {
	return "", nil
}
func (f *fakeAPI) ListWatches(context.Context) ([]ad.Watch, error)          { return nil, nil }
func (f *fakeAPI) GetWatch(context.Context, string) (ad.Watch, error)       { return ad.Watch{}, nil }
func (f *fakeAPI) MarkViewed(context.Context, string) error                 { return nil }
func (f *fakeAPI) PriceHistory(context.Context, ad.ID) ([]ad.PricePoint, error) { return nil, nil }

func (f *fakeAPI) CompareAds(_ context.Context, ads []ad.Ad) (api.Comparison, error) {
	return api.Comparison{Analysis: "Le vélo carbone est le meilleur choix."}, nil
}
func (f *fakeAPI) ClearAnalyses(context.Context, api.ClearAnalysisRequest) error { return nil }

func price(v float64) *float64 { return &v }

func newTestModel(t *testing.T) Model {
	t.Helper()
	gem := 9.0
	f := &fakeAPI{ads: []ad.Ad{
		{ID: "1", Title: "Vélo carbone shimano", Price: price(900), Location: "Lyon", AIScore: &gem},
		{ID: "2", Title: "Vélo acier vintage", Price: price(150), Location: "Paris"},
		{ID: "3", Title: "Casque route", Price: price(40), Location: "Lyon"},
	}}
	s := session.New(f, session.Options{
		Scheduler: schedule.NewManual(),
		Logger:    logging.Discard(),
	})
	t.Cleanup(s.Close)

	m := New(context.Background(), s, nil, "velo")
	msg := m.open("velo")()
	next, _ := m.Update(msg)
	m = next.(Model)
	next, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func press(t *testing.T, m Model, msgs ...tea.KeyPressMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func key(r rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: r, Text: string(r)} }

func stripANSI(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func TestViewRendersLoadedWatch(t *testing.T) {
	m := newTestModel(t)

	view := stripANSI(m.View())
	for _, want := range []string{"lbcwatch · velo", "3 ads", "Vélo carbone shimano", "900€", "9/10", "✨"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view; view=%q", want, view)
		}
	}
}

func TestSpaceTogglesSelection(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	if got := m.s.Selection().Len(); got != 1 {
		t.Fatalf("selection = %d, want 1", got)
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, "1 selected") || !strings.Contains(view, "●") {
		t.Fatalf("expected selection marker in view; view=%q", view)
	}

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if got := m.s.Selection().Len(); got != 0 {
		t.Fatalf("selection after esc = %d, want 0", got)
	}
}

func TestTagModeFiltersAds(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, key('t'))
	if m.mode != modeTags {
		t.Fatalf("mode = %v, want tags", m.mode)
	}
	// "vélo" is the most frequent word, so it is the first tag.
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if active := m.s.Filter().Active(); len(active) != 1 || active[0] != "vélo" {
		t.Fatalf("active tags = %v, want [vélo]", active)
	}
	if got := len(m.adList.Items()); got != 2 {
		t.Fatalf("visible ads = %d, want 2", got)
	}

	m = press(t, m, key('c'), tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNormal {
		t.Fatalf("mode = %v, want normal", m.mode)
	}
	if got := len(m.adList.Items()); got != 3 {
		t.Fatalf("visible ads after clear = %d, want 3", got)
	}
}

func TestSortCycles(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, key('s'), key('s'))
	if m.sortIdx != 1 {
		t.Fatalf("sortIdx = %d, want 1", m.sortIdx)
	}
	first := m.adList.Items()[0].(adItem).ad
	if first.ID != "3" {
		t.Fatalf("first ad after price sort = %s, want 3", first.ID)
	}
	if view := stripANSI(m.View()); !strings.Contains(view, "sort: price-asc") {
		t.Fatalf("expected sort in header; view=%q", view)
	}
}

func TestBusMessagesUpdateView(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(events.UpdateBannerMsg{Watch: "velo", New: 2, Text: "2 new ad(s) available, refresh to load them."})
	m = next.(Model)
	next, _ = m.Update(events.FlashMsg{Level: events.LevelSuccess, Text: "✅ 2 ad(s) hidden."})
	m = next.(Model)
	next, _ = m.Update(events.JobPanelMsg{Open: true})
	m = next.(Model)
	next, _ = m.Update(events.JobLogMsg{Level: events.LevelInfo, Message: "Analysing ad 3/10"})
	m = next.(Model)

	view := stripANSI(m.View())
	for _, want := range []string{"2 new ad(s) available", "✅ 2 ad(s) hidden.", "AI analysis", "Analysing ad 3/10"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view; view=%q", want, view)
		}
	}

	next, _ = m.Update(events.UpdateBannerMsg{})
	m = next.(Model)
	if strings.Contains(stripANSI(m.View()), "new ad(s) available") {
		t.Fatalf("banner should be dismissed")
	}
}

func TestPromptEscCancels(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, key('w'))
	if m.mode != modePrompt || m.kind != promptWatch {
		t.Fatalf("mode = %v kind = %v, want watch prompt", m.mode, m.kind)
	}
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNormal {
		t.Fatalf("mode = %v, want normal", m.mode)
	}
}

func TestSelectiveAnalyzeNeedsSelection(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, key('I'))
	if m.mode != modeNormal {
		t.Fatalf("prompt should not open without a selection")
	}
	if !strings.Contains(m.status, "Select at least one ad.") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, key('?'))
	if m.mode != modeHelp {
		t.Fatalf("mode = %v, want help", m.mode)
	}
	view := stripANSI(m.View())
	for _, want := range []string{"AI analysis", "ask a question about the selection", "esc close help"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in help view; view=%q", want, view)
		}
	}

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNormal {
		t.Fatalf("mode = %v, want normal", m.mode)
	}
	if strings.Contains(stripANSI(m.View()), "ask a question about the selection") {
		t.Fatal("help should be closed")
	}
}

func TestHelpKeepsFooterOnSmallTerminal(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	m = press(t, next.(Model), key('?'))

	lines := strings.Split(stripANSI(m.View()), "\n")
	if len(lines) != 12 {
		t.Fatalf("view has %d lines, want 12", len(lines))
	}
	if last := lines[len(lines)-1]; !strings.Contains(last, "esc close help") {
		t.Fatalf("last line = %q, want the help footer", last)
	}
	if !strings.Contains(strings.Join(lines[:len(lines)-1], "\n"), "select or unselect the ad") {
		t.Fatal("help panel not drawn above the footer")
	}
}

func TestCompareOpensPanelWithVerdict(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, key('a'))
	next, cmd := m.Update(key('c'))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("compare should return a command")
	}
	next, _ = m.Update(cmd())
	m = next.(Model)

	if !m.panelOpen {
		t.Fatal("the job panel should open with the comparison")
	}
	var found bool
	for _, e := range m.jobLog.Entries() {
		if strings.Contains(e.Summary, "meilleur choix") {
			found = true
		}
	}
	if !found {
		t.Fatalf("verdict missing from the panel: %+v", m.jobLog.Entries())
	}
	if !strings.Contains(stripANSI(m.View()), "Le vélo carbone est le meilleur choix.") {
		t.Fatal("verdict not rendered")
	}
}

func TestCompareNeedsTwoAds(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	next, cmd := m.Update(key('c'))
	m = next.(Model)
	next, _ = m.Update(cmd())
	m = next.(Model)
	if m.panelOpen || len(m.jobLog.Entries()) != 0 {
		t.Fatal("a failed comparison must not open the panel")
	}
}
