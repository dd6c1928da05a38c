package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/muesli/reflow/ansi"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
	"github.com/gdlpLG/lbcwatch/pkg/job"
)

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }

func sample() []ad.Ad {
	return []ad.Ad{
		{ID: "1", Title: "Vélo route", Price: f(250), Location: "Lyon", AIScore: f(9), AISummary: s("Très bon état, prix bas"), URL: "https://example.test/1"},
		{ID: "2", Title: "Casque", AIScore: f(4)},
		{ID: "3", Title: "Pompe", Price: f(15)},
	}
}

func TestAdsTable(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf, Verbose: true, Now: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)}
	pp.Ads(sample(), func(id ad.ID) bool { return id == "2" })

	out := buf.String()
	for _, want := range []string{"Vélo route", "250€", "9/10", "N/A", "Très bon état"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	var casque string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Casque") {
			casque = line
		}
	}
	if !strings.HasPrefix(casque, "●") {
		t.Fatalf("selected row not marked: %q", casque)
	}
}

func TestAdsEmpty(t *testing.T) {
	var buf bytes.Buffer
	(&PrettyPrint{Out: &buf}).Ads(nil, nil)
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestJobStatusLine(t *testing.T) {
	var buf bytes.Buffer
	(&PrettyPrint{Out: &buf}).JobStatus(job.State{Status: job.StatusLoading, LastMessage: "2/4", Percent: 50, ShowProgress: true})
	got := strings.TrimSpace(buf.String())
	if w := ansi.PrintableRuneWidth(got); w == 0 {
		t.Fatal("empty status line")
	}
	if !strings.Contains(got, "[##########..........]") || !strings.Contains(got, "50%") || !strings.Contains(got, "WORKING") {
		t.Fatalf("status = %q", got)
	}
}

func TestExport(t *testing.T) {
	now := time.Date(2025, 3, 2, 10, 30, 0, 0, time.UTC)
	out := Export("Vélos", sample(), true, now)

	if !strings.HasPrefix(out, "🏆 TOP 10 DEALS - Vélos\nGenerated on 2025-03-02 10:30\n") {
		t.Fatalf("header = %q", out)
	}
	if !strings.Contains(out, "1. VÉLO ROUTE\n") || !strings.Contains(out, "2. CASQUE\n") {
		t.Fatalf("ranking missing:\n%s", out)
	}
	if strings.Contains(out, "POMPE") {
		t.Fatal("unscored ads must not be exported")
	}
	if !strings.Contains(out, "⭐ AI score: 9/10") || !strings.Contains(out, "🤖 Summary: N/A") {
		t.Fatalf("AI lines missing:\n%s", out)
	}

	plain := Export("", sample(), false, now)
	if strings.Contains(plain, "AI score") || !strings.Contains(plain, "- Watch\n") {
		t.Fatalf("plain export = %q", plain)
	}
}

func TestProgressBarBounds(t *testing.T) {
	if got := ProgressBar(150, 4); got != "[####]" {
		t.Fatalf("got %q", got)
	}
	if got := ProgressBar(-5, 4); got != "[....]" {
		t.Fatalf("got %q", got)
	}
}

func TestWatchesRendersRelativeLastRun(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf, Now: time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)}

	pp.Watches([]ad.Watch{
		{Name: "velo", Query: "vélo carbone", RefreshMode: ad.RefreshAuto, RefreshInterval: 30, LastRun: "2025-03-03T09:00:00"},
		{Name: "casque", Query: "casque", RefreshMode: ad.RefreshManual},
	})
	out := buf.String()
	for _, want := range []string{"velo", "auto/30m", "3h ago", "casque", "N/A"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
