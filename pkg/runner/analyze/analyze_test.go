package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdlpLG/lbcwatch/pkg/api"
	"github.com/gdlpLG/lbcwatch/pkg/logging"
	"github.com/gdlpLG/lbcwatch/pkg/printers"
	"github.com/gdlpLG/lbcwatch/pkg/schedule"
	"github.com/gdlpLG/lbcwatch/pkg/session"
)

type backend struct {
	mu       sync.Mutex
	compared []string
	cleared  []map[string]any
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch r.URL.Path {
	case "/api/ads":
		io.WriteString(w, `[{"id": 1, "title": "Vélo carbone", "price": 900, "ai_score": 8}, {"id": 2, "title": "Vélo alu", "price": 400}, {"id": 3, "title": "Casque"}]`)
	case "/api/compare-ads":
		var req struct {
			Ads []struct {
				Title string `json:"title"`
			} `json:"ads"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, a := range req.Ads {
			b.compared = append(b.compared, a.Title)
		}
		io.WriteString(w, `{"analysis": "Le vélo alu est la meilleure affaire."}`)
	case "/api/clear-analysis":
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.cleared = append(b.cleared, req)
		io.WriteString(w, `{"success": true}`)
	}
}

func newSession(t *testing.T, b *backend) *session.ClientSession {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	s := session.New(api.NewClient(srv.URL, time.Second), session.Options{
		Scheduler: schedule.NewManual(),
		Logger:    logging.Discard(),
	})
	t.Cleanup(s.Close)
	return s
}

func TestCompare(t *testing.T) {
	b := &backend{}
	var buf bytes.Buffer
	n := &Compare{
		Session: newSession(t, b),
		Printer: &printers.PrettyPrint{Out: &buf},
		Watch:   "velo",
		IDs:     []string{"2", "1"},
	}
	if err := n.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(b.compared, []string{"Vélo alu", "Vélo carbone"}) {
		t.Fatalf("compared = %v", b.compared)
	}
	out := buf.String()
	for _, want := range []string{"Vélo alu", "400€", "900€", "AI verdict", "meilleure affaire"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCompareWithoutAI(t *testing.T) {
	b := &backend{}
	var buf bytes.Buffer
	n := &Compare{
		Session: newSession(t, b),
		Printer: &printers.PrettyPrint{Out: &buf},
		IDs:     []string{"1", "3"},
		NoAI:    true,
	}
	if err := n.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(b.compared) != 0 {
		t.Fatal("--no-ai must not call the server")
	}
	if out := buf.String(); !strings.Contains(out, "Casque") || strings.Contains(out, "AI verdict") {
		t.Fatalf("output = %q", out)
	}

	one := &Compare{Session: n.Session, Printer: n.Printer, IDs: []string{"1"}}
	if err := one.Do(context.Background()); err == nil {
		t.Fatal("comparing a single ad should fail")
	}
}

func TestClearAnalyses(t *testing.T) {
	b := &backend{}
	s := newSession(t, b)
	var buf bytes.Buffer
	pp := &printers.PrettyPrint{Out: &buf}
	ctx := context.Background()

	if err := (&ClearAnalyses{Session: s, Printer: pp, Watch: "velo"}).Do(ctx); err == nil {
		t.Fatal("want an error without ids or --all")
	}
	if err := (&ClearAnalyses{Session: s, Printer: pp, Watch: "velo", IDs: []string{"1"}, All: true}).Do(ctx); err == nil {
		t.Fatal("want an error with both ids and --all")
	}
	if len(b.cleared) != 0 {
		t.Fatalf("cleared = %v", b.cleared)
	}

	if err := (&ClearAnalyses{Session: s, Printer: pp, Watch: "velo", IDs: []string{"1", "2"}}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&ClearAnalyses{Session: s, Printer: pp, Watch: "velo", All: true}).Do(ctx); err != nil {
		t.Fatal(err)
	}
	if len(b.cleared) != 2 {
		t.Fatalf("cleared = %v", b.cleared)
	}
	if ids, _ := b.cleared[0]["ad_ids"].([]any); len(ids) != 2 {
		t.Fatalf("selective request = %v", b.cleared[0])
	}
	if b.cleared[1]["search_name"] != "velo" {
		t.Fatalf("watch request = %v", b.cleared[1])
	}
	out := buf.String()
	if !strings.Contains(out, "2 analysis(es) cleared.") || !strings.Contains(out, `Analyses of "velo" cleared.`) {
		t.Fatalf("output = %q", out)
	}
}
