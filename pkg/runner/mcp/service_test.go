package mcp

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
	"github.com/gdlpLG/lbcwatch/pkg/api"
	"github.com/gdlpLG/lbcwatch/pkg/job"
	"github.com/gdlpLG/lbcwatch/pkg/logging"
	"github.com/gdlpLG/lbcwatch/pkg/schedule"
	"github.com/gdlpLG/lbcwatch/pkg/session"
)

type memoryAPI struct {
	mu       sync.Mutex
	ads      map[string][]ad.Ad
	hidden   []ad.ID
	analyzed []api.AnalyzeRequest
	compared [][]ad.ID
}

func (m *memoryAPI) FetchAds(_ context.Context, watch string) ([]ad.Ad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ad.Ad(nil), m.ads[watch]...), nil
}

func (m *memoryAPI) CountAds(_ context.Context, watch string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ads[watch]), nil
}

func (m *memoryAPI) FetchJobStatus(context.Context) (job.Report, error) {
	return job.Report{Status: job.StatusIdle}, nil
}

func (m *memoryAPI) RequestStopJob(context.Context) error { return nil }

func (m *memoryAPI) HideAd(_ context.Context, id ad.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hidden = append(m.hidden, id)
	for w, list := range m.ads {
		kept := list[:0]
		for _, a := range list {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		m.ads[w] = kept
	}
	return nil
}

func (m *memoryAPI) MoveAds(context.Context, []ad.ID, string) error { return nil }

func (m *memoryAPI) RefreshWatch(context.Context, string) (api.RefreshResult, error) {
	return api.RefreshResult{Message: "ok"}, nil
}

func (m *memoryAPI) StartAnalysis(_ context.Context, req api.AnalyzeRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyzed = append(m.analyzed, req)
	return "Analysis started", nil
}

func (m *memoryAPI) ListWatches(context.Context) ([]ad.Watch, error) {
	return []ad.Watch{{Name: "velo"}}, nil
}

func (m *memoryAPI) GetWatch(_ context.Context, name string) (ad.Watch, error) {
	return ad.Watch{Name: name}, nil
}

func (m *memoryAPI) MarkViewed(context.Context, string) error { return nil }

func (m *memoryAPI) PriceHistory(context.Context, ad.ID) ([]ad.PricePoint, error) {
	return nil, nil
}

func (m *memoryAPI) CompareAds(_ context.Context, ads []ad.Ad) (api.Comparison, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compared = append(m.compared, ids(ads))
	return api.Comparison{Analysis: "ok"}, nil
}

func (m *memoryAPI) ClearAnalyses(context.Context, api.ClearAnalysisRequest) error { return nil }

func price(v float64) *float64 { return &v }

func newService(t *testing.T) (*Service, *memoryAPI) {
	t.Helper()
	nine := 9.0
	m := &memoryAPI{ads: map[string][]ad.Ad{
		"velo": {
			{ID: "1", Title: "Vélo carbone", Price: price(900), AIScore: &nine},
			{ID: "2", Title: "Vélo acier", Price: price(150)},
			{ID: "3", Title: "Casque", Price: price(40), Source: ad.SourceManual},
		},
	}}
	s := session.New(m, session.Options{
		Scheduler: schedule.NewManual(),
		Logger:    logging.Discard(),
	})
	t.Cleanup(s.Close)
	return NewService(s), m
}

func ids(ads []ad.Ad) []ad.ID {
	out := make([]ad.ID, len(ads))
	for i, a := range ads {
		out[i] = a.ID
	}
	return out
}

func TestServiceListAds(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	res, err := svc.ListAds(ctx, ListAdsOptions{Watch: "velo", Sort: "price"})
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(res.Ads); !reflect.DeepEqual(got, []ad.ID{"3", "2", "1"}) || res.Count != 3 {
		t.Fatalf("ads = %v count = %d", got, res.Count)
	}

	res, err = svc.ListAds(ctx, ListAdsOptions{Watch: "velo", Tags: []string{"vélo", " "}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Count != 2 {
		t.Fatalf("tag filtered count = %d, want 2", res.Count)
	}

	// Filters from the previous call do not leak into the next one.
	res, _ = svc.ListAds(ctx, ListAdsOptions{Watch: "velo", ManualOnly: true})
	if got := ids(res.Ads); !reflect.DeepEqual(got, []ad.ID{"3"}) {
		t.Fatalf("manual ads = %v", got)
	}

	res, _ = svc.ListAds(ctx, ListAdsOptions{Watch: "velo", Top: 5})
	if got := ids(res.Ads); !reflect.DeepEqual(got, []ad.ID{"1"}) {
		t.Fatalf("top ads = %v, want only the scored ad", got)
	}

	if _, err := svc.ListAds(ctx, ListAdsOptions{Watch: "velo", Sort: "bogus"}); err == nil {
		t.Fatal("expected an error for an unknown sort")
	}
}

func TestServiceHide(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()

	res, err := svc.Hide(ctx, "velo", ParseIDs("1, 3"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.Succeeded, []ad.ID{"1", "3"}) || res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}
	if !reflect.DeepEqual(m.hidden, []ad.ID{"1", "3"}) {
		t.Fatalf("hidden = %v", m.hidden)
	}

	if _, err := svc.Hide(ctx, "velo", []ad.ID{"2", "42"}); !errors.Is(err, ErrUnknownAds) {
		t.Fatalf("err = %v, want ErrUnknownAds", err)
	}
	if len(m.hidden) != 2 {
		t.Fatalf("nothing should be hidden when an id is unknown; hidden = %v", m.hidden)
	}
}

func TestServiceAnalyze(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()

	if _, err := svc.Analyze(ctx, "velo", []ad.ID{"2"}, "état ?"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Analyze(ctx, "velo", nil, ""); err != nil {
		t.Fatal(err)
	}
	if len(m.analyzed) != 2 {
		t.Fatalf("analyze calls = %d", len(m.analyzed))
	}
	if got := m.analyzed[0]; !reflect.DeepEqual(got.IDs, []ad.ID{"2"}) || got.CustomPrompt != "état ?" {
		t.Fatalf("selective body = %+v", got)
	}
	if got := m.analyzed[1]; len(got.AdsData) != 3 || got.AdsData[0].SearchName != "velo" {
		t.Fatalf("full body = %+v", got)
	}

	if _, err := svc.Analyze(ctx, "velo", []ad.ID{"2"}, ""); !errors.Is(err, session.ErrNoPrompt) {
		t.Fatalf("err = %v, want ErrNoPrompt", err)
	}
}

func TestServiceCompare(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()

	res, err := svc.Compare(ctx, "velo", ParseIDs("2,1"))
	if err != nil || res.Analysis != "ok" {
		t.Fatalf("Compare = %+v, %v", res, err)
	}
	if !reflect.DeepEqual(m.compared, [][]ad.ID{{"2", "1"}}) {
		t.Fatalf("compared = %v", m.compared)
	}
	if svc.session.Selection().Len() != 0 {
		t.Fatal("compare should not leave a selection behind")
	}
	if _, err := svc.Compare(ctx, "velo", []ad.ID{"1"}); !errors.Is(err, session.ErrTooFewToCompare) {
		t.Fatalf("err = %v, want ErrTooFewToCompare", err)
	}
}

func TestParseIDs(t *testing.T) {
	if got := ParseIDs(" a,,b , "); !reflect.DeepEqual(got, []ad.ID{"a", "b"}) {
		t.Fatalf("ParseIDs = %v", got)
	}
	if got := ParseIDs(""); got != nil {
		t.Fatalf("ParseIDs(\"\") = %v", got)
	}
}
