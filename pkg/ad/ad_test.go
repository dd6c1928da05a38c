package ad

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestAdDecodesLooseFields(t *testing.T) {
	payload := `[
		{"id": 12345, "title": " Vélo ", "price": 120.5, "is_pro": 1, "price_dropped": true, "ai_score": null, "ai_summary": ""},
		{"id": "abc", "title": "", "price": null, "is_pro": 0, "source": "manual", "ai_score": 9, "ai_summary": "Très bon état"}
	]`
	var ads []Ad
	if err := json.Unmarshal([]byte(payload), &ads); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	first := ads[0].Normalize()
	if first.ID != "12345" {
		t.Fatalf("numeric id = %q, want 12345", first.ID)
	}
	if first.Title != "Vélo" {
		t.Fatalf("title = %q", first.Title)
	}
	if !bool(first.IsPro) || !bool(first.PriceDropped) {
		t.Fatalf("flags not decoded: %+v", first)
	}
	if first.Scored() {
		t.Fatal("missing ai_score must read as unscored")
	}
	if first.AISummary != nil {
		t.Fatal("blank summary should normalize to nil")
	}
	if first.Source != SourceDefault {
		t.Fatalf("source = %q, want %q", first.Source, SourceDefault)
	}

	second := ads[1].Normalize()
	if second.Title != "(untitled)" {
		t.Fatalf("blank title = %q", second.Title)
	}
	if second.Price != nil || second.PriceValue() != 0 {
		t.Fatalf("null price should stay nil, got %v", second.Price)
	}
	if !second.IsManual() || !second.IsGem() {
		t.Fatalf("expected manual gem: %+v", second)
	}
	if got := second.Text(); got != "(untitled) très bon état" {
		t.Fatalf("Text() = %q", got)
	}
}

func TestCloneDoesNotShare(t *testing.T) {
	score := 7.0
	a := Ad{ID: "1", AIScore: &score}
	c := a.Clone()
	*c.AIScore = 1
	if *a.AIScore != 7 {
		t.Fatal("clone shares score pointer")
	}
}

func TestPublished(t *testing.T) {
	now := time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		date  string
		isNew bool
	}{
		{"2025-03-02T08:00:00Z", true},
		{"2025-03-01 08:00:00", false},
		{"2025-03-02T09:30:00.123456", true},
		{"not a date", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := (Ad{Date: tc.date}).IsNew(now); got != tc.isNew {
			t.Errorf("IsNew(%q) = %v, want %v", tc.date, got, tc.isNew)
		}
	}
}

func TestWatchDecodesForeignMetadata(t *testing.T) {
	payload := `{
		"name": "Vélos",
		"query_text": "velo specialized",
		"refresh_mode": "AUTO",
		"refresh_interval": 0,
		"platforms": "{'lbc': True, 'vinted': False}",
		"locations": "[{'type': 'city', 'value': 'Lyon', 'radius': 20}, {'type': 'region', 'value': 'Bretagne', 'radius': 30}]",
		"is_active": 1,
		"ai_context": null
	}`
	var w Watch
	if err := json.Unmarshal([]byte(payload), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if w.RefreshMode != RefreshAuto || w.RefreshInterval != DefaultRefreshInterval {
		t.Fatalf("refresh = %s/%d", w.RefreshMode, w.RefreshInterval)
	}
	if got := w.EnabledPlatforms(); !reflect.DeepEqual(got, []string{"lbc"}) {
		t.Fatalf("platforms = %v", got)
	}
	want := []Location{
		{Type: LocationCity, Value: "Lyon", Radius: 20},
		{Type: LocationRegion, Value: "Bretagne"},
	}
	if !reflect.DeepEqual(w.Locations, want) {
		t.Fatalf("locations = %#v, want %#v", w.Locations, want)
	}
}

func TestWatchToleratesBrokenMetadata(t *testing.T) {
	payload := `{"name": "x", "query_text": "x", "refresh_mode": "weekly", "platforms": "{{", "locations": "oops"}`
	var w Watch
	if err := json.Unmarshal([]byte(payload), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if w.RefreshMode != RefreshManual {
		t.Fatalf("unknown mode should normalize to manual, got %s", w.RefreshMode)
	}
	if len(w.Platforms) != 0 || len(w.Locations) != 0 {
		t.Fatalf("broken metadata should degrade to empty: %+v", w)
	}
}
