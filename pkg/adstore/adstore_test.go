package adstore

import (
	"reflect"
	"testing"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
	"github.com/gdlpLG/lbcwatch/pkg/events"
)

func price(v float64) *float64 { return &v }

func fixture() []ad.Ad {
	return []ad.Ad{
		{ID: "a", Title: "Vélo route", Price: price(300), Date: "2025-03-01T10:00:00Z", AIScore: price(6)},
		{ID: "b", Title: "Vélo enfant", Date: "2025-03-03T10:00:00Z"},
		{ID: "c", Title: "Casque", Price: price(40), Date: "garbage", AIScore: price(9)},
		{ID: "d", Title: "Pompe", Price: price(40), Date: "2025-03-02T10:00:00Z", AIScore: price(6)},
	}
}

func TestReplaceEmitsAndResetsSeen(t *testing.T) {
	bus := events.NewBus(8)
	s := New("", bus)
	if s.Loaded() {
		t.Fatal("new store should not be loaded")
	}
	s.Replace(" Vélos ", fixture())

	if s.Len() != 4 || s.LastSeen() != 4 || s.Watch() != "Vélos" {
		t.Fatalf("len=%d seen=%d watch=%q", s.Len(), s.LastSeen(), s.Watch())
	}
	msg, ok := (<-bus.Events()).(events.AdsReplacedMsg)
	if !ok || msg.Count != 4 || msg.Revision != 1 || msg.Component != "adstore" {
		t.Fatalf("unexpected event %#v", msg)
	}

	if !s.PatchRemove("b") {
		t.Fatal("PatchRemove(b) = false")
	}
	if s.PatchRemove("b") {
		t.Fatal("second PatchRemove(b) should be a no-op")
	}
	if s.LastSeen() != 4 {
		t.Fatalf("removal must not lower last seen, got %d", s.LastSeen())
	}
	if s.Has("b") {
		t.Fatal("b still present")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New("", nil)
	s.Replace("", fixture())
	snap := s.Snapshot()
	*snap[0].Price = 1
	snap[0].Title = "changed"

	got, _ := s.Get("a")
	if got.PriceValue() != 300 || got.Title != "Vélo route" {
		t.Fatalf("snapshot mutation leaked: %+v", got)
	}
}

func TestSort(t *testing.T) {
	cases := []struct {
		key  SortKey
		want []ad.ID
	}{
		{SortPriceAsc, []ad.ID{"b", "c", "d", "a"}},
		{SortScoreDesc, []ad.ID{"c", "a", "d", "b"}},
		{SortDateDesc, []ad.ID{"b", "d", "a", "c"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.key), func(t *testing.T) {
			s := New("", nil)
			s.Replace("", fixture())
			s.Sort(tc.key)
			if got := s.IDs(); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Sort(%s) = %v, want %v", tc.key, got, tc.want)
			}
		})
	}
}

func TestParseSortKey(t *testing.T) {
	if k, ok := ParseSortKey("Score"); !ok || k != SortScoreDesc {
		t.Fatalf("ParseSortKey(Score) = %q, %v", k, ok)
	}
	if _, ok := ParseSortKey("size"); ok {
		t.Fatal("unknown key accepted")
	}
}
