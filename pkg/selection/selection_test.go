package selection

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"golang.org/x/time/rate"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
)

func TestToggleIsItsOwnInverse(t *testing.T) {
	s := New()
	s.Toggle(ad.Ad{ID: "keep", Title: "kept"})
	before := s.IDs()

	if !s.Toggle(ad.Ad{ID: "x", Title: "x"}) {
		t.Fatal("first toggle should select")
	}
	if s.Toggle(ad.Ad{ID: "x"}) {
		t.Fatal("second toggle should deselect")
	}
	if got := s.IDs(); !reflect.DeepEqual(got, before) {
		t.Fatalf("IDs = %v, want %v", got, before)
	}
}

func TestItemsAreCopies(t *testing.T) {
	s := New()
	score := 9.0
	a := ad.Ad{ID: "1", Title: "Vélo", AIScore: &score}
	s.Toggle(a)
	score = 1

	items := s.Items()
	if len(items) != 1 || items[0].Score() != 9 || items[0].Title != "Vélo" {
		t.Fatalf("Items() = %+v", items)
	}
}

func TestSelectAllAndRetain(t *testing.T) {
	s := New()
	s.Toggle(ad.Ad{ID: "2"})
	added := s.SelectAll([]ad.Ad{{ID: "1"}, {ID: "2"}, {ID: "3"}})
	if added != 2 || s.Len() != 3 {
		t.Fatalf("added=%d len=%d", added, s.Len())
	}
	dropped := s.Retain(func(id ad.ID) bool { return id != "1" })
	if dropped != 1 {
		t.Fatalf("dropped = %d", dropped)
	}
	if got := s.IDs(); !reflect.DeepEqual(got, []ad.ID{"2", "3"}) {
		t.Fatalf("IDs = %v", got)
	}
	s.Clear()
	if s.Len() != 0 || s.Contains("2") {
		t.Fatal("Clear left items behind")
	}
}

func TestRunBatchIsBestEffort(t *testing.T) {
	var calls []ad.ID
	res := RunBatch(context.Background(), []ad.ID{"a", "b", "c"}, rate.NewLimiter(rate.Inf, 1), func(_ context.Context, id ad.ID) error {
		calls = append(calls, id)
		if id == "b" {
			return errors.New("boom")
		}
		return nil
	})
	if !reflect.DeepEqual(calls, []ad.ID{"a", "b", "c"}) {
		t.Fatalf("calls = %v", calls)
	}
	if !reflect.DeepEqual(res.Succeeded, []ad.ID{"a", "c"}) || res.Failed != 1 || res.Err == nil {
		t.Fatalf("result = %+v", res)
	}
}

func TestRunBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := RunBatch(ctx, []ad.ID{"a", "b"}, rate.NewLimiter(1, 1), func(context.Context, ad.ID) error {
		t.Fatal("fn called on cancelled context")
		return nil
	})
	if res.Failed != 2 || len(res.Succeeded) != 0 {
		t.Fatalf("result = %+v", res)
	}
}
