package updates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdlpLG/lbcwatch/pkg/ad"
	"github.com/gdlpLG/lbcwatch/pkg/adstore"
	"github.com/gdlpLG/lbcwatch/pkg/events"
	"github.com/gdlpLG/lbcwatch/pkg/schedule"
)

type fakeCounter struct {
	n     int
	err   error
	calls int
}

func (f *fakeCounter) CountAds(context.Context, string) (int, error) {
	f.calls++
	return f.n, f.err
}

func loadedStore(watch string, n int) *adstore.Store {
	s := adstore.New("", nil)
	ads := make([]ad.Ad, n)
	for i := range ads {
		ads[i] = ad.Ad{ID: ad.ID(string(rune('a' + i)))}
	}
	s.Replace(watch, ads)
	return s
}

func drain(bus *events.Bus) []events.UpdateBannerMsg {
	var out []events.UpdateBannerMsg
	for {
		select {
		case msg := <-bus.Events():
			if b, ok := msg.(events.UpdateBannerMsg); ok {
				out = append(out, b)
			}
		default:
			return out
		}
	}
}

func TestCheckReportsDifference(t *testing.T) {
	bus := events.NewBus(8)
	counter := &fakeCounter{n: 15}
	w := New(counter, loadedStore("Vélos", 12), schedule.NewManual(), bus, 0, nil)

	n, raised := w.Check(context.Background())
	if n != 3 || !raised {
		t.Fatalf("Check() = %d, %v; want 3, true", n, raised)
	}
	banners := drain(bus)
	if len(banners) != 1 || banners[0].Text != "3 new ad(s) available, refresh to load them." {
		t.Fatalf("banners = %+v", banners)
	}

	// Same difference again: the banner stays, no second signal.
	if _, raised := w.Check(context.Background()); raised {
		t.Fatal("banner raised twice for the same difference")
	}
	if got := drain(bus); len(got) != 0 {
		t.Fatalf("unexpected banners %+v", got)
	}

	w.Dismiss()
	if w.Pending() != 0 {
		t.Fatal("Dismiss left the banner pending")
	}
	if got := drain(bus); len(got) != 1 || got[0].New != 0 {
		t.Fatalf("dismiss banners = %+v", got)
	}
}

func TestCheckNoops(t *testing.T) {
	cases := map[string]struct {
		base    Baseline
		counter *fakeCounter
		calls   int
	}{
		"no store load":   {base: adstore.New("", nil), counter: &fakeCounter{n: 5}},
		"no watch":        {base: loadedStore("", 2), counter: &fakeCounter{n: 5}},
		"fewer on server": {base: loadedStore("w", 4), counter: &fakeCounter{n: 3}, calls: 1},
		"count error":     {base: loadedStore("w", 1), counter: &fakeCounter{err: errors.New("down")}, calls: 1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := New(tc.counter, tc.base, schedule.NewManual(), nil, 0, nil)
			if n, raised := w.Check(context.Background()); n != 0 || raised {
				t.Fatalf("Check() = %d, %v", n, raised)
			}
			if tc.counter.calls != tc.calls {
				t.Fatalf("calls = %d, want %d", tc.counter.calls, tc.calls)
			}
		})
	}
}

func TestStartSchedulesOnce(t *testing.T) {
	clock := schedule.NewManual()
	counter := &fakeCounter{n: 1}
	w := New(counter, loadedStore("w", 1), clock, nil, 0, nil)
	w.Start(context.Background())
	w.Start(context.Background())
	clock.Advance(90 * time.Second)
	if counter.calls != 3 {
		t.Fatalf("calls = %d, want 3", counter.calls)
	}
	w.Stop()
	if clock.Active() != 0 {
		t.Fatal("Stop left a task behind")
	}
}
