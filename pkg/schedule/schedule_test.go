package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestManualFiresInOrder(t *testing.T) {
	m := NewManual()
	var got []string
	m.Every(time.Second, func() { got = append(got, "fast") })
	m.Every(3*time.Second, func() { got = append(got, "slow") })

	m.Advance(3 * time.Second)
	want := []string{"fast", "fast", "fast", "slow"}
	if len(got) != len(want) {
		t.Fatalf("runs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("runs = %v, want %v", got, want)
		}
	}
}

func TestManualCancelFromTask(t *testing.T) {
	m := NewManual()
	runs := 0
	var task Task
	task = m.Every(time.Second, func() {
		runs++
		if runs == 2 {
			task.Cancel()
		}
	})
	m.Advance(10 * time.Second)
	if runs != 2 {
		t.Fatalf("runs = %d, want 2", runs)
	}
	if m.Active() != 0 {
		t.Fatalf("active = %d, want 0", m.Active())
	}
}

func TestCronRunsAndCancels(t *testing.T) {
	if testing.Short() {
		t.Skip("waits on the wall clock")
	}
	c := NewCron(nil)
	defer c.Stop(context.Background())

	var runs int32
	task := c.Every(time.Second, func() { atomic.AddInt32(&runs, 1) })
	time.Sleep(2500 * time.Millisecond)
	task.Cancel()
	task.Cancel()
	seen := atomic.LoadInt32(&runs)
	if seen < 1 {
		t.Fatalf("runs = %d, want at least 1", seen)
	}
	time.Sleep(1500 * time.Millisecond)
	if after := atomic.LoadInt32(&runs); after != seen {
		t.Fatalf("task ran after cancel: %d -> %d", seen, after)
	}
}
