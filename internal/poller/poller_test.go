package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoller_ImmediateFirstRefresh(t *testing.T) {
	var calls atomic.Int32
	p := New(Config{Name: "test", Interval: time.Hour}, TaskFunc(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}), nil)

	p.Start(context.Background())
	defer p.Stop()

	deadline := time.Now().Add(time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1 immediate refresh", got)
	}
}

func TestPoller_NoOverlap(t *testing.T) {
	var inFlight, maxInFlight, calls atomic.Int32

	// Each refresh takes several intervals; concurrency must stay at 1.
	task := TaskFunc(func(ctx context.Context) error {
		calls.Add(1)
		cur := inFlight.Add(1)
		for {
			prev := maxInFlight.Load()
			if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
				break
			}
		}
		time.Sleep(80 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	})

	p := New(Config{Name: "slow", Interval: 10 * time.Millisecond}, task, nil)
	p.Start(context.Background())

	time.Sleep(300 * time.Millisecond)
	p.Stop()

	if got := maxInFlight.Load(); got > 1 {
		t.Errorf("max concurrent refreshes = %d, want <= 1", got)
	}
	if p.Skipped() == 0 {
		t.Error("expected skipped ticks while a refresh was in flight")
	}
	if calls.Load() < 2 {
		t.Errorf("calls = %d, want the loop to keep refreshing", calls.Load())
	}
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	p := New(Config{Name: "stop", Interval: 10 * time.Millisecond}, TaskFunc(func(ctx context.Context) error {
		return nil
	}), nil)

	p.Start(context.Background())
	p.Stop()
	p.Stop() // must not panic or hang

	// Stop before Start on a fresh poller is also safe.
	fresh := New(Config{Name: "fresh", Interval: time.Second}, TaskFunc(func(ctx context.Context) error {
		return nil
	}), nil)
	fresh.Stop()
}

func TestPoller_NoRefreshAfterStop(t *testing.T) {
	var calls atomic.Int32
	p := New(Config{Name: "cancel", Interval: 20 * time.Millisecond}, TaskFunc(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}), nil)

	p.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	p.Stop()

	settled := calls.Load()
	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != settled {
		t.Errorf("calls grew from %d to %d after Stop", settled, got)
	}
}

func TestPoller_ContextCancelledDuringRefresh(t *testing.T) {
	var sawCancel atomic.Bool
	started := make(chan struct{})

	p := New(Config{Name: "midflight", Interval: time.Hour}, TaskFunc(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		// A cancelled ctx is the signal that results must not land.
		sawCancel.Store(true)
		return ctx.Err()
	}), nil)

	p.Start(context.Background())
	<-started
	p.Stop() // must wait for the in-flight refresh to unwind

	if !sawCancel.Load() {
		t.Error("in-flight refresh never observed cancellation")
	}
}

func TestPoller_RefreshErrorKeepsLoopAlive(t *testing.T) {
	var calls atomic.Int32
	p := New(Config{Name: "err", Interval: 15 * time.Millisecond}, TaskFunc(func(ctx context.Context) error {
		calls.Add(1)
		return context.DeadlineExceeded
	}), nil)

	p.Start(context.Background())
	defer p.Stop()

	deadline := time.Now().Add(time.Second)
	for calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := calls.Load(); got < 3 {
		t.Errorf("calls = %d, want the loop to survive refresh errors", got)
	}
}
