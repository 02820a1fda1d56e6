package library

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesTriggers(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	done := make(chan struct{}, 4)
	d := NewDebouncer(20*time.Millisecond, func() {
		runs.Add(1)
		done <- struct{}{}
	})
	defer d.Stop()

	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(2 * time.Millisecond)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a run")
	}
	time.Sleep(60 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Fatalf("expected 1 run, got %d", got)
	}
}

func TestDebouncer_StopCancels(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { runs.Add(1) })
	d.Trigger()
	d.Stop()
	d.Trigger()
	time.Sleep(60 * time.Millisecond)
	if got := runs.Load(); got != 0 {
		t.Fatalf("expected no runs after stop, got %d", got)
	}
}
