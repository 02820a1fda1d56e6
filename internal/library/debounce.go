package library

import (
	"sync"
	"time"
)

// Debouncer runs fn once a burst of Trigger calls has been quiet for the delay.
// Runs never overlap; a trigger that lands mid-run schedules one more run.
type Debouncer struct {
	fn    func()
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	running bool
	stopped bool
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	if delay <= 0 {
		delay = time.Second
	}
	return &Debouncer{fn: fn, delay: delay}
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = true
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.onTimer)
		return
	}
	d.timer.Reset(d.delay)
}

// Stop cancels any scheduled run. A run already in progress finishes.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
}

func (d *Debouncer) onTimer() {
	d.mu.Lock()
	if d.running {
		d.timer.Reset(d.delay)
		d.mu.Unlock()
		return
	}
	if !d.pending || d.stopped {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.running = true
	d.mu.Unlock()

	d.fn()

	d.mu.Lock()
	d.running = false
	if d.pending && !d.stopped {
		d.timer.Reset(d.delay)
	}
	d.mu.Unlock()
}
