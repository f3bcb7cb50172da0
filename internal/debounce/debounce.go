package debounce

import (
	"sync"
	"time"
)

// afterFunc is swapped out in tests to control timer callbacks.
var afterFunc = time.AfterFunc

// Debouncer collapses bursts of Trigger calls into a single invocation of
// fn after delay. A Trigger or Stop invalidates callbacks already
// scheduled by earlier triggers.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64
	fn    func()
}

func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Ensure initializes *d when nil and returns the stored debouncer. An
// already-set debouncer keeps its original handler.
func Ensure(d **Debouncer, delay time.Duration, fn func()) *Debouncer {
	if *d == nil {
		*d = New(delay, fn)
	}
	return *d
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = afterFunc(d.delay, func() {
		d.mu.Lock()
		stale := gen != d.gen
		d.mu.Unlock()
		if stale {
			return
		}
		d.fn()
	})
}

// Flush runs the pending callback immediately instead of waiting out the
// delay. A no-op when nothing is pending, so a flushed trigger never runs
// twice.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.timer != nil && d.timer.Stop()
	d.timer = nil
	d.gen++
	d.mu.Unlock()
	if pending {
		d.fn()
	}
}

func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
