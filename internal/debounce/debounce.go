// Package debounce coalesces bursts of calls into one trailing call.
package debounce

import (
	"context"
	"sync"
	"time"
)

// Debouncer runs the most recent triggered function once the delay has
// passed without a newer trigger. A newer trigger cancels the pending call
// and the context of a call already running.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn. The context passed to fn is derived from ctx and is
// cancelled when the call is superseded or the debouncer is closed.
func (d *Debouncer) Trigger(ctx context.Context, fn func(context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.stopLocked()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.timer = time.AfterFunc(d.delay, func() {
		if runCtx.Err() != nil {
			return
		}
		fn(runCtx)
	})
}

// Cancel drops the pending call, if any, and reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

// Close cancels the pending call and ignores later triggers.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.closed = true
}

func (d *Debouncer) stopLocked() bool {
	pending := false
	if d.timer != nil {
		pending = d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	return pending
}
