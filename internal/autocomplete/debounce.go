package autocomplete

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc in production, a fake clock in tests.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer runs the most recently triggered function once wait has passed
// without another Trigger.
type Debouncer struct {
	mu    sync.Mutex
	wait  time.Duration
	after AfterFunc
	timer Timer
	gen   uint64
}

func NewDebouncer(wait time.Duration, after AfterFunc) *Debouncer {
	if after == nil {
		after = realAfterFunc
	}
	return &Debouncer{wait: wait, after: after}
}

// Trigger cancels any pending call and schedules fn. after may run the
// callback synchronously.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	d.cancelLocked()
	gen := d.gen
	d.mu.Unlock()

	t := d.after(d.wait, func() {
		d.mu.Lock()
		// a timer that already fired can still lose the race with Stop
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.gen++
		d.timer = nil
		d.mu.Unlock()
		fn()
	})

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen == d.gen {
		d.timer = t
	} else {
		t.Stop()
	}
}

// Stop cancels the pending call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
