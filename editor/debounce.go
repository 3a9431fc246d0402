package editor

import (
	"sync"
	"time"
)

// Debouncer groups rapid successive calls into a single quiet period. The
// history manager uses one to decide whether a save still belongs to the
// current burst of edits.
//
// All methods are safe for concurrent use. The callback is never invoked
// concurrently with itself.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	pending  bool
	seq      uint64 // invalidates stale timer callbacks
	callback func()
}

// NewDebouncer returns a debouncer that invokes callback once no new call
// has been made for delay. A nil callback is allowed.
func NewDebouncer(delay time.Duration, callback func()) *Debouncer {
	return &Debouncer{delay: delay, callback: callback}
}

// Call starts or extends the quiet period. When called repeatedly within
// the delay, only the last call's timing counts.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = true
	d.seq++
	currentSeq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.pending && d.seq == currentSeq {
			d.pending = false
			cb := d.callback
			d.mu.Unlock()
			if cb != nil {
				cb()
			}
		} else {
			d.mu.Unlock()
		}
	})
}

// Cancel drops any pending call without invoking the callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
}

// IsPending reports whether a call is scheduled but has not fired yet.
func (d *Debouncer) IsPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
