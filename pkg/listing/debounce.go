package listing

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet window applied to search text.
const DefaultDebounce = 350 * time.Millisecond

// Debouncer delays fn until no new value has been pushed for window.
// Only the last value of a burst reaches fn.
type Debouncer[V any] struct {
	mu      sync.Mutex
	window  time.Duration
	fn      func(V)
	timer   *time.Timer
	gen     uint64
	pending V
	stopped bool
}

// NewDebouncer creates a debouncer. fn runs on the timer goroutine.
func NewDebouncer[V any](window time.Duration, fn func(V)) *Debouncer[V] {
	return &Debouncer[V]{window: window, fn: fn}
}

// Push records v and restarts the quiet window.
func (d *Debouncer[V]) Push(v V) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.gen++
	gen := d.gen
	d.pending = v
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen) })
}

// Pending reports whether a value is waiting for the window to elapse.
func (d *Debouncer[V]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop drops any pending value. Later pushes are ignored.
func (d *Debouncer[V]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer[V]) fire(gen uint64) {
	d.mu.Lock()
	// A timer that lost the race with Push or Stop still fires; its
	// generation no longer matches.
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.timer = nil
	d.mu.Unlock()

	d.fn(v)
}
