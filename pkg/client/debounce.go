package client

import (
	"sync"
	"time"
)

// SearchDebounce is the delay the front-end waits after the last keystroke.
const SearchDebounce = 500 * time.Millisecond

// Debouncer runs only the last function handed to Trigger once Delay has
// passed without another Trigger.
type Debouncer struct {
	Delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(d time.Duration) *Debouncer {
	if d <= 0 {
		d = SearchDebounce
	}
	return &Debouncer{Delay: d}
}

func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.Delay, fn)
}

// Stop drops any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
