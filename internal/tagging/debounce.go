package tagging

import (
	"sync"
	"time"
)

// Debouncer delays fn until no new Trigger has arrived for the quiet period.
// Only the text from the last Trigger is delivered.
type Debouncer struct {
	mu     sync.Mutex
	wait   time.Duration
	fn     func(string)
	timer  *time.Timer
	latest string
}

// NewDebouncer creates a debouncer firing fn after wait of inactivity.
func NewDebouncer(wait time.Duration, fn func(string)) *Debouncer {
	return &Debouncer{wait: wait, fn: fn}
}

// Trigger records text and restarts the quiet period.
func (d *Debouncer) Trigger(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latest = text
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.fire)
}

// Stop cancels a pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	text := d.latest
	d.timer = nil
	d.mu.Unlock()
	d.fn(text)
}
