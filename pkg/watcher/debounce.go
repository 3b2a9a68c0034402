package watcher

import (
	"sync"
	"time"
)

// DebounceQueue delays per-file callbacks until a file has seen no new
// write events for the configured duration, so partially written files
// are not submitted.
type DebounceQueue struct {
	timers   map[string]*time.Timer
	duration time.Duration
	mu       sync.Mutex
}

func NewDebounceQueue(duration time.Duration) *DebounceQueue {
	return &DebounceQueue{
		timers:   make(map[string]*time.Timer),
		duration: duration,
	}
}

// Add schedules the callback for filePath, resetting the timer if the
// file is already pending.
func (d *DebounceQueue) Add(filePath string, callback func(string)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, exists := d.timers[filePath]; exists {
		timer.Stop()
	}

	d.timers[filePath] = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		delete(d.timers, filePath)
		d.mu.Unlock()

		callback(filePath)
	})
}

// Stop cancels all pending timers and clears the queue
func (d *DebounceQueue) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, timer := range d.timers {
		timer.Stop()
	}
	d.timers = make(map[string]*time.Timer)
}

// Pending returns the number of files waiting out their debounce window
func (d *DebounceQueue) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}
