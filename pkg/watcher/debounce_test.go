package watcher

import (
	"sync"
	"testing"
	"time"
)

func TestDebounceCoalescesRepeatedEvents(t *testing.T) {
	q := NewDebounceQueue(50 * time.Millisecond)
	defer q.Stop()

	var mu sync.Mutex
	fired := 0

	for i := 0; i < 5; i++ {
		q.Add("/tmp/report.pdf", func(string) {
			mu.Lock()
			fired++
			mu.Unlock()
		})
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fired != 1 {
		t.Errorf("callback fired %d times, want 1", fired)
	}
}

func TestDebounceTracksFilesIndependently(t *testing.T) {
	q := NewDebounceQueue(30 * time.Millisecond)
	defer q.Stop()

	var mu sync.Mutex
	seen := make(map[string]int)
	record := func(path string) {
		mu.Lock()
		seen[path]++
		mu.Unlock()
	}

	q.Add("/tmp/a.pdf", record)
	q.Add("/tmp/b.pdf", record)

	if q.Pending() != 2 {
		t.Errorf("pending = %d, want 2", q.Pending())
	}

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if seen["/tmp/a.pdf"] != 1 || seen["/tmp/b.pdf"] != 1 {
		t.Errorf("seen = %v, want each file exactly once", seen)
	}
	if q.Pending() != 0 {
		t.Errorf("pending = %d after firing, want 0", q.Pending())
	}
}

func TestDebounceStopCancelsPending(t *testing.T) {
	q := NewDebounceQueue(30 * time.Millisecond)

	var mu sync.Mutex
	fired := false
	q.Add("/tmp/a.pdf", func(string) {
		mu.Lock()
		fired = true
		mu.Unlock()
	})

	q.Stop()
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fired {
		t.Error("callback fired after Stop")
	}
	if q.Pending() != 0 {
		t.Errorf("pending = %d after Stop, want 0", q.Pending())
	}
}
