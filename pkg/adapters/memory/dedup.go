package memory

import (
	"context"
	"sync"
)

// DefaultDedupWindow is how many recent update IDs the Deduplicator remembers.
const DefaultDedupWindow = 4096

// Deduplicator implements ports.Deduplicator with a bounded FIFO window.
// Safe for concurrent use.
type Deduplicator struct {
	mu     sync.Mutex
	seen   map[int64]struct{}
	order  []int64
	window int
}

// NewDeduplicator creates a Deduplicator remembering up to window IDs.
func NewDeduplicator(window int) *Deduplicator {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &Deduplicator{
		seen:   make(map[int64]struct{}, window),
		window: window,
	}
}

// Seen records id and reports whether it was already recorded.
func (d *Deduplicator) Seen(ctx context.Context, id int64) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true, nil
	}
	d.seen[id] = struct{}{}
	d.order = append(d.order, id)
	if len(d.order) > d.window {
		oldest := d.order[0]
		d.order = d.order[1:]
		delete(d.seen, oldest)
	}
	return false, nil
}
