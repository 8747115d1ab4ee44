package feed

import (
	"sync"

	"github.com/BowmanStephen/Script-Ohio-2.0-sub009/pkg/types"
)

// eventBuffer is a bounded FIFO window over delivered events. All methods are
// safe for concurrent use; the mutex is held only for the append-and-evict or
// the copy-on-read, never across transport calls.
type eventBuffer struct {
	mu       sync.Mutex
	capacity int
	entries  []types.EventRecord
}

func newEventBuffer(capacity int) *eventBuffer {
	if capacity <= 0 {
		capacity = defaultMaxEvents
	}
	return &eventBuffer{capacity: capacity}
}

// push appends rec at the tail, evicting the oldest entry when the window is
// over capacity.
func (b *eventBuffer) push(rec types.EventRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, rec)
	if len(b.entries) > b.capacity {
		b.entries = b.entries[len(b.entries)-b.capacity:]
	}
}

// tail returns a copy of up to limit most recent entries, oldest first.
func (b *eventBuffer) tail(limit int) []types.EventRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.entries)
	if limit > n {
		limit = n
	}
	if limit < 0 {
		limit = 0
	}
	out := make([]types.EventRecord, limit)
	copy(out, b.entries[n-limit:])
	return out
}

// size returns the current number of buffered entries.
func (b *eventBuffer) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
