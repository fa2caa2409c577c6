// Package buffer provides the decision ring consumed by the dashboard.
package buffer

import (
	"sync"

	"github.com/daehyun-ko/feedsweep/internal/filter"
)

// Ring is a fixed-capacity circular buffer of decision records.
// When full, the oldest records are silently evicted.
// All operations are goroutine-safe.
type Ring struct {
	mu       sync.RWMutex
	records  []filter.Record
	head     int // next write position
	count    int // current number of records
	capacity int
	dropped  uint64 // total evicted records
}

// NewRing creates a ring buffer with the given capacity.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Ring{
		records:  make([]filter.Record, capacity),
		capacity: capacity,
	}
}

// Push adds a record to the ring buffer. If full, the oldest is evicted.
func (r *Ring) Push(rec filter.Record) {
	r.mu.Lock()
	r.records[r.head] = rec
	r.head = (r.head + 1) % r.capacity
	if r.count < r.capacity {
		r.count++
	} else {
		r.dropped++
	}
	r.mu.Unlock()
}

// Snapshot returns a copy of all buffered records in chronological order.
func (r *Ring) Snapshot() []filter.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]filter.Record, r.count)
	if r.count < r.capacity {
		copy(result, r.records[:r.count])
	} else {
		// Buffer is full: read from head (oldest) to end, then wrap.
		start := r.head % r.capacity
		n := copy(result, r.records[start:])
		copy(result[n:], r.records[:start])
	}
	return result
}

// Len returns the current number of records in the buffer.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Dropped returns the total number of evicted records.
func (r *Ring) Dropped() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dropped
}

// Cap returns the buffer capacity.
func (r *Ring) Cap() int {
	return r.capacity
}
