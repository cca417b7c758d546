package otel

import (
	"strings"
	"sync"
)

// DefaultRingSize is the capacity used when NewRingBuffer gets a non-positive size.
const DefaultRingSize = 512

// RingBuffer keeps the most recent events in memory. Goroutine-safe.
type RingBuffer struct {
	mu      sync.Mutex
	slots   []Event
	written uint64 // total pushes; slot index is written % len(slots)
}

// NewRingBuffer creates a ring buffer holding up to size events.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingBuffer{slots: make([]Event, size)}
}

// Push stores e, evicting the oldest event when full. The Extra map is copied.
func (r *RingBuffer) Push(e Event) {
	if e.Extra != nil {
		extra := make(map[string]any, len(e.Extra))
		for k, v := range e.Extra {
			extra[k] = v
		}
		e.Extra = extra
	}
	r.mu.Lock()
	r.slots[r.written%uint64(len(r.slots))] = e
	r.written++
	r.mu.Unlock()
}

// Snapshot returns every buffered event, oldest first.
func (r *RingBuffer) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tail(r.lenLocked())
}

// Last returns the n most recent events, oldest first. n is capped at Len.
func (r *RingBuffer) Last(n int) []Event {
	if n <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if l := r.lenLocked(); n > l {
		n = l
	}
	return r.tail(n)
}

// Len returns the number of buffered events.
func (r *RingBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lenLocked()
}

// Cap returns the buffer capacity.
func (r *RingBuffer) Cap() int {
	return len(r.slots)
}

// Written returns the number of events pushed since creation, evicted ones
// included.
func (r *RingBuffer) Written() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

// Stats counts buffered events by kind.
func (r *RingBuffer) Stats() map[EventKind]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[EventKind]int)
	for _, e := range r.tail(r.lenLocked()) {
		counts[e.Kind]++
	}
	return counts
}

// Subsystem returns buffered events whose kind starts with prefix followed
// by a dot ("fetch" matches "fetch.start"), oldest first.
func (r *RingBuffer) Subsystem(prefix string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.tail(r.lenLocked()) {
		if strings.HasPrefix(string(e.Kind), prefix+".") {
			out = append(out, e)
		}
	}
	return out
}

func (r *RingBuffer) lenLocked() int {
	if r.written < uint64(len(r.slots)) {
		return int(r.written)
	}
	return len(r.slots)
}

// tail copies the n newest events. Caller holds r.mu.
func (r *RingBuffer) tail(n int) []Event {
	if n == 0 {
		return nil
	}
	out := make([]Event, n)
	size := uint64(len(r.slots))
	start := r.written - uint64(n)
	for i := range out {
		out[i] = r.slots[(start+uint64(i))%size]
	}
	return out
}
