package report

import (
	"sync"
	"time"
)

// DefaultCapacity bounds the ring when the caller passes zero.
const DefaultCapacity = 200

// Report is one recorded pipeline failure.
type Report struct {
	Time      time.Time `json:"time"`
	SessionID string    `json:"session_id"`
	Stage     string    `json:"stage"`
	Message   string    `json:"message"`
}

// Ring is a fixed-capacity failure log. Writes never block and never grow
// memory; the oldest entry is dropped when the ring is full.
type Ring struct {
	mu      sync.Mutex
	entries []Report
	next    int
	full    bool
}

// NewRing returns a ring holding up to capacity reports.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{entries: make([]Report, capacity)}
}

// Record appends a report, evicting the oldest when full.
func (r *Ring) Record(rep Report) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.next] = rep
	r.next++
	if r.next == len(r.entries) {
		r.next = 0
		r.full = true
	}
}

// Recent returns up to limit reports, newest first. limit <= 0 returns all.
func (r *Ring) Recent(limit int) []Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := r.next
	if r.full {
		size = len(r.entries)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]Report, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (r.next - 1 - i + len(r.entries)) % len(r.entries)
		out = append(out, r.entries[idx])
	}
	return out
}

// Len reports how many entries are held.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return len(r.entries)
	}
	return r.next
}
