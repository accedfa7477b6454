package caption

import (
	"sort"
	"sync"
)

// Queue is an ordered caption buffer for a single session. All methods are
// safe for concurrent use; the synchronizer reads it from the tick loop while
// recognition results are appended from collaborator callbacks.
type Queue struct {
	mu       sync.Mutex
	captions []Caption
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue inserts c keeping the queue ordered by start time. Insertion is
// stable: a caption starting at the same instant as an existing one lands
// after it. Exact duplicates (same start, end, and text) are dropped.
func (q *Queue) Enqueue(c Caption) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, existing := range q.captions {
		if existing.StartTime == c.StartTime && existing.EndTime == c.EndTime && existing.Text == c.Text {
			return false
		}
	}

	idx := sort.Search(len(q.captions), func(i int) bool {
		return q.captions[i].StartTime > c.StartTime
	})
	q.captions = append(q.captions, Caption{})
	copy(q.captions[idx+1:], q.captions[idx:])
	q.captions[idx] = c
	return true
}

// FirstCovering returns the earliest caption whose range covers t. The
// boolean is false when no caption covers t.
func (q *Queue) FirstCovering(t float64) (Caption, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, c := range q.captions {
		if c.StartTime > t {
			break
		}
		if c.Covers(t) {
			return c, true
		}
	}
	return Caption{}, false
}

// EvictOlderThan removes captions whose end time fell more than window
// seconds behind the current playback position, returning how many were
// dropped. Captions ahead of the playhead are never evicted.
func (q *Queue) EvictOlderThan(currentTime, window float64) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	cutoff := currentTime - window
	kept := q.captions[:0]
	removed := 0
	for _, c := range q.captions {
		if c.EndTime < cutoff {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(q.captions); i++ {
		q.captions[i] = Caption{}
	}
	q.captions = kept
	return removed
}

// Clear drops every caption.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.captions = nil
}

// Len reports the number of queued captions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.captions)
}

// Snapshot returns a copy of the queue in start-time order.
func (q *Queue) Snapshot() []Caption {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Caption, len(q.captions))
	copy(out, q.captions)
	return out
}
