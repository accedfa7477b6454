package caption_test

import (
	"testing"

	"livecap/internal/caption"
)

func makeCaption(start, end float64, text string) caption.Caption {
	return caption.Caption{
		ID:         caption.NewID("sess-1", start, 1000),
		SessionID:  "sess-1",
		Text:       text,
		StartTime:  start,
		EndTime:    end,
		Confidence: 0.9,
		QueueTime:  1000,
	}
}

func TestEnqueueKeepsStartTimeOrder(t *testing.T) {
	t.Parallel()

	q := caption.NewQueue()
	q.Enqueue(makeCaption(4, 6, "third"))
	q.Enqueue(makeCaption(0, 2, "first"))
	q.Enqueue(makeCaption(2, 4, "second"))

	snap := q.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 captions, got %d", len(snap))
	}
	for i, want := range []string{"first", "second", "third"} {
		if snap[i].Text != want {
			t.Fatalf("position %d: got %q want %q", i, snap[i].Text, want)
		}
	}
}

func TestEnqueueStableForEqualStartTimes(t *testing.T) {
	t.Parallel()

	q := caption.NewQueue()
	q.Enqueue(makeCaption(1, 3, "earlier"))
	q.Enqueue(makeCaption(1, 4, "later"))

	snap := q.Snapshot()
	if snap[0].Text != "earlier" || snap[1].Text != "later" {
		t.Fatalf("equal-start insert not stable: %q then %q", snap[0].Text, snap[1].Text)
	}
}

func TestEnqueueDropsExactDuplicates(t *testing.T) {
	t.Parallel()

	q := caption.NewQueue()
	if !q.Enqueue(makeCaption(1, 3, "hello")) {
		t.Fatal("first enqueue should succeed")
	}
	if q.Enqueue(makeCaption(1, 3, "hello")) {
		t.Fatal("duplicate enqueue should be dropped")
	}
	if q.Len() != 1 {
		t.Fatalf("expected 1 caption, got %d", q.Len())
	}
	if !q.Enqueue(makeCaption(1, 3, "different text")) {
		t.Fatal("same range with different text is not a duplicate")
	}
}

func TestFirstCovering(t *testing.T) {
	t.Parallel()

	q := caption.NewQueue()
	q.Enqueue(makeCaption(0, 2, "a"))
	q.Enqueue(makeCaption(2, 4, "b"))
	q.Enqueue(makeCaption(10, 12, "c"))

	if c, ok := q.FirstCovering(1.5); !ok || c.Text != "a" {
		t.Fatalf("FirstCovering(1.5) = %v ok=%v", c.Text, ok)
	}
	// Both captions cover 2.0; the earliest in time order wins.
	if c, ok := q.FirstCovering(2.0); !ok || c.Text != "a" {
		t.Fatalf("FirstCovering(2.0) = %v ok=%v", c.Text, ok)
	}
	if _, ok := q.FirstCovering(5.0); ok {
		t.Fatal("no caption covers 5.0")
	}
	if c, ok := q.FirstCovering(12.0); !ok || c.Text != "c" {
		t.Fatalf("end time is inclusive: %v ok=%v", c.Text, ok)
	}
}

func TestFirstCoveringZeroDuration(t *testing.T) {
	t.Parallel()

	q := caption.NewQueue()
	q.Enqueue(makeCaption(3, 3, "instant"))

	if c, ok := q.FirstCovering(3.0); !ok || c.Text != "instant" {
		t.Fatalf("zero-duration caption should cover its start: ok=%v", ok)
	}
	if _, ok := q.FirstCovering(3.1); ok {
		t.Fatal("zero-duration caption covers only its start instant")
	}
}

func TestEvictOlderThan(t *testing.T) {
	t.Parallel()

	q := caption.NewQueue()
	q.Enqueue(makeCaption(0, 2, "stale"))
	q.Enqueue(makeCaption(10, 12, "recent"))
	q.Enqueue(makeCaption(100, 102, "future"))

	removed := q.EvictOlderThan(40, 30)
	if removed != 1 {
		t.Fatalf("expected 1 eviction, got %d", removed)
	}
	snap := q.Snapshot()
	if len(snap) != 2 || snap[0].Text != "recent" || snap[1].Text != "future" {
		t.Fatalf("unexpected survivors: %+v", snap)
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	q := caption.NewQueue()
	q.Enqueue(makeCaption(0, 2, "a"))
	q.Enqueue(makeCaption(2, 4, "b"))
	q.Clear()
	if q.Len() != 0 {
		t.Fatalf("expected empty queue, got %d", q.Len())
	}
}
