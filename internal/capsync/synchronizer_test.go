package capsync_test

import (
	"sync"
	"testing"
	"time"

	"livecap/internal/capsync"
	"livecap/internal/caption"
	"livecap/internal/media"
	"livecap/internal/session"
)

type renderCall struct {
	kind  string
	text  string
	attrs media.CaptionAttributes
}

type fakeSurface struct {
	mu    sync.Mutex
	calls []renderCall
}

func (f *fakeSurface) DisplayCaption(sessionID, text string, attrs media.CaptionAttributes) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, renderCall{kind: "display", text: text, attrs: attrs})
}

func (f *fakeSurface) ClearCaption(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, renderCall{kind: "clear"})
}

func (f *fakeSurface) snapshot() []renderCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]renderCall, len(f.calls))
	copy(out, f.calls)
	return out
}

type fixture struct {
	sess    *session.Session
	surface *fakeSurface
	sync    *capsync.Synchronizer
	base    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sess := session.New("sess-1", media.Handle{ID: "medium-1"}, base, nil)
	surface := &fakeSurface{}
	s := capsync.New(sess, surface, capsync.Options{}, nil)
	return &fixture{sess: sess, surface: surface, sync: s, base: base}
}

// play positions the session's clock at mediaTime, playing, freshly updated
// at the fixture base time.
func (f *fixture) play(mediaTime float64) {
	f.sess.Clock.OnPlay(f.base)
	f.sess.Clock.OnTimeUpdate(f.base, mediaTime)
}

// enqueue adds a caption queued at the given offset before the base time.
func (f *fixture) enqueue(start, end float64, text string, confidence float64, queuedAgo time.Duration) caption.Caption {
	c := caption.Caption{
		ID:         caption.NewID("sess-1", start, f.base.Add(-queuedAgo).UnixMilli()),
		SessionID:  "sess-1",
		Text:       text,
		StartTime:  start,
		EndTime:    end,
		Confidence: confidence,
		QueueTime:  f.base.Add(-queuedAgo).UnixMilli(),
	}
	f.sess.Queue.Enqueue(c)
	return c
}

func TestTickDisplaysCoveringCaption(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.play(6.0)
	f.enqueue(5, 8, "A", 0.9, 100*time.Millisecond)

	f.sync.Tick(f.base)

	calls := f.surface.snapshot()
	if len(calls) != 1 || calls[0].kind != "display" {
		t.Fatalf("expected one display call, got %+v", calls)
	}
	if calls[0].text != "A" {
		t.Fatalf("high-confidence caption must not carry a marker: %q", calls[0].text)
	}
	if calls[0].attrs.DurationMS != 3000 {
		t.Fatalf("duration = %d, want 3000", calls[0].attrs.DurationMS)
	}
	if _, ok := f.sess.ActiveCaption(); !ok {
		t.Fatal("caption should be recorded as active")
	}
}

func TestTickAppendsLowConfidenceMarker(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.play(6.0)
	f.enqueue(5, 8, "maybe", 0.5, 100*time.Millisecond)

	f.sync.Tick(f.base)

	calls := f.surface.snapshot()
	if len(calls) != 1 {
		t.Fatalf("expected one call, got %d", len(calls))
	}
	if want := "maybe" + capsync.LowConfidenceMarker; calls[0].text != want {
		t.Fatalf("text = %q, want %q", calls[0].text, want)
	}
}

func TestTickRejectsStaleCaption(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.play(6.0)
	f.enqueue(5, 8, "late", 0.9, 2500*time.Millisecond)

	f.sync.Tick(f.base)

	if calls := f.surface.snapshot(); len(calls) != 0 {
		t.Fatalf("stale caption must never display: %+v", calls)
	}
}

func TestTickScalesDurationWithRate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.play(12.0)
	f.sess.Clock.OnRateChange(f.base, 2.0)
	f.enqueue(10, 15, "fast", 0.9, 100*time.Millisecond)

	f.sync.Tick(f.base)

	calls := f.surface.snapshot()
	if len(calls) != 1 {
		t.Fatalf("expected one display, got %d", len(calls))
	}
	if calls[0].attrs.DurationMS != 2500 {
		t.Fatalf("duration at rate 2 = %d, want 2500", calls[0].attrs.DurationMS)
	}
}

func TestTickIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.play(6.0)
	f.enqueue(5, 8, "A", 0.9, 100*time.Millisecond)

	f.sync.Tick(f.base)
	f.sync.Tick(f.base)

	if calls := f.surface.snapshot(); len(calls) != 1 {
		t.Fatalf("double tick with no clock advance must not re-display: %+v", calls)
	}
}

func TestTickNoopWhenPaused(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.sess.Clock.OnTimeUpdate(f.base, 6.0)
	f.enqueue(5, 8, "A", 0.9, 100*time.Millisecond)

	f.sync.Tick(f.base)

	if calls := f.surface.snapshot(); len(calls) != 0 {
		t.Fatalf("paused tick must not render: %+v", calls)
	}
}

func TestTickExpiresActiveCaption(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.play(6.0)
	f.enqueue(5, 8, "A", 0.9, 100*time.Millisecond)
	f.sync.Tick(f.base)

	// Advance the reported position past the caption's end.
	later := f.base.Add(3 * time.Second)
	f.sess.Clock.OnTimeUpdate(later, 8.5)
	f.sync.Tick(later)

	calls := f.surface.snapshot()
	if len(calls) != 2 || calls[1].kind != "clear" {
		t.Fatalf("expected display then clear, got %+v", calls)
	}
	if _, ok := f.sess.ActiveCaption(); ok {
		t.Fatal("expired caption should not remain active")
	}
}

func TestZeroDurationCaptionDisplaysOnce(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.sess.Clock.OnPlay(f.base)
	f.sess.Clock.OnTimeUpdate(f.base, 3.0)
	f.enqueue(3, 3, "instant", 0.9, 50*time.Millisecond)

	f.sync.Tick(f.base)

	later := f.base.Add(500 * time.Millisecond)
	f.sess.Clock.OnTimeUpdate(later, 3.5)
	f.sync.Tick(later)

	calls := f.surface.snapshot()
	if len(calls) != 2 || calls[0].kind != "display" || calls[1].kind != "clear" {
		t.Fatalf("zero-duration caption should display then expire: %+v", calls)
	}
}

func TestSeekClearsActiveCaptionAndQueue(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.play(6.0)
	f.enqueue(5, 8, "A", 0.9, 100*time.Millisecond)
	f.enqueue(9, 12, "B", 0.9, 100*time.Millisecond)
	f.sync.Tick(f.base)

	f.sync.HandleSeek()

	calls := f.surface.snapshot()
	if len(calls) != 2 || calls[1].kind != "clear" {
		t.Fatalf("seek must clear the surface: %+v", calls)
	}
	if f.sess.Queue.Len() != 0 {
		t.Fatalf("seek must empty the queue, %d left", f.sess.Queue.Len())
	}
}

func TestOverlappingCaptionsFirstWins(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.play(6.0)
	f.enqueue(5, 9, "first", 0.9, 100*time.Millisecond)
	f.enqueue(6, 10, "second", 0.9, 100*time.Millisecond)

	f.sync.Tick(f.base)

	calls := f.surface.snapshot()
	if len(calls) != 1 || calls[0].text != "first" {
		t.Fatalf("earliest overlapping caption wins: %+v", calls)
	}
}

func TestSweepEvictsTrailingCaptions(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.sess.Clock.OnTimeUpdate(f.base, 100.0)
	f.enqueue(10, 12, "old", 0.9, time.Minute)
	f.enqueue(95, 98, "recent", 0.9, time.Second)

	if removed := f.sync.Sweep(f.base); removed != 1 {
		t.Fatalf("expected 1 eviction, got %d", removed)
	}
	if f.sess.Queue.Len() != 1 {
		t.Fatalf("expected 1 survivor, got %d", f.sess.Queue.Len())
	}
}
