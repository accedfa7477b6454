package capsync

import (
	"log/slog"
	"time"

	"livecap/internal/caption"
	"livecap/internal/logging"
	"livecap/internal/media"
	"livecap/internal/session"
)

// rateEpsilon guards the duration division against a zero or negative
// playback rate reported by a misbehaving medium.
const rateEpsilon = 0.001

// LowConfidenceMarker is appended to caption text below the confidence
// threshold.
const LowConfidenceMarker = " (?)"

// Options tune a synchronizer. Zero values fall back to the defaults the
// config package ships.
type Options struct {
	// StalenessThreshold is the maximum pipeline age of a caption before it
	// is rejected as out of sync with live playback.
	StalenessThreshold time.Duration
	// LowConfidenceThreshold marks captions below it with an uncertainty
	// suffix.
	LowConfidenceThreshold float64
	// EvictionWindow is how far behind the playhead, in media seconds, a
	// caption may trail before Sweep drops it.
	EvictionWindow float64
}

func (o *Options) applyDefaults() {
	if o.StalenessThreshold <= 0 {
		o.StalenessThreshold = 2 * time.Second
	}
	if o.LowConfidenceThreshold <= 0 {
		o.LowConfidenceThreshold = 0.7
	}
	if o.EvictionWindow <= 0 {
		o.EvictionWindow = 30
	}
}

// Synchronizer decides, for one session, what caption is on the render
// surface at any moment. It is driven by the manager's tick loop and holds
// no timers of its own.
type Synchronizer struct {
	sess    *session.Session
	surface media.RenderSurface
	opts    Options
	logger  *slog.Logger
}

// New builds a synchronizer for sess rendering through surface.
func New(sess *session.Session, surface media.RenderSurface, opts Options, logger *slog.Logger) *Synchronizer {
	opts.applyDefaults()
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Synchronizer{
		sess:    sess,
		surface: surface,
		opts:    opts,
		logger:  logger.With(logging.String(logging.FieldComponent, "synchronizer"), logging.String(logging.FieldSessionID, sess.ID)),
	}
}

// Tick runs one synchronization pass at now. Ticks are idempotent: with no
// clock advance and no new captions, a second call produces no further
// render calls, so a double-fired timer is harmless.
func (s *Synchronizer) Tick(now time.Time) {
	reading := s.sess.Clock.Read(now)

	if reading.Seeked {
		s.HandleSeek()
	}

	// Synchronization only runs against a moving clock.
	if !reading.Playing {
		return
	}

	// Expire the on-screen caption once the playhead passes its end.
	if active, ok := s.sess.ActiveCaption(); ok && reading.Position > active.EndTime {
		s.hide()
	}

	candidate, ok := s.sess.Queue.FirstCovering(reading.Position)
	if !ok {
		return
	}
	if active, isActive := s.sess.ActiveCaption(); isActive && active.ID == candidate.ID {
		return
	}

	// A caption whose pipeline latency exceeded the staleness window is
	// desynchronized from live playback; skip it rather than show it late.
	age := now.UnixMilli() - candidate.QueueTime
	if age > s.opts.StalenessThreshold.Milliseconds() {
		s.logger.Debug("rejecting stale caption",
			logging.String("caption_id", candidate.ID),
			logging.Int64("age_ms", age))
		return
	}

	s.display(candidate, reading.Rate)
}

// display pushes c to the render surface and records it as active. Display
// duration compresses proportionally with playback rate.
func (s *Synchronizer) display(c caption.Caption, rate float64) {
	if rate < rateEpsilon {
		rate = rateEpsilon
	}
	durationMS := int64((c.EndTime - c.StartTime) * 1000 / rate)

	text := c.Text
	if c.Confidence < s.opts.LowConfidenceThreshold {
		text += LowConfidenceMarker
	}

	s.surface.DisplayCaption(s.sess.ID, text, media.CaptionAttributes{
		DurationMS: durationMS,
		Confidence: c.Confidence,
		StartTime:  c.StartTime,
		EndTime:    c.EndTime,
	})
	s.sess.SetActiveCaption(c)
	s.logger.Debug("caption displayed",
		logging.String("caption_id", c.ID),
		logging.Int64("duration_ms", durationMS))
}

// hide clears the render surface and the active caption record.
func (s *Synchronizer) hide() {
	s.surface.ClearCaption(s.sess.ID)
	s.sess.ClearActiveCaption()
}

// HandleSeek reacts to a position jump: the active caption and every queued
// caption belong to the abandoned timeline and are dropped immediately.
func (s *Synchronizer) HandleSeek() {
	if _, ok := s.sess.ActiveCaption(); ok {
		s.hide()
	}
	s.sess.Queue.Clear()
}

// HandleEnded clears the display when the medium finishes.
func (s *Synchronizer) HandleEnded() {
	if _, ok := s.sess.ActiveCaption(); ok {
		s.hide()
	}
}

// Sweep evicts captions that fell behind the playhead by more than the
// eviction window. It runs on its own cadence, independent of Tick, so
// long-idle sessions do not accumulate unbounded queues.
func (s *Synchronizer) Sweep(now time.Time) int {
	reading := s.sess.Clock.Peek(now)
	removed := s.sess.Queue.EvictOlderThan(reading.Position, s.opts.EvictionWindow)
	if removed > 0 {
		s.logger.Debug("evicted trailing captions", logging.Int("count", removed))
	}
	return removed
}
