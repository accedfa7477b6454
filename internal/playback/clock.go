package playback

import (
	"sync"
	"time"
)

// Status is a throttled playback state notification.
type Status struct {
	Playing     bool
	CurrentTime float64
	Rate        float64
}

// Clock mirrors one media element's playback state from host events. All
// methods are safe for concurrent use.
type Clock struct {
	mu sync.Mutex

	playing     bool
	ended       bool
	currentTime float64
	rate        float64

	// lastUpdate is the wall-clock moment of the most recent timeupdate or
	// seek; the synchronizer rejects positions older than its staleness
	// window.
	lastUpdate time.Time

	// seeked is set on a seek and consumed by the synchronizer so it can
	// drop the active caption immediately.
	seeked bool

	onStatus   func(Status)
	lastStatus time.Time
}

// NewClock returns a paused clock at position zero with rate 1. onStatus, if
// non-nil, receives throttled playback updates (at most one per second).
func NewClock(onStatus func(Status)) *Clock {
	return &Clock{rate: 1.0, onStatus: onStatus}
}

// OnPlay records that playback started.
func (c *Clock) OnPlay(now time.Time) {
	c.mu.Lock()
	c.playing = true
	c.ended = false
	c.lastUpdate = now
	c.mu.Unlock()
	c.emit(now)
}

// OnPause records that playback paused.
func (c *Clock) OnPause(now time.Time) {
	c.mu.Lock()
	c.playing = false
	c.mu.Unlock()
	c.emit(now)
}

// OnTimeUpdate records a position report from the media element.
func (c *Clock) OnTimeUpdate(now time.Time, currentTime float64) {
	c.mu.Lock()
	c.currentTime = currentTime
	c.lastUpdate = now
	c.mu.Unlock()
	c.emit(now)
}

// OnSeeked records a jump to a new position and flags the seek for the
// synchronizer.
func (c *Clock) OnSeeked(now time.Time, currentTime float64) {
	c.mu.Lock()
	c.currentTime = currentTime
	c.lastUpdate = now
	c.seeked = true
	c.mu.Unlock()
	c.emit(now)
}

// OnRateChange records a new playback rate.
func (c *Clock) OnRateChange(now time.Time, rate float64) {
	c.mu.Lock()
	c.rate = rate
	c.mu.Unlock()
	c.emit(now)
}

// OnEnded records that the medium finished. The clock reads as paused until
// the next play event.
func (c *Clock) OnEnded(now time.Time) {
	c.mu.Lock()
	c.playing = false
	c.ended = true
	c.lastUpdate = now
	c.mu.Unlock()
	c.emit(now)
}

// Playing reports whether the medium is currently playing.
func (c *Clock) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Ended reports whether the medium has finished playing.
func (c *Clock) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ended
}

// Rate returns the current playback rate.
func (c *Clock) Rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

// Reading is a snapshot of the clock taken at a single instant.
type Reading struct {
	Playing bool
	Rate    float64
	// Position is the estimated media position at the snapshot time: the
	// last reported position advanced by wall-clock elapsed times rate
	// while playing.
	Position float64
	// Age is how long ago the underlying position was last reported.
	Age time.Duration
	// Seeked is true when a seek happened since the previous Read; the
	// flag is consumed by this call.
	Seeked bool
}

// Read returns the clock state at now, consuming any pending seek flag.
func (c *Clock) Read(now time.Time) Reading {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.snapshot(now)
	c.seeked = false
	return r
}

// Peek returns the clock state at now without consuming the seek flag.
func (c *Clock) Peek(now time.Time) Reading {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(now)
}

func (c *Clock) snapshot(now time.Time) Reading {
	r := Reading{
		Playing:  c.playing,
		Rate:     c.rate,
		Position: c.currentTime,
		Seeked:   c.seeked,
	}
	if !c.lastUpdate.IsZero() {
		r.Age = now.Sub(c.lastUpdate)
		if c.playing && r.Age > 0 {
			r.Position += r.Age.Seconds() * c.rate
		}
	}
	return r
}

// emit forwards a status update, dropping it if the previous one went out
// less than a second ago.
func (c *Clock) emit(now time.Time) {
	c.mu.Lock()
	if c.onStatus == nil || (!c.lastStatus.IsZero() && now.Sub(c.lastStatus) < time.Second) {
		c.mu.Unlock()
		return
	}
	c.lastStatus = now
	status := Status{Playing: c.playing, CurrentTime: c.currentTime, Rate: c.rate}
	fn := c.onStatus
	c.mu.Unlock()
	fn(status)
}
