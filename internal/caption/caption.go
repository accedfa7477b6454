package caption

import "fmt"

// Caption is one timed caption bound to a session's media timeline. Times
// are media-relative seconds; QueueTime is the wall-clock moment the caption
// entered the queue, in milliseconds.
type Caption struct {
	ID         string
	SessionID  string
	Text       string
	StartTime  float64
	EndTime    float64
	Confidence float64
	QueueTime  int64
}

// NewID derives a stable caption identifier from its session, media start
// time, and enqueue time.
func NewID(sessionID string, startTime float64, queueTime int64) string {
	return fmt.Sprintf("%s-%.3f-%d", sessionID, startTime, queueTime)
}

// Covers reports whether the caption's time range contains t. The range is
// inclusive on both ends; zero-length captions cover exactly their start
// instant.
func (c Caption) Covers(t float64) bool {
	if c.EndTime <= c.StartTime {
		return t == c.StartTime
	}
	return t >= c.StartTime && t <= c.EndTime
}
