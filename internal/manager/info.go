package manager

import (
	"sort"
	"time"
)

// SessionInfo is a read-only snapshot of one session for the control
// surface.
type SessionInfo struct {
	ID           string    `json:"id"`
	MediumID     string    `json:"medium_id"`
	Label        string    `json:"label"`
	State        string    `json:"state"`
	Message      string    `json:"message,omitempty"`
	Playing      bool      `json:"playing"`
	Position     float64   `json:"position"`
	Rate         float64   `json:"rate"`
	HasAudio     bool      `json:"has_audio"`
	QueueLength  int       `json:"queue_length"`
	Transcript   string    `json:"transcript,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// Sessions returns snapshots of every live session ordered by creation
// time.
func (m *Manager) Sessions() []SessionInfo {
	now := m.now()
	out := make([]SessionInfo, 0, m.Count())
	for _, ms := range m.snapshotSessions() {
		out = append(out, m.describe(ms, now))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Describe returns the snapshot for one session.
func (m *Manager) Describe(id string) (SessionInfo, bool) {
	ms, ok := m.lookup(id)
	if !ok {
		return SessionInfo{}, false
	}
	return m.describe(ms, m.now()), true
}

func (m *Manager) describe(ms *managedSession, now time.Time) SessionInfo {
	sess := ms.sess
	reading := sess.Clock.Peek(now)
	return SessionInfo{
		ID:           sess.ID,
		MediumID:     sess.Handle.ID,
		Label:        sess.Handle.Label,
		State:        string(sess.State()),
		Message:      sess.StateMessage(),
		Playing:      reading.Playing,
		Position:     reading.Position,
		Rate:         reading.Rate,
		HasAudio:     sess.HasAudio(),
		QueueLength:  sess.Queue.Len(),
		Transcript:   sess.Transcript(),
		CreatedAt:    sess.CreatedAt(),
		LastActivity: sess.IdleSince(),
	}
}

// RecognizerListening reports whether the shared recognition engine is
// currently consuming audio.
func (m *Manager) RecognizerListening() bool {
	return m.arbiter.Listening()
}
