package manager

import (
	"livecap/internal/logging"
	"livecap/internal/session"
)

// Playback events arrive keyed by medium, not session: the host surface
// knows nothing about session IDs.

// HandlePlay marks the medium's session playing, retries capture for
// degraded sessions, and re-evaluates recognizer demand.
func (m *Manager) HandlePlay(mediumID string) {
	ms, ok := m.lookupByMedium(mediumID)
	if !ok {
		return
	}
	now := m.now()
	ms.sess.Clock.OnPlay(now)
	ms.sess.Touch(now)

	// No-audio and error are parked states until the next play event.
	switch ms.sess.State() {
	case session.StateNoAudio, session.StateError:
		m.startCapture(ms)
	}

	ms.sess.SetProcessing(ms.sess.HasAudio())
	m.evaluateRecognition()
}

// HandlePause marks the session paused and withdraws it from recognizer
// demand.
func (m *Manager) HandlePause(mediumID string) {
	ms, ok := m.lookupByMedium(mediumID)
	if !ok {
		return
	}
	now := m.now()
	ms.sess.Clock.OnPause(now)
	ms.sess.Touch(now)
	ms.sess.SetProcessing(false)
	m.evaluateRecognition()
}

// HandleTimeUpdate records a position report.
func (m *Manager) HandleTimeUpdate(mediumID string, currentTime float64) {
	ms, ok := m.lookupByMedium(mediumID)
	if !ok {
		return
	}
	now := m.now()
	ms.sess.Clock.OnTimeUpdate(now, currentTime)
	ms.sess.Touch(now)
}

// HandleSeeked jumps the session's clock, clears the on-screen caption and
// queue, and drops transcript continuity.
func (m *Manager) HandleSeeked(mediumID string, currentTime float64) {
	ms, ok := m.lookupByMedium(mediumID)
	if !ok {
		return
	}
	now := m.now()
	ms.sess.Clock.OnSeeked(now, currentTime)
	ms.sess.Touch(now)
	ms.sync.HandleSeek()
	ms.sess.SetTranscript("")
	m.logger.Debug("seek cleared caption state",
		logging.String(logging.FieldSessionID, ms.sess.ID))
}

// HandleRateChange records a new playback rate.
func (m *Manager) HandleRateChange(mediumID string, rate float64) {
	ms, ok := m.lookupByMedium(mediumID)
	if !ok {
		return
	}
	ms.sess.Clock.OnRateChange(m.now(), rate)
}

// HandleEnded clears the display and withdraws the session from recognizer
// demand.
func (m *Manager) HandleEnded(mediumID string) {
	ms, ok := m.lookupByMedium(mediumID)
	if !ok {
		return
	}
	now := m.now()
	ms.sess.Clock.OnEnded(now)
	ms.sess.Touch(now)
	ms.sync.HandleEnded()
	ms.sess.SetProcessing(false)
	m.evaluateRecognition()
}
