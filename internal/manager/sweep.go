package manager

import (
	"sort"
	"time"

	"livecap/internal/logging"
	"livecap/internal/media"
)

// Sweep applies lifecycle policy in two passes. Sessions whose backing
// medium is no longer reachable are removed unconditionally. Then, only
// while the live count exceeds the configured cap, idle non-playing
// sessions are evicted most-idle-first until the count fits.
func (m *Manager) Sweep(now time.Time) {
	if probe, ok := m.feed.(media.Reachable); ok {
		for _, ms := range m.snapshotSessions() {
			if !probe.Reachable(ms.sess.Handle.ID) {
				m.RemoveSession(ms.sess.ID, "medium unreachable")
			}
		}
	}

	timeout := m.cfg.InactivityTimeout()
	maxSessions := m.cfg.Sessions.MaxSessions

	var candidates []*managedSession
	for _, ms := range m.snapshotSessions() {
		if ms.sess.Clock.Playing() {
			continue
		}
		if now.Sub(ms.sess.IdleSince()) > timeout {
			candidates = append(candidates, ms)
		}
	}
	if len(candidates) == 0 {
		return
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].sess.IdleSince().Before(candidates[j].sess.IdleSince())
	})

	for _, ms := range candidates {
		if m.Count() <= maxSessions {
			break
		}
		if m.RemoveSession(ms.sess.ID, "evicted after inactivity") {
			m.logger.Info("idle session evicted",
				logging.String(logging.FieldSessionID, ms.sess.ID),
				logging.Duration("idle", now.Sub(ms.sess.IdleSince())))
		}
	}
}
