package manager

import (
	"context"
	"strings"

	"livecap/internal/caption"
	"livecap/internal/language"
	"livecap/internal/logging"
	"livecap/internal/media"
	"livecap/internal/services"
	"livecap/internal/session"
)

// Caption dwell estimation: reading speed derived bounds applied when the
// recognizer gives no utterance end time.
const (
	secondsPerWord     = 0.33
	minCaptionDuration = 1.5
	maxCaptionDuration = 7.0
)

// evaluateRecognition recomputes recognizer demand from scratch on every
// relevant state change. A derived scan instead of a counter: redundant
// start/stop calls are absorbed by the arbiter's idempotence, and a missed
// event cannot leave the count drifted.
func (m *Manager) evaluateRecognition() {
	needed := false
	for _, ms := range m.snapshotSessions() {
		if ms.sess.Clock.Playing() && ms.sess.HasAudio() && ms.sess.State().Active() {
			needed = true
			break
		}
	}
	if needed {
		m.arbiter.EnsureStarted()
	} else {
		m.arbiter.EnsureStopped()
	}
}

// attribute resolves which session a shared recognizer result belongs to:
// among sessions that are processing and have audio, the one with the newest
// audio frame wins. No eligible session means the result is dropped.
func (m *Manager) attribute() (*managedSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var best *managedSession
	var bestTS int64
	for _, ms := range m.sessions {
		if !ms.sess.Processing() || !ms.sess.HasAudio() {
			continue
		}
		if ts := ms.sess.LastAudioTimestamp(); best == nil || ts > bestTS {
			best = ms
			bestTS = ts
		}
	}
	return best, best != nil
}

func (m *Manager) handleRecognitionResult(res media.RecognitionResult) {
	ms, ok := m.attribute()
	if !ok {
		m.logger.Debug("recognizer result without eligible session",
			logging.String("transcript", res.Transcript))
		return
	}
	sess := ms.sess
	sess.Touch(m.now())

	if !res.Final {
		sess.SetTranscript(res.Transcript)
		if err := sess.Transition(session.StateProcessing, ""); err == nil {
			m.publishState(sess)
		}
		return
	}

	sess.SetTranscript(res.Transcript)
	if err := sess.Transition(session.StateProcessing, ""); err != nil {
		m.logger.Debug("final result in non-processing state",
			logging.String(logging.FieldSessionID, sess.ID),
			logging.String(logging.FieldState, string(sess.State())))
	}
	m.translateResult(sess, res)
}

// translateResult moves the session to translating and resolves the caption
// text, asynchronously when a translator is configured. Only the session ID
// crosses the asynchronous boundary.
func (m *Manager) translateResult(sess *session.Session, res media.RecognitionResult) {
	source := m.cfg.Translation.SourceLanguage
	if source == "" {
		source = m.cfg.Recognition.LanguageHint
	}
	target := m.cfg.Translation.TargetLanguage

	if m.translator == nil || language.Same(source, target) {
		m.completeTranslation(sess.ID, res, media.Translation{Text: res.Transcript, Confidence: res.Confidence}, nil)
		return
	}

	if err := sess.Transition(session.StateTranslating, ""); err == nil {
		m.publishState(sess)
	}

	id := sess.ID
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.TranslationTimeout())
		defer cancel()
		ctx = services.WithSessionID(services.WithStage(ctx, "translating"), id)
		translated, err := m.translator.Translate(ctx, res.Transcript, source, target)
		m.completeTranslation(id, res, translated, err)
	}()
}

// completeTranslation runs after the translation resolves. The session may
// have been removed while the call was in flight, so it is re-resolved by ID
// and silently dropped when gone.
func (m *Manager) completeTranslation(sessionID string, res media.RecognitionResult, translated media.Translation, err error) {
	ms, ok := m.lookup(sessionID)
	if !ok {
		m.logger.Debug("translation resolved for removed session",
			logging.String(logging.FieldSessionID, sessionID))
		return
	}
	sess := ms.sess

	text := translated.Text
	confidence := translated.Confidence
	if err != nil {
		// Fall back to the untranslated transcript; a translation failure
		// never blanks captions or tears the session down.
		m.recordFailure(sessionID, "translation", err)
		text = res.Transcript
		confidence = res.Confidence
	} else {
		sess.SetLastTranslation(text)
	}
	if text == "" {
		return
	}

	now := m.now()
	reading := sess.Clock.Peek(now)
	start := reading.Position
	c := caption.Caption{
		ID:         caption.NewID(sessionID, start, now.UnixMilli()),
		SessionID:  sessionID,
		Text:       text,
		StartTime:  start,
		EndTime:    start + estimateDuration(text),
		Confidence: confidence,
		QueueTime:  now.UnixMilli(),
	}
	sess.Queue.Enqueue(c)
	sess.Touch(now)

	if terr := sess.Transition(session.StateDisplaying, ""); terr == nil {
		m.publishState(sess)
	}
	if terr := sess.Transition(session.StateListening, ""); terr == nil {
		m.publishState(sess)
	}

	if m.store != nil && m.cfg.Archive.Enabled {
		if aerr := m.store.Record(context.Background(), c, sess.Handle.Label, now); aerr != nil {
			m.logger.Warn("caption archive write failed",
				logging.String(logging.FieldSessionID, sessionID), logging.Error(aerr))
		}
	}
}

// estimateDuration derives caption dwell from text length.
func estimateDuration(text string) float64 {
	d := float64(len(strings.Fields(text))) * secondsPerWord
	if d < minCaptionDuration {
		return minCaptionDuration
	}
	if d > maxCaptionDuration {
		return maxCaptionDuration
	}
	return d
}

func (m *Manager) handleRecognitionError(err error) {
	wrapped := services.Wrap(services.ErrRecognition, "recognition", "stream", "", err)
	m.recordFailure("", "recognition", wrapped)
}

func (m *Manager) handleRecognitionStatus(status string) {
	m.logger.Debug("recognizer status", logging.String("status", status))
}
