package manager

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"livecap/internal/archive"
	"livecap/internal/capsync"
	"livecap/internal/config"
	"livecap/internal/logging"
	"livecap/internal/media"
	"livecap/internal/notifications"
	"livecap/internal/playback"
	"livecap/internal/recognizer"
	"livecap/internal/report"
	"livecap/internal/services"
	"livecap/internal/session"
)

// Deps collects the collaborators a manager is built from. Render, Status,
// and Notifier may be nil; no-op implementations are substituted. Translator
// nil disables translation and captions carry the original transcript.
// Store nil disables caption archiving.
type Deps struct {
	Config     *config.Config
	Logger     *slog.Logger
	Capture    media.Capture
	Recognizer media.Recognizer
	Translator media.Translator
	Render     media.RenderSurface
	Status     media.StatusSurface
	Feed       media.DetectionFeed
	Notifier   notifications.Service
	Reports    *report.Ring
	Store      *archive.Store
	// Now overrides the wall clock, for tests.
	Now func() time.Time
}

type managedSession struct {
	sess *session.Session
	sync *capsync.Synchronizer
}

// Manager is the single owner of the session registry. Collaborator
// callbacks capture session IDs, never live references; every callback
// re-resolves the session through the registry so a removal between
// scheduling and execution is harmless.
type Manager struct {
	cfg    *config.Config
	logger *slog.Logger

	capture    media.Capture
	arbiter    *recognizer.Arbiter
	translator media.Translator
	render     media.RenderSurface
	status     media.StatusSurface
	feed       media.DetectionFeed
	notifier   notifications.Service
	reports    *report.Ring
	store      *archive.Store

	mu       sync.Mutex
	sessions map[string]*managedSession
	byMedium map[string]string

	// now is replaceable in tests.
	now func() time.Time

	wg sync.WaitGroup
}

// New builds a manager. The recognizer is initialized lazily on Start.
func New(deps Deps) *Manager {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.String(logging.FieldComponent, "session-manager"))

	render := deps.Render
	if render == nil {
		render = media.NoopRenderSurface{}
	}
	status := deps.Status
	if status == nil {
		status = media.NoopStatusSurface{}
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notifications.NewService(deps.Config)
	}
	reports := deps.Reports
	if reports == nil {
		reports = report.NewRing(0)
	}

	m := &Manager{
		cfg:        deps.Config,
		logger:     logger,
		capture:    deps.Capture,
		translator: deps.Translator,
		render:     render,
		status:     status,
		feed:       deps.Feed,
		notifier:   notifier,
		reports:    reports,
		store:      deps.Store,
		sessions:   make(map[string]*managedSession),
		byMedium:   make(map[string]string),
		now:        deps.Now,
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.arbiter = recognizer.New(deps.Recognizer, deps.Logger)
	return m
}

// Start initializes the shared recognizer, subscribes to the detection feed,
// and launches the tick, queue-eviction, and inactivity-sweep loops. The
// loops stop when ctx is cancelled.
func (m *Manager) Start(ctx context.Context) error {
	hint := m.cfg.Recognition.LanguageHint
	if err := m.arbiter.Init(hint, m.handleRecognitionResult, m.handleRecognitionError, m.handleRecognitionStatus); err != nil {
		// Recognition stays disabled; sessions still track playback.
		m.logger.Warn("recognition unavailable", logging.Error(err))
		m.recordFailure("", "recognition", err)
	}

	if m.feed != nil {
		m.feed.Subscribe(m.HandleMediaAdded, m.HandleMediaRemoved)
	}

	m.wg.Add(3)
	go m.tickLoop(ctx)
	go m.evictionLoop(ctx)
	go m.sweepLoop(ctx)
	return nil
}

// Wait blocks until the loops started by Start have exited.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) tickLoop(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.cfg.TickInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.TickAll(now)
		}
	}
}

func (m *Manager) evictionLoop(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.cfg.EvictionInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.EvictQueues(now)
		}
	}
}

func (m *Manager) sweepLoop(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.cfg.SweepInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Sweep(now)
		}
	}
}

// TickAll runs one synchronizer pass for every session. A paused session's
// tick is a no-op inside the synchronizer, so no playing filter is needed
// here.
func (m *Manager) TickAll(now time.Time) {
	for _, ms := range m.snapshotSessions() {
		ms.sync.Tick(now)
	}
}

// EvictQueues bounds queue growth for idle sessions.
func (m *Manager) EvictQueues(now time.Time) {
	for _, ms := range m.snapshotSessions() {
		ms.sync.Sweep(now)
	}
}

func (m *Manager) snapshotSessions() []*managedSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*managedSession, 0, len(m.sessions))
	for _, ms := range m.sessions {
		out = append(out, ms)
	}
	return out
}

// lookup resolves a session by ID; the post-callback existence check every
// async completion goes through.
func (m *Manager) lookup(id string) (*managedSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.sessions[id]
	return ms, ok
}

func (m *Manager) lookupByMedium(mediumID string) (*managedSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byMedium[mediumID]
	if !ok {
		return nil, false
	}
	ms, ok := m.sessions[id]
	return ms, ok
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// HandleMediaAdded creates and wires a session for a newly detected medium.
// A second add for a medium that already has a session is ignored.
func (m *Manager) HandleMediaAdded(handle media.Handle) {
	m.mu.Lock()
	if _, exists := m.byMedium[handle.ID]; exists {
		m.mu.Unlock()
		return
	}
	now := m.now()
	id := uuid.New().String()
	sess := session.New(id, handle, now, m.statusEmitter(id))
	ms := &managedSession{
		sess: sess,
		sync: capsync.New(sess, m.render, capsync.Options{
			StalenessThreshold:     m.cfg.Staleness(),
			LowConfidenceThreshold: m.cfg.Captions.LowConfidenceThreshold,
			EvictionWindow:         m.cfg.EvictionWindow(),
		}, m.logger),
	}
	m.sessions[id] = ms
	m.byMedium[handle.ID] = id
	m.mu.Unlock()

	m.logger.Info("session created",
		logging.String(logging.FieldSessionID, id),
		logging.String(logging.FieldMediumID, handle.ID),
		logging.String("label", handle.Label))
	m.publishState(sess)
	m.notifyAsync(func(ctx context.Context) error {
		return m.notifier.NotifySessionStarted(ctx, id, handle.Label)
	})

	m.startCapture(ms)
	m.evaluateRecognition()
}

// HandleMediaRemoved tears down the session for a departed medium.
func (m *Manager) HandleMediaRemoved(mediumID string) {
	ms, ok := m.lookupByMedium(mediumID)
	if !ok {
		return
	}
	m.RemoveSession(ms.sess.ID, "medium removed")
}

// RemoveSession tears a session down: stops capture, clears its queue and
// display, drops it from the registry, and re-evaluates whether the shared
// recognizer should keep running.
func (m *Manager) RemoveSession(id, reason string) bool {
	m.mu.Lock()
	ms, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return false
	}
	delete(m.sessions, id)
	delete(m.byMedium, ms.sess.Handle.ID)
	m.mu.Unlock()

	if m.capture != nil {
		m.capture.Stop(ms.sess.Handle.ID)
	}
	ms.sync.HandleEnded()
	ms.sess.Queue.Clear()
	_ = ms.sess.Transition(session.StateRemoved, reason)
	m.publishState(ms.sess)

	m.logger.Info("session removed",
		logging.String(logging.FieldSessionID, id),
		logging.String("reason", reason))
	m.notifyAsync(func(ctx context.Context) error {
		return m.notifier.NotifySessionEnded(ctx, id, ms.sess.Handle.Label, reason)
	})

	m.evaluateRecognition()
	return true
}

// startCapture wires the capture subsystem for a session. Failure degrades
// the session without removing it; a later play event retries.
func (m *Manager) startCapture(ms *managedSession) {
	sess := ms.sess
	if err := sess.Transition(session.StateInitializing, ""); err != nil {
		m.logger.Warn("capture init skipped", logging.String(logging.FieldSessionID, sess.ID), logging.Error(err))
		return
	}
	m.publishState(sess)

	if m.capture == nil {
		m.degrade(sess, session.StateNoAudio, "no capture subsystem")
		return
	}

	id := sess.ID
	ok := m.capture.Start(sess.Handle,
		func(frame media.AudioFrame) { m.handleAudioFrame(id, frame) },
		func(err error) { m.handleCaptureError(id, err) },
	)
	if !ok {
		m.degrade(sess, session.StateNoAudio, "medium exposes no capturable audio")
		m.notifyAsync(func(ctx context.Context) error {
			return m.notifier.NotifyNoAudio(ctx, id, sess.Handle.Label)
		})
		return
	}

	if err := sess.Transition(session.StateListening, ""); err != nil {
		m.logger.Warn("listening transition failed", logging.String(logging.FieldSessionID, sess.ID), logging.Error(err))
		return
	}
	m.publishState(sess)
}

// degrade parks a session in a non-fatal degraded state and records the
// failure.
func (m *Manager) degrade(sess *session.Session, state session.State, message string) {
	if err := sess.Transition(state, message); err != nil {
		m.logger.Warn("degrade transition failed", logging.String(logging.FieldSessionID, sess.ID), logging.Error(err))
		return
	}
	m.publishState(sess)
	var marker error
	if state == session.StateNoAudio {
		marker = services.ErrCapture
	} else {
		marker = services.ErrTransient
	}
	m.recordFailure(sess.ID, "capture", services.Wrap(marker, "capture", "start", message, nil))
}

func (m *Manager) handleAudioFrame(sessionID string, frame media.AudioFrame) {
	ms, ok := m.lookup(sessionID)
	if !ok {
		return
	}
	ms.sess.NoteAudio(frame.Timestamp, m.now())

	// Play usually arrives before the first captured frame, so the play
	// handler's demand scan ran while hasAudio was still false. The frame
	// that flips it must pick up processing and recognizer demand itself,
	// not wait for the next pause/play cycle.
	if ms.sess.Clock.Playing() && !ms.sess.Processing() {
		ms.sess.SetProcessing(true)
		m.evaluateRecognition()
	}
}

func (m *Manager) handleCaptureError(sessionID string, err error) {
	ms, ok := m.lookup(sessionID)
	if !ok {
		return
	}
	wrapped := services.Wrap(services.ErrCapture, "capture", "stream", "", err)
	m.recordFailure(sessionID, "capture", wrapped)
	if terr := ms.sess.Transition(session.StateError, wrapped.Error()); terr != nil {
		m.logger.Debug("capture error in unrecoverable state",
			logging.String(logging.FieldSessionID, sessionID), logging.Error(terr))
		return
	}
	m.publishState(ms.sess)
	m.evaluateRecognition()
}

// statusEmitter builds the throttled playback status callback for a
// session's clock.
func (m *Manager) statusEmitter(sessionID string) func(playback.Status) {
	return func(st playback.Status) {
		ms, ok := m.lookup(sessionID)
		if !ok {
			return
		}
		m.status.PublishStatus(media.StatusUpdate{
			SessionID: sessionID,
			State:     string(ms.sess.State()),
			Playing:   st.Playing,
			Position:  st.CurrentTime,
			Rate:      st.Rate,
		})
	}
}

// publishState pushes the session's state to the host surface. Best-effort;
// the surface swallows failures.
func (m *Manager) publishState(sess *session.Session) {
	reading := sess.Clock.Peek(m.now())
	m.status.PublishStatus(media.StatusUpdate{
		SessionID: sess.ID,
		State:     string(sess.State()),
		Message:   sess.StateMessage(),
		Playing:   reading.Playing,
		Position:  reading.Position,
		Rate:      reading.Rate,
	})
}

// recordFailure logs a pipeline failure, stores it in the report ring, and
// pushes an error notification.
func (m *Manager) recordFailure(sessionID, stage string, err error) {
	if err == nil {
		return
	}
	m.logger.Error("pipeline failure",
		logging.String(logging.FieldSessionID, sessionID),
		logging.String(logging.FieldStage, stage),
		logging.Error(err))
	m.reports.Record(report.Report{
		Time:      m.now(),
		SessionID: sessionID,
		Stage:     stage,
		Message:   err.Error(),
	})
	m.notifyAsync(func(ctx context.Context) error {
		return m.notifier.NotifyError(ctx, err, stage)
	})
}

// notifyAsync fires a notification without blocking the pipeline. Delivery
// failures are logged and dropped.
func (m *Manager) notifyAsync(send func(context.Context) error) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := send(ctx); err != nil {
			m.logger.Debug("notification failed", logging.Error(err))
		}
	}()
}
