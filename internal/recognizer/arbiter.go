package recognizer

import (
	"log/slog"
	"sync"

	"livecap/internal/logging"
	"livecap/internal/media"
	"livecap/internal/services"
)

// Arbiter owns start/stop intent for the shared recognition engine. The
// engine serves every session at once, so the manager re-scans session needs
// after each change and calls EnsureStarted or EnsureStopped; both are
// idempotent because the scan can issue redundant calls.
type Arbiter struct {
	mu     sync.Mutex
	engine media.Recognizer
	logger *slog.Logger

	initialized  bool
	languageHint string
}

// New wraps engine. The engine is not touched until Init.
func New(engine media.Recognizer, logger *slog.Logger) *Arbiter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Arbiter{
		engine: engine,
		logger: logger.With(logging.String(logging.FieldComponent, "recognizer")),
	}
}

// Init prepares the engine with the language hint and result callbacks. It
// runs at most once; later calls are no-ops reporting the first outcome.
func (a *Arbiter) Init(languageHint string, onResult func(media.RecognitionResult), onError func(error), onStatus func(string)) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.initialized {
		return nil
	}
	if a.engine == nil {
		return services.Wrap(services.ErrRecognition, "recognition", "init", "no recognition engine", nil)
	}
	if !a.engine.Init(languageHint, onResult, onError, onStatus) {
		return services.Wrap(services.ErrRecognition, "recognition", "init", "recognition engine unavailable", nil)
	}
	a.initialized = true
	a.languageHint = languageHint
	a.logger.Info("recognition engine initialized", logging.String("language_hint", languageHint))
	return nil
}

// EnsureStarted starts listening if the engine is initialized and not
// already listening. Calling it while listening is a no-op.
func (a *Arbiter) EnsureStarted() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized || a.engine.IsListening() {
		return
	}
	a.engine.StartListening()
	a.logger.Debug("recognizer started")
}

// EnsureStopped stops listening if the engine is currently listening.
// Calling it while stopped is a no-op.
func (a *Arbiter) EnsureStopped() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized || !a.engine.IsListening() {
		return
	}
	a.engine.StopListening()
	a.logger.Debug("recognizer stopped")
}

// Listening reports whether the engine is currently listening.
func (a *Arbiter) Listening() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.initialized && a.engine.IsListening()
}
