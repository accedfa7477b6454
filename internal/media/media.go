package media

import "context"

// Handle identifies a playing medium inside the host surface. The daemon
// treats it as opaque; only the detection feed knows how to produce one.
type Handle struct {
	// ID is stable for the lifetime of the medium in the host surface.
	ID string
	// Kind distinguishes audio-only media from video.
	Kind string
	// Label is a best-effort human-readable description (title, URL).
	Label string
}

// AudioFrame is one chunk of captured audio attributed to a medium.
type AudioFrame struct {
	MediumID  string
	Samples   []byte
	Timestamp int64 // host clock, milliseconds
}

// Capture starts and stops audio capture for a single medium.
//
// Start returns false when the medium exposes no capturable audio; that is a
// degraded state for the owning session, not a fatal error. Errors reported
// through onError after a successful Start are transient capture faults.
type Capture interface {
	Start(handle Handle, onFrame func(AudioFrame), onError func(error)) bool
	Stop(mediumID string)
}

// RecognitionResult is one hypothesis from the recognizer. Interim results
// refine the current utterance; final results close it.
type RecognitionResult struct {
	Final      bool
	Transcript string
	Confidence float64
	// Timestamp is the host clock time the recognizer produced the result,
	// in milliseconds. Used to attribute the result to a session.
	Timestamp int64
}

// Recognizer wraps the shared speech recognition engine. A single instance
// serves every session; arbitration of start/stop is the caller's concern.
//
// Init returns false when the engine is unavailable on this host. The
// remaining methods are safe to call regardless of listening state.
type Recognizer interface {
	Init(languageHint string, onResult func(RecognitionResult), onError func(error), onStatus func(string)) bool
	StartListening()
	StopListening()
	IsListening() bool
}

// Translation is the result of translating one final transcript.
type Translation struct {
	Text       string
	Confidence float64
}

// Translator converts a final transcript into the configured target language.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (Translation, error)
}

// CaptionAttributes accompany a caption hand-off to the render surface.
type CaptionAttributes struct {
	DurationMS int64
	Confidence float64
	StartTime  float64
	EndTime    float64
}

// RenderSurface displays captions in the host page. Calls are best-effort;
// the surface may drop them when the target medium is gone.
type RenderSurface interface {
	DisplayCaption(sessionID, text string, attrs CaptionAttributes)
	ClearCaption(sessionID string)
}

// StatusUpdate is a session-state notification for the host surface. The
// playback fields mirror the session's clock at emission time so the host
// can show progress without polling.
type StatusUpdate struct {
	SessionID string
	State     string
	Message   string
	Playing   bool
	Position  float64
	Rate      float64
}

// StatusSurface receives best-effort session status updates.
type StatusSurface interface {
	PublishStatus(update StatusUpdate)
}

// DetectionFeed delivers media lifecycle events from the host surface. The
// feed calls the handlers from its own goroutine; handlers must not block.
type DetectionFeed interface {
	Subscribe(onAdded func(Handle), onRemoved func(mediumID string))
}

// Reachable is implemented by handles whose liveness can be probed. The
// session sweep uses it to drop sessions whose medium disappeared without a
// removal event.
type Reachable interface {
	Reachable(mediumID string) bool
}
