package session

import (
	"fmt"
	"sync"
	"time"

	"livecap/internal/caption"
	"livecap/internal/media"
	"livecap/internal/playback"
)

// State tracks a session through the captioning lifecycle.
type State string

const (
	StateDetecting    State = "detecting"
	StateInitializing State = "initializing"
	StateListening    State = "listening"
	StateProcessing   State = "processing"
	StateTranslating  State = "translating"
	StateDisplaying   State = "displaying"
	StateNoAudio      State = "no-audio"
	StateError        State = "error"
	StateRemoved      State = "removed"
)

// Active reports whether the session still participates in recognition.
// No-audio and error sessions stay registered for observability but never
// receive attribution.
func (s State) Active() bool {
	switch s {
	case StateListening, StateProcessing, StateTranslating, StateDisplaying:
		return true
	default:
		return false
	}
}

// Terminal reports whether the session has left the registry for good.
func (s State) Terminal() bool {
	return s == StateRemoved
}

// validTransitions maps each state to the states it may move to. Removed is
// reachable from everywhere and is absorbing.
var validTransitions = map[State][]State{
	StateDetecting:    {StateInitializing, StateNoAudio, StateError},
	StateInitializing: {StateListening, StateNoAudio, StateError},
	StateListening:    {StateProcessing, StateNoAudio, StateError},
	StateProcessing:   {StateListening, StateTranslating, StateDisplaying, StateError},
	StateTranslating:  {StateDisplaying, StateListening, StateError},
	StateDisplaying:   {StateListening, StateProcessing, StateError},
	StateNoAudio:      {StateInitializing, StateError},
	StateError:        {StateInitializing},
}

// CanTransition reports whether from -> to is a legal state change.
func CanTransition(from, to State) bool {
	if to == StateRemoved {
		return from != StateRemoved
	}
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Session is one captioned medium. The manager owns session lifecycle; the
// synchronizer reads the queue and clock every tick.
type Session struct {
	ID     string
	Handle media.Handle

	Queue *caption.Queue
	Clock *playback.Clock

	mu sync.Mutex

	state        State
	stateMessage string

	createdAt    time.Time
	lastActivity time.Time

	// lastAudioTimestamp is the host-clock time of the most recent captured
	// audio frame, used to attribute recognition results across sessions.
	lastAudioTimestamp int64
	hasAudio           bool
	processing         bool

	currentTranscript string
	lastTranslation   string

	// activeCaption is the caption currently on the render surface. At most
	// one caption is active per session.
	activeCaption    caption.Caption
	activeCaptionSet bool
}

// New creates a detecting session for the given medium.
func New(id string, handle media.Handle, now time.Time, onStatus func(playback.Status)) *Session {
	return &Session{
		ID:           id,
		Handle:       handle,
		Queue:        caption.NewQueue(),
		Clock:        playback.NewClock(onStatus),
		state:        StateDetecting,
		createdAt:    now,
		lastActivity: now,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StateMessage returns the human-readable detail attached to the last
// transition, usually empty outside error and no-audio states.
func (s *Session) StateMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateMessage
}

// Transition moves the session to next, rejecting illegal changes. The
// message replaces any previous state detail.
func (s *Session) Transition(next State, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == next {
		s.stateMessage = message
		return nil
	}
	if !CanTransition(s.state, next) {
		return fmt.Errorf("session %s: illegal transition %s -> %s", s.ID, s.state, next)
	}
	s.state = next
	s.stateMessage = message
	return nil
}

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createdAt
}

// Touch records activity at now. Playback events, audio frames, and caption
// displays all count as activity for eviction purposes.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = now
}

// IdleSince returns the last activity time.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// NoteAudio records a captured audio frame at the given host-clock
// timestamp.
func (s *Session) NoteAudio(timestamp int64, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasAudio = true
	s.lastAudioTimestamp = timestamp
	s.lastActivity = now
}

// HasAudio reports whether any audio has been captured for the session.
func (s *Session) HasAudio() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasAudio
}

// LastAudioTimestamp returns the host-clock time of the newest audio frame,
// zero when none has arrived.
func (s *Session) LastAudioTimestamp() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAudioTimestamp
}

// SetProcessing flags whether the session is currently inside an utterance.
func (s *Session) SetProcessing(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = on
}

// Processing reports whether the session is inside an utterance.
func (s *Session) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// SetTranscript records the in-flight transcript. Seeks reset it to empty
// because a jump invalidates transcript continuity.
func (s *Session) SetTranscript(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentTranscript = text
}

// Transcript returns the in-flight transcript.
func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTranscript
}

// SetLastTranslation records the most recent translation output.
func (s *Session) SetLastTranslation(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTranslation = text
}

// LastTranslation returns the most recent translation output.
func (s *Session) LastTranslation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTranslation
}

// SetActiveCaption records the caption currently on the render surface.
func (s *Session) SetActiveCaption(c caption.Caption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeCaption = c
	s.activeCaptionSet = true
}

// ClearActiveCaption forgets the displayed caption.
func (s *Session) ClearActiveCaption() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeCaption = caption.Caption{}
	s.activeCaptionSet = false
}

// ActiveCaption returns the displayed caption; the boolean is false when
// nothing is on screen.
func (s *Session) ActiveCaption() (caption.Caption, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeCaption, s.activeCaptionSet
}
