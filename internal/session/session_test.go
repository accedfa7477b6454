package session_test

import (
	"testing"
	"time"

	"livecap/internal/caption"
	"livecap/internal/media"
	"livecap/internal/session"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	handle := media.Handle{ID: "medium-1", Kind: "video", Label: "demo"}
	return session.New("sess-1", handle, time.Now(), nil)
}

func TestNewSessionStartsDetecting(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	if got := s.State(); got != session.StateDetecting {
		t.Fatalf("initial state = %s", got)
	}
	if s.Queue == nil || s.Clock == nil {
		t.Fatal("session must own a queue and a clock")
	}
}

func TestTransitionHappyPath(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	steps := []session.State{
		session.StateInitializing,
		session.StateListening,
		session.StateProcessing,
		session.StateTranslating,
		session.StateDisplaying,
		session.StateListening,
	}
	for _, next := range steps {
		if err := s.Transition(next, ""); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
}

func TestTransitionRejectsIllegalMove(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	if err := s.Transition(session.StateDisplaying, ""); err == nil {
		t.Fatal("detecting -> displaying must be rejected")
	}
}

func TestRemovedIsAbsorbing(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	if err := s.Transition(session.StateRemoved, "medium gone"); err != nil {
		t.Fatalf("any state may move to removed: %v", err)
	}
	if err := s.Transition(session.StateInitializing, ""); err == nil {
		t.Fatal("removed sessions must not transition again")
	}
}

func TestErrorStateCanRecover(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	if err := s.Transition(session.StateError, "capture failed"); err != nil {
		t.Fatalf("to error: %v", err)
	}
	if got := s.StateMessage(); got != "capture failed" {
		t.Fatalf("state message = %q", got)
	}
	if err := s.Transition(session.StateInitializing, ""); err != nil {
		t.Fatalf("error -> initializing should be allowed: %v", err)
	}
}

func TestStateActive(t *testing.T) {
	t.Parallel()

	active := []session.State{
		session.StateListening, session.StateProcessing,
		session.StateTranslating, session.StateDisplaying,
	}
	for _, st := range active {
		if !st.Active() {
			t.Fatalf("%s should be active", st)
		}
	}
	inactive := []session.State{
		session.StateDetecting, session.StateInitializing,
		session.StateNoAudio, session.StateError, session.StateRemoved,
	}
	for _, st := range inactive {
		if st.Active() {
			t.Fatalf("%s should be inactive", st)
		}
	}
}

func TestNoteAudioUpdatesAttributionData(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	if s.HasAudio() {
		t.Fatal("new session has no audio")
	}
	s.NoteAudio(123456, time.Now())
	if !s.HasAudio() {
		t.Fatal("expected audio flag after frame")
	}
	if got := s.LastAudioTimestamp(); got != 123456 {
		t.Fatalf("last audio timestamp = %d", got)
	}
}

func TestActiveCaptionRoundTrip(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	if _, ok := s.ActiveCaption(); ok {
		t.Fatal("no caption should be active initially")
	}
	s.SetActiveCaption(caption.Caption{ID: "cap-1", StartTime: 1, EndTime: 3})
	c, ok := s.ActiveCaption()
	if !ok || c.ID != "cap-1" || c.EndTime != 3 {
		t.Fatalf("active caption = %+v ok=%v", c, ok)
	}
	s.ClearActiveCaption()
	if _, ok := s.ActiveCaption(); ok {
		t.Fatal("clear should drop the active caption")
	}
}
