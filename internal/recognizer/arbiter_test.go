package recognizer_test

import (
	"sync"
	"testing"

	"livecap/internal/media"
	"livecap/internal/recognizer"
)

type fakeEngine struct {
	mu        sync.Mutex
	initOK    bool
	initCalls int
	starts    int
	stops     int
	listening bool
}

func (f *fakeEngine) Init(string, func(media.RecognitionResult), func(error), func(string)) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initCalls++
	return f.initOK
}

func (f *fakeEngine) StartListening() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	f.listening = true
}

func (f *fakeEngine) StopListening() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.listening = false
}

func (f *fakeEngine) IsListening() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listening
}

func TestInitRunsOnce(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{initOK: true}
	a := recognizer.New(engine, nil)

	if err := a.Init("en-US", nil, nil, nil); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := a.Init("en-US", nil, nil, nil); err != nil {
		t.Fatalf("repeat init: %v", err)
	}
	if engine.initCalls != 1 {
		t.Fatalf("engine init calls = %d, want 1", engine.initCalls)
	}
}

func TestInitFailureReturnsError(t *testing.T) {
	t.Parallel()

	a := recognizer.New(&fakeEngine{initOK: false}, nil)
	if err := a.Init("en-US", nil, nil, nil); err == nil {
		t.Fatal("expected error when engine init fails")
	}
}

func TestEnsureStartedIsIdempotent(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{initOK: true}
	a := recognizer.New(engine, nil)
	if err := a.Init("en-US", nil, nil, nil); err != nil {
		t.Fatalf("init: %v", err)
	}

	a.EnsureStarted()
	a.EnsureStarted()
	a.EnsureStarted()

	if engine.starts != 1 {
		t.Fatalf("start calls = %d, want 1", engine.starts)
	}
	if !a.Listening() {
		t.Fatal("expected listening state")
	}
}

func TestEnsureStoppedIsIdempotent(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{initOK: true}
	a := recognizer.New(engine, nil)
	if err := a.Init("en-US", nil, nil, nil); err != nil {
		t.Fatalf("init: %v", err)
	}

	a.EnsureStopped() // never started: no-op
	a.EnsureStarted()
	a.EnsureStopped()
	a.EnsureStopped()

	if engine.stops != 1 {
		t.Fatalf("stop calls = %d, want 1", engine.stops)
	}
}

func TestEnsureStartedBeforeInitIsNoop(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{initOK: true}
	a := recognizer.New(engine, nil)

	a.EnsureStarted()
	if engine.starts != 0 {
		t.Fatalf("uninitialized arbiter must not start the engine, got %d starts", engine.starts)
	}
}
