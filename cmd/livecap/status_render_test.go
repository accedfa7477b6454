package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"livecap/internal/ipc"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Daemon", statusError, "Not running", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Daemon:", "[ERROR] Not running")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Daemon", statusOK, "Running", true)
	if !strings.HasPrefix(got, "\x1b[32m") {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestDaemonStatusLines(t *testing.T) {
	status := &ipc.StatusResponse{
		Running:             true,
		PID:                 42,
		SessionCount:        3,
		MaxSessions:         10,
		RecognizerListening: true,
		ArchivePath:         "/var/lib/livecap/captions.db",
		SocketPath:          "/var/lib/livecap/livecap.sock",
	}
	lines := daemonStatusLines(status, false)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[OK] Running (pid 42)") {
		t.Fatalf("expected running line, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "3 of 10") {
		t.Fatalf("expected capacity line, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "[OK] Listening") {
		t.Fatalf("expected recognizer line, got %q", lines[2])
	}
}

func TestDaemonStatusLinesAtCapacity(t *testing.T) {
	status := &ipc.StatusResponse{Running: true, SessionCount: 10, MaxSessions: 10}
	lines := daemonStatusLines(status, false)
	if !strings.Contains(lines[1], "[WARN]") {
		t.Fatalf("expected capacity warning, got %q", lines[1])
	}
}

func TestFormatPosition(t *testing.T) {
	cases := map[float64]string{
		0:     "0:00",
		59.9:  "0:59",
		60:    "1:00",
		3725:  "62:05",
		-12.5: "0:00",
	}
	for input, want := range cases {
		if got := formatPosition(input); got != want {
			t.Fatalf("formatPosition(%v) = %q, want %q", input, got, want)
		}
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
