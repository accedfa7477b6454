package main

import (
	"strings"
	"testing"

	"livecap/internal/media"
)

func TestSessionsEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"sessions"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	requireContains(t, out, "No live sessions")
}

func TestSessionsListsTrackedMedia(t *testing.T) {
	env := setupCLITestEnv(t)

	env.manager.HandleMediaAdded(media.Handle{ID: "m1", Kind: "video", Label: "Concert stream"})

	out, _, err := runCLI(t, []string{"sessions"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	requireContains(t, out, "Concert stream")
}

func TestShowAndRemoveSession(t *testing.T) {
	env := setupCLITestEnv(t)

	env.manager.HandleMediaAdded(media.Handle{ID: "m1", Kind: "video", Label: "Concert stream"})
	infos := env.manager.Sessions()
	if len(infos) != 1 {
		t.Fatalf("expected one session, got %d", len(infos))
	}
	id := infos[0].ID

	out, _, err := runCLI(t, []string{"show", id}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, id)
	requireContains(t, out, "Concert stream")

	out, _, err = runCLI(t, []string{"remove", id}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	requireContains(t, out, "removed")

	out, _, err = runCLI(t, []string{"remove", id}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("remove again: %v", err)
	}
	requireContains(t, out, "not found")
}

func TestShowUnknownSessionFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"show", "no-such-session"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown session")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStatusRendersDaemonSection(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Daemon Status")
	requireContains(t, out, "[OK] Running")
	requireContains(t, out, "No live sessions")
}
