package main

import (
	"context"
	"testing"
	"time"

	"livecap/internal/caption"
	"livecap/internal/report"
)

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No archived captions")
}

func TestHistoryRendersArchivedCaptions(t *testing.T) {
	env := setupCLITestEnv(t)

	c := caption.Caption{
		ID:         "cap-1",
		SessionID:  "sess-1",
		Text:       "hello from the archive",
		StartTime:  12,
		EndTime:    15,
		Confidence: 0.9,
	}
	if err := env.store.Record(context.Background(), c, "Concert stream", time.Now()); err != nil {
		t.Fatalf("record: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "--session", "sess-1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "hello from the archive")
	requireContains(t, out, "0:12-0:15")
}

func TestReportsRendersFailures(t *testing.T) {
	env := setupCLITestEnv(t)

	env.ring.Record(report.Report{
		Time:      time.Now(),
		SessionID: "sess-1",
		Stage:     "translation",
		Message:   "provider down",
	})

	out, _, err := runCLI(t, []string{"reports", "--limit", "5"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("reports: %v", err)
	}
	requireContains(t, out, "provider down")
}

func TestTestNotifyWithoutTopic(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"test-notify"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "ntfy topic not configured")
}
