package ipc_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"livecap/internal/archive"
	"livecap/internal/caption"
	"livecap/internal/config"
	"livecap/internal/daemon"
	"livecap/internal/ipc"
	"livecap/internal/logging"
	"livecap/internal/manager"
	"livecap/internal/report"
)

type fixture struct {
	client *ipc.Client
	store  *archive.Store
	ring   *report.Ring
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Paths.LogDir = filepath.Join(cfg.Paths.StateDir, "logs")

	store, err := archive.Open(filepath.Join(cfg.Paths.StateDir, "captions.db"))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ring := report.NewRing(10)
	mgr := manager.New(manager.Deps{Config: &cfg, Reports: ring, Store: store})
	d, err := daemon.New(&cfg, store, logging.NewNop(), mgr, ring)
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	socket := cfg.SocketPath()
	server, err := ipc.NewServer(ctx, socket, d, logging.NewNop())
	if err != nil {
		cancel()
		t.Fatalf("new server: %v", err)
	}
	server.Serve()
	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return &fixture{client: client, store: store, ring: ring}
}

func TestStatusRoundTrip(t *testing.T) {
	f := newFixture(t)

	status, err := f.client.Status()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Running {
		t.Fatal("daemon was not started")
	}
	if status.MaxSessions != 10 {
		t.Fatalf("max sessions = %d", status.MaxSessions)
	}
	if status.SessionCount != 0 {
		t.Fatalf("session count = %d", status.SessionCount)
	}
}

func TestSessionListEmpty(t *testing.T) {
	f := newFixture(t)

	resp, err := f.client.SessionList()
	if err != nil {
		t.Fatalf("session list: %v", err)
	}
	if len(resp.Sessions) != 0 {
		t.Fatalf("expected no sessions, got %d", len(resp.Sessions))
	}
}

func TestSessionDescribeUnknownID(t *testing.T) {
	f := newFixture(t)

	if _, err := f.client.SessionDescribe("no-such-session"); err == nil {
		t.Fatal("expected error for unknown session")
	}
	if _, err := f.client.SessionDescribe(""); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestSessionRemoveUnknownID(t *testing.T) {
	f := newFixture(t)

	resp, err := f.client.SessionRemove("no-such-session")
	if err != nil {
		t.Fatalf("session remove: %v", err)
	}
	if resp.Removed {
		t.Fatal("unknown session must not report removed")
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	f := newFixture(t)

	c := caption.Caption{
		ID:         "cap-1",
		SessionID:  "sess-1",
		Text:       "hello",
		StartTime:  1,
		EndTime:    3,
		Confidence: 0.9,
	}
	if err := f.store.Record(context.Background(), c, "demo", time.Now()); err != nil {
		t.Fatalf("record: %v", err)
	}

	resp, err := f.client.History("sess-1", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].Text != "hello" {
		t.Fatalf("unexpected history: %+v", resp.Entries)
	}

	all, err := f.client.History("", 10)
	if err != nil {
		t.Fatalf("history all: %v", err)
	}
	if len(all.Entries) != 1 {
		t.Fatalf("expected 1 entry across sessions, got %d", len(all.Entries))
	}
}

func TestReportsRoundTrip(t *testing.T) {
	f := newFixture(t)

	f.ring.Record(report.Report{
		Time:      time.Now(),
		SessionID: "sess-1",
		Stage:     "translation",
		Message:   "provider down",
	})

	resp, err := f.client.Reports(5)
	if err != nil {
		t.Fatalf("reports: %v", err)
	}
	if len(resp.Reports) != 1 || resp.Reports[0].Stage != "translation" {
		t.Fatalf("unexpected reports: %+v", resp.Reports)
	}
}

func TestTestNotificationWithoutTopic(t *testing.T) {
	f := newFixture(t)

	resp, err := f.client.TestNotification()
	if err != nil {
		t.Fatalf("test notification: %v", err)
	}
	if resp.Sent {
		t.Fatal("must not send without a configured topic")
	}
}
