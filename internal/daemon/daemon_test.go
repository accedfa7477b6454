package daemon_test

import (
	"context"
	"path/filepath"
	"testing"

	"livecap/internal/config"
	"livecap/internal/daemon"
	"livecap/internal/logging"
	"livecap/internal/manager"
	"livecap/internal/report"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Paths.LogDir = filepath.Join(cfg.Paths.StateDir, "logs")
	cfg.Archive.Enabled = false
	return &cfg
}

func newDaemon(t *testing.T, cfg *config.Config) *daemon.Daemon {
	t.Helper()
	mgr := manager.New(manager.Deps{Config: cfg})
	d, err := daemon.New(cfg, nil, logging.NewNop(), mgr, report.NewRing(0))
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestNewRequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := daemon.New(nil, nil, logging.NewNop(), nil, nil); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}

func TestStartStopLifecycle(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	d := newDaemon(t, cfg)

	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !d.Status(ctx).Running {
		t.Fatal("expected running status")
	}
	if err := d.Start(ctx); err == nil {
		t.Fatal("second start must fail while running")
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Fatal("expected stopped status")
	}

	// Restart after a clean stop works.
	if err := d.Start(ctx); err != nil {
		t.Fatalf("restart: %v", err)
	}
	d.Stop()
}

func TestLockRejectsSecondInstance(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	first := newDaemon(t, cfg)
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("first start: %v", err)
	}
	defer first.Stop()

	second := newDaemon(t, cfg)
	if err := second.Start(context.Background()); err == nil {
		t.Fatal("second instance must fail to acquire the lock")
	}
}

func TestStatusFields(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	d := newDaemon(t, cfg)

	status := d.Status(context.Background())
	if status.MaxSessions != cfg.Sessions.MaxSessions {
		t.Fatalf("max sessions = %d", status.MaxSessions)
	}
	if status.LockPath != cfg.LockPath() {
		t.Fatalf("lock path = %q", status.LockPath)
	}
	if status.SocketPath != cfg.SocketPath() {
		t.Fatalf("socket path = %q", status.SocketPath)
	}
	if status.SessionCount != 0 {
		t.Fatalf("session count = %d", status.SessionCount)
	}
}

func TestTestNotificationWithoutTopic(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	d := newDaemon(t, cfg)

	sent, message, err := d.TestNotification(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent {
		t.Fatal("notification must not send without a topic")
	}
	if message == "" {
		t.Fatal("expected explanatory message")
	}
}
