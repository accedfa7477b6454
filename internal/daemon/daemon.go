package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"livecap/internal/archive"
	"livecap/internal/config"
	"livecap/internal/logging"
	"livecap/internal/manager"
	"livecap/internal/notifications"
	"livecap/internal/report"
)

// Daemon owns the session manager, the caption archive, and the instance
// lock.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *archive.Store
	manager *manager.Manager
	reports *report.Ring

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running             bool
	PID                 int
	SessionCount        int
	MaxSessions         int
	RecognizerListening bool
	ArchivePath         string
	LockPath            string
	SocketPath          string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *archive.Store, logger *slog.Logger, mgr *manager.Manager, reports *report.Ring) (*Daemon, error) {
	if cfg == nil || logger == nil || mgr == nil {
		return nil, errors.New("daemon requires config, logger, and session manager")
	}
	if reports == nil {
		reports = report.NewRing(0)
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		manager:  mgr,
		reports:  reports,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock and launches the session manager and the
// archive retention loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another livecap daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.manager.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start session manager: %w", err)
	}

	if d.store != nil && d.cfg.Archive.Enabled {
		d.wg.Add(1)
		go d.retentionLoop(d.ctx)
	}

	d.running.Store(true)
	d.logger.Info("livecap daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.manager.Wait()
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("livecap daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// retentionLoop prunes archived captions past the retention window once a
// day.
func (d *Daemon) retentionLoop(ctx context.Context) {
	defer d.wg.Done()
	retention := time.Duration(d.cfg.Archive.RetentionDays) * 24 * time.Hour
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	prune := func(now time.Time) {
		removed, err := d.store.Prune(ctx, retention, now)
		if err != nil {
			d.logger.Warn("archive prune failed", logging.Error(err))
			return
		}
		if removed > 0 {
			d.logger.Info("archived captions pruned", logging.Int64("removed", removed))
		}
	}
	prune(time.Now())
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			prune(now)
		}
	}
}

// Status returns the current daemon status.
func (d *Daemon) Status(context.Context) Status {
	return Status{
		Running:             d.running.Load(),
		PID:                 os.Getpid(),
		SessionCount:        d.manager.Count(),
		MaxSessions:         d.cfg.Sessions.MaxSessions,
		RecognizerListening: d.manager.RecognizerListening(),
		ArchivePath:         d.cfg.ArchivePath(),
		LockPath:            d.lockPath,
		SocketPath:          d.cfg.SocketPath(),
	}
}

// Sessions lists live session snapshots.
func (d *Daemon) Sessions() []manager.SessionInfo {
	return d.manager.Sessions()
}

// DescribeSession returns a single session snapshot.
func (d *Daemon) DescribeSession(id string) (manager.SessionInfo, bool) {
	return d.manager.Describe(strings.TrimSpace(id))
}

// RemoveSession tears down a session on operator request.
func (d *Daemon) RemoveSession(id string) bool {
	return d.manager.RemoveSession(strings.TrimSpace(id), "removed by operator")
}

// History returns archived captions, for one session when sessionID is
// non-empty, newest-first across sessions otherwise.
func (d *Daemon) History(ctx context.Context, sessionID string, limit int) ([]archive.Entry, error) {
	if d.store == nil {
		return nil, errors.New("caption archive unavailable")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID != "" {
		return d.store.BySession(ctx, sessionID, limit)
	}
	return d.store.Recent(ctx, limit)
}

// Reports returns recent pipeline failure reports, newest first.
func (d *Daemon) Reports(limit int) []report.Report {
	return d.reports.Recent(limit)
}

// TestNotification triggers a test notification using the current
// configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	notifier := notifications.NewService(d.cfg)
	if err := notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}
