package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"livecap/internal/caption"
)

// Entry is one archived caption row.
type Entry struct {
	ID          int64
	CaptionID   string
	SessionID   string
	MediumLabel string
	Text        string
	StartTime   float64
	EndTime     float64
	Confidence  float64
	DisplayedAt time.Time
}

// Store manages caption history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the archive database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores a displayed caption.
func (s *Store) Record(ctx context.Context, c caption.Caption, mediumLabel string, displayedAt time.Time) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO captions (
            caption_id, session_id, medium_label, text,
            start_time, end_time, confidence, displayed_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.SessionID,
		mediumLabel,
		c.Text,
		c.StartTime,
		c.EndTime,
		c.Confidence,
		displayedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert caption: %w", err)
	}
	return nil
}

// BySession returns up to limit captions for a session in start-time order.
// limit <= 0 returns all rows.
func (s *Store) BySession(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	query := `SELECT id, caption_id, session_id, medium_label, text,
            start_time, end_time, confidence, displayed_at
        FROM captions WHERE session_id = ? ORDER BY start_time ASC`
	args := []any{sessionID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session captions: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows)
}

// Recent returns up to limit captions across every session, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, caption_id, session_id, medium_label, text,
            start_time, end_time, confidence, displayed_at
        FROM captions ORDER BY displayed_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent captions: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows)
}

// Prune deletes captions displayed before the retention cutoff, returning
// the number removed.
func (s *Store) Prune(ctx context.Context, retention time.Duration, now time.Time) (int64, error) {
	cutoff := now.Add(-retention).UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx, "DELETE FROM captions WHERE displayed_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune captions: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var displayedAt string
		if err := rows.Scan(
			&e.ID, &e.CaptionID, &e.SessionID, &e.MediumLabel, &e.Text,
			&e.StartTime, &e.EndTime, &e.Confidence, &displayedAt,
		); err != nil {
			return nil, fmt.Errorf("scan caption row: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, displayedAt)
		if err != nil {
			return nil, fmt.Errorf("parse displayed_at: %w", err)
		}
		e.DisplayedAt = ts
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate caption rows: %w", err)
	}
	return entries, nil
}
