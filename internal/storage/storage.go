// Package storage persists named snapshot records in an embedded SQLite
// database.
//
// The persistence boundary is narrow: whole-record reads and
// writes keyed by a fixed name (history, analytics, settings, feedback).
// No field-level updates exist; callers replace the full snapshot.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Record names used by the session service.
const (
	RecordHistory   = "history"
	RecordAnalytics = "analytics"
	RecordSettings  = "settings"
	RecordFeedback  = "feedback"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	name       TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	updated_at TEXT NOT NULL
);
`

// DB wraps the SQLite handle.
type DB struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for an ephemeral store in tests.
func Open(ctx context.Context, path string, logger *slog.Logger) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	// SQLite allows one writer; more connections just contend.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}

	return &DB{db: db, logger: logger}, nil
}

// Get reads the full body of a named record.
func (d *DB) Get(ctx context.Context, name string) ([]byte, error) {
	var body []byte
	err := d.db.QueryRowContext(ctx,
		`SELECT body FROM records WHERE name = ?`, name,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get %s: %w", name, err)
	}
	return body, nil
}

// Put replaces the full body of a named record.
func (d *DB) Put(ctx context.Context, name string, body []byte) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO records (name, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		name, body, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("storage: put %s: %w", name, err)
	}
	return nil
}

// Delete removes a named record. Deleting an absent record is a no-op.
func (d *DB) Delete(ctx context.Context, name string) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM records WHERE name = ?`, name); err != nil {
		return fmt.Errorf("storage: delete %s: %w", name, err)
	}
	return nil
}

// Close shuts down the database handle.
func (d *DB) Close() error {
	return d.db.Close()
}
