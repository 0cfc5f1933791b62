// Package sqlite persists moments, connections and profiles in a single
// SQLite file. It backs STORAGE_DRIVER=sqlite for local runs and the CLI.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// sortableTimeLayout keeps created_at columns ordered as text
const sortableTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB wraps the SQLite handle shared by the repositories
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("sqlite: create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: pragma %q: %w", p, err)
		}
	}

	s := &DB{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection
func (s *DB) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable
func (s *DB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *DB) migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS connections (
			id                 TEXT PRIMARY KEY,
			user_id            TEXT NOT NULL,
			name               TEXT NOT NULL,
			relationship_stage TEXT NOT NULL,
			zodiac_sign        TEXT NOT NULL DEFAULT '',
			love_language      TEXT NOT NULL DEFAULT '',
			created_at         TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_connections_user ON connections(user_id, created_at);

		CREATE TABLE IF NOT EXISTS moments (
			id                         TEXT PRIMARY KEY,
			user_id                    TEXT NOT NULL,
			connection_id              TEXT NOT NULL,
			emoji                      TEXT NOT NULL,
			tags                       TEXT NOT NULL DEFAULT '[]',
			content                    TEXT NOT NULL DEFAULT '',
			is_intimate                INTEGER NOT NULL DEFAULT 0,
			is_resolved                INTEGER NOT NULL DEFAULT 0,
			resolution_notes           TEXT NOT NULL DEFAULT '',
			related_to_menstrual_cycle INTEGER NOT NULL DEFAULT 0,
			created_at                 TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_moments_user_time ON moments(user_id, created_at, id);

		CREATE TABLE IF NOT EXISTS profiles (
			user_id       TEXT PRIMARY KEY,
			zodiac_sign   TEXT NOT NULL DEFAULT '',
			love_language TEXT NOT NULL DEFAULT '',
			updated_at    TEXT NOT NULL
		);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func formatTime(t time.Time) string { return t.UTC().Format(sortableTimeLayout) }

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
