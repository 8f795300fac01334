// Package storage implements the sqlite-backed library store: a
// map-with-index over Tracks, Albums, and Playlists, plus a full-text
// search index and duplicate-detection queries.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a sqlite connection configured for Apollo's library schema.
type DB struct {
	conn *sql.DB
	log *slog.Logger
}

// Open opens (creating if necessary) the sqlite database at path, applies
// CineVault's performance pragmas, and ensures the schema is current.
func Open(ctx context.Context, path string, log *slog.Logger) (*DB, error) {
	if log == nil {
		log = slog.Default()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create library db dir: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open library db: %w", err)
	}
	db := &DB{conn: conn, log: log}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA cache_size=-64000",
		"PRAGMA temp_store=MEMORY",
	} {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			log.Warn("failed to apply pragma", "pragma", pragma, "err", err)
		}
	}

	if err := db.ensureSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) ensureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate library schema: %w", err)
		}
	}
	return nil
}

// DefaultPath returns the OS-specific default location for the library
// database, mirroring CineVault's defaultQueueDBPath layout.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "apollo", "library.sqlite"), nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func intToBool(v int64) bool { return v != 0 }

// timeNow is indirected so tests can reason about it without clocks drifting
// mid-transaction; production code always uses the real wall clock.
var timeNow = func() time.Time { return time.Now() }
