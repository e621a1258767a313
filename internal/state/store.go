// Package state manages the small SQLite database that tracks sync metadata,
// most importantly the timestamp of the last successful cloud sync.
//
// Sync metadata lives apart from the ledger database so that wiping or
// restoring the ledger never loses track of when the cloud was last touched.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS sync_meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

const lastSyncKey = "last_sync_date"

// Store is the SQLite-backed sync metadata repository.
type Store struct {
	db *sql.DB
}

// DefaultDBPath returns the default path for the metadata database:
// ~/.local/share/autoledger/state.db
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "autoledger", "state.db"), nil
}

// Open opens (or creates) the SQLite database at path, applies the schema, and
// configures WAL mode.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", path, err)
	}

	// Single writer to avoid SQLITE_BUSY under WAL.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// LastSyncDate returns the timestamp of the last successful sync, or
// (zero, false) when no sync has completed yet.
func (s *Store) LastSyncDate(ctx context.Context) (time.Time, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM sync_meta WHERE key = ?`, lastSyncKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading last sync date: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing last sync date %q: %w", raw, err)
	}
	return t, true, nil
}

// SetLastSyncDate records the timestamp of a successful sync.
func (s *Store) SetLastSyncDate(ctx context.Context, t time.Time) error {
	const q = `
		INSERT INTO sync_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := s.db.ExecContext(ctx, q, lastSyncKey, t.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("recording last sync date: %w", err)
	}
	return nil
}

// ClearLastSyncDate forgets the last sync timestamp. Used after a remote wipe,
// when "last synced" no longer describes anything that exists.
func (s *Store) ClearLastSyncDate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM sync_meta WHERE key = ?`, lastSyncKey); err != nil {
		return fmt.Errorf("clearing last sync date: %w", err)
	}
	return nil
}
