package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cwygoda/tipwatch/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS change_records (
    normalized_url   TEXT PRIMARY KEY,
    last_seen_commit TEXT NOT NULL,
    updated_at       DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// Store implements domain.ChangeStore using SQLite. One row per normalized
// fetch URL; rows for previously configured URLs are kept so reverting the
// config picks up the old record.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store, initializing the schema if needed.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the last seen commit for the URL, or the empty string when no
// record exists yet.
func (s *Store) Load(ctx context.Context, fetchURL string) (string, error) {
	var commit string
	err := s.db.QueryRowContext(ctx,
		`SELECT last_seen_commit FROM change_records WHERE normalized_url = ?`,
		fetchURL,
	).Scan(&commit)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", &domain.StorageError{Op: "load", Err: err}
	}
	return commit, nil
}

// Store upserts the last seen commit for the URL. The single-statement upsert
// runs in its own transaction, so readers see either the previous commit or
// the new one.
func (s *Store) Store(ctx context.Context, fetchURL, commit string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO change_records (normalized_url, last_seen_commit, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(normalized_url) DO UPDATE SET
		     last_seen_commit = excluded.last_seen_commit,
		     updated_at = excluded.updated_at`,
		fetchURL, commit, time.Now(),
	)
	if err != nil {
		return &domain.StorageError{Op: "store", Err: err}
	}
	return nil
}

// Record returns the full change record for the URL, or nil when absent.
func (s *Store) Record(ctx context.Context, fetchURL string) (*domain.ChangeRecord, error) {
	rec := domain.ChangeRecord{FetchURL: fetchURL}
	err := s.db.QueryRowContext(ctx,
		`SELECT last_seen_commit, updated_at FROM change_records WHERE normalized_url = ?`,
		fetchURL,
	).Scan(&rec.LastSeenCommit, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "record", Err: err}
	}
	return &rec, nil
}
