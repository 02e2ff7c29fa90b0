package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/blockpipe/blockpipe/internal/core/domain"
	"github.com/blockpipe/blockpipe/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CheckpointStore = (*Store)(nil)

// Store is a SQLite-backed implementation of driven.CheckpointStore. Each
// store is bound to one named checkpoint row.
type Store struct {
	db   *sql.DB
	name string
}

// NewStore opens (creating if needed) the database at dbPath and binds the
// store to the checkpoint named name.
func NewStore(dbPath, name string) (*Store, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: checkpoint name is required", domain.ErrInvalidConfig)
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	// WAL mode for better concurrency between the writer and readers.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS checkpoints (
			name       TEXT PRIMARY KEY,
			value      INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating checkpoints table: %w", err)
	}

	return &Store{db: db, name: name}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Initialize inserts a fresh checkpoint row, failing with
// domain.ErrCheckpointConflict if the named row already exists.
func (s *Store) Initialize(value int64) error {
	res, err := s.db.Exec(`
		INSERT INTO checkpoints (name, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, s.name, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting checkpoint: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("inserting checkpoint: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: checkpoint %q", domain.ErrCheckpointConflict, s.name)
	}
	return nil
}

// Exists reports whether the named checkpoint row is present.
func (s *Store) Exists() (bool, error) {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM checkpoints WHERE name = ?", s.name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying checkpoint: %w", err)
	}
	return true, nil
}

// Read returns the stored block number.
func (s *Store) Read() (int64, error) {
	var value int64
	err := s.db.QueryRow("SELECT value FROM checkpoints WHERE name = ?", s.name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: checkpoint %q has no row", domain.ErrCheckpointUnreadable, s.name)
	}
	if err != nil {
		return 0, fmt.Errorf("reading checkpoint: %w", err)
	}
	return value, nil
}

// Write upserts the checkpoint value.
func (s *Store) Write(value int64) error {
	_, err := s.db.Exec(`
		INSERT INTO checkpoints (name, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, s.name, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	return nil
}
