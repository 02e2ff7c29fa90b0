package file

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/blockpipe/blockpipe/internal/core/domain"
	"github.com/blockpipe/blockpipe/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CheckpointStore = (*Store)(nil)

// Store is a file-backed implementation of driven.CheckpointStore.
type Store struct {
	path string
}

// NewStore creates a checkpoint store bound to path. The file is not
// created until Initialize or Write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the checkpoint file path.
func (s *Store) Path() string {
	return s.path
}

// Initialize writes a fresh checkpoint file. It fails with
// domain.ErrCheckpointConflict if the file already exists, leaving it
// untouched.
func (s *Store) Initialize(value int64) error {
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("%w: %s; remove the file or drop the explicit start block",
			domain.ErrCheckpointConflict, s.path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat checkpoint file: %w", err)
	}
	return s.Write(value)
}

// Exists reports whether the checkpoint file is present.
func (s *Store) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat checkpoint file: %w", err)
}

// Read parses the stored block number.
func (s *Store) Read() (int64, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrCheckpointUnreadable, err)
	}
	value, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", domain.ErrCheckpointUnreadable, strings.TrimSpace(string(data)))
	}
	return value, nil
}

// Write overwrites the file with value and a trailing newline.
func (s *Store) Write(value int64) error {
	if err := os.WriteFile(s.path, []byte(strconv.FormatInt(value, 10)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write checkpoint file: %w", err)
	}
	return nil
}
