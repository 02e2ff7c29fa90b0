package memory

import (
	"fmt"
	"sync"

	"github.com/blockpipe/blockpipe/internal/core/domain"
	"github.com/blockpipe/blockpipe/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CheckpointStore = (*Store)(nil)

// Store is an in-memory implementation of driven.CheckpointStore.
// Nothing survives a restart; it exists for tests and dry runs.
type Store struct {
	mu     sync.RWMutex
	value  int64
	exists bool

	// Writes records every value passed to Write, in order. Handy for
	// asserting checkpoint monotonicity in tests.
	writes []int64
}

// NewStore creates an empty in-memory checkpoint store.
func NewStore() *Store {
	return &Store{}
}

// Initialize writes a fresh checkpoint, failing if one is already present.
func (s *Store) Initialize(value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exists {
		return fmt.Errorf("%w: in-memory checkpoint holds %d", domain.ErrCheckpointConflict, s.value)
	}
	s.value = value
	s.exists = true
	return nil
}

// Exists reports whether a checkpoint is present.
func (s *Store) Exists() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exists, nil
}

// Read returns the stored value.
func (s *Store) Read() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.exists {
		return 0, fmt.Errorf("%w: no in-memory checkpoint", domain.ErrCheckpointUnreadable)
	}
	return s.value, nil
}

// Write overwrites the stored value.
func (s *Store) Write(value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.exists = true
	s.writes = append(s.writes, value)
	return nil
}

// Writes returns a copy of all values ever written, in order.
func (s *Store) Writes() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int64, len(s.writes))
	copy(out, s.writes)
	return out
}
