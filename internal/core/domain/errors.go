package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrCheckpointConflict indicates an explicit start block was requested
	// while a checkpoint already exists. Resume intent is ambiguous: either
	// remove the checkpoint or drop the start block.
	ErrCheckpointConflict = errors.New("checkpoint already exists")

	// ErrCheckpointUnreadable indicates the checkpoint record is missing or
	// does not parse as an integer.
	ErrCheckpointUnreadable = errors.New("checkpoint unreadable")

	// ErrInvalidConfig indicates malformed or out-of-range configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrAdapterClosed indicates the source adapter was used after Close.
	ErrAdapterClosed = errors.New("source adapter closed")
)
