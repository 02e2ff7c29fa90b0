package domain

import (
	"fmt"
	"time"
)

// RetryMode selects how the streamer reacts to a failed sync cycle.
type RetryMode string

const (
	// RetryModePropagate stops the stream on the first cycle failure.
	RetryModePropagate RetryMode = "propagate"

	// RetryModeRetry logs the failure, treats the cycle as zero progress
	// and keeps going.
	RetryModeRetry RetryMode = "retry"
)

// RetryPolicy describes how cycle failures are handled.
type RetryPolicy struct {
	// Mode is the failure reaction. Defaults to RetryModeRetry.
	Mode RetryMode

	// MaxAttempts bounds consecutive failed cycles in RetryModeRetry.
	// Zero means unbounded. Ignored in RetryModePropagate.
	MaxAttempts int
}

// StreamConfig holds the synchronisation parameters for one stream run.
// It is immutable after construction; Validate must pass before use.
type StreamConfig struct {
	// Lag is how many blocks to stay behind the source head. Guards
	// against reorg/finality risk near the head.
	Lag int64

	// StartBlock, when set, seeds a fresh checkpoint at StartBlock-1.
	// Setting it against an existing checkpoint is a conflict.
	StartBlock *int64

	// EndBlock, when set, is a terminal bound: the stream stops once the
	// last synced block reaches it.
	EndBlock *int64

	// PollInterval is the idle sleep between empty (or failed) cycles.
	PollInterval time.Duration

	// BlockBatchSize is the steady-phase maximum range width per cycle.
	BlockBatchSize int64

	// RampUpBlocks is the count of initially processed blocks during
	// which the batch width is forced to 1.
	RampUpBlocks int64

	// Retry decides whether cycle errors stop the stream or are retried.
	Retry RetryPolicy

	// PIDFile, when non-empty, is written with the process id while the
	// stream runs and removed on exit.
	PIDFile string
}

// DefaultStreamConfig returns the defaults used when options are omitted.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Lag:            0,
		PollInterval:   10 * time.Second,
		BlockBatchSize: 10,
		RampUpBlocks:   0,
		Retry:          RetryPolicy{Mode: RetryModeRetry},
	}
}

// Validate checks the configuration invariants.
func (c StreamConfig) Validate() error {
	if c.Lag < 0 {
		return fmt.Errorf("%w: lag must be >= 0, got %d", ErrInvalidConfig, c.Lag)
	}
	if c.BlockBatchSize < 1 {
		return fmt.Errorf("%w: block batch size must be >= 1, got %d", ErrInvalidConfig, c.BlockBatchSize)
	}
	if c.RampUpBlocks < 0 {
		return fmt.Errorf("%w: ramp-up blocks must be >= 0, got %d", ErrInvalidConfig, c.RampUpBlocks)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive, got %s", ErrInvalidConfig, c.PollInterval)
	}
	if c.StartBlock != nil && *c.StartBlock < 0 {
		return fmt.Errorf("%w: start block must be >= 0, got %d", ErrInvalidConfig, *c.StartBlock)
	}
	if c.StartBlock != nil && c.EndBlock != nil && *c.EndBlock < *c.StartBlock {
		return fmt.Errorf("%w: end block %d precedes start block %d", ErrInvalidConfig, *c.EndBlock, *c.StartBlock)
	}
	switch c.Retry.Mode {
	case RetryModePropagate, RetryModeRetry:
	default:
		return fmt.Errorf("%w: unknown retry mode %q", ErrInvalidConfig, c.Retry.Mode)
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("%w: retry max attempts must be >= 0, got %d", ErrInvalidConfig, c.Retry.MaxAttempts)
	}
	return nil
}
