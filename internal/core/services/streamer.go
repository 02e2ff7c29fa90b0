package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blockpipe/blockpipe/internal/core/domain"
	"github.com/blockpipe/blockpipe/internal/core/ports/driven"
	"github.com/blockpipe/blockpipe/internal/core/ports/driving"
)

// Ensure Streamer implements the interface.
var _ driving.Streamer = (*Streamer)(nil)

// Streamer runs the checkpointed synchronisation loop: query the source
// head, compute the next target range, export it, persist the checkpoint,
// sleep when idle. One Streamer drives one source adapter against one
// checkpoint; cycles execute strictly sequentially.
type Streamer struct {
	cfg     domain.StreamConfig
	adapter driven.SourceAdapter
	store   driven.CheckpointStore
	log     *slog.Logger
	runID   string

	// Run state, guarded for concurrent Status calls.
	mu              sync.RWMutex
	running         bool
	lastSyncedBlock int64
	processedBlocks int64
}

// NewStreamer creates a streamer and resolves the starting checkpoint.
//
// An explicit StartBlock seeds a fresh checkpoint at StartBlock-1 and fails
// with domain.ErrCheckpointConflict if one already exists. Without a
// StartBlock, a missing checkpoint is seeded at -1 and an existing one is
// resumed from.
func NewStreamer(
	cfg domain.StreamConfig,
	adapter driven.SourceAdapter,
	store driven.CheckpointStore,
	log *slog.Logger,
) (*Streamer, error) {
	if adapter == nil {
		return nil, fmt.Errorf("%w: source adapter is required", domain.ErrInvalidConfig)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: checkpoint store is required", domain.ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.StartBlock != nil {
		if err := store.Initialize(*cfg.StartBlock - 1); err != nil {
			return nil, fmt.Errorf("initialize checkpoint: %w", err)
		}
	} else {
		exists, err := store.Exists()
		if err != nil {
			return nil, fmt.Errorf("check checkpoint: %w", err)
		}
		if !exists {
			if err := store.Initialize(-1); err != nil {
				return nil, fmt.Errorf("initialize checkpoint: %w", err)
			}
		}
	}

	last, err := store.Read()
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	return &Streamer{
		cfg:             cfg,
		adapter:         adapter,
		store:           store,
		log:             log,
		runID:           uuid.NewString(),
		lastSyncedBlock: last,
	}, nil
}

// Stream runs the loop until the end bound is reached, an unrecoverable
// error occurs, or ctx is cancelled. The adapter is closed and the pid file
// removed on every exit path.
func (s *Streamer) Stream(ctx context.Context) (err error) {
	log := s.log.With("run_id", s.runID)

	if s.cfg.PIDFile != "" {
		log.Info("writing pid file", "path", s.cfg.PIDFile)
		if werr := os.WriteFile(s.cfg.PIDFile, []byte(strconv.Itoa(os.Getpid())), 0o644); werr != nil {
			return fmt.Errorf("write pid file: %w", werr)
		}
	}

	defer func() {
		s.setRunning(false)
		if cerr := s.adapter.Close(); cerr != nil {
			log.Warn("closing source adapter", "err", cerr)
			if err == nil {
				err = fmt.Errorf("close source adapter: %w", cerr)
			}
		}
		if s.cfg.PIDFile != "" {
			log.Info("removing pid file", "path", s.cfg.PIDFile)
			if rerr := os.Remove(s.cfg.PIDFile); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
				log.Warn("removing pid file", "err", rerr)
			}
		}
	}()

	if oerr := s.adapter.Open(ctx); oerr != nil {
		return fmt.Errorf("open source adapter: %w", oerr)
	}
	s.setRunning(true)

	log.Info("stream started",
		"last_synced_block", s.LastSyncedBlock(),
		"lag", s.cfg.Lag,
		"block_batch_size", s.cfg.BlockBatchSize,
		"ramp_up_blocks", s.cfg.RampUpBlocks,
	)

	return s.runLoop(ctx, log)
}

// runLoop repeats sync cycles until the end block (when set) is reached.
// A failed cycle counts as zero progress under RetryModeRetry; zero-progress
// cycles sleep PollInterval, which doubles as the retry backoff.
func (s *Streamer) runLoop(ctx context.Context, log *slog.Logger) error {
	failures := 0

	for s.cfg.EndBlock == nil || s.LastSyncedBlock() < *s.cfg.EndBlock {
		synced, err := s.syncCycle(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			syncCyclesTotal.WithLabelValues(cycleStatusError).Inc()
			log.Error("sync cycle failed", "err", err)

			if s.cfg.Retry.Mode == domain.RetryModePropagate {
				return err
			}
			failures++
			if limit := s.cfg.Retry.MaxAttempts; limit > 0 && failures >= limit {
				return fmt.Errorf("giving up after %d consecutive failed cycles: %w", failures, err)
			}
			synced = 0
		} else {
			failures = 0
		}

		if synced <= 0 {
			log.Debug("nothing to sync", "sleep", s.cfg.PollInterval)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.cfg.PollInterval):
			}
		}
	}

	log.Info("end block reached", "end_block", *s.cfg.EndBlock)
	return nil
}

// syncCycle performs one query-head / compute-target / export / checkpoint
// iteration and returns the number of blocks synced (possibly zero).
//
// The checkpoint write happens strictly after a successful export, so a
// failed cycle leaves all state exactly as before it.
func (s *Streamer) syncCycle(ctx context.Context) (int64, error) {
	start := time.Now()

	currentBlock, err := s.adapter.CurrentBlock(ctx)
	if err != nil {
		return 0, fmt.Errorf("get current block: %w", err)
	}

	lastSynced := s.LastSyncedBlock()

	batchSize := s.cfg.BlockBatchSize
	if s.cfg.RampUpBlocks > 0 && s.ProcessedBlocks() <= s.cfg.RampUpBlocks {
		batchSize = 1
	}

	target := domain.TargetBlock(currentBlock, lastSynced, s.cfg.Lag, batchSize, s.cfg.EndBlock)
	blocksToSync := domain.BlocksToSync(target, lastSynced)

	s.log.Debug("cycle computed",
		"run_id", s.runID,
		"current_block", currentBlock,
		"target_block", target,
		"last_synced_block", lastSynced,
		"blocks_to_sync", blocksToSync,
	)

	if blocksToSync == 0 {
		syncCyclesTotal.WithLabelValues(cycleStatusEmpty).Inc()
		return 0, nil
	}

	if err := s.adapter.ExportRange(ctx, lastSynced+1, target); err != nil {
		return 0, fmt.Errorf("export range [%d, %d]: %w", lastSynced+1, target, err)
	}

	s.log.Info("writing last synced block", "run_id", s.runID, "block", target)
	if err := s.store.Write(target); err != nil {
		return 0, fmt.Errorf("write checkpoint: %w", err)
	}

	s.advance(target, blocksToSync)

	blocksSyncedTotal.Add(float64(blocksToSync))
	lastSyncedBlockGauge.Set(float64(target))
	syncCyclesTotal.WithLabelValues(cycleStatusOK).Inc()
	syncCycleDuration.Observe(time.Since(start).Seconds())

	return blocksToSync, nil
}

// Status returns a snapshot of the run.
func (s *Streamer) Status() driving.StreamStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return driving.StreamStatus{
		RunID:           s.runID,
		Running:         s.running,
		LastSyncedBlock: s.lastSyncedBlock,
		ProcessedBlocks: s.processedBlocks,
	}
}

// LastSyncedBlock returns the in-memory mirror of the checkpoint.
func (s *Streamer) LastSyncedBlock() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSyncedBlock
}

// ProcessedBlocks returns the cumulative count of blocks synced by this
// process.
func (s *Streamer) ProcessedBlocks() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processedBlocks
}

func (s *Streamer) advance(target, blocksToSync int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSyncedBlock = target
	s.processedBlocks += blocksToSync
}

func (s *Streamer) setRunning(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = v
}
