package driving

import "context"

// StreamStatus is a point-in-time snapshot of a stream run.
type StreamStatus struct {
	// RunID identifies this stream run in logs and status output.
	RunID string

	// Running is true between adapter open and release.
	Running bool

	// LastSyncedBlock mirrors the persisted checkpoint.
	LastSyncedBlock int64

	// ProcessedBlocks counts blocks synced by this process. It only ever
	// grows; it drives the ramp-up phase transition.
	ProcessedBlocks int64
}

// Streamer runs the synchronisation loop.
type Streamer interface {
	// Stream blocks until the end bound is reached, an unrecoverable
	// error occurs, or ctx is cancelled. The source adapter is released
	// on every exit path.
	Stream(ctx context.Context) error

	// Status returns a snapshot of the run. Safe to call concurrently
	// with Stream.
	Status() StreamStatus
}
