package driven

import "context"

// SourceAdapter is the streamer's view of a chain data source. It owns any
// connection or session lifecycle behind Open/Close and performs the actual
// extraction, forwarding records to its configured destination.
//
// The streamer holds exclusive ownership of the adapter for the duration of
// one stream run and calls Close on every exit path, even after a failed
// Open.
type SourceAdapter interface {
	// Open acquires connections or sessions. A failure is fatal to the
	// stream run.
	Open(ctx context.Context) error

	// Close releases resources. Called unconditionally on stream exit.
	Close() error

	// CurrentBlock returns the latest known block number of the source.
	CurrentBlock(ctx context.Context) (int64, error)

	// ExportRange extracts blocks startBlock through endBlock inclusive
	// and forwards the records downstream. The checkpoint only advances
	// after ExportRange returns nil, so a failed call must leave the
	// destination safe to re-export the same range.
	ExportRange(ctx context.Context, startBlock, endBlock int64) error
}
