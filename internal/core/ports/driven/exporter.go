package driven

import (
	"context"

	"github.com/blockpipe/blockpipe/internal/core/domain"
)

// ItemExporter persists extracted records in a destination (object storage,
// a database, a console). Source adapters forward the items they extract to
// an exporter; the streamer core never touches one directly.
type ItemExporter interface {
	// Open prepares the destination for writing.
	Open() error

	// ExportItems writes a batch of records. An error means the batch may
	// be partially written; callers re-export the same range on retry, so
	// implementations should be idempotent where the destination allows.
	ExportItems(ctx context.Context, items []domain.Item) error

	// Close flushes and releases the destination.
	Close() error
}
