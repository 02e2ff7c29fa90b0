// Package console writes items as JSON lines to an io.Writer, one object
// per record. Useful for piping into other tools and for smoke tests.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/blockpipe/blockpipe/internal/core/domain"
	"github.com/blockpipe/blockpipe/internal/core/ports/driven"
)

// Ensure Exporter implements the interface.
var _ driven.ItemExporter = (*Exporter)(nil)

// Exporter writes one JSON line per item.
type Exporter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewExporter creates a console exporter writing to out. A nil out defaults
// to stdout.
func NewExporter(out io.Writer) *Exporter {
	if out == nil {
		out = os.Stdout
	}
	return &Exporter{out: out}
}

// Open is a no-op.
func (e *Exporter) Open() error { return nil }

// ExportItems writes each item as a single JSON line.
func (e *Exporter) ExportItems(ctx context.Context, items []domain.Item) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	enc := json.NewEncoder(e.out)
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		record := map[string]any{
			"type":         item.Type,
			"block_number": item.BlockNumber,
		}
		for k, v := range item.Payload {
			record[k] = v
		}
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("encode item: %w", err)
		}
	}
	return nil
}

// Close is a no-op.
func (e *Exporter) Close() error { return nil }
