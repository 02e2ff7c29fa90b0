// Package composite fans items out to several exporters in order, so one
// stream can feed, say, object storage and a database at once.
package composite

import (
	"context"
	"errors"
	"fmt"

	"github.com/blockpipe/blockpipe/internal/core/domain"
	"github.com/blockpipe/blockpipe/internal/core/ports/driven"
)

// Ensure Exporter implements the interface.
var _ driven.ItemExporter = (*Exporter)(nil)

// Exporter delegates to a fixed list of exporters.
type Exporter struct {
	exporters []driven.ItemExporter
}

// NewExporter creates a composite over the given exporters.
func NewExporter(exporters ...driven.ItemExporter) *Exporter {
	return &Exporter{exporters: exporters}
}

// Open opens every delegate, stopping at the first failure.
func (e *Exporter) Open() error {
	for i, exp := range e.exporters {
		if err := exp.Open(); err != nil {
			return fmt.Errorf("open exporter %d: %w", i, err)
		}
	}
	return nil
}

// ExportItems forwards the batch to every delegate in order, stopping at
// the first failure.
func (e *Exporter) ExportItems(ctx context.Context, items []domain.Item) error {
	for i, exp := range e.exporters {
		if err := exp.ExportItems(ctx, items); err != nil {
			return fmt.Errorf("exporter %d: %w", i, err)
		}
	}
	return nil
}

// Close closes every delegate and joins their errors, so one failing close
// does not leak the rest.
func (e *Exporter) Close() error {
	var errs []error
	for i, exp := range e.exporters {
		if err := exp.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close exporter %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
