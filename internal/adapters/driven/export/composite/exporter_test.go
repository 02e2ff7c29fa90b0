package composite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockpipe/blockpipe/internal/core/domain"
)

type recordingExporter struct {
	opened    bool
	closed    bool
	batches   [][]domain.Item
	exportErr error
	closeErr  error
}

func (r *recordingExporter) Open() error { r.opened = true; return nil }

func (r *recordingExporter) ExportItems(_ context.Context, items []domain.Item) error {
	if r.exportErr != nil {
		return r.exportErr
	}
	r.batches = append(r.batches, items)
	return nil
}

func (r *recordingExporter) Close() error { r.closed = true; return r.closeErr }

func TestExporter_FansOutInOrder(t *testing.T) {
	first := &recordingExporter{}
	second := &recordingExporter{}
	exporter := NewExporter(first, second)

	require.NoError(t, exporter.Open())
	assert.True(t, first.opened)
	assert.True(t, second.opened)

	items := []domain.Item{{Type: domain.ItemTypeBlock, BlockNumber: 1}}
	require.NoError(t, exporter.ExportItems(context.Background(), items))
	require.Len(t, first.batches, 1)
	require.Len(t, second.batches, 1)

	require.NoError(t, exporter.Close())
	assert.True(t, first.closed)
	assert.True(t, second.closed)
}

func TestExporter_ExportStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	first := &recordingExporter{exportErr: boom}
	second := &recordingExporter{}
	exporter := NewExporter(first, second)

	err := exporter.ExportItems(context.Background(), []domain.Item{{Type: domain.ItemTypeBlock}})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, second.batches)
}

func TestExporter_CloseClosesAllDespiteErrors(t *testing.T) {
	closeErr := errors.New("flush failed")
	first := &recordingExporter{closeErr: closeErr}
	second := &recordingExporter{}
	exporter := NewExporter(first, second)

	err := exporter.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, closeErr)
	assert.True(t, second.closed)
}
