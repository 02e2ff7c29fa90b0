package throttle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingAdapter struct {
	headCalls   int
	exportCalls int
	opened      bool
	closed      bool
}

func (c *countingAdapter) Open(_ context.Context) error { c.opened = true; return nil }
func (c *countingAdapter) Close() error                 { c.closed = true; return nil }

func (c *countingAdapter) CurrentBlock(_ context.Context) (int64, error) {
	c.headCalls++
	return 42, nil
}

func (c *countingAdapter) ExportRange(_ context.Context, _, _ int64) error {
	c.exportCalls++
	return nil
}

func TestAdapter_PassesThrough(t *testing.T) {
	inner := &countingAdapter{}
	adapter := NewAdapter(inner, 1000, 10)
	ctx := context.Background()

	require.NoError(t, adapter.Open(ctx))
	assert.True(t, inner.opened)

	head, err := adapter.CurrentBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), head)
	assert.Equal(t, 1, inner.headCalls)

	require.NoError(t, adapter.ExportRange(ctx, 1, 5))
	assert.Equal(t, 1, inner.exportCalls)

	require.NoError(t, adapter.Close())
	assert.True(t, inner.closed)
}

func TestAdapter_CancelledContextShortCircuits(t *testing.T) {
	inner := &countingAdapter{}
	// Zero rate: Wait can never be satisfied, so cancellation is the only
	// way out.
	adapter := NewAdapter(inner, 0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := adapter.CurrentBlock(ctx)
	require.Error(t, err)
	assert.Zero(t, inner.headCalls)

	err = adapter.ExportRange(ctx, 1, 2)
	require.Error(t, err)
	assert.Zero(t, inner.exportCalls)
}
