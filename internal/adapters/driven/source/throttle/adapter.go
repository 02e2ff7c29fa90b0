// Package throttle rate-limits calls to a source adapter so a catching-up
// stream does not hammer the upstream node. Head queries and range exports
// share one token bucket.
package throttle

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/blockpipe/blockpipe/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Adapter decorates a SourceAdapter with a token-bucket limiter.
type Adapter struct {
	inner   driven.SourceAdapter
	limiter *rate.Limiter
}

// NewAdapter wraps inner, allowing requestsPerSecond sustained calls with
// the given burst.
func NewAdapter(inner driven.SourceAdapter, requestsPerSecond float64, burst int) *Adapter {
	return &Adapter{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Open passes through; lifecycle calls are not rate-limited.
func (a *Adapter) Open(ctx context.Context) error {
	return a.inner.Open(ctx)
}

// Close passes through.
func (a *Adapter) Close() error {
	return a.inner.Close()
}

// CurrentBlock waits for a token, then queries the inner adapter.
func (a *Adapter) CurrentBlock(ctx context.Context) (int64, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	return a.inner.CurrentBlock(ctx)
}

// ExportRange waits for a token, then delegates.
func (a *Adapter) ExportRange(ctx context.Context, startBlock, endBlock int64) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}
	return a.inner.ExportRange(ctx, startBlock, endBlock)
}
