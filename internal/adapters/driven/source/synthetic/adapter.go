// Package synthetic generates deterministic fake chain data with no
// external RPC calls. It backs the demo wiring and exercises the full
// stream path (head queries, range extraction, exporter forwarding) in
// tests and staging.
package synthetic

import (
	"context"
	"fmt"
	"sync"

	"github.com/blockpipe/blockpipe/internal/core/domain"
	"github.com/blockpipe/blockpipe/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.SourceAdapter = (*Adapter)(nil)

// Adapter fabricates blocks and transactions. The head grows by Growth
// after every CurrentBlock call, simulating a live chain.
type Adapter struct {
	exporter driven.ItemExporter

	mu     sync.Mutex
	head   int64
	growth int64
	txs    int64
	opened bool
	closed bool
}

// Options tune the synthetic chain.
type Options struct {
	// Head is the initial head block number.
	Head int64

	// Growth is how many blocks the head advances per head query.
	Growth int64

	// TransactionsPerBlock controls how many transaction items accompany
	// each block item.
	TransactionsPerBlock int64
}

// NewAdapter creates a synthetic source forwarding extracted items to
// exporter.
func NewAdapter(exporter driven.ItemExporter, opts Options) *Adapter {
	return &Adapter{
		exporter: exporter,
		head:     opts.Head,
		growth:   opts.Growth,
		txs:      opts.TransactionsPerBlock,
	}
}

// Open opens the downstream exporter.
func (a *Adapter) Open(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return domain.ErrAdapterClosed
	}
	if err := a.exporter.Open(); err != nil {
		return fmt.Errorf("open exporter: %w", err)
	}
	a.opened = true
	return nil
}

// Close closes the downstream exporter. Safe to call after a failed Open.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	return a.exporter.Close()
}

// CurrentBlock returns the synthetic head, then advances it.
func (a *Adapter) CurrentBlock(_ context.Context) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return 0, domain.ErrAdapterClosed
	}
	head := a.head
	a.head += a.growth
	return head, nil
}

// ExportRange fabricates items for blocks startBlock..endBlock inclusive
// and forwards them to the exporter.
func (a *Adapter) ExportRange(ctx context.Context, startBlock, endBlock int64) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return domain.ErrAdapterClosed
	}
	txs := a.txs
	a.mu.Unlock()

	items := make([]domain.Item, 0, (endBlock-startBlock+1)*(txs+1))
	for number := startBlock; number <= endBlock; number++ {
		items = append(items, domain.Item{
			Type:        domain.ItemTypeBlock,
			BlockNumber: number,
			Payload: map[string]any{
				"number": number,
				"hash":   blockHash(number),
			},
		})
		for i := int64(0); i < txs; i++ {
			items = append(items, domain.Item{
				Type:        domain.ItemTypeTransaction,
				BlockNumber: number,
				Payload: map[string]any{
					"block_number": number,
					"index":        i,
					"hash":         txHash(number, i),
				},
			})
		}
	}
	if err := a.exporter.ExportItems(ctx, items); err != nil {
		return fmt.Errorf("export items: %w", err)
	}
	return nil
}

func blockHash(number int64) string {
	return fmt.Sprintf("0x%064x", number)
}

func txHash(number, index int64) string {
	return fmt.Sprintf("0x%056x%08x", number, index)
}
