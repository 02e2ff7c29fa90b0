// Package postgres persists extracted records in a Postgres table keyed by
// a deterministic idempotency key, so re-exported ranges deduplicate
// instead of duplicating rows.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blockpipe/blockpipe/internal/core/domain"
	"github.com/blockpipe/blockpipe/internal/core/ports/driven"
)

// Ensure Exporter implements the interface.
var _ driven.ItemExporter = (*Exporter)(nil)

// Exporter writes items to the block_items table.
// Uses ON CONFLICT (idempotency_key) DO NOTHING for deduplication.
type Exporter struct {
	pool    *pgxpool.Pool
	chainID string
}

// NewExporter connects to Postgres and ensures the target table exists.
func NewExporter(ctx context.Context, connString, chainID string) (*Exporter, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS block_items (
			idempotency_key UUID PRIMARY KEY,
			chain_id        TEXT NOT NULL,
			item_type       TEXT NOT NULL,
			block_number    BIGINT NOT NULL,
			payload         JSONB,
			created_at      TIMESTAMPTZ DEFAULT NOW()
		)
	`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &Exporter{pool: pool, chainID: chainID}, nil
}

// Open verifies the connection.
func (e *Exporter) Open() error {
	return e.pool.Ping(context.Background())
}

// ExportItems inserts the batch, skipping rows whose idempotency key is
// already present.
func (e *Exporter) ExportItems(ctx context.Context, items []domain.Item) error {
	for _, item := range items {
		payload, err := json.Marshal(item.Payload)
		if err != nil {
			return fmt.Errorf("marshal payload for block %d: %w", item.BlockNumber, err)
		}
		_, err = e.pool.Exec(ctx, `
			INSERT INTO block_items (idempotency_key, chain_id, item_type, block_number, payload)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (idempotency_key) DO NOTHING
		`, idempotencyKey(e.chainID, item), e.chainID, item.Type, item.BlockNumber, json.RawMessage(payload))
		if err != nil {
			return fmt.Errorf("insert item for block %d: %w", item.BlockNumber, err)
		}
	}
	return nil
}

// Close releases the pool.
func (e *Exporter) Close() error {
	e.pool.Close()
	return nil
}

// idempotencyKey derives a stable UUID from everything that identifies a
// record, so re-exporting a range maps onto the same keys.
func idempotencyKey(chainID string, item domain.Item) uuid.UUID {
	payload, _ := json.Marshal(item.Payload)
	seed := fmt.Sprintf("%s|%s|%d|%s", chainID, item.Type, item.BlockNumber, payload)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed))
}
