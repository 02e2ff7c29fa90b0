// Package gcs uploads extracted records to Google Cloud Storage, one JSON
// object per block. Items are grouped into per-block bundles holding the
// block record plus its transactions, logs, token transfers and traces.
package gcs

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"cloud.google.com/go/storage"

	"github.com/blockpipe/blockpipe/internal/core/domain"
	"github.com/blockpipe/blockpipe/internal/core/ports/driven"
)

// Ensure Exporter implements the interface.
var _ driven.ItemExporter = (*Exporter)(nil)

// Bucket is the slice of object storage the exporter needs. The production
// implementation wraps a *storage.BucketHandle; tests substitute a fake.
type Bucket interface {
	Upload(ctx context.Context, objectName string, data []byte) error
}

// blockBundle is the JSON document uploaded per block.
type blockBundle struct {
	Block          map[string]any   `json:"block"`
	Transactions   []map[string]any `json:"transactions"`
	Logs           []map[string]any `json:"logs"`
	TokenTransfers []map[string]any `json:"token_transfers"`
	Traces         []map[string]any `json:"traces"`
}

// Exporter groups items into per-block bundles and uploads
// <prefix>/<block-number>.json objects.
type Exporter struct {
	bucket Bucket
	prefix string
}

// NewExporter creates an exporter over an already-constructed bucket.
func NewExporter(bucket Bucket, prefix string) *Exporter {
	return &Exporter{bucket: bucket, prefix: prefix}
}

// NewExporterForBucket dials GCS and binds the exporter to bucketName.
func NewExporterForBucket(ctx context.Context, bucketName, prefix string) (*Exporter, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return NewExporter(&gcsBucket{bucket: client.Bucket(bucketName)}, prefix), nil
}

// Open is a no-op; the client is dialled at construction.
func (e *Exporter) Open() error { return nil }

// ExportItems bundles the batch by block and uploads one object per block.
// Every block number appearing in the batch must come with its block item;
// re-uploading a bundle overwrites the previous object, so retried ranges
// are idempotent.
func (e *Exporter) ExportItems(ctx context.Context, items []domain.Item) error {
	bundles := make(map[int64]*blockBundle)
	for _, item := range items {
		bundle, ok := bundles[item.BlockNumber]
		if !ok {
			bundle = &blockBundle{
				Transactions:   []map[string]any{},
				Logs:           []map[string]any{},
				TokenTransfers: []map[string]any{},
				Traces:         []map[string]any{},
			}
			bundles[item.BlockNumber] = bundle
		}

		switch item.Type {
		case domain.ItemTypeBlock:
			bundle.Block = item.Payload
		case domain.ItemTypeTransaction:
			bundle.Transactions = append(bundle.Transactions, item.Payload)
		case domain.ItemTypeLog:
			bundle.Logs = append(bundle.Logs, item.Payload)
		case domain.ItemTypeTokenTransfer:
			bundle.TokenTransfers = append(bundle.TokenTransfers, item.Payload)
		case domain.ItemTypeTrace:
			bundle.Traces = append(bundle.Traces, item.Payload)
		default:
			return fmt.Errorf("unknown item type %q for block %d", item.Type, item.BlockNumber)
		}
	}

	numbers := make([]int64, 0, len(bundles))
	for number := range bundles {
		numbers = append(numbers, number)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })

	for _, number := range numbers {
		bundle := bundles[number]
		if bundle.Block == nil {
			return fmt.Errorf("bundle for block %d has no block item", number)
		}
		data, err := json.Marshal(bundle)
		if err != nil {
			return fmt.Errorf("marshal bundle for block %d: %w", number, err)
		}
		objectName := fmt.Sprintf("%d.json", number)
		if e.prefix != "" {
			objectName = fmt.Sprintf("%s/%d.json", e.prefix, number)
		}
		if err := e.bucket.Upload(ctx, objectName, data); err != nil {
			return fmt.Errorf("upload %s: %w", objectName, err)
		}
	}
	return nil
}

// Close is a no-op.
func (e *Exporter) Close() error { return nil }

// gcsBucket adapts *storage.BucketHandle to the Bucket interface.
type gcsBucket struct {
	bucket *storage.BucketHandle
}

func (b *gcsBucket) Upload(ctx context.Context, objectName string, data []byte) error {
	w := b.bucket.Object(objectName).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
