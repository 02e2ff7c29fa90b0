package domain

// Item types recognised by the block-bundle exporters. Exporters that do
// not bundle treat the type as an opaque label.
const (
	ItemTypeBlock         = "block"
	ItemTypeTransaction   = "transaction"
	ItemTypeLog           = "log"
	ItemTypeTokenTransfer = "token_transfer"
	ItemTypeTrace         = "trace"
)

// Item is one extracted record produced by a source adapter and forwarded
// to an item exporter.
type Item struct {
	// Type classifies the record (block, transaction, log, ...).
	Type string

	// BlockNumber is the block this record belongs to.
	BlockNumber int64

	// Payload carries the record fields.
	Payload map[string]any
}
