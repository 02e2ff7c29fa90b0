// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SourceAdapter: Queries the chain head and extracts block ranges
//   - CheckpointStore: Persists the last fully synced block number
//
// # Supporting Interfaces
//
//   - ItemExporter: Destination for extracted records. Consumed by source
//     adapters, not by the streamer itself; the streamer only sees
//     SourceAdapter.ExportRange.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
