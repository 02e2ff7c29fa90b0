// Package domain defines the core business entities for blockpipe.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - StreamConfig: Immutable synchronisation parameters
//   - RetryPolicy: How cycle failures are handled
//   - Item: One extracted record forwarded to an exporter
//   - TargetBlock/BlocksToSync: Pure target-range arithmetic
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
