// Package sqlite provides a SQLite-backed implementation of the checkpoint
// store for deployments that prefer a database over a loose text file.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. One database can hold
// several named checkpoints.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
