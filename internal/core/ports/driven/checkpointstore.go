package driven

// CheckpointStore persists the last fully synced block number. The stored
// value is owned by the streamer: it is written only after a successful
// export and is monotonically non-decreasing for the lifetime of a
// checkpoint.
//
// A store instance is bound to one checkpoint location at construction.
// Exactly one writer per location is assumed; no locking is provided.
type CheckpointStore interface {
	// Initialize writes a fresh checkpoint. It fails with
	// domain.ErrCheckpointConflict if a checkpoint already exists,
	// leaving the existing record untouched.
	Initialize(value int64) error

	// Exists reports whether a checkpoint record is present.
	Exists() (bool, error)

	// Read returns the stored value. A missing or unparseable record
	// yields an error wrapping domain.ErrCheckpointUnreadable.
	Read() (int64, error)

	// Write overwrites the record in full with value.
	Write(value int64) error
}
