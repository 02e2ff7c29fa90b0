// Package file persists the checkpoint as a plain text file holding one
// integer and a trailing newline, the format the wider blockchain ETL
// tooling reads and writes.
//
// Writes replace the file content in full. No partial-write atomicity is
// guaranteed; run exactly one streamer per checkpoint file.
package file
