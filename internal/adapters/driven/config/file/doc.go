// Package file loads blockpipe configuration from a TOML file and maps it
// onto the domain StreamConfig plus the adapter wiring settings (checkpoint
// backend, exporter, source tuning).
package file
