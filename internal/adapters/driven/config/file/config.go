package file

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/blockpipe/blockpipe/internal/core/domain"
)

// Checkpoint backends.
const (
	CheckpointBackendFile   = "file"
	CheckpointBackendSQLite = "sqlite"
)

// Exporter kinds.
const (
	ExporterConsole  = "console"
	ExporterGCS      = "gcs"
	ExporterPostgres = "postgres"
)

// CheckpointConfig selects where the checkpoint lives.
type CheckpointConfig struct {
	// Backend is "file" or "sqlite". Defaults to "file".
	Backend string `toml:"backend"`

	// Path is the checkpoint file, or the sqlite database file.
	Path string `toml:"path"`

	// Name is the checkpoint row name for the sqlite backend.
	Name string `toml:"name"`
}

// RetryConfig is the TOML shape of domain.RetryPolicy.
type RetryConfig struct {
	Mode        string `toml:"mode"`
	MaxAttempts int    `toml:"max_attempts"`
}

// ExporterConfig selects and tunes the destination.
type ExporterConfig struct {
	// Kind is "console", "gcs" or "postgres". Defaults to "console".
	Kind string `toml:"kind"`

	// Bucket and Prefix configure the gcs exporter.
	Bucket string `toml:"bucket"`
	Prefix string `toml:"prefix"`

	// ConnString and ChainID configure the postgres exporter.
	ConnString string `toml:"conn_string"`
	ChainID    string `toml:"chain_id"`
}

// SourceConfig tunes the source adapter side.
type SourceConfig struct {
	// RequestsPerSecond enables the rate-limiting decorator when > 0.
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`

	// Synthetic source tuning (the built-in demo source).
	SyntheticHead        int64 `toml:"synthetic_head"`
	SyntheticGrowth      int64 `toml:"synthetic_growth"`
	TransactionsPerBlock int64 `toml:"transactions_per_block"`
}

// Config is the full TOML configuration surface.
type Config struct {
	Checkpoint CheckpointConfig `toml:"checkpoint"`

	Lag            int64  `toml:"lag"`
	StartBlock     *int64 `toml:"start_block"`
	EndBlock       *int64 `toml:"end_block"`
	PeriodSeconds  int    `toml:"period_seconds"`
	BlockBatchSize int64  `toml:"block_batch_size"`
	RampUpBlocks   int64  `toml:"ramp_up_blocks"`

	// RetryErrors is the historical boolean shorthand: true maps to retry
	// mode "retry", false to "propagate". The retry table wins when both
	// are set.
	RetryErrors *bool       `toml:"retry_errors"`
	Retry       RetryConfig `toml:"retry"`

	PIDFile     string `toml:"pid_file"`
	MetricsAddr string `toml:"metrics_addr"`

	Exporter ExporterConfig `toml:"exporter"`
	Source   SourceConfig   `toml:"source"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	stream := domain.DefaultStreamConfig()
	return Config{
		Checkpoint: CheckpointConfig{
			Backend: CheckpointBackendFile,
			Path:    "last_synced_block.txt",
			Name:    "default",
		},
		Lag:            stream.Lag,
		PeriodSeconds:  int(stream.PollInterval / time.Second),
		BlockBatchSize: stream.BlockBatchSize,
		RampUpBlocks:   stream.RampUpBlocks,
		Exporter:       ExporterConfig{Kind: ExporterConsole},
		Source:         SourceConfig{SyntheticGrowth: 1, TransactionsPerBlock: 2},
	}
}

// Load reads path and unmarshals it over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &cfg, nil
}

// StreamConfig maps the file onto the domain configuration and validates it.
func (c *Config) StreamConfig() (domain.StreamConfig, error) {
	stream := domain.DefaultStreamConfig()
	stream.Lag = c.Lag
	stream.StartBlock = c.StartBlock
	stream.EndBlock = c.EndBlock
	stream.BlockBatchSize = c.BlockBatchSize
	stream.RampUpBlocks = c.RampUpBlocks
	stream.PIDFile = c.PIDFile
	if c.PeriodSeconds > 0 {
		stream.PollInterval = time.Duration(c.PeriodSeconds) * time.Second
	}
	stream.Retry = c.retryPolicy()

	if err := stream.Validate(); err != nil {
		return domain.StreamConfig{}, err
	}
	return stream, nil
}

func (c *Config) retryPolicy() domain.RetryPolicy {
	policy := domain.DefaultStreamConfig().Retry
	if c.RetryErrors != nil {
		if *c.RetryErrors {
			policy.Mode = domain.RetryModeRetry
		} else {
			policy.Mode = domain.RetryModePropagate
		}
	}
	if c.Retry.Mode != "" {
		policy.Mode = domain.RetryMode(c.Retry.Mode)
	}
	if c.Retry.MaxAttempts != 0 {
		policy.MaxAttempts = c.Retry.MaxAttempts
	}
	return policy
}
