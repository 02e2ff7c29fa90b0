package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockpipe/blockpipe/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blockpipe.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_MapsToValidStreamConfig(t *testing.T) {
	cfg := Default()

	stream, err := cfg.StreamConfig()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, stream.PollInterval)
	assert.Equal(t, int64(10), stream.BlockBatchSize)
	assert.Equal(t, domain.RetryModeRetry, stream.Retry.Mode)
	assert.Equal(t, CheckpointBackendFile, cfg.Checkpoint.Backend)
	assert.Equal(t, ExporterConsole, cfg.Exporter.Kind)
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
lag = 5
start_block = 1000
end_block = 2000
period_seconds = 30
block_batch_size = 50
ramp_up_blocks = 10
pid_file = "/tmp/blockpipe.pid"
metrics_addr = ":9090"

[checkpoint]
backend = "sqlite"
path = "/var/lib/blockpipe/checkpoints.db"
name = "mainnet"

[retry]
mode = "retry"
max_attempts = 5

[exporter]
kind = "gcs"
bucket = "etl-bucket"
prefix = "mainnet/blocks"

[source]
requests_per_second = 4.0
burst = 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, CheckpointBackendSQLite, cfg.Checkpoint.Backend)
	assert.Equal(t, "mainnet", cfg.Checkpoint.Name)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, ExporterGCS, cfg.Exporter.Kind)
	assert.Equal(t, "etl-bucket", cfg.Exporter.Bucket)
	assert.Equal(t, 4.0, cfg.Source.RequestsPerSecond)

	stream, err := cfg.StreamConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(5), stream.Lag)
	require.NotNil(t, stream.StartBlock)
	assert.Equal(t, int64(1000), *stream.StartBlock)
	require.NotNil(t, stream.EndBlock)
	assert.Equal(t, int64(2000), *stream.EndBlock)
	assert.Equal(t, 30*time.Second, stream.PollInterval)
	assert.Equal(t, int64(50), stream.BlockBatchSize)
	assert.Equal(t, int64(10), stream.RampUpBlocks)
	assert.Equal(t, "/tmp/blockpipe.pid", stream.PIDFile)
	assert.Equal(t, domain.RetryPolicy{Mode: domain.RetryModeRetry, MaxAttempts: 5}, stream.Retry)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := writeConfig(t, "lag = [not toml")
	_, err := Load(path)
	require.Error(t, err)
}

func TestRetryErrorsShorthand(t *testing.T) {
	path := writeConfig(t, "retry_errors = false\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	stream, err := cfg.StreamConfig()
	require.NoError(t, err)
	assert.Equal(t, domain.RetryModePropagate, stream.Retry.Mode)
}

func TestRetryTableOverridesShorthand(t *testing.T) {
	path := writeConfig(t, `
retry_errors = false

[retry]
mode = "retry"
max_attempts = 3
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	stream, err := cfg.StreamConfig()
	require.NoError(t, err)
	assert.Equal(t, domain.RetryModeRetry, stream.Retry.Mode)
	assert.Equal(t, 3, stream.Retry.MaxAttempts)
}

func TestStreamConfig_ValidationErrorsSurface(t *testing.T) {
	path := writeConfig(t, "block_batch_size = 0\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	_, err = cfg.StreamConfig()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestStreamConfig_InvalidRetryMode(t *testing.T) {
	path := writeConfig(t, "[retry]\nmode = \"sometimes\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	_, err = cfg.StreamConfig()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}
