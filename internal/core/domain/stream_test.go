package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStreamConfig(t *testing.T) {
	cfg := DefaultStreamConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, int64(0), cfg.Lag)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, int64(10), cfg.BlockBatchSize)
	assert.Equal(t, int64(0), cfg.RampUpBlocks)
	assert.Equal(t, RetryModeRetry, cfg.Retry.Mode)
	assert.Equal(t, 0, cfg.Retry.MaxAttempts)
	assert.Nil(t, cfg.StartBlock)
	assert.Nil(t, cfg.EndBlock)
}

func TestStreamConfig_Validate(t *testing.T) {
	valid := func() StreamConfig { return DefaultStreamConfig() }

	tests := []struct {
		name    string
		mutate  func(*StreamConfig)
		wantErr bool
	}{
		{"defaults are valid", func(*StreamConfig) {}, false},
		{"negative lag", func(c *StreamConfig) { c.Lag = -1 }, true},
		{"zero batch size", func(c *StreamConfig) { c.BlockBatchSize = 0 }, true},
		{"negative ramp-up", func(c *StreamConfig) { c.RampUpBlocks = -5 }, true},
		{"zero poll interval", func(c *StreamConfig) { c.PollInterval = 0 }, true},
		{"negative start block", func(c *StreamConfig) { c.StartBlock = int64Ptr(-2) }, true},
		{
			"end before start",
			func(c *StreamConfig) {
				c.StartBlock = int64Ptr(100)
				c.EndBlock = int64Ptr(50)
			},
			true,
		},
		{
			"start equals end",
			func(c *StreamConfig) {
				c.StartBlock = int64Ptr(100)
				c.EndBlock = int64Ptr(100)
			},
			false,
		},
		{"unknown retry mode", func(c *StreamConfig) { c.Retry.Mode = "sometimes" }, true},
		{"negative retry attempts", func(c *StreamConfig) { c.Retry.MaxAttempts = -1 }, true},
		{
			"propagate mode",
			func(c *StreamConfig) { c.Retry = RetryPolicy{Mode: RetryModePropagate} },
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
