// Package cli wires the cobra command tree that drives the streamer core.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/blockpipe/blockpipe/internal/adapters/driven/config/file"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "blockpipe",
	Short: "Checkpointed blockchain data streamer",
	Long: `blockpipe incrementally syncs block data from a chain source into an
item exporter, advancing a durable checkpoint so interrupted runs resume
exactly where they left off.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig returns the file config, or the defaults when --config is
// not given.
func loadConfig() (*configfile.Config, error) {
	if cfgPath == "" {
		cfg := configfile.Default()
		return &cfg, nil
	}
	cfg, err := configfile.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the JSON logger handed to core services.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
