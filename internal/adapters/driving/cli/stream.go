package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	checkpointfile "github.com/blockpipe/blockpipe/internal/adapters/driven/checkpoint/file"
	checkpointsqlite "github.com/blockpipe/blockpipe/internal/adapters/driven/checkpoint/sqlite"
	configfile "github.com/blockpipe/blockpipe/internal/adapters/driven/config/file"
	"github.com/blockpipe/blockpipe/internal/adapters/driven/export/console"
	"github.com/blockpipe/blockpipe/internal/adapters/driven/export/gcs"
	"github.com/blockpipe/blockpipe/internal/adapters/driven/export/postgres"
	"github.com/blockpipe/blockpipe/internal/adapters/driven/source/synthetic"
	"github.com/blockpipe/blockpipe/internal/adapters/driven/source/throttle"
	"github.com/blockpipe/blockpipe/internal/core/ports/driven"
	"github.com/blockpipe/blockpipe/internal/core/services"
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Run the synchronisation loop",
	Long: `Streams block data from the configured source into the configured
exporter, advancing the checkpoint after every exported range. Runs until
the end block (when set) is reached or the process is signalled.`,
	RunE: runStream,
}

func init() {
	rootCmd.AddCommand(streamCmd)
}

func runStream(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	streamCfg, err := cfg.StreamConfig()
	if err != nil {
		return err
	}
	log := newLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := buildCheckpointStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	exporter, err := buildExporter(ctx, cfg)
	if err != nil {
		return err
	}

	var adapter driven.SourceAdapter = synthetic.NewAdapter(exporter, synthetic.Options{
		Head:                 cfg.Source.SyntheticHead,
		Growth:               cfg.Source.SyntheticGrowth,
		TransactionsPerBlock: cfg.Source.TransactionsPerBlock,
	})
	if cfg.Source.RequestsPerSecond > 0 {
		adapter = throttle.NewAdapter(adapter, cfg.Source.RequestsPerSecond, cfg.Source.Burst)
	}

	streamer, err := services.NewStreamer(streamCfg, adapter, store, log)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		startMetricsServer(ctx, cfg.MetricsAddr, log)
	}

	if err := streamer.Stream(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stream: %w", err)
	}

	status := streamer.Status()
	cmd.Printf("Synced %d blocks, last synced block %d.\n", status.ProcessedBlocks, status.LastSyncedBlock)
	return nil
}

// buildCheckpointStore constructs the configured checkpoint backend. The
// returned func releases backend resources.
func buildCheckpointStore(cfg *configfile.Config) (driven.CheckpointStore, func(), error) {
	switch cfg.Checkpoint.Backend {
	case configfile.CheckpointBackendFile, "":
		return checkpointfile.NewStore(cfg.Checkpoint.Path), func() {}, nil
	case configfile.CheckpointBackendSQLite:
		store, err := checkpointsqlite.NewStore(cfg.Checkpoint.Path, cfg.Checkpoint.Name)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite checkpoint store: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown checkpoint backend %q", cfg.Checkpoint.Backend)
	}
}

// buildExporter constructs the configured destination.
func buildExporter(ctx context.Context, cfg *configfile.Config) (driven.ItemExporter, error) {
	switch cfg.Exporter.Kind {
	case configfile.ExporterConsole, "":
		return console.NewExporter(nil), nil
	case configfile.ExporterGCS:
		exporter, err := gcs.NewExporterForBucket(ctx, cfg.Exporter.Bucket, cfg.Exporter.Prefix)
		if err != nil {
			return nil, fmt.Errorf("build gcs exporter: %w", err)
		}
		return exporter, nil
	case configfile.ExporterPostgres:
		exporter, err := postgres.NewExporter(ctx, cfg.Exporter.ConnString, cfg.Exporter.ChainID)
		if err != nil {
			return nil, fmt.Errorf("build postgres exporter: %w", err)
		}
		return exporter, nil
	default:
		return nil, fmt.Errorf("unknown exporter kind %q", cfg.Exporter.Kind)
	}
}

// startMetricsServer exposes /metrics until ctx is cancelled.
func startMetricsServer(ctx context.Context, addr string, log *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		log.Info("metrics listener starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics listener stopped", "err", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
