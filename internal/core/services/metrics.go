package services

import "github.com/prometheus/client_golang/prometheus"

var (
	blocksSyncedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blockpipe_blocks_synced_total",
		Help: "Blocks synced across all cycles",
	})
	syncCyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "blockpipe_sync_cycles_total", Help: "Sync cycles by outcome"},
		[]string{"status"},
	)
	syncCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "blockpipe_sync_cycle_duration_seconds",
		Help:    "Sync cycle latency",
		Buckets: prometheus.DefBuckets,
	})
	lastSyncedBlockGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "blockpipe_last_synced_block",
		Help: "Last fully synced block number",
	})
)

func init() {
	prometheus.MustRegister(blocksSyncedTotal, syncCyclesTotal, syncCycleDuration, lastSyncedBlockGauge)
}

// Cycle outcome labels.
const (
	cycleStatusOK    = "ok"
	cycleStatusEmpty = "empty"
	cycleStatusError = "error"
)
