package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ranking metrics
	RankingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stationrank_rankings_total",
			Help: "Total number of ranking runs",
		},
		[]string{"source"},
	)

	RowsRanked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stationrank_rows_ranked_total",
			Help: "Total number of rows placed in a partition",
		},
		[]string{"source"},
	)

	RowsUnassigned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stationrank_rows_unassigned_total",
			Help: "Total number of rows skipped for lack of a work center",
		},
		[]string{"source"},
	)

	PartitionsRanked = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stationrank_partitions",
			Help:    "Number of partitions produced per ranking run",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		},
		[]string{"source"},
	)

	RankingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stationrank_ranking_duration_seconds",
			Help:    "Time taken to rank a row set",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"source"},
	)

	// Export metrics
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stationrank_exports_total",
			Help: "Total number of result exports",
		},
		[]string{"format", "status"},
	)

	// Store metrics
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stationrank_store_operations_total",
			Help: "Total number of upload store operations",
		},
		[]string{"backend", "operation", "status"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stationrank_store_operation_duration_seconds",
			Help:    "Duration of upload store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	// Analytics events
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stationrank_events_total",
			Help: "Total number of analytics events",
		},
		[]string{"action", "category"},
	)
)

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Status returns the status label for err.
func Status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}

// Metrics records ranking, export and store metrics for one source label.
// It satisfies ranking.Recorder.
type Metrics struct {
	source string
}

// NewMetrics creates a metrics recorder. source distinguishes local files
// from stored uploads.
func NewMetrics(source string) *Metrics {
	return &Metrics{source: source}
}

// RecordRanking records the outcome of one ranking run.
func (m *Metrics) RecordRanking(partitions, rows, unassigned int, duration time.Duration) {
	RankingsTotal.WithLabelValues(m.source).Inc()
	RowsRanked.WithLabelValues(m.source).Add(float64(rows))
	RowsUnassigned.WithLabelValues(m.source).Add(float64(unassigned))
	PartitionsRanked.WithLabelValues(m.source).Observe(float64(partitions))
	RankingDuration.WithLabelValues(m.source).Observe(duration.Seconds())
}

// RecordExport records an export in format.
func (m *Metrics) RecordExport(format string, err error) {
	ExportsTotal.WithLabelValues(format, Status(err)).Inc()
}

// RecordStoreOp records a store operation against backend.
func (m *Metrics) RecordStoreOp(backend, operation string, err error, duration time.Duration) {
	StoreOperationsTotal.WithLabelValues(backend, operation, Status(err)).Inc()
	StoreOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// WriteTextfile writes the default registry to path in the Prometheus text
// format, for collection by a node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// Timer is a helper for measuring duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
