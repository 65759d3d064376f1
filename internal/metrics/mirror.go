package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mirrorFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fundledger",
		Subsystem: "mirror",
		Name:      "fetch_total",
		Help:      "Count of attempts to fetch new blocks from the primary store.",
	}, []string{"status"})

	mirrorFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fundledger",
		Subsystem: "mirror",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of fetching new blocks from the primary store.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	mirrorProcessBatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fundledger",
		Subsystem: "mirror",
		Name:      "process_batch_total",
		Help:      "Count of processed block batches.",
	}, []string{"status"})

	mirrorProcessBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fundledger",
		Subsystem: "mirror",
		Name:      "process_batch_size",
		Help:      "Number of blocks processed per batch.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	})

	mirrorCursor = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fundledger",
		Subsystem: "mirror",
		Name:      "cursor_index",
		Help:      "Next block index the mirror will copy.",
	})

	mirrorIntegrityViolationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fundledger",
		Subsystem: "mirror",
		Name:      "integrity_violations_total",
		Help:      "Count of blocks that failed hash or link checks while mirroring.",
	})

	mirrorResyncTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fundledger",
		Subsystem: "mirror",
		Name:      "resync_total",
		Help:      "Count of cursor resynchronisations after failed flushes.",
	})
)

// Mirror tracks metrics for the ClickHouse mirror pipeline.
type Mirror struct{}

// NewMirror constructs a Mirror metrics collector.
func NewMirror() *Mirror {
	return &Mirror{}
}

// ObserveFetch records a fetch attempt outcome and duration.
func (m Mirror) ObserveFetch(err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	mirrorFetchTotal.WithLabelValues(status).Inc()
	mirrorFetchDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

// ObserveProcessBatch records processing of a batch of blocks.
func (m Mirror) ObserveProcessBatch(err error, blocks int) {
	status := "success"
	if err != nil {
		status = "error"
	}
	mirrorProcessBatchTotal.WithLabelValues(status).Inc()
	mirrorProcessBatchSize.Observe(float64(blocks))
}

// SetCursor records the next index to mirror.
func (m Mirror) SetCursor(index int64) {
	mirrorCursor.Set(float64(index))
}

// ObserveIntegrityViolation records a block rejected by chain checks.
func (m Mirror) ObserveIntegrityViolation() {
	mirrorIntegrityViolationsTotal.Inc()
}

// ObserveResync records a cursor resynchronisation.
func (m Mirror) ObserveResync() {
	mirrorResyncTotal.Inc()
}
