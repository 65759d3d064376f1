// Package metrics exposes application metrics collectors.
package metrics

import (
	"time"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	engineAppendTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fundledger",
		Subsystem: "ledger_engine",
		Name:      "append_total",
		Help:      "Count of block append operations.",
	}, []string{"tx_type", "status"})
	engineAppendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fundledger",
		Subsystem: "ledger_engine",
		Name:      "append_duration_seconds",
		Help:      "Duration of block append operations including retries.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"tx_type", "status"})
	engineAppendConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fundledger",
		Subsystem: "ledger_engine",
		Name:      "append_conflicts_total",
		Help:      "Count of append attempts that lost the chain race and were retried.",
	})
	engineTailIndex = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fundledger",
		Subsystem: "ledger_engine",
		Name:      "tail_index",
		Help:      "Index of the last block appended by this process.",
	})
	engineListTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fundledger",
		Subsystem: "ledger_engine",
		Name:      "list_total",
		Help:      "Count of block list operations.",
	}, []string{"filtered", "status"})
	engineVerifyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fundledger",
		Subsystem: "ledger_engine",
		Name:      "verify_total",
		Help:      "Count of chain verification runs by outcome.",
	}, []string{"result"})
	engineVerifyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fundledger",
		Subsystem: "ledger_engine",
		Name:      "verify_duration_seconds",
		Help:      "Duration of chain verification runs.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"result"})
)

// LedgerEngine tracks metrics for ledger engine operations.
type LedgerEngine struct{}

// NewLedgerEngine creates a LedgerEngine metrics collector.
func NewLedgerEngine() *LedgerEngine {
	return &LedgerEngine{}
}

// ObserveAppend records the outcome of one append call.
func (m LedgerEngine) ObserveAppend(txType model.TxType, index int64, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	if !txType.Valid() {
		txType = "unknown"
	}

	engineAppendTotal.WithLabelValues(string(txType), status).Inc()
	engineAppendDuration.WithLabelValues(string(txType), status).Observe(time.Since(started).Seconds())
	if err == nil {
		engineTailIndex.Set(float64(index))
	}
}

// ObserveConflict records one lost chain race.
func (m LedgerEngine) ObserveConflict() {
	engineAppendConflictsTotal.Inc()
}

// ObserveList records a paginated read.
func (m LedgerEngine) ObserveList(filtered bool, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	label := "false"
	if filtered {
		label = "true"
	}
	engineListTotal.WithLabelValues(label, status).Inc()
}

// ObserveVerify records a verification run. Storage failures are reported as "error",
// integrity findings as "broken".
func (m LedgerEngine) ObserveVerify(report model.VerifyReport, err error, started time.Time) {
	result := verifyResult(report, err)
	engineVerifyTotal.WithLabelValues(result).Inc()
	engineVerifyDuration.WithLabelValues(result).Observe(time.Since(started).Seconds())
}

func verifyResult(report model.VerifyReport, err error) string {
	switch {
	case err != nil:
		return "error"
	case !report.Valid:
		return "broken"
	default:
		return "valid"
	}
}
