package metrics

import (
	"time"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	auditorChunkTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fundledger",
		Subsystem: "auditor",
		Name:      "chunk_total",
		Help:      "Count of verified chain chunks.",
	}, []string{"result"})

	auditorChunkDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fundledger",
		Subsystem: "auditor",
		Name:      "chunk_duration_seconds",
		Help:      "Duration of verifying a single chain chunk.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"result"})

	auditorChainValid = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fundledger",
		Subsystem: "auditor",
		Name:      "chain_valid",
		Help:      "1 when the last completed audit found an intact chain, 0 otherwise.",
	})

	auditorCheckedBlocks = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fundledger",
		Subsystem: "auditor",
		Name:      "checked_blocks",
		Help:      "Number of blocks checked by the last completed audit.",
	})
)

// Auditor tracks metrics for chain audits.
type Auditor struct{}

// NewAuditor constructs an Auditor metrics collector.
func NewAuditor() *Auditor {
	return &Auditor{}
}

// ObserveChunk records verification of one chunk.
func (m Auditor) ObserveChunk(err error, valid bool, started time.Time) {
	result := verifyResult(model.VerifyReport{Valid: valid}, err)
	auditorChunkTotal.WithLabelValues(result).Inc()
	auditorChunkDuration.WithLabelValues(result).Observe(time.Since(started).Seconds())
}

// ObserveAudit records the outcome of a completed audit.
func (m Auditor) ObserveAudit(report model.VerifyReport, err error) {
	if err != nil {
		return
	}
	valid := 0.0
	if report.Valid {
		valid = 1
	}
	auditorChainValid.Set(valid)
	auditorCheckedBlocks.Set(float64(report.Checked))
}
