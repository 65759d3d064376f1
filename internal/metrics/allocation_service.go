package metrics

import (
	"time"

	"github.com/goodnatureofminers/fundledger-backend/internal/ledger/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	allocationMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fundledger",
		Subsystem: "allocation_service",
		Name:      "mutations_total",
		Help:      "Count of allocation mutations by ledger transaction kind.",
	}, []string{"tx_type", "status"})
	allocationMutationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fundledger",
		Subsystem: "allocation_service",
		Name:      "mutation_duration_seconds",
		Help:      "Duration of allocation mutations including the ledger append.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"tx_type", "status"})
	allocationCompensationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fundledger",
		Subsystem: "allocation_service",
		Name:      "compensations_total",
		Help:      "Count of allocation writes rolled back after a failed ledger append.",
	}, []string{"status"})
)

// AllocationService tracks metrics for allocation mutations.
type AllocationService struct{}

// NewAllocationService constructs an AllocationService metrics collector.
func NewAllocationService() *AllocationService {
	return &AllocationService{}
}

// ObserveMutation records one allocation mutation.
func (m AllocationService) ObserveMutation(txType model.TxType, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	allocationMutationsTotal.WithLabelValues(string(txType), status).Inc()
	allocationMutationDuration.WithLabelValues(string(txType), status).Observe(time.Since(started).Seconds())
}

// ObserveCompensation records a rollback attempt of an allocation write.
func (m AllocationService) ObserveCompensation(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	allocationCompensationsTotal.WithLabelValues(status).Inc()
}
