package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeRepositoryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fundledger",
		Subsystem: "store_repository",
		Name:      "operations_total",
		Help:      "Count of ledger store operations.",
	}, []string{"operation", "backend", "status"})
	storeRepositoryRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fundledger",
		Subsystem: "store_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of ledger store operations.",
		Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"operation", "backend", "status"})
)

// StoreRepository tracks metrics for a primary ledger store backend.
type StoreRepository struct {
	backend string
}

// NewStoreRepository constructs a metrics collector for the named backend.
func NewStoreRepository(backend string) *StoreRepository {
	if backend == "" {
		backend = "unknown"
	}
	return &StoreRepository{backend: backend}
}

// Observe records duration and status of a store operation.
func (m StoreRepository) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	storeRepositoryRequestsTotal.WithLabelValues(operation, m.backend, status).Inc()
	storeRepositoryRequestDuration.WithLabelValues(operation, m.backend, status).Observe(time.Since(started).Seconds())
}
