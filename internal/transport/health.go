package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthChecker keeps the gRPC health status in step with the backing stores.
type HealthChecker struct {
	server   *health.Server
	pingers  map[string]Pinger
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

// NewHealthChecker returns a HealthChecker reporting on server. Each pinger is exposed as its
// own service name; the overall status ("") is SERVING only when every pinger succeeds.
func NewHealthChecker(server *health.Server, pingers map[string]Pinger, interval time.Duration, logger *zap.Logger) (*HealthChecker, error) {
	if server == nil {
		return nil, errors.New("health server is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("health check interval must be positive, got %s", interval)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthChecker{
		server:   server,
		pingers:  pingers,
		interval: interval,
		timeout:  interval / 2,
		logger:   logger,
	}, nil
}

// Run checks health until ctx is canceled, then marks every service NOT_SERVING.
func (h *HealthChecker) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

// Check pings every store once and updates the serving status.
func (h *HealthChecker) Check(ctx context.Context) {
	overall := healthpb.HealthCheckResponse_SERVING
	for name, p := range h.pingers {
		status := healthpb.HealthCheckResponse_SERVING
		pingCtx, cancel := context.WithTimeout(ctx, h.timeout)
		if err := p.Ping(pingCtx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = healthpb.HealthCheckResponse_NOT_SERVING
			h.logger.Warn("health check failed", zap.String("service", name), zap.Error(err))
		}
		cancel()
		h.server.SetServingStatus(name, status)
	}
	h.server.SetServingStatus("", overall)
}
