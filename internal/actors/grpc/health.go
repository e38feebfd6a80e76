package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	log "github.com/sirupsen/logrus"
)

// ServiceName is the name under which the replica reports its health.
const ServiceName = "hbnb.Replica"

// Probe reports whether a dependency is usable.
type Probe func(ctx context.Context) error

// HealthService implements the standard gRPC health service, driven by a probe.
type HealthService struct {
	server *health.Server
	probe  Probe
}

// NewHealthService creates a health service. Until the first probe runs the
// service is reported as NOT_SERVING.
func NewHealthService(probe Probe) *HealthService {
	srv := health.NewServer()
	srv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthService{server: srv, probe: probe}
}

// Register exposes the service on a gRPC server.
func (h *HealthService) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// Check runs the probe once and publishes its outcome.
func (h *HealthService) Check(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if err := h.probe(ctx); err != nil {
		log.WithError(err).Warn("health probe failed")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
}

// Run probes every interval until ctx is done, then reports the service as
// shutting down.
func (h *HealthService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
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
