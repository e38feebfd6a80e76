package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

type HealthServiceTestSuite struct {
	suite.Suite
	healthy atomic.Bool
	service *HealthService
	server  *grpc.Server
	conn    *grpc.ClientConn
	client  healthpb.HealthClient
}

func TestHealthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(HealthServiceTestSuite))
}

func (s *HealthServiceTestSuite) SetupTest() {
	s.healthy.Store(true)
	s.service = NewHealthService(func(context.Context) error {
		if !s.healthy.Load() {
			return errors.New("medium unreachable")
		}
		return nil
	})
	lis := bufconn.Listen(1024 * 1024)
	s.server = grpc.NewServer()
	s.service.Register(s.server)
	go func() { _ = s.server.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	s.conn = conn
	s.client = healthpb.NewHealthClient(conn)
}

func (s *HealthServiceTestSuite) TearDownTest() {
	_ = s.conn.Close()
	s.server.Stop()
}

func (s *HealthServiceTestSuite) status(service string) healthpb.HealthCheckResponse_ServingStatus {
	resp, err := s.client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	s.Require().NoError(err)
	return resp.GetStatus()
}

func (s *HealthServiceTestSuite) TestNotServingBeforeFirstProbe() {
	s.Equal(healthpb.HealthCheckResponse_NOT_SERVING, s.status(ServiceName))
}

func (s *HealthServiceTestSuite) TestCheckFollowsProbe() {
	s.service.Check(context.Background())
	s.Equal(healthpb.HealthCheckResponse_SERVING, s.status(ServiceName))
	s.Equal(healthpb.HealthCheckResponse_SERVING, s.status(""))

	s.healthy.Store(false)
	s.service.Check(context.Background())
	s.Equal(healthpb.HealthCheckResponse_NOT_SERVING, s.status(ServiceName))
}

func (s *HealthServiceTestSuite) TestRunStopsWithContext() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.service.Run(ctx, time.Hour)
		close(done)
	}()
	s.Eventually(func() bool {
		return s.status(ServiceName) == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("Run did not return")
	}
	s.Equal(healthpb.HealthCheckResponse_NOT_SERVING, s.status(ServiceName))
}

func TestHealthService_UnknownService(t *testing.T) {
	h := NewHealthService(func(context.Context) error { return nil })
	_, err := h.server.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "nope"})
	require.Error(t, err)
}
