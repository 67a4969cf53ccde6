// Package grpc hosts the gRPC health endpoint that reflects whether the
// complaints API is reachable.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/civicreporter/internal/platform/timeouts"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// ReporterService is the health service name of the reporter front-end.
const ReporterService = "civicreporter.Reporter"

// Checker checks that an upstream dependency answers.
type Checker interface {
	Ping(ctx context.Context) error
}

// HealthConfig configures a HealthServer.
type HealthConfig struct {
	Addr    string
	Checker Checker
	// Services are marked alongside the overall "" service.
	Services []string
	// Interval defaults to timeouts.HealthCheckInterval.
	Interval time.Duration
	// Timeout defaults to timeouts.HealthCheck.
	Timeout time.Duration
}

// HealthServer serves grpc.health.v1 and flips between SERVING and
// NOT_SERVING as the checker succeeds or fails.
type HealthServer struct {
	listener net.Listener
	server   *gogrpc.Server
	health   *health.Server
	checker  Checker
	services []string
	interval time.Duration
	timeout  time.Duration

	mu   sync.Mutex
	last grpc_health_v1.HealthCheckResponse_ServingStatus
}

// NewHealthServer binds the listener; nothing is served until Serve.
func NewHealthServer(cfg HealthConfig) (*HealthServer, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("health address is required")
	}
	if cfg.Checker == nil {
		return nil, errors.New("health checker is required")
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = timeouts.HealthCheckInterval
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = timeouts.HealthCheck
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on health address %s: %w", addr, err)
	}

	server := gogrpc.NewServer(gogrpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)

	services := append([]string{""}, cfg.Services...)
	for _, service := range services {
		healthServer.SetServingStatus(service, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	}

	return &HealthServer{
		listener: listener,
		server:   server,
		health:   healthServer,
		checker:  cfg.Checker,
		services: services,
		interval: interval,
		timeout:  timeout,
		last:     grpc_health_v1.HealthCheckResponse_NOT_SERVING,
	}, nil
}

// Addr is the bound listener address.
func (s *HealthServer) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve checks upstream on an interval and answers health checks until ctx ends.
func (s *HealthServer) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("health server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	checkCtx, stopChecks := context.WithCancel(ctx)
	defer stopChecks()
	go s.checkLoop(checkCtx)

	serveErr := make(chan error, 1)
	log.Printf("health listening on %s", s.Addr())
	go func() {
		serveErr <- s.server.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.stop()
		return nil
	case err := <-serveErr:
		if errors.Is(err, gogrpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve health: %w", err)
	}
}

// stop drains in-flight calls, forcing the stop after timeouts.Shutdown since
// Watch streams never finish on their own.
func (s *HealthServer) stop() {
	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeouts.Shutdown):
		s.server.Stop()
	}
}

// Close stops the server immediately.
func (s *HealthServer) Close() {
	if s == nil || s.server == nil {
		return
	}
	s.server.Stop()
}

func (s *HealthServer) checkLoop(ctx context.Context) {
	s.CheckOnce(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CheckOnce(ctx)
		}
	}
}

// CheckOnce pings the upstream and records the resulting status for every
// service.
func (s *HealthServer) CheckOnce(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err := s.checker.Ping(callCtx)
	cancel()
	if ctx.Err() != nil {
		return s.current()
	}

	status := grpc_health_v1.HealthCheckResponse_SERVING
	if err != nil {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}

	s.mu.Lock()
	changed := status != s.last
	s.last = status
	s.mu.Unlock()

	if changed {
		if err != nil {
			log.Printf("health upstream unreachable: %v", err)
		} else {
			log.Printf("health upstream reachable")
		}
	}
	for _, service := range s.services {
		s.health.SetServingStatus(service, status)
	}
	return status
}

func (s *HealthServer) current() grpc_health_v1.HealthCheckResponse_ServingStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// WaitForHealth blocks until the gRPC health check reports SERVING or the context ends.
func WaitForHealth(ctx context.Context, conn *gogrpc.ClientConn, service string, logf func(string, ...any)) error {
	if conn == nil {
		return fmt.Errorf("gRPC connection is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	healthClient := grpc_health_v1.NewHealthClient(conn)
	backoff := 50 * time.Millisecond
	for {
		callCtx, cancel := context.WithTimeout(ctx, timeouts.HealthCheck)
		response, err := healthClient.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: service})
		cancel()
		if err == nil && response.GetStatus() == grpc_health_v1.HealthCheckResponse_SERVING {
			return nil
		}
		if logf != nil {
			if err != nil {
				logf("waiting for %q health: %v", service, err)
			} else {
				logf("waiting for %q health: status %s", service, response.GetStatus().String())
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for gRPC health: %w", ctx.Err())
		case <-time.After(backoff):
		}

		if backoff < time.Second {
			backoff = min(backoff*2, time.Second)
		}
	}
}
