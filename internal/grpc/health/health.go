// Package health поднимает gRPC-сервер со стандартным сервисом grpc.health.v1.Health
// для проб оркестратора. Статус зависит от доступности базы и Redis.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/virtudress/tryon-catalog/internal/lib/sl"
)

// Service имя сервиса, под которым публикуется статус API.
const Service = "tryon.api"

// Check проверяет одну зависимость.
type Check func(ctx context.Context) error

// Server gRPC health-сервер.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	listener   net.Listener
	checks     map[string]Check
	interval   time.Duration
	log        *slog.Logger
}

// New слушает address и регистрирует health-сервис. Пока проверки не прошли, статус NOT_SERVING.
func New(address string, checks map[string]Check, interval time.Duration, log *slog.Logger) (*Server, error) {
	const op = "grpc.health.New"

	lis, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return NewWithListener(lis, checks, interval, log), nil
}

// NewWithListener как New, но с готовым listener.
func NewWithListener(lis net.Listener, checks map[string]Check, interval time.Duration, log *slog.Logger) *Server {
	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(Service, healthpb.HealthCheckResponse_NOT_SERVING)

	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Server{
		grpcServer: grpcServer,
		health:     hs,
		listener:   lis,
		checks:     checks,
		interval:   interval,
		log:        log,
	}
}

// Addr адрес, на котором слушает сервер.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Probe выполняет все проверки и выставляет статус.
func (s *Server) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.log.Warn("health check failed", slog.String("dependency", name), sl.Err(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(Service, status)
	return status
}

// Run обслуживает запросы и периодически обновляет статус до отмены ctx.
// При остановке статус переводится в NOT_SERVING.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.Info("gRPC health server listening on", slog.String("address", s.Addr()))
		errCh <- s.grpcServer.Serve(s.listener)
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpcServer.GracefulStop()
			return nil
		case err := <-errCh:
			return err
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

func (s *Server) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()
	s.Probe(ctx)
}
