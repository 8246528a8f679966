// Package server exposes the front-end service over gRPC.
package server

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	mdwlog "github.com/msto63/stormsql/foundation/core/log"
	pb "github.com/msto63/stormsql/api/frontend"
	"github.com/msto63/stormsql/internal/frontend/service"
	"github.com/msto63/stormsql/internal/history"
	"github.com/msto63/stormsql/pkg/core/config"
	coreGrpc "github.com/msto63/stormsql/pkg/core/grpc"
	"github.com/msto63/stormsql/pkg/core/health"
	"github.com/msto63/stormsql/pkg/core/version"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server is the front-end gRPC server
type Server struct {
	service   *service.Service
	grpc      *coreGrpc.Server
	health    *health.Registry
	healthSrv *grpchealth.Server
	logger    *mdwlog.Logger
	config    Config
	stop      chan struct{}
	stopOnce  sync.Once
	startTime time.Time
}

// Config holds server configuration
type Config struct {
	GRPC    coreGrpc.ServerConfig
	Service service.Config
	// HealthInterval is how often the health checks are re-run and
	// published; 0 disables periodic checks
	HealthInterval time.Duration
	Logger         *mdwlog.Logger
}

const listenerCheckTimeout = 2 * time.Second

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		GRPC:           coreGrpc.DefaultServerConfig(),
		Service:        service.DefaultConfig(),
		HealthInterval: 30 * time.Second,
	}
}

// ConfigFrom builds a server configuration from the application config.
// recorder may be nil.
func ConfigFrom(app *config.Config, recorder *history.Recorder, logger *mdwlog.Logger) Config {
	cfg := DefaultConfig()
	cfg.GRPC = coreGrpc.ServerConfigFrom(app.Server)
	cfg.Service.MaxSourceBytes = app.Lexer.MaxSourceBytes
	cfg.Service.Recorder = recorder
	cfg.Logger = logger
	return cfg
}

// New creates a new front-end server
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = mdwlog.NewNop()
	}
	if cfg.GRPC.Logger == nil {
		cfg.GRPC.Logger = logger
	}
	if cfg.Service.Logger == nil {
		cfg.Service.Logger = logger
	}

	svc := service.NewService(cfg.Service)
	grpcServer := coreGrpc.NewServer(cfg.GRPC)

	healthRegistry := health.NewRegistry("stormsqld", version.Toolkit)
	healthRegistry.Register(health.ErrorCheck("canary", svc.HealthCheck))
	if cfg.Service.Recorder != nil {
		st := cfg.Service.Recorder.Store()
		healthRegistry.Register(health.ErrorCheck("history", func(ctx context.Context) error {
			_, err := st.Stats(ctx)
			return err
		}))
	}

	healthSrv := grpchealth.NewServer()

	server := &Server{
		service:   svc,
		grpc:      grpcServer,
		health:    healthRegistry,
		healthSrv: healthSrv,
		logger:    logger.WithField("component", "frontend-server"),
		config:    cfg,
		stop:      make(chan struct{}),
		startTime: time.Now(),
	}

	// Register gRPC services
	pb.RegisterFrontendServer(grpcServer.GRPCServer(), server)
	healthpb.RegisterHealthServer(grpcServer.GRPCServer(), healthSrv)

	return server
}

// Service returns the underlying front-end service
func (s *Server) Service() *service.Service {
	return s.service
}

// RefreshHealth runs the health checks and publishes the result
func (s *Server) RefreshHealth(ctx context.Context) *health.Report {
	report := s.health.Publish(ctx, s.healthSrv, pb.ServiceName)
	if report.Status != health.StatusHealthy {
		s.logger.Warn("health check failed", mdwlog.Fields{"status": string(report.Status)})
	}
	return report
}

func (s *Server) watchHealth() {
	s.RefreshHealth(context.Background())
	if s.config.HealthInterval <= 0 {
		return
	}

	ticker := time.NewTicker(s.config.HealthInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			s.RefreshHealth(ctx)
			cancel()
		case <-s.stop:
			return
		}
	}
}

// Start listens on the configured address and blocks until stopped. The
// listener is added to the health checks.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.GRPC.Host, strconv.Itoa(s.config.GRPC.Port))
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.health.Register(health.TCPCheck("listener", lis.Addr().String(), listenerCheckTimeout))
	return s.Serve(lis)
}

// Serve serves on an existing listener and blocks until stopped
func (s *Server) Serve(lis net.Listener) error {
	go s.watchHealth()
	return s.grpc.Serve(lis)
}

// Stop shuts the server down, forcing it after ctx expires
func (s *Server) Stop(ctx context.Context) {
	s.stopOnce.Do(func() { s.shutdown(ctx) })
}

func (s *Server) shutdown(ctx context.Context) {
	close(s.stop)
	s.healthSrv.Shutdown()
	s.grpc.StopWithTimeout(ctx)
	if err := s.service.Close(); err != nil {
		s.logger.WarnWithErr("failed to close history", err)
	}
	s.logger.Info("server stopped", mdwlog.Fields{"uptime": time.Since(s.startTime).String()})
}

// Address returns the listen address
func (s *Server) Address() string {
	return s.grpc.Address()
}
