package grpc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/harryfittheorem/CKOWebsite/internal/config"
	pkglogger "github.com/harryfittheorem/CKOWebsite/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// checkTimeout bounds one checker run
const checkTimeout = 5 * time.Second

// Checker reports whether the service can take traffic
type Checker func(ctx context.Context) error

type Server struct {
	config  *config.Config
	logger  *zap.Logger
	server  *grpc.Server
	health  *health.Server
	checker Checker

	stopOnce sync.Once
	stop     chan struct{}
}

// NewServer creates the gRPC server. It only serves grpc.health.v1; the
// status follows checker.
func NewServer(cfg *config.Config, logger *zap.Logger, checker Checker) *Server {
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	server := grpc.NewServer(
		grpc.UnaryInterceptor(pkglogger.NewGrpcUnaryServerInterceptor(logger)),
	)
	healthpb.RegisterHealthServer(server, healthServer)

	return &Server{
		config:  cfg,
		logger:  logger,
		server:  server,
		health:  healthServer,
		checker: checker,
		stop:    make(chan struct{}),
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.GRPC.Host, s.config.Server.GRPC.Port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.logger.Info("Starting gRPC server", zap.String("address", addr))

	return s.Serve(listener)
}

// Serve runs the server on an existing listener
func (s *Server) Serve(listener net.Listener) error {
	s.refresh()
	go s.watch()

	return s.server.Serve(listener)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })
	s.health.Shutdown()
	s.server.GracefulStop()
	return nil
}

func (s *Server) watch() {
	interval := s.config.Server.GRPC.HealthCheckInterval
	if interval <= 0 {
		interval = config.DefaultHealthCheckInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.refresh()
		}
	}
}

// refresh sets the serving status from one checker run
func (s *Server) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	if err := s.checker(ctx); err != nil {
		s.logger.Warn("Health check failed", zap.Error(err))
		s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
}
