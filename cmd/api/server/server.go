package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"puser-service/cmd/api/di"
	ginrouter "puser-service/internal/adapter/gin/router"
	"puser-service/internal/config"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	GRPC   *grpc.Server
	Health *health.Server
	Gin    *http.Server
}

// New creates a new server instance from the container's components
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	grpcServer, healthServer := SetupGRPC(c.UserUC, l, c.RateLimiter)

	return &Server{
		Config: cfg,
		Logger: l,
		GRPC:   grpcServer,
		Health: healthServer,
		Gin: SetupGinServer(ginrouter.Options{
			UserHandler:   c.GinHandler,
			HealthHandler: c.HealthHandler,
			RateLimiter:   c.RateLimiter,
			Metrics:       c.Metrics,
			MetricsPath:   metricsPath,
			Logger:        l,
		}, httpAddress(cfg), l),
	}
}

// Start binds both listeners and serves until one server fails or both are stopped.
// Listen errors are returned before anything is served.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}

	grpcLis, err := lc.Listen(ctx, "tcp", grpcAddress(s.Config))
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC address: %w", err)
	}

	ginLis, err := lc.Listen(ctx, "tcp", s.Gin.Addr)
	if err != nil {
		_ = grpcLis.Close()
		return fmt.Errorf("failed to listen on HTTP address: %w", err)
	}

	return s.Serve(grpcLis, ginLis)
}

// Serve runs the gRPC and Gin servers on the given listeners.
func (s *Server) Serve(grpcLis, ginLis net.Listener) error {
	var g errgroup.Group

	g.Go(func() error {
		s.Logger.Info("gRPC server running", zap.String("address", grpcLis.Addr().String()))
		if err := s.GRPC.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.Logger.Info("Gin REST API running", zap.String("address", ginLis.Addr().String()))
		if err := s.Gin.Serve(ginLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("gin server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Shutdown stops the Gin server within ctx and drains the gRPC server.
// GracefulStop is abandoned for Stop when ctx expires first.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	// Tell health-checking clients to stop routing here before draining.
	if s.Health != nil {
		s.Health.Shutdown()
	}

	if s.Gin != nil {
		s.Logger.Info("shutting down Gin server...")
		if err := s.Gin.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("gin shutdown: %w", err))
		}
	}

	if s.GRPC != nil {
		s.Logger.Info("shutting down gRPC server...")
		done := make(chan struct{})
		go func() {
			s.GRPC.GracefulStop()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			s.GRPC.Stop()
			errs = append(errs, fmt.Errorf("gRPC shutdown: %w", ctx.Err()))
		}
	}

	return errors.Join(errs...)
}

// grpcAddress returns the gRPC server address
func grpcAddress(cfg *config.Config) string {
	return ":" + cfg.App.GRPCPort
}

// httpAddress returns the HTTP server address
func httpAddress(cfg *config.Config) string {
	return ":" + cfg.App.HTTPPort
}
