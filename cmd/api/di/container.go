package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"puser-service/cmd/api/infrastructure"
	"puser-service/internal/adapter/cache"
	"puser-service/internal/adapter/db/postgres"
	ginhandler "puser-service/internal/adapter/gin/handler"
	"puser-service/internal/adapter/grpc/middleware"
	"puser-service/internal/adapter/repository/cached"
	"puser-service/internal/config"
	"puser-service/internal/usecase/user"
	"puser-service/pkg/metrics"
	redisclient "puser-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	DB            *gorm.DB
	RedisClient   *redisclient.Client // nil when Redis is disabled
	Metrics       *metrics.Metrics
	UserUC        user.Usecase
	RateLimiter   *middleware.RateLimiter // nil when Redis is disabled
	GinHandler    *ginhandler.UserHandler
	HealthHandler *ginhandler.HealthHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{
		Config:  cfg,
		Logger:  l,
		Metrics: metrics.New(cfg.Logger.ServiceName),
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	sqlDB, err := db.DB()
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Initialize Redis client
	rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	c.RedisClient = rdb

	// Initialize repository, optionally behind the list cache
	var repo user.Repository = postgres.NewUserRepoPG(postgres.NewGormQuerier(db))
	if cfg.Redis.CacheEnabled && rdb != nil {
		userCache := cache.NewRedisUserListCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		// A list cached by a previous process may predate a migration or a deploy.
		if err := userCache.Invalidate(ctx); err != nil {
			l.Warn("failed to flush user list cache at startup", zap.Error(err))
		}
		repo = cached.NewCachedUserRepository(repo, userCache, l,
			time.Duration(cfg.Redis.CacheLoadTimeout)*time.Second,
		)
		l.Info("user list cache enabled",
			zap.Int("ttl_seconds", cfg.Redis.CacheTTL),
			zap.Int("load_timeout_seconds", cfg.Redis.CacheLoadTimeout),
		)
	}

	// Initialize use case
	c.UserUC = user.New(repo, l, c.Metrics)

	// Initialize rate limiter
	if rdb != nil {
		c.RateLimiter = middleware.NewRateLimiter(
			rdb.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
				Enabled:           cfg.RateLimit.Enabled,
				BucketTTL:         time.Duration(cfg.RateLimit.BucketTTLSeconds) * time.Second,
			},
			l,
		)
	}

	// Initialize Gin handlers
	c.GinHandler = ginhandler.NewUserHandler(c.UserUC, l)
	c.HealthHandler = ginhandler.NewHealthHandler(sqlDB, cfg.Logger.ServiceName, l)

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %w", errors.Join(errs...))
	}

	return nil
}
