package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"puser-service/api"
	"puser-service/internal/adapter/gin/handler"
	"puser-service/internal/adapter/gin/middleware"
	grpcmiddleware "puser-service/internal/adapter/grpc/middleware"
	"puser-service/pkg/metrics"
)

// SwaggerDocPath is where the OpenAPI document is served.
const SwaggerDocPath = "/docs/user.swagger.json"

// Options carries the collaborators of the HTTP router.
// RateLimiter and Metrics may be nil.
type Options struct {
	UserHandler   *handler.UserHandler
	HealthHandler *handler.HealthHandler
	RateLimiter   *grpcmiddleware.RateLimiter
	Metrics       *metrics.Metrics
	MetricsPath   string
	Logger        *zap.Logger
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(opts Options) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(opts.Logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(opts.Logger))
	router.Use(middleware.Metrics(opts.Metrics))

	router.GET("/health", opts.HealthHandler.Health)

	if opts.Metrics != nil && opts.MetricsPath != "" {
		router.GET(opts.MetricsPath, gin.WrapH(opts.Metrics.Handler()))
	}

	router.GET(SwaggerDocPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", api.UserSwaggerJSON)
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(SwaggerDocPath))))

	// API v1 routes, rate limited
	v1 := router.Group("/v1", middleware.RateLimiter(opts.RateLimiter))
	{
		v1.GET("/users", opts.UserHandler.ListUsers)
	}

	return router
}
