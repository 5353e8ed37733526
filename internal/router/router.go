package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/nutrilog/internal/api"
	"github.com/pageza/nutrilog/internal/middleware"
)

// SetupRouter configures the application routes. inference guards the routes
// that reach the inference service, typically a rate limiter.
func SetupRouter(handler *api.TrackerHandler, corsOrigins string, logger *zap.Logger, inference ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(corsOrigins))

	// Health check endpoint
	router.GET("/health", api.HealthCheck)
	router.GET("/api/health", api.HealthCheck)

	// API v1 routes
	handler.RegisterRoutes(router.Group("/api/v1"), inference...)

	return router
}
