package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"lambda-http-bridge/internal/middleware"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	Version             string
	MaxRequestBodyBytes int64
	EnableSwagger       bool
}

// NewRouter builds the application engine with its middleware stack
func NewRouter(config *RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.StructuredLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	SetupRoutes(router, config)
	return router
}

// SetupRoutes configures all routes
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	version := config.Version
	if version == "" {
		version = Version
	}
	diagnostics := NewDiagnosticsHandler(version)

	if config.EnableSwagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/health", diagnostics.Health)
	router.GET("/hello", diagnostics.Hello)
	router.GET("/whoami", diagnostics.WhoAmI)
	router.POST("/echo", middleware.RequestSizeLimit(config.MaxRequestBodyBytes), diagnostics.Echo)
}
