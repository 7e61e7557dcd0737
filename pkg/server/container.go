package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"lambda-http-bridge/internal/config"
	"lambda-http-bridge/internal/handlers"
	"lambda-http-bridge/pkg/lambda"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Router      *gin.Engine
	Service     lambda.Service
	Wrapper     *lambda.Wrapper
	EventSource lambda.EventSource
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	source, err := lambda.ParseEventSource(cfg.Lambda.EventSource)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve event source: %w", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handlers.NewRouter(&handlers.RouterConfig{
		Version:             handlers.Version,
		MaxRequestBodyBytes: cfg.HTTP.MaxRequestBodyBytes,
		EnableSwagger:       cfg.Environment != "production",
	})

	service := lambda.HandlerService(router)
	if cfg.RateLimit.RequestsPerSecond > 0 {
		burst := cfg.RateLimit.Burst
		if burst == 0 {
			burst = 1
		}
		service = lambda.RateLimit(service, rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), burst))
	}

	wrapper := lambda.NewWrapper(service,
		lambda.WithBodyPolicy(lambda.BodyPolicy{BinaryMediaTypes: cfg.Lambda.BinaryMediaTypes}),
		lambda.WithDefaultScheme(cfg.Lambda.DefaultScheme),
	)

	logrus.WithFields(logrus.Fields{
		"event_source": source,
		"rate_limit":   cfg.RateLimit.RequestsPerSecond,
		"environment":  cfg.Environment,
	}).Debug("Container initialized")

	return &Container{
		Config:      cfg,
		Router:      router,
		Service:     service,
		Wrapper:     wrapper,
		EventSource: source,
	}, nil
}

// LambdaHandler returns the wrapper handler for the configured event source
func (c *Container) LambdaHandler() (interface{}, error) {
	return c.Wrapper.Handler(c.EventSource)
}
