package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `validate:"required"`
	Port        string `validate:"required,numeric"`
	Log         LogConfig
	Lambda      LambdaConfig
	RateLimit   RateLimitConfig
	HTTP        HTTPConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `validate:"oneof=json text"`
}

// LambdaConfig holds settings for the Lambda event adapter
type LambdaConfig struct {
	EventSource      string   `validate:"oneof=apigw-v1 apigw-v2 alb"`
	DefaultScheme    string   `validate:"oneof=http https"`
	BinaryMediaTypes []string `validate:"dive,required"`
}

// RateLimitConfig holds request rate limiting configuration.
// A zero RequestsPerSecond disables the limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64 `validate:"gte=0"`
	Burst             int     `validate:"gte=0"`
}

// HTTPConfig holds settings for the wrapped HTTP application
type HTTPConfig struct {
	MaxRequestBodyBytes int64 `validate:"gte=0"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Set up Viper
	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LAMBDA_EVENT_SOURCE", "apigw-v2")
	viper.SetDefault("DEFAULT_SCHEME", "https")
	viper.SetDefault("BINARY_MEDIA_TYPES", "application/octet-stream,application/pdf,application/zip,application/gzip,image/*,audio/*,video/*,font/*")
	viper.SetDefault("RATE_LIMIT_RPS", 0)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("MAX_REQUEST_BODY_BYTES", 6*1024*1024)

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		Log: LogConfig{
			Level:  strings.ToLower(viper.GetString("LOG_LEVEL")),
			Format: strings.ToLower(viper.GetString("LOG_FORMAT")),
		},
		Lambda: LambdaConfig{
			EventSource:      strings.ToLower(viper.GetString("LAMBDA_EVENT_SOURCE")),
			DefaultScheme:    strings.ToLower(viper.GetString("DEFAULT_SCHEME")),
			BinaryMediaTypes: splitList(viper.GetString("BINARY_MEDIA_TYPES")),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
		},
		HTTP: HTTPConfig{
			MaxRequestBodyBytes: viper.GetInt64("MAX_REQUEST_BODY_BYTES"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// splitList splits a comma separated value, dropping empty entries
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
