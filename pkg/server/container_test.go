package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"

	"lambda-http-bridge/internal/config"
	"lambda-http-bridge/pkg/lambda"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Port:        "8080",
		Log:         config.LogConfig{Level: "info", Format: "text"},
		Lambda: config.LambdaConfig{
			EventSource:      "apigw-v1",
			DefaultScheme:    "https",
			BinaryMediaTypes: []string{"image/*", "application/octet-stream"},
		},
		HTTP: config.HTTPConfig{MaxRequestBodyBytes: 1024},
	}
}

func init() {
	gin.SetMode(gin.TestMode)
}

// TestNewContainer verifies that the container can be created successfully
func TestNewContainer(t *testing.T) {
	container, err := NewContainer(testConfig())
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}

	if container.Router == nil {
		t.Error("Router is nil")
	}
	if container.Service == nil {
		t.Error("Service is nil")
	}
	if container.Wrapper == nil {
		t.Fatal("Wrapper is nil")
	}
	if container.EventSource != lambda.EventSourceAPIGatewayV1 {
		t.Errorf("Expected event source apigw-v1, got %s", container.EventSource)
	}
	if !container.Wrapper.Ready() {
		t.Error("Expected wrapper to be ready")
	}

	handler, err := container.LambdaHandler()
	if err != nil {
		t.Fatalf("LambdaHandler failed: %v", err)
	}
	if _, ok := handler.(func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)); !ok {
		t.Errorf("Unexpected handler type %T", handler)
	}
}

func TestNewContainerInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Lambda.EventSource = "sns"

	if _, err := NewContainer(cfg); err == nil {
		t.Error("Expected error for unsupported event source")
	}
}

func stagedEvent(method, stagePath, path string, query map[string]string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod:            method,
		Path:                  path,
		QueryStringParameters: query,
		Headers: map[string]string{
			"Host":              "abc123.execute-api.eu-west-1.amazonaws.com",
			"X-Forwarded-Proto": "https",
		},
		RequestContext: events.APIGatewayProxyRequestContext{
			Stage:     "prod",
			RequestID: "c6af9ac6-7b61-11e6-9a41-93e8deadbeef",
			Path:      stagePath,
		},
	}
}

func TestLambdaRoutesThroughRouter(t *testing.T) {
	container, err := NewContainer(testConfig())
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}
	w := container.Wrapper

	t.Run("Hello", func(t *testing.T) {
		resp, err := w.HandleAPIGatewayProxy(context.Background(), stagedEvent(http.MethodGet, "/prod/hello", "/hello", map[string]string{"name": "me"}))
		if err != nil {
			t.Fatalf("HandleAPIGatewayProxy failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, resp.Body)
		}

		var body map[string]string
		if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
			t.Fatalf("Failed to decode body: %v", err)
		}
		if body["message"] != "Hello, me" || body["path"] != "/hello" {
			t.Errorf("Unexpected body %v", body)
		}
		if resp.Headers["X-Request-Id"] != "c6af9ac6-7b61-11e6-9a41-93e8deadbeef" {
			t.Errorf("Expected Lambda request ID to be propagated, got %v", resp.Headers)
		}
	})

	t.Run("WhoAmI", func(t *testing.T) {
		resp, err := w.HandleAPIGatewayProxy(context.Background(), stagedEvent(http.MethodGet, "/prod/whoami", "/whoami", nil))
		if err != nil {
			t.Fatalf("HandleAPIGatewayProxy failed: %v", err)
		}

		var info struct {
			Path        string `json:"path"`
			Host        string `json:"host"`
			EventSource string `json:"event_source"`
			Stage       string `json:"stage"`
		}
		if err := json.Unmarshal([]byte(resp.Body), &info); err != nil {
			t.Fatalf("Failed to decode body: %v", err)
		}
		if info.Path != "/whoami" || info.Stage != "prod" || info.EventSource != "apigw-v1" {
			t.Errorf("Unexpected request info %+v", info)
		}
		if info.Host != "abc123.execute-api.eu-west-1.amazonaws.com" {
			t.Errorf("Unexpected host %s", info.Host)
		}
	})

	t.Run("EchoBinary", func(t *testing.T) {
		payload := []byte{0x00, 0xff, 0x10, 0x80}
		event := stagedEvent(http.MethodPost, "/prod/echo", "/echo", nil)
		event.Headers["Content-Type"] = "application/octet-stream"
		event.Body = base64.StdEncoding.EncodeToString(payload)
		event.IsBase64Encoded = true

		resp, err := w.HandleAPIGatewayProxy(context.Background(), event)
		if err != nil {
			t.Fatalf("HandleAPIGatewayProxy failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK || !resp.IsBase64Encoded {
			t.Fatalf("Expected a 200 base64 response, got %d (base64=%v)", resp.StatusCode, resp.IsBase64Encoded)
		}
		if resp.Body != event.Body {
			t.Errorf("Expected echoed payload %s, got %s", event.Body, resp.Body)
		}
	})

	t.Run("EchoTooLarge", func(t *testing.T) {
		event := stagedEvent(http.MethodPost, "/prod/echo", "/echo", nil)
		event.Headers["Content-Type"] = "text/plain"
		event.Body = string(make([]byte, 2048))

		resp, err := w.HandleAPIGatewayProxy(context.Background(), event)
		if err != nil {
			t.Fatalf("HandleAPIGatewayProxy failed: %v", err)
		}
		if resp.StatusCode != http.StatusRequestEntityTooLarge {
			t.Errorf("Expected status 413, got %d", resp.StatusCode)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		resp, err := w.HandleAPIGatewayProxy(context.Background(), stagedEvent(http.MethodGet, "/prod/missing", "/missing", nil))
		if err != nil {
			t.Fatalf("HandleAPIGatewayProxy failed: %v", err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", resp.StatusCode)
		}
	})
}

func TestContainerRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}

	event := stagedEvent(http.MethodGet, "/prod/health", "/health", nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	first, _ := container.Wrapper.HandleAPIGatewayProxy(ctx, event)
	if first.StatusCode != http.StatusOK {
		t.Fatalf("Expected first request to pass, got %d", first.StatusCode)
	}
	if container.Wrapper.Ready() {
		t.Error("Expected wrapper to report not ready once the limiter is drained")
	}

	second, _ := container.Wrapper.HandleAPIGatewayProxy(ctx, event)
	if second.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", second.StatusCode)
	}
}
