package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lambda-http-bridge/internal/middleware"
	"lambda-http-bridge/pkg/lambda"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HelloQuery holds the query parameters accepted by Hello
type HelloQuery struct {
	Name string `form:"name" binding:"omitempty,max=64,printascii"`
}

// RequestInfo describes a request as the application received it
type RequestInfo struct {
	Method         string              `json:"method"`
	Host           string              `json:"host"`
	Path           string              `json:"path"`
	Query          map[string][]string `json:"query,omitempty"`
	RequestID      string              `json:"request_id"`
	EventSource    string              `json:"event_source,omitempty"`
	Stage          string              `json:"stage,omitempty"`
	PathParameters map[string]string   `json:"path_parameters,omitempty"`
}

// DiagnosticsHandler serves the request inspection endpoints
type DiagnosticsHandler struct {
	version string
}

// NewDiagnosticsHandler creates a new diagnostics handler
func NewDiagnosticsHandler(version string) *DiagnosticsHandler {
	return &DiagnosticsHandler{version: version}
}

// @Summary Health check
// @Tags diagnostics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *DiagnosticsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   h.version,
	})
}

// @Summary Greet the caller
// @Tags diagnostics
// @Produce json
// @Param name query string false "Name to greet"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Router /hello [get]
func (h *DiagnosticsHandler) Hello(c *gin.Context) {
	var query HelloQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid query parameters",
			Message: err.Error(),
		})
		return
	}

	name := query.Name
	if name == "" {
		name = "world"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Hello, " + name,
		"path":    c.Request.URL.Path,
	})
}

// @Summary Echo the request body
// @Description Returns the request body unchanged with the same content type
// @Tags diagnostics
// @Accept */*
// @Produce */*
// @Success 200 {string} string
// @Failure 413 {object} ErrorResponse
// @Router /echo [post]
func (h *DiagnosticsHandler) Echo(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Error:   "Request too large",
				Message: err.Error(),
			})
			return
		}
		_ = c.Error(err)
		return
	}

	contentType := c.ContentType()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, body)
}

// @Summary Describe the request
// @Description Reports the path, query and Lambda context the application saw
// @Tags diagnostics
// @Produce json
// @Success 200 {object} RequestInfo
// @Router /whoami [get]
func (h *DiagnosticsHandler) WhoAmI(c *gin.Context) {
	info := RequestInfo{
		Method:    c.Request.Method,
		Host:      c.Request.Host,
		Path:      c.Request.URL.Path,
		Query:     c.Request.URL.Query(),
		RequestID: c.GetString(middleware.RequestIDKey),
	}

	if rc, ok := lambda.FromContext(c.Request.Context()); ok {
		info.EventSource = string(rc.EventSource)
		info.Stage = rc.Stage
		info.PathParameters = rc.PathParameters
	}

	c.JSON(http.StatusOK, info)
}
