package lambda

import (
	"context"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"
)

// Wrapper exposes a Service to the serverless platform: one platform request
// in, one platform response out.
//
// Every call swaps the held service for a clone and serves the request on the
// instance it took, so in-flight calls never share an instance with each other
// or with readiness checks.
type Wrapper struct {
	mu      sync.Mutex
	service Service
	policy  BodyPolicy
	scheme  string
}

// WrapperOption configures a Wrapper
type WrapperOption func(*Wrapper)

// WithBodyPolicy sets the policy used to encode response bodies
func WithBodyPolicy(policy BodyPolicy) WrapperOption {
	return func(w *Wrapper) {
		w.policy = policy
	}
}

// WithDefaultScheme sets the scheme assumed when the event does not carry
// X-Forwarded-Proto
func WithDefaultScheme(scheme string) WrapperOption {
	return func(w *Wrapper) {
		w.scheme = scheme
	}
}

// NewWrapper creates a wrapper around the initial service instance
func NewWrapper(service Service, opts ...WrapperOption) *Wrapper {
	w := &Wrapper{
		service: service,
		policy:  DefaultBodyPolicy(),
		scheme:  "https",
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Ready reports whether the held service can accept a request
func (w *Wrapper) Ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.service.Ready()
}

// take moves the held service out and leaves a clone in its place
func (w *Wrapper) take() Service {
	w.mu.Lock()
	defer w.mu.Unlock()

	inner := w.service
	w.service = inner.Clone()
	return inner
}

// Call serves one platform request. The returned error is always a
// *ConversionError; failures inside the service arrive as error-status
// responses instead.
func (w *Wrapper) Call(ctx context.Context, req Request) (Response, error) {
	inner := w.take()

	httpReq, err := ToHTTPRequest(ctx, req)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"request_id": req.Context.RequestID,
			"method":     req.Method,
			"raw_path":   req.RawPath,
			"error":      err.Error(),
		}).Warn("Failed to convert Lambda event")
		return Response{}, err
	}

	httpResp := inner.Serve(httpReq.Context(), httpReq)
	if httpResp == nil {
		httpResp = StatusResponse(httpReq, http.StatusInternalServerError)
	}

	return ToEventResponse(ctx, httpResp, w.policy)
}
