package lambda

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Service processes one HTTP request into one HTTP response.
//
// Serve has no error result: failures must be reported as error-status
// responses. Clone must be cheap; instances returned by Clone may share
// configuration but any shared mutable state is the service's to guard.
type Service interface {
	Ready() bool
	Serve(ctx context.Context, req *http.Request) *http.Response
	Clone() Service
}

// ServiceFunc adapts a function to the Service interface. It is always ready
// and clones to itself.
type ServiceFunc func(ctx context.Context, req *http.Request) *http.Response

func (f ServiceFunc) Ready() bool { return true }

func (f ServiceFunc) Serve(ctx context.Context, req *http.Request) *http.Response {
	return f(ctx, req)
}

func (f ServiceFunc) Clone() Service { return f }

// handlerService runs an http.Handler against a buffered response writer
type handlerService struct {
	handler http.Handler
}

// HandlerService adapts an http.Handler, such as a gin engine, to the Service
// interface. Panics raised by the handler are turned into 500 responses.
func HandlerService(h http.Handler) Service {
	return &handlerService{handler: h}
}

func (s *handlerService) Ready() bool { return true }

func (s *handlerService) Clone() Service { return &handlerService{handler: s.handler} }

func (s *handlerService) Serve(ctx context.Context, req *http.Request) (resp *http.Response) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"method": req.Method,
				"path":   req.URL.Path,
				"panic":  fmt.Sprintf("%v", r),
			}).Error("Handler panicked")
			resp = StatusResponse(req, http.StatusInternalServerError)
		}
	}()

	w := newBufferedResponseWriter()
	s.handler.ServeHTTP(w, req.WithContext(ctx))
	return w.response(req)
}

// StatusResponse builds a plain-text response carrying the status text
func StatusResponse(req *http.Request, code int) *http.Response {
	w := newBufferedResponseWriter()
	http.Error(w, http.StatusText(code), code)
	return w.response(req)
}

// bufferedResponseWriter collects a handler's output in memory
type bufferedResponseWriter struct {
	header      http.Header
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func newBufferedResponseWriter() *bufferedResponseWriter {
	return &bufferedResponseWriter{header: make(http.Header)}
}

func (w *bufferedResponseWriter) Header() http.Header {
	return w.header
}

func (w *bufferedResponseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.status = code
	w.wroteHeader = true
}

func (w *bufferedResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.body.Write(b)
}

// Flush is a no-op; the whole body is returned at once
func (w *bufferedResponseWriter) Flush() {}

func (w *bufferedResponseWriter) response(req *http.Request) *http.Response {
	status := w.status
	if !w.wroteHeader {
		status = http.StatusOK
	}

	header := w.header.Clone()
	if header.Get("Content-Type") == "" && w.body.Len() > 0 {
		header.Set("Content-Type", http.DetectContentType(w.body.Bytes()))
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(w.body.Bytes())),
		ContentLength: int64(w.body.Len()),
		Request:       req,
	}
}

// rateLimitedService gates an inner service behind a token bucket
type rateLimitedService struct {
	inner   Service
	limiter *rate.Limiter
}

// RateLimit wraps a service so that it reports ready only while the limiter
// has a token available. Serve waits for a token and answers 429 when the
// context ends first. Clones share the limiter.
func RateLimit(inner Service, limiter *rate.Limiter) Service {
	return &rateLimitedService{inner: inner, limiter: limiter}
}

func (s *rateLimitedService) Ready() bool {
	if s.limiter.Limit() == rate.Inf {
		return s.inner.Ready()
	}
	return s.limiter.Tokens() >= 1 && s.inner.Ready()
}

func (s *rateLimitedService) Serve(ctx context.Context, req *http.Request) *http.Response {
	if err := s.limiter.Wait(ctx); err != nil {
		logrus.WithFields(logrus.Fields{
			"method": req.Method,
			"path":   req.URL.Path,
			"error":  err.Error(),
		}).Warn("Rate limit exceeded")
		return StatusResponse(req, http.StatusTooManyRequests)
	}
	return s.inner.Serve(ctx, req)
}

func (s *rateLimitedService) Clone() Service {
	return &rateLimitedService{inner: s.inner.Clone(), limiter: s.limiter}
}
