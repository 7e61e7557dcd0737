package lambda

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// ToHTTPRequest converts a platform request into an HTTP request for the
// wrapped service. The platform request context is attached to the request
// context untouched.
func ToHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	logrus.WithFields(logrus.Fields{
		"method":       req.Method,
		"event_source": req.Context.EventSource,
		"request_id":   req.Context.RequestID,
	}).Debug("Converting Lambda event to HTTP request")

	if req.Method == "" {
		return nil, NewConversionError("request", ErrInvalidMethod)
	}
	if req.URL == nil {
		return nil, NewConversionError("request", ErrMissingAuthority)
	}

	uri, err := ReconcileURI(req.URL, req.RawPath)
	if err != nil {
		return nil, err
	}

	var body io.ReadCloser = http.NoBody
	switch req.Body.Kind {
	case BodyText:
		body = io.NopCloser(strings.NewReader(req.Body.Text))
	case BodyBinary:
		body = io.NopCloser(bytes.NewReader(req.Body.Data))
	}

	header := req.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}

	httpReq := &http.Request{
		Method:        req.Method,
		URL:           uri,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          body,
		ContentLength: int64(req.Body.Len()),
		Host:          uri.Host,
		RequestURI:    uri.RequestURI(),
		RemoteAddr:    req.Context.SourceIP,
	}
	httpReq = httpReq.WithContext(NewContext(ctx, req.Context))

	logrus.WithFields(logrus.Fields{
		"method":      httpReq.Method,
		"request_uri": httpReq.RequestURI,
		"body_kind":   req.Body.Kind.String(),
	}).Debug("HTTP request converted successfully")

	return httpReq, nil
}
