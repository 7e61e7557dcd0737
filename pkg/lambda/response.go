package lambda

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// DefaultBinaryMediaTypes lists media types always returned as binary
var DefaultBinaryMediaTypes = []string{
	"application/octet-stream",
	"application/pdf",
	"application/zip",
	"application/gzip",
	"image/*",
	"audio/*",
	"video/*",
	"font/*",
}

// BodyPolicy decides whether a response payload is returned to the platform
// as text or binary
type BodyPolicy struct {
	BinaryMediaTypes []string
}

// DefaultBodyPolicy returns a policy using DefaultBinaryMediaTypes
func DefaultBodyPolicy() BodyPolicy {
	return BodyPolicy{BinaryMediaTypes: DefaultBinaryMediaTypes}
}

// Classify wraps data in the body variant the platform should receive
func (p BodyPolicy) Classify(header http.Header, data []byte) Body {
	if len(data) == 0 {
		return EmptyBody()
	}
	if header.Get("Content-Encoding") != "" || p.isBinaryMediaType(header.Get("Content-Type")) || !utf8.Valid(data) {
		return BinaryBody(data)
	}
	return TextBody(string(data))
}

func (p BodyPolicy) isBinaryMediaType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.Split(contentType, ";")[0])
	}
	mediaType = strings.ToLower(mediaType)

	for _, pattern := range p.BinaryMediaTypes {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern == "*/*" || pattern == mediaType {
			return true
		}
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok && strings.HasPrefix(mediaType, prefix+"/") {
			return true
		}
	}
	return false
}

// ToEventResponse drains the HTTP response produced by the wrapped service
// and builds the platform response envelope from it. The response body is
// consumed and closed.
func ToEventResponse(ctx context.Context, resp *http.Response, policy BodyPolicy) (Response, error) {
	header := resp.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}

	var data []byte
	if resp.Body != nil {
		defer resp.Body.Close()

		var buf bytes.Buffer
		if _, err := io.Copy(&buf, &contextReader{ctx: ctx, r: resp.Body}); err != nil {
			return Response{}, NewConversionError("drain", err)
		}
		data = buf.Bytes()
	}

	body := policy.Classify(header, data)

	logrus.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"body_kind":   body.Kind.String(),
		"body_size":   body.Len(),
	}).Debug("HTTP response converted successfully")

	return Response{
		StatusCode: resp.StatusCode,
		Header:     header,
		Body:       body,
	}, nil
}

// contextReader stops reading once its context is done
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *contextReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
