package lambda

import (
	"context"
	"net/http"
	"net/url"
)

// BodyKind identifies how an event body is encoded
type BodyKind int

const (
	BodyEmpty BodyKind = iota
	BodyText
	BodyBinary
)

func (k BodyKind) String() string {
	switch k {
	case BodyText:
		return "text"
	case BodyBinary:
		return "binary"
	default:
		return "empty"
	}
}

// Body is the payload carried by a platform event
type Body struct {
	Kind BodyKind
	Text string
	Data []byte
}

// EmptyBody returns a body with no content
func EmptyBody() Body {
	return Body{Kind: BodyEmpty}
}

// TextBody returns a UTF-8 text body
func TextBody(s string) Body {
	return Body{Kind: BodyText, Text: s}
}

// BinaryBody returns a body holding raw bytes
func BinaryBody(b []byte) Body {
	return Body{Kind: BodyBinary, Data: b}
}

// Bytes returns the decoded payload regardless of the variant
func (b Body) Bytes() []byte {
	switch b.Kind {
	case BodyText:
		return []byte(b.Text)
	case BodyBinary:
		return b.Data
	default:
		return nil
	}
}

// Len returns the payload size in bytes
func (b Body) Len() int {
	switch b.Kind {
	case BodyText:
		return len(b.Text)
	case BodyBinary:
		return len(b.Data)
	default:
		return 0
	}
}

// Request represents an HTTP request delivered by the serverless platform.
// URL may carry a deployment stage prefix; RawPath is the application path
// supplied separately by the platform.
type Request struct {
	Method  string
	URL     *url.URL
	Header  http.Header
	Body    Body
	RawPath string
	Context RequestContext
}

// Response represents the response envelope handed back to the platform
type Response struct {
	StatusCode int
	Header     http.Header
	Body       Body
}

// RequestContext carries platform metadata that travels with the request
// without being interpreted by the adapter
type RequestContext struct {
	EventSource     EventSource
	RequestID       string
	Stage           string
	DomainName      string
	SourceIP        string
	UserAgent       string
	PathParameters  map[string]string
	StageVariables  map[string]string
	QueryParameters url.Values
	Raw             interface{}
}

type requestContextKey struct{}

// NewContext returns a copy of ctx carrying the platform request context
func NewContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// FromContext returns the platform request context stored in ctx, if any
func FromContext(ctx context.Context) (RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey{}).(RequestContext)
	return rc, ok
}
