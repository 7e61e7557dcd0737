package lambda

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// EventSource names the platform integration delivering the events
type EventSource string

const (
	EventSourceAPIGatewayV1 EventSource = "apigw-v1"
	EventSourceAPIGatewayV2 EventSource = "apigw-v2"
	EventSourceALB          EventSource = "alb"
)

// ParseEventSource validates an event source name
func ParseEventSource(s string) (EventSource, error) {
	switch source := EventSource(strings.ToLower(strings.TrimSpace(s))); source {
	case EventSourceAPIGatewayV1, EventSourceAPIGatewayV2, EventSourceALB:
		return source, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEventSource, s)
	}
}

// decodeBody maps a platform body string onto a Body variant
func decodeBody(body string, isBase64 bool) (Body, error) {
	if body == "" {
		return EmptyBody(), nil
	}
	if !isBase64 {
		return TextBody(body), nil
	}

	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return Body{}, NewConversionError("decode", fmt.Errorf("%w: %v", ErrInvalidBody, err))
	}
	return BinaryBody(data), nil
}

// encodeBody maps a Body variant onto the platform's body string
func encodeBody(body Body) (string, bool) {
	switch body.Kind {
	case BodyText:
		return body.Text, false
	case BodyBinary:
		return base64.StdEncoding.EncodeToString(body.Data), true
	default:
		return "", false
	}
}

// mergeHeaders builds a header multimap, preferring the multi-value form
func mergeHeaders(single map[string]string, multi map[string][]string) http.Header {
	header := make(http.Header)
	if len(multi) > 0 {
		for key, values := range multi {
			for _, value := range values {
				header.Add(key, value)
			}
		}
		return header
	}
	for key, value := range single {
		header.Add(key, value)
	}
	return header
}

// mergeQuery builds a query multimap, preferring the multi-value form
func mergeQuery(single map[string]string, multi map[string][]string) url.Values {
	query := make(url.Values)
	if len(multi) > 0 {
		for key, values := range multi {
			query[key] = append([]string(nil), values...)
		}
		return query
	}
	for key, value := range single {
		query.Set(key, value)
	}
	return query
}

// requestScheme resolves the scheme the client used
func requestScheme(header http.Header, defaultScheme string) string {
	if proto := header.Get("X-Forwarded-Proto"); proto != "" {
		return strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	if defaultScheme == "" {
		return "https"
	}
	return defaultScheme
}

// buildURL assembles the request URI. Without a host the result is relative,
// which ReconcileURI rejects whenever a path rewrite is needed.
func buildURL(scheme, host, path, rawQuery string) (*url.URL, error) {
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	u, err := url.ParseRequestURI(path)
	if err != nil {
		return nil, NewConversionError("uri", err)
	}
	u.RawQuery = rawQuery
	if host != "" {
		u.Scheme = scheme
		u.Host = host
	}
	return u, nil
}

// singleValueHeaders flattens a header multimap keeping the last value
func singleValueHeaders(header http.Header) map[string]string {
	if len(header) == 0 {
		return nil
	}
	out := make(map[string]string, len(header))
	for key, values := range header {
		if len(values) > 0 {
			out[key] = values[len(values)-1]
		}
	}
	return out
}

// multiValueHeaders copies a header multimap into the platform shape
func multiValueHeaders(header http.Header) map[string][]string {
	if len(header) == 0 {
		return nil
	}
	out := make(map[string][]string, len(header))
	for key, values := range header {
		out[key] = append([]string(nil), values...)
	}
	return out
}

// rawQueryFromEncoded joins query values that the platform delivers already
// percent-encoded, keys in sorted order
func rawQueryFromEncoded(query url.Values) string {
	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		for _, value := range query[key] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(value)
		}
	}
	return b.String()
}
