package lambda

import (
	"errors"
	"net/url"
	"testing"
)

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", raw, err)
	}
	return u
}

func TestReconcileURIIdentity(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		rawPath string
	}{
		{"EmptyRawPath", "https://example.com/prod/hello?name=me", ""},
		{"EqualRawPath", "https://example.com/my/path?a=1&a=2", "/my/path"},
		{"RelativeURIEmptyRawPath", "/prod/hello", ""},
		{"RelativeURIEqualRawPath", "/hello", "/hello"},
		{"EscapedEqualRawPath", "https://example.com/files/a%20b", "/files/a%20b"},
		{"RelativeEscapedEqualRawPath", "/files/a%20b", "/files/a%20b"},
		{"EscapedSlashEqualRawPath", "https://example.com/files/a%2Fb?x=1", "/files/a%2Fb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := mustParseURL(t, tt.uri)
			got, err := ReconcileURI(original, tt.rawPath)
			if err != nil {
				t.Fatalf("ReconcileURI failed: %v", err)
			}
			if got != original {
				t.Errorf("Expected the original URI to be returned, got %s", got)
			}
		})
	}
}

func TestReconcileURIRewrite(t *testing.T) {
	tests := []struct {
		name      string
		uri       string
		rawPath   string
		expected  string
		wantPath  string
		wantQuery string
	}{
		{
			name:      "StagePrefixWithQuery",
			uri:       "https://wt6mne2s9k.execute-api.us-west-2.amazonaws.com/prod/hello?name=me",
			rawPath:   "/hello",
			expected:  "https://wt6mne2s9k.execute-api.us-west-2.amazonaws.com/hello?name=me",
			wantPath:  "/hello",
			wantQuery: "name=me",
		},
		{
			name:     "NoQuery",
			uri:      "http://localhost:3000/dev/items/42",
			rawPath:  "/items/42",
			expected: "http://localhost:3000/items/42",
			wantPath: "/items/42",
		},
		{
			name:      "RepeatedQueryKeys",
			uri:       "https://id.example.com/stage/my/path?p=1&p=2&q=x",
			rawPath:   "/my/path",
			expected:  "https://id.example.com/my/path?p=1&p=2&q=x",
			wantPath:  "/my/path",
			wantQuery: "p=1&p=2&q=x",
		},
		{
			name:     "EscapedRawPath",
			uri:      "https://example.com/prod/files/a%2Fb",
			rawPath:  "/files/a%2Fb",
			expected: "https://example.com/files/a%2Fb",
			wantPath: "/files/a/b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := mustParseURL(t, tt.uri)
			got, err := ReconcileURI(original, tt.rawPath)
			if err != nil {
				t.Fatalf("ReconcileURI failed: %v", err)
			}

			if got.String() != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
			if got.Path != tt.wantPath {
				t.Errorf("Expected path %s, got %s", tt.wantPath, got.Path)
			}
			if got.RawQuery != tt.wantQuery {
				t.Errorf("Expected query %q, got %q", tt.wantQuery, got.RawQuery)
			}
			if got.Scheme != original.Scheme || got.Host != original.Host {
				t.Errorf("Expected scheme/host %s://%s, got %s://%s", original.Scheme, original.Host, got.Scheme, got.Host)
			}
		})
	}
}

func TestReconcileURIMissingAuthority(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{"NoSchemeOrHost", "/prod/hello?name=me"},
		{"NoHost", "https:///prod/hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReconcileURI(mustParseURL(t, tt.uri), "/hello")
			if err == nil {
				t.Fatal("Expected error for URI without authority")
			}
			if !errors.Is(err, ErrMissingAuthority) {
				t.Errorf("Expected ErrMissingAuthority, got %v", err)
			}
			if !IsConversionError(err) {
				t.Errorf("Expected a ConversionError, got %T", err)
			}
		})
	}
}

func TestReconcileURIInvalidRawPath(t *testing.T) {
	_, err := ReconcileURI(mustParseURL(t, "https://example.com/prod/hello"), "hello")
	if !IsConversionError(err) {
		t.Errorf("Expected a ConversionError for a relative raw path, got %v", err)
	}
}
