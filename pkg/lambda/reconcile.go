package lambda

import (
	"net/url"

	"github.com/sirupsen/logrus"
)

// ReconcileURI returns the URI the application should see. Platforms that
// prefix the path with a deployment stage supply the real path as rawPath;
// when it differs from the URI path it replaces it, keeping the query string,
// scheme and authority of the original. rawPath is compared in its escaped
// form, the way the platform delivers it.
func ReconcileURI(original *url.URL, rawPath string) (*url.URL, error) {
	if rawPath == "" || rawPath == original.EscapedPath() || rawPath == original.Path {
		return original, nil
	}

	if original.Scheme == "" || original.Host == "" {
		return nil, NewConversionError("reconcile", ErrMissingAuthority)
	}

	logrus.WithFields(logrus.Fields{
		"uri_path": original.Path,
		"raw_path": rawPath,
	}).Debug("Recreating URI from raw HTTP path")

	pathAndQuery := rawPath
	if original.RawQuery != "" {
		pathAndQuery += "?" + original.RawQuery
	}

	ref, err := url.ParseRequestURI(pathAndQuery)
	if err != nil {
		return nil, NewConversionError("reconcile", err)
	}

	return &url.URL{
		Scheme:   original.Scheme,
		User:     original.User,
		Host:     original.Host,
		Path:     ref.Path,
		RawPath:  ref.RawPath,
		RawQuery: ref.RawQuery,
	}, nil
}
