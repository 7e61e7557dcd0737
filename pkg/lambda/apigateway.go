package lambda

import (
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// FromAPIGatewayProxyRequest normalizes an API Gateway REST (v1) event.
// The URI keeps the stage-prefixed request context path; the raw path is the
// resource path the application routes on. The platform delivers the query as
// a map, so its original order is lost and the rebuilt query is sorted by key;
// RequestContext.QueryParameters carries the values as delivered.
func FromAPIGatewayProxyRequest(event events.APIGatewayProxyRequest, defaultScheme string) (Request, error) {
	header := mergeHeaders(event.Headers, event.MultiValueHeaders)
	query := mergeQuery(event.QueryStringParameters, event.MultiValueQueryStringParameters)

	host := header.Get("Host")
	if host == "" {
		host = event.RequestContext.DomainName
	}

	path := event.RequestContext.Path
	if path == "" {
		path = event.Path
	}

	u, err := buildURL(requestScheme(header, defaultScheme), host, path, query.Encode())
	if err != nil {
		return Request{}, err
	}

	body, err := decodeBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		return Request{}, err
	}

	method := event.HTTPMethod
	if method == "" {
		method = event.RequestContext.HTTPMethod
	}

	return Request{
		Method:  method,
		URL:     u,
		Header:  header,
		Body:    body,
		RawPath: event.Path,
		Context: RequestContext{
			EventSource:     EventSourceAPIGatewayV1,
			RequestID:       event.RequestContext.RequestID,
			Stage:           event.RequestContext.Stage,
			DomainName:      event.RequestContext.DomainName,
			SourceIP:        event.RequestContext.Identity.SourceIP,
			UserAgent:       event.RequestContext.Identity.UserAgent,
			PathParameters:  event.PathParameters,
			StageVariables:  event.StageVariables,
			QueryParameters: query,
			Raw:             event,
		},
	}, nil
}

// ToAPIGatewayProxyResponse renders a response for an API Gateway REST (v1) event
func ToAPIGatewayProxyResponse(resp Response) events.APIGatewayProxyResponse {
	body, isBase64 := encodeBody(resp.Body)
	return events.APIGatewayProxyResponse{
		StatusCode:        resp.StatusCode,
		Headers:           singleValueHeaders(resp.Header),
		MultiValueHeaders: multiValueHeaders(resp.Header),
		Body:              body,
		IsBase64Encoded:   isBase64,
	}
}

// FromAPIGatewayV2HTTPRequest normalizes an API Gateway HTTP API (v2) event
func FromAPIGatewayV2HTTPRequest(event events.APIGatewayV2HTTPRequest, defaultScheme string) (Request, error) {
	header := mergeHeaders(event.Headers, nil)
	if len(event.Cookies) > 0 {
		header.Set("Cookie", strings.Join(event.Cookies, "; "))
	}

	host := header.Get("Host")
	if host == "" {
		host = event.RequestContext.DomainName
	}

	path := event.RequestContext.HTTP.Path
	if path == "" {
		path = event.RawPath
	}

	u, err := buildURL(requestScheme(header, defaultScheme), host, path, event.RawQueryString)
	if err != nil {
		return Request{}, err
	}

	body, err := decodeBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		return Request{}, err
	}

	return Request{
		Method:  event.RequestContext.HTTP.Method,
		URL:     u,
		Header:  header,
		Body:    body,
		RawPath: event.RawPath,
		Context: RequestContext{
			EventSource:     EventSourceAPIGatewayV2,
			RequestID:       event.RequestContext.RequestID,
			Stage:           event.RequestContext.Stage,
			DomainName:      event.RequestContext.DomainName,
			SourceIP:        event.RequestContext.HTTP.SourceIP,
			UserAgent:       event.RequestContext.HTTP.UserAgent,
			PathParameters:  event.PathParameters,
			StageVariables:  event.StageVariables,
			QueryParameters: u.Query(),
			Raw:             event,
		},
	}, nil
}

// ToAPIGatewayV2HTTPResponse renders a response for an API Gateway HTTP API
// (v2) event. Set-Cookie values travel in Cookies, other repeated headers are
// comma-joined.
func ToAPIGatewayV2HTTPResponse(resp Response) events.APIGatewayV2HTTPResponse {
	body, isBase64 := encodeBody(resp.Body)

	var headers map[string]string
	var cookies []string
	for key, values := range resp.Header {
		if http.CanonicalHeaderKey(key) == "Set-Cookie" {
			cookies = append(cookies, values...)
			continue
		}
		if headers == nil {
			headers = make(map[string]string, len(resp.Header))
		}
		headers[key] = strings.Join(values, ",")
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode:      resp.StatusCode,
		Headers:         headers,
		Body:            body,
		IsBase64Encoded: isBase64,
		Cookies:         cookies,
	}
}
