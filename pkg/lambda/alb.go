package lambda

import (
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// FromALBTargetGroupRequest normalizes an Application Load Balancer event.
// ALB forwards query values exactly as the client sent them, so they are
// joined without re-encoding.
func FromALBTargetGroupRequest(event events.ALBTargetGroupRequest, defaultScheme string) (Request, error) {
	header := mergeHeaders(event.Headers, event.MultiValueHeaders)
	query := mergeQuery(event.QueryStringParameters, event.MultiValueQueryStringParameters)

	u, err := buildURL(requestScheme(header, defaultScheme), header.Get("Host"), event.Path, rawQueryFromEncoded(query))
	if err != nil {
		return Request{}, err
	}

	body, err := decodeBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		return Request{}, err
	}

	return Request{
		Method:  event.HTTPMethod,
		URL:     u,
		Header:  header,
		Body:    body,
		RawPath: event.Path,
		Context: RequestContext{
			EventSource:     EventSourceALB,
			RequestID:       header.Get("X-Amzn-Trace-Id"),
			SourceIP:        header.Get("X-Forwarded-For"),
			UserAgent:       header.Get("User-Agent"),
			QueryParameters: query,
			Raw:             event,
		},
	}, nil
}

// ToALBTargetGroupResponse renders a response for an ALB event. The load
// balancer only accepts multi-value headers when the target group has them
// enabled, which is signalled by the request carrying them.
func ToALBTargetGroupResponse(resp Response, multiValue bool) events.ALBTargetGroupResponse {
	body, isBase64 := encodeBody(resp.Body)
	out := events.ALBTargetGroupResponse{
		StatusCode:        resp.StatusCode,
		StatusDescription: fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		Body:              body,
		IsBase64Encoded:   isBase64,
	}
	if multiValue {
		out.MultiValueHeaders = multiValueHeaders(resp.Header)
	} else {
		out.Headers = singleValueHeaders(resp.Header)
	}
	return out
}
