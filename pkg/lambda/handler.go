package lambda

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

// errorBody is the payload returned when an event cannot be converted
type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// conversionFailure turns a conversion error into a 500 platform response so
// the invocation loop keeps running
func conversionFailure(requestID string, err error) Response {
	logrus.WithFields(logrus.Fields{
		"request_id": requestID,
		"error":      err.Error(),
	}).Error("Lambda event conversion failed")

	payload, _ := json.Marshal(errorBody{
		Error:     "Internal server error",
		RequestID: requestID,
	})

	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	return Response{
		StatusCode: http.StatusInternalServerError,
		Header:     header,
		Body:       TextBody(string(payload)),
	}
}

func (w *Wrapper) serve(ctx context.Context, req Request, err error, requestID string) Response {
	if err != nil {
		return conversionFailure(requestID, err)
	}
	resp, err := w.Call(ctx, req)
	if err != nil {
		return conversionFailure(requestID, err)
	}
	return resp
}

// HandleAPIGatewayProxy handles API Gateway REST (v1) events
func (w *Wrapper) HandleAPIGatewayProxy(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req, err := FromAPIGatewayProxyRequest(event, w.scheme)
	resp := w.serve(ctx, req, err, event.RequestContext.RequestID)
	return ToAPIGatewayProxyResponse(resp), nil
}

// HandleAPIGatewayV2HTTP handles API Gateway HTTP API (v2) events
func (w *Wrapper) HandleAPIGatewayV2HTTP(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	req, err := FromAPIGatewayV2HTTPRequest(event, w.scheme)
	resp := w.serve(ctx, req, err, event.RequestContext.RequestID)
	return ToAPIGatewayV2HTTPResponse(resp), nil
}

// HandleALBTargetGroup handles Application Load Balancer events
func (w *Wrapper) HandleALBTargetGroup(ctx context.Context, event events.ALBTargetGroupRequest) (events.ALBTargetGroupResponse, error) {
	req, err := FromALBTargetGroupRequest(event, w.scheme)
	resp := w.serve(ctx, req, err, albTraceID(event))
	return ToALBTargetGroupResponse(resp, len(event.MultiValueHeaders) > 0), nil
}

// Handler returns the handler function for the given event source, suitable
// for lambda.Start
func (w *Wrapper) Handler(source EventSource) (interface{}, error) {
	switch source {
	case EventSourceAPIGatewayV1:
		return w.HandleAPIGatewayProxy, nil
	case EventSourceAPIGatewayV2:
		return w.HandleAPIGatewayV2HTTP, nil
	case EventSourceALB:
		return w.HandleALBTargetGroup, nil
	default:
		return nil, ErrUnknownEventSource
	}
}

// albTraceID reads the load balancer trace ID straight from the event so it
// is available even when normalization fails
func albTraceID(event events.ALBTargetGroupRequest) string {
	for key, values := range event.MultiValueHeaders {
		if http.CanonicalHeaderKey(key) == "X-Amzn-Trace-Id" && len(values) > 0 {
			return values[len(values)-1]
		}
	}
	for key, value := range event.Headers {
		if http.CanonicalHeaderKey(key) == "X-Amzn-Trace-Id" {
			return value
		}
	}
	return ""
}
