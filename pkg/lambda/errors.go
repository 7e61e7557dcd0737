package lambda

import (
	"errors"
	"fmt"
)

// Common conversion error types
var (
	ErrMissingAuthority   = errors.New("uri has no scheme or authority")
	ErrInvalidMethod      = errors.New("invalid request method")
	ErrInvalidBody        = errors.New("invalid request body")
	ErrUnknownEventSource = errors.New("unknown event source")
)

// ConversionError represents a failure to translate between platform events
// and HTTP messages
type ConversionError struct {
	Op  string // Conversion step that failed (e.g., "reconcile", "decode", "drain")
	Err error  // Underlying error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("lambda %s conversion failed: %v", e.Op, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// NewConversionError creates a new ConversionError
func NewConversionError(op string, err error) *ConversionError {
	return &ConversionError{
		Op:  op,
		Err: err,
	}
}

// IsConversionError returns true if the error came from event conversion
func IsConversionError(err error) bool {
	var convErr *ConversionError
	return errors.As(err, &convErr)
}
