package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// APIError wraps a failed call to the provider API
type APIError struct {
	Operation string
	Cause     error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Cause)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// IsTransient reports whether err is worth retrying later:
// rate limiting, unavailability, timeouts and aborted calls.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}

	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	switch st.Code() {
	case codes.ResourceExhausted, codes.Unavailable, codes.DeadlineExceeded, codes.Aborted, codes.Internal:
		return true
	default:
		return false
	}
}
