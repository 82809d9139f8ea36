package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", status.Error(codes.ResourceExhausted, "quota"), true},
		{"unavailable", status.Error(codes.Unavailable, "down"), true},
		{"deadline code", status.Error(codes.DeadlineExceeded, "slow"), true},
		{"invalid argument", status.Error(codes.InvalidArgument, "bad"), false},
		{"permission denied", status.Error(codes.PermissionDenied, "key"), false},
		{"context deadline", context.DeadlineExceeded, true},
		{"context canceled", context.Canceled, false},
		{"plain error", errors.New("boom"), false},
		{"http 429", &googleapi.Error{Code: 429}, true},
		{"http 503", &googleapi.Error{Code: 503}, true},
		{"http 400", &googleapi.Error{Code: 400}, false},
		{"wrapped api error", &APIError{Operation: "embed content", Cause: status.Error(codes.Unavailable, "down")}, true},
		{"wrapped with fmt", fmt.Errorf("call: %w", context.DeadlineExceeded), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := &APIError{Operation: "generate content", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to generate content: quota exceeded", err.Error())
}
