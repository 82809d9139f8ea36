package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/shortlister/internal/shortlist"
	"github.com/stretchr/testify/assert"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "limit", Message: "must be a non-negative integer"}
	assert.Equal(t, "validation error: limit - must be a non-negative integer", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &shortlist.Error{Kind: shortlist.KindValidation}, http.StatusBadRequest},
		{"not found", &shortlist.Error{Kind: shortlist.KindNotFound}, http.StatusNotFound},
		{"retryable upstream", &shortlist.Error{Kind: shortlist.KindUpstreamUnavailable, Retryable: true}, http.StatusServiceUnavailable},
		{"malformed upstream", &shortlist.Error{Kind: shortlist.KindMalformedUpstream}, http.StatusInternalServerError},
		{"internal", &shortlist.Error{Kind: shortlist.KindInternal}, http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("outer: %w", &shortlist.Error{Kind: shortlist.KindNotFound}), http.StatusNotFound},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage_HidesInternalDetails(t *testing.T) {
	err := &shortlist.Error{Kind: shortlist.KindInternal, Message: "failed to query applicants", Cause: errors.New("dsn leaked")}
	assert.Equal(t, "internal server error", publicMessage(err, http.StatusInternalServerError))

	notFound := &shortlist.Error{Kind: shortlist.KindNotFound, Message: "job not found: j1"}
	assert.Equal(t, "job not found: j1", publicMessage(notFound, http.StatusNotFound))
}
