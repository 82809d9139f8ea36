package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/shortlister/internal/shortlist"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validation *ErrValidation
	if errors.As(err, &validation) {
		return http.StatusBadRequest
	}

	var rankErr *shortlist.Error
	if !errors.As(err, &rankErr) {
		return http.StatusInternalServerError
	}
	switch {
	case rankErr.Kind == shortlist.KindValidation:
		return http.StatusBadRequest
	case rankErr.Kind == shortlist.KindNotFound:
		return http.StatusNotFound
	case rankErr.Retryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the error text safe to return to clients
func publicMessage(err error, status int) string {
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		return "internal server error"
	}
	var rankErr *shortlist.Error
	if errors.As(err, &rankErr) {
		return rankErr.Message
	}
	return err.Error()
}
