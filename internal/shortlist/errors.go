package shortlist

import (
	"errors"
	"fmt"
)

// Kind classifies a ranking failure
type Kind int

// Failure kinds
const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUpstreamUnavailable
	KindMalformedUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindMalformedUpstream:
		return "malformed_upstream"
	default:
		return "internal"
	}
}

// Stage names a pipeline step
type Stage string

// Pipeline stages
const (
	StageValidate Stage = "validate"
	StageFetch    Stage = "fetch"
	StageEmbed    Stage = "embed"
	StageScore    Stage = "score"
)

// Error is a failed ranking request
type Error struct {
	Kind      Kind
	Stage     Stage
	Message   string
	Cause     error
	Retryable bool
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed (%s): %s: %v", e.Stage, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s failed (%s): %s", e.Stage, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the Kind of err, KindInternal when err is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsRetryable reports whether the request may succeed if repeated later
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}
