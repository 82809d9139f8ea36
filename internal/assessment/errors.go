// Package assessment decides the qualitative tier of an applicant's best project,
// either from stored data or through an LLM classifier with local fallback.
package assessment

import "fmt"

// ClassificationError represents a failed call to the project-level classifier
type ClassificationError struct {
	Message string
	Cause   error
}

func (e *ClassificationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("classification error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("classification error: %s", e.Message)
}

func (e *ClassificationError) Unwrap() error {
	return e.Cause
}

// MalformedResponseError represents a classifier answer outside the allowed levels
type MalformedResponseError struct {
	Response string
	Cause    error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed classifier response %q: %v", e.Response, e.Cause)
	}
	return fmt.Sprintf("malformed classifier response %q", e.Response)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}
