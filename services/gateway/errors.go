package gateway

import (
	"errors"
	"fmt"
)

// UnreachableMessage is shown to users when the backend cannot be reached.
const UnreachableMessage = "The analysis server is unreachable. Please try again later."

// NetworkError reports a transport failure: the request never produced an
// HTTP response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: backend unreachable: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a non-2xx response. Message holds the backend's "error" field
// verbatim and is empty when the body carried none.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// PartialDataError is a successful response that lacks a field the caller
// needs.
type PartialDataError struct {
	Op    string
	Field string
}

func (e *PartialDataError) Error() string {
	return fmt.Sprintf("%s: response is missing %q", e.Op, e.Field)
}

// UserMessage returns the text a user should see for err, or fallback when
// the error carries nothing worth showing verbatim.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return UnreachableMessage
	}
	return fallback
}
