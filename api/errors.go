package api

import (
	"fmt"
	"net/http"
)

// NetworkError covers transport failures and non-2xx responses without a
// structured message. Always recoverable: callers surface a notification and
// roll back any optimistic change.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("network error calling %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("network error calling %s", e.URL)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError is a structured 4xx whose message is shown to the user
// verbatim. Raised locally too, before a request is attempted, when input is
// known to be rejected.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// UnauthorizedError means the session is missing, expired or rejected.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	if e.Message == "" {
		return "unauthorized"
	}
	return e.Message
}

// ForbiddenError means the server refused the operation for this identity.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	if e.Message == "" {
		return "forbidden"
	}
	return e.Message
}

// NotFoundError means the entity no longer exists on the server.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "not found"
	}
	return e.Message
}

// classifyStatus maps a non-2xx response onto the error taxonomy. A 4xx
// without a message body gives the caller nothing to show, so it degrades to
// a NetworkError like any other unexplained failure.
func classifyStatus(url string, status int, message string) error {
	switch status {
	case http.StatusUnauthorized:
		return &UnauthorizedError{Message: message}
	case http.StatusForbidden:
		return &ForbiddenError{Message: message}
	case http.StatusNotFound:
		return &NotFoundError{Message: message}
	}
	if status >= 400 && status < 500 && message != "" {
		return &ValidationError{Message: message}
	}
	return &NetworkError{URL: url, Err: fmt.Errorf("unexpected status %d", status)}
}
