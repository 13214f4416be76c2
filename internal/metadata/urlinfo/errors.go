package urlinfo

import (
	"errors"
	"fmt"
)

// Sentinel errors for metadata service calls.
var (
	ErrBadRequest   = errors.New("urlinfo: bad request")
	ErrRateLimited  = errors.New("urlinfo: rate limited by server")
	ErrServer       = errors.New("urlinfo: server error")
	ErrTooLarge     = errors.New("urlinfo: response too large")
	ErrServiceError = errors.New("urlinfo: service reported an error")
)

// StatusError is returned for non-2xx responses that map to no sentinel.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("urlinfo: unexpected status %d %s", e.StatusCode, e.Status)
}

// ReportedError wraps the error text the service put in its response body.
type ReportedError struct {
	Message string
}

func (e *ReportedError) Error() string {
	return "urlinfo: " + e.Message
}

// Unwrap lets callers match ErrServiceError.
func (e *ReportedError) Unwrap() error { return ErrServiceError }
