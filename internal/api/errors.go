package api

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthenticated indicates the server did not confirm a session.
	ErrUnauthenticated = errors.New("no active session")

	// ErrUnavailable indicates the report server could not be reached.
	ErrUnavailable = errors.New("report server unavailable")
)

// StatusError is a non-200 response from the report server.
// Body is the plain-text error message the server sent, possibly empty.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if msg := strings.TrimSpace(e.Body); msg != "" {
		return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.Code, msg)
	}
	return fmt.Sprintf("%s returned status %d", e.Endpoint, e.Code)
}

func errorCode(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return "UNAUTHENTICATED"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("HTTP_%d", statusErr.Code)
	default:
		return "UNKNOWN"
	}
}
