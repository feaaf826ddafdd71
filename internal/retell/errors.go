package retell

import (
	"errors"
	"fmt"
	"net/http"
)

// UpstreamError means the telephony API answered with a non-2xx status.
// It is never retried; the status and message are surfaced to the caller as-is.
type UpstreamError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream returned %d: %s", e.Operation, e.StatusCode, e.Message)
}

// TransportError means the upstream could not be reached or its response
// could not be read or parsed
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrInvalidJSON is wrapped by a TransportError when a 2xx body is not valid JSON
var ErrInvalidJSON = errors.New("upstream response is not valid JSON")

// upstreamMessage is the upstream body, or a synthesized message when it is empty
func upstreamMessage(status int, body []byte) string {
	if len(body) == 0 {
		return fmt.Sprintf("Upstream error (%d)", status)
	}
	return string(body)
}

// Describe maps an error from this package to the HTTP status and message
// shown to callers. Anything that is not an UpstreamError is an internal error.
func Describe(err error) (int, string) {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr.StatusCode, upErr.Message
	}
	return http.StatusInternalServerError, "Internal error"
}
