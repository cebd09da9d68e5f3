package identity

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ConnectivityError reports that the backend could not be reached at the
// transport level. Callers distinguish it from application errors to show a
// dedicated connectivity message; it is never retried here.
type ConnectivityError struct {
	err     error
	timeout bool
}

func (e *ConnectivityError) Error() string {
	if e.timeout {
		return "request timed out: " + e.err.Error()
	}

	return "connection failed: " + e.err.Error()
}

func (e *ConnectivityError) Unwrap() error {
	return e.err
}

// Timeout reports whether the failure was a timeout rather than an
// unreachable host.
func (e *ConnectivityError) Timeout() bool {
	return e.timeout
}

// IsConnectivity reports whether err, or anything it wraps, is a transport
// failure.
func IsConnectivity(err error) bool {
	var ce *ConnectivityError

	return errors.As(err, &ce)
}

// ServerError carries the backend's parsed error payload verbatim, for the
// caller to interpret. It covers every non-2xx status except 401, which is
// classified as an unauthorized message error instead.
type ServerError struct {
	StatusCode int
	Message    string
	Data       json.RawMessage
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return http.StatusText(e.StatusCode)
}

// AsServerError extracts a ServerError from err when one is present.
func AsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}

	return nil, false
}
