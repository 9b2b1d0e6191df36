// Package remote defines the failure taxonomy shared by remote data sources.
package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the category of a remote failure.
type Kind string

const (
	// KindConnectivity covers DNS, refused connections, resets and timeouts.
	KindConnectivity Kind = "connectivity"
	// KindProtocol covers HTTP error statuses and payloads the API flags as errors.
	KindProtocol Kind = "protocol"
)

// Error is a structured failure returned by a remote source.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Connectivity wraps a transport-level failure.
func Connectivity(cause error) *Error {
	return &Error{Kind: KindConnectivity, Message: "network request failed", Cause: cause}
}

// Protocol reports an API-level failure. statusCode is 0 when the HTTP exchange succeeded
// but the body signalled an error.
func Protocol(statusCode int, message string) *Error {
	return &Error{Kind: KindProtocol, StatusCode: statusCode, Message: message}
}

// FromStatus classifies a non-2xx HTTP status.
func FromStatus(statusCode int) *Error {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return Protocol(statusCode, "rate limit exceeded")
	case statusCode >= 500:
		return Protocol(statusCode, "server returned an error")
	default:
		return Protocol(statusCode, fmt.Sprintf("client error: HTTP %d", statusCode))
	}
}

// IsConnectivity reports whether err is, or wraps, a connectivity failure.
func IsConnectivity(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == KindConnectivity
}

// IsProtocol reports whether err is, or wraps, a protocol failure.
func IsProtocol(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == KindProtocol
}
