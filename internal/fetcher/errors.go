package fetcher

import (
	"errors"
	"fmt"
)

// Fetch failure sentinels. A *FetchError matches exactly one of them with errors.Is.
var (
	// ErrForbidden is matched by fetches answered with 403.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized is matched by fetches answered with 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrHTTPStatus is matched by fetches answered with any other status >= 400.
	ErrHTTPStatus = errors.New("http error status")

	// ErrConnection is matched by fetches that got no response at all.
	ErrConnection = errors.New("connection error")

	// ErrInvalidProxyAddress is returned when the SOCKS5 proxy address is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)

// FailureKind classifies why a fetch failed.
type FailureKind int

const (
	// FailureConnection means no HTTP response was received.
	FailureConnection FailureKind = iota
	// FailureForbidden means the server answered 403.
	FailureForbidden
	// FailureUnauthorized means the server answered 401.
	FailureUnauthorized
	// FailureHTTPStatus means the server answered another error status.
	FailureHTTPStatus
)

// String returns a short name for the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureConnection:
		return "connection"
	case FailureForbidden:
		return "forbidden"
	case FailureUnauthorized:
		return "unauthorized"
	case FailureHTTPStatus:
		return "http_status"
	default:
		return "unknown"
	}
}

func (k FailureKind) sentinel() error {
	switch k {
	case FailureForbidden:
		return ErrForbidden
	case FailureUnauthorized:
		return ErrUnauthorized
	case FailureHTTPStatus:
		return ErrHTTPStatus
	default:
		return ErrConnection
	}
}

// FetchError describes a failed fetch.
type FetchError struct {
	// Kind classifies the failure.
	Kind FailureKind

	// StatusCode is the HTTP status for every kind except FailureConnection.
	StatusCode int

	// Err is the underlying transport error for FailureConnection.
	Err error
}

// Error implements error.
func (e *FetchError) Error() string {
	if e.Kind == FailureConnection {
		return fmt.Sprintf("%s: %v", ErrConnection, e.Err)
	}
	return fmt.Sprintf("%s: status %d", e.Kind.sentinel(), e.StatusCode)
}

// Unwrap exposes both the kind sentinel and the underlying error.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// Reason returns the user-facing explanation stored on the report.
func (e *FetchError) Reason() string {
	switch e.Kind {
	case FailureForbidden:
		return "Site blocked automated access (403 Forbidden)"
	case FailureUnauthorized:
		return "Site requires authentication (401)"
	case FailureHTTPStatus:
		return fmt.Sprintf("HTTP error: %d", e.StatusCode)
	default:
		return fmt.Sprintf("Connection error: %v", e.Err)
	}
}

// newStatusError classifies an HTTP error status.
func newStatusError(status int) *FetchError {
	kind := FailureHTTPStatus
	switch status {
	case 403:
		kind = FailureForbidden
	case 401:
		kind = FailureUnauthorized
	}
	return &FetchError{Kind: kind, StatusCode: status}
}
