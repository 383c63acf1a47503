package api

import (
	"errors"
	"fmt"
)

// TransportError wraps a failure of the underlying HTTP call (DNS, TLS,
// connection reset, transport-level timeout). Never retried here; higher
// layers decide what to do with it.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError indicates a response body that is not valid JSON or does not
// match the expected resource shape, including enum values outside the
// documented set. The remote value set is authoritative, so schema drift
// surfaces here instead of being defaulted away.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unexpected API response format: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// MissingFieldError indicates an otherwise well-formed JSON response lacking
// an expected top-level field (apiKey, accessToken).
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("response missing expected field %q", e.Field)
}

// OperationFailedError indicates a mutating operation that came back with a
// non-success HTTP status.
type OperationFailedError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *OperationFailedError) Error() string {
	return fmt.Sprintf("%s %s failed (status %d): %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// IsTransportError checks if the error is a transport-level failure.
func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// IsDecodeError checks if the error is a response decoding failure.
func IsDecodeError(err error) bool {
	var e *DecodeError
	return errors.As(err, &e)
}

// IsMissingFieldError checks if the error is a missing response field.
func IsMissingFieldError(err error) bool {
	var e *MissingFieldError
	return errors.As(err, &e)
}

// IsOperationFailedError checks if the error is a failed mutating operation.
func IsOperationFailedError(err error) bool {
	var e *OperationFailedError
	return errors.As(err, &e)
}

// IsAuthError reports whether the error looks like a rejected or expired API
// key. Callers use this to decide when to exchange credentials again.
func IsAuthError(err error) bool {
	var opErr *OperationFailedError
	if errors.As(err, &opErr) {
		return opErr.StatusCode == 401 || opErr.StatusCode == 403
	}
	return false
}

// IsNotFoundError checks if the error indicates a resource was not found.
func IsNotFoundError(err error) bool {
	var opErr *OperationFailedError
	if errors.As(err, &opErr) {
		return opErr.StatusCode == 404
	}
	return false
}
