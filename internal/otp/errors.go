package otp

import (
	"errors"
	"fmt"
)

var (
	// ErrEmailNotFound reports that the backend has no account for the
	// address the code was requested for.
	ErrEmailNotFound = errors.New("email not found")

	// ErrInvalidOrExpiredCode reports a rejected verification attempt. The
	// challenge stays open for another attempt.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")

	// ErrNoActiveChallenge reports a verify attempt before any code was
	// requested through this controller. Local state error; no request is
	// made.
	ErrNoActiveChallenge = errors.New("no active challenge to verify")
)

// TransportError wraps a connectivity failure: the request never produced an
// HTTP response.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network unavailable: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// ServerError carries a non-2xx backend response. Message holds the
// server-provided reason when one was present, otherwise a generic fallback
// with the HTTP status appended for support traceability.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string { return e.Message }
