package types

import (
	"fmt"
)

// ErrorCode categorizes session-level faults.
type ErrorCode string

const (
	// ErrDeviceUnavailable means audio capture could not start. It is
	// user-facing and not retryable without a permission change.
	ErrDeviceUnavailable ErrorCode = "device_unavailable"
	// ErrSessionNotFound means an operation was requested with no active
	// session. Tolerated as a no-op for audio chunks; surfaced as an
	// error frame for explicit operations.
	ErrSessionNotFound ErrorCode = "session_not_found"
	// ErrTranscriptionRejected means the transcript was filtered as a
	// likely recognizer artifact. Routed to a fallback, not a fault.
	ErrTranscriptionRejected ErrorCode = "transcription_rejected"
	// ErrGenerationFailure means the text-generation service failed.
	ErrGenerationFailure ErrorCode = "generation_failure"
	// ErrSynthesisFailure means the speech-synthesis service failed.
	ErrSynthesisFailure ErrorCode = "synthesis_failure"
	// ErrProtocol means an inbound frame was malformed. Reported via an
	// error frame; the connection stays open.
	ErrProtocol ErrorCode = "protocol_error"
)

// Error is a categorized session fault. Nothing carrying this type is
// fatal to the process; per-connection faults are isolated.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError creates a categorized error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError creates a categorized error around an underlying cause.
func WrapError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf returns the error code carried by err, or "" if err is not a
// categorized error.
func CodeOf(err error) ErrorCode {
	var e *Error
	for err != nil {
		if te, ok := err.(*Error); ok {
			e = te
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if e == nil {
		return ""
	}
	return e.Code
}
