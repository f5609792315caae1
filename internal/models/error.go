package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a gateway failure.
type ErrorCode string

const (
	// ErrInvalidInput marks a malformed or missing required request field.
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrConfiguration marks a missing credential or required override.
	ErrConfiguration ErrorCode = "CONFIGURATION"
	// ErrUnsupportedCapability marks a capability the active provider cannot
	// perform and for which no fallback is configured.
	ErrUnsupportedCapability ErrorCode = "UNSUPPORTED_CAPABILITY"
	// ErrUpstream marks a failure or unexpected shape from the remote provider.
	ErrUpstream ErrorCode = "UPSTREAM_ERROR"
)

// Error is the structured error carried across the gateway boundary.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"-"`
	Provider   string    `json:"provider,omitempty"`
	Cause      error     `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates an Error with the status implied by its code.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, HTTPStatus: statusFor(code)}
}

// WithCause attaches the underlying cause.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithProvider names the provider the error originated from.
func (e *Error) WithProvider(provider string) *Error {
	e.Provider = provider
	return e
}

// Status returns the HTTP status for the error, deriving one from the code
// when none was set explicitly.
func (e *Error) Status() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return statusFor(e.Code)
}

func statusFor(code ErrorCode) int {
	switch code {
	case ErrInvalidInput:
		return http.StatusBadRequest
	case ErrConfiguration:
		return http.StatusInternalServerError
	case ErrUnsupportedCapability:
		return http.StatusNotImplemented
	case ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf extracts the taxonomy code from err, or ErrUpstream for errors that
// escaped classification.
func CodeOf(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrUpstream
}
