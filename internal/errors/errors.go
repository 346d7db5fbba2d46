package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeUnauthorized indicates the upstream rejected the bearer credential (HTTP 401).
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeForbidden indicates the upstream denied access for the current role (HTTP 403).
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeUpstream indicates an upstream server failure (HTTP 5xx).
	ErrCodeUpstream ErrorCode = "upstream"
	// ErrCodeNetwork indicates no response was received from the upstream.
	ErrCodeNetwork ErrorCode = "network"
	// ErrCodeValidation indicates invalid input rejected before any upstream call.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeDomain indicates a structured upstream rejection (HTTP 400/422)
	// whose message is passed through verbatim to the caller.
	ErrCodeDomain ErrorCode = "domain"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeInternal indicates an internal gateway error.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Details carries upstream-provided messages verbatim (optional, domain errors)
	Details []string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Unauthorized creates a new Unauthorized error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	}
}

// Forbidden creates a new Forbidden error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    ErrCodeForbidden,
		Message: message,
	}
}

// Upstream creates a new Upstream error.
func Upstream(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUpstream,
		Message: message,
	}
}

// Upstreamf creates a new Upstream error with formatted message.
func Upstreamf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeUpstream,
		Message: fmt.Sprintf(format, args...),
	}
}

// Network creates a new Network error.
func Network(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNetwork,
		Message: message,
	}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// Validationf creates a new Validation error with formatted message.
func Validationf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// Domain creates a new Domain error carrying upstream messages verbatim.
func Domain(message string, details []string) *AppError {
	return &AppError{
		Code:    ErrCodeDomain,
		Message: message,
		Details: details,
	}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsUnauthorized checks if an error is an Unauthorized error.
func IsUnauthorized(err error) bool {
	return isCode(err, ErrCodeUnauthorized)
}

// IsForbidden checks if an error is a Forbidden error.
func IsForbidden(err error) bool {
	return isCode(err, ErrCodeForbidden)
}

// IsUpstream checks if an error is an Upstream error.
func IsUpstream(err error) bool {
	return isCode(err, ErrCodeUpstream)
}

// IsNetwork checks if an error is a Network error.
func IsNetwork(err error) bool {
	return isCode(err, ErrCodeNetwork)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsDomain checks if an error is a Domain error.
func IsDomain(err error) bool {
	return isCode(err, ErrCodeDomain)
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetDetails returns the Details from an error, or nil if not an AppError.
func GetDetails(err error) []string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}
