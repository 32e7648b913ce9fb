// Package errors provides structured error types for relcat.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the pipeline
//   - Machine-readable error codes for programmatic handling
//   - A clear split between fatal and recoverable failures
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Malformed input (descriptors, configuration, manifests)
//   - NOT_FOUND: Resource not found
//   - NETWORK_*, MANIFEST_UNAVAILABLE: Remote failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Fatal vs Recoverable
//
// ErrCodeInvalidDescriptor and ErrCodeInvalidConfig always abort a catalog
// build. ErrCodeManifestUnavailable is recoverable: the pipeline downgrades it
// to a warning unless it runs in strict mode.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDescriptor, "%s does not have the .yml extension", path)
//	if errors.Is(err, errors.ErrCodeInvalidDescriptor) {
//	    // Abort the build
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidDescriptor Code = "INVALID_DESCRIPTOR"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInvalidManifest   Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath       Code = "INVALID_PATH"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeProjectNotFound Code = "PROJECT_NOT_FOUND"
	ErrCodeSeriesNotFound  Code = "SERIES_NOT_FOUND"

	// Network errors
	ErrCodeNetwork             Code = "NETWORK_ERROR"
	ErrCodeTimeout             Code = "TIMEOUT"
	ErrCodeManifestUnavailable Code = "MANIFEST_UNAVAILABLE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsFatal reports whether err must abort a catalog build regardless of mode.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidDescriptor, ErrCodeInvalidConfig, ErrCodeInvalidPath:
		return true
	}
	return false
}
