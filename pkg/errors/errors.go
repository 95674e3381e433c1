// Package errors provides structured error types for the FormPath application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the export pipeline
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or authoring validation failures
//   - *_ERROR: Failures in a specific subsystem (fetch, parse, render, store)
//   - *_NOT_FOUND: Resource not found
//
// # Usage
//
//	err := errors.New(errors.ErrCodeFormNotFound, "unknown form: %s", id)
//	if errors.Is(err, errors.ErrCodeFormNotFound) {
//	    // Handle missing form
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFetch, origErr, "failed to fetch reference for %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input and authoring validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidSchema Code = "INVALID_SCHEMA"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Wizard flow errors
	ErrCodeRequiredField Code = "REQUIRED_FIELD"

	// Resource not found errors
	ErrCodeFormNotFound  Code = "FORM_NOT_FOUND"
	ErrCodeFieldNotFound Code = "FIELD_NOT_FOUND"

	// Export pipeline errors. Fetch, parse and render faults stay internal to
	// the overlay strategy; export failure is the only code surfaced to users.
	ErrCodeFetch        Code = "FETCH_ERROR"
	ErrCodeParse        Code = "PARSE_ERROR"
	ErrCodeRender       Code = "RENDER_ERROR"
	ErrCodeExportFailed Code = "EXPORT_FAILED"

	// Persistence errors (logged, never surfaced)
	ErrCodeStore Code = "STORE_ERROR"

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
