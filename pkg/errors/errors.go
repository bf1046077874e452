// Package errors provides structured error types for the ecmason engine and CLI.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI, and HTTP service
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes mirror the ECMAScript error taxonomy the engine implements:
//   - SYNTAX_*: malformed JSON text or a missing required argument
//   - TYPE_*: type errors raised during serialization (circular structures)
//   - RANGE_*: resource limits (oversized arrays, recursion depth)
//   - INVALID_* / NOT_FOUND_*: CLI input validation failures
//   - INTERNAL_ERROR: invariant violations that should never be reachable
//
// # Usage
//
//	err := errors.New(errors.ErrCodeCircular, "converting circular structure to JSON")
//	if errors.Is(err, errors.ErrCodeCircular) {
//	    // Handle a cycle
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSyntax, scanErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Engine errors (ECMAScript taxonomy)
	ErrCodeSyntax   Code = "SYNTAX_ERROR"
	ErrCodeCircular Code = "TYPE_ERROR_CIRCULAR"
	ErrCodeLength   Code = "RANGE_ERROR_LENGTH"
	ErrCodeDepth    Code = "RANGE_ERROR_DEPTH"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidIndent Code = "INVALID_INDENT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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
