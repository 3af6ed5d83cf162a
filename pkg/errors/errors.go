// Package errors provides structured error types for topoviz.
//
// Errors carry a machine-readable [Code] so the CLI can decide how to react
// (abort, warn, or recover) without string matching:
//
//   - INVALID_DOCUMENT: the input graph document is malformed or inconsistent
//   - CACHE_READ / CACHE_WRITE: the optional position cache could not be used
//   - USAGE: the command line was incomplete
//   - INVALID_CONFIG / INVALID_FORMAT: configuration or output path problems
//   - RENDER: the rendering engine failed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDocument, "node %q: name mismatch", key)
//	if errors.Is(err, errors.ErrCodeInvalidDocument) {
//	    // abort before rendering
//	}
//
//	// Wrap existing errors, keeping errors.Is/As working on the cause
//	err := errors.Wrap(errors.ErrCodeCacheWrite, origErr, "save %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeUsage           Code = "USAGE"

	// Position cache errors
	ErrCodeCacheRead  Code = "CACHE_READ"
	ErrCodeCacheWrite Code = "CACHE_WRITE"

	// Output errors
	ErrCodeRender   Code = "RENDER"
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
// For *Error types, returns the message (and cause) without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsValidation reports whether err is a document validation failure.
func IsValidation(err error) bool { return Is(err, ErrCodeInvalidDocument) }

// Recoverable reports whether the run may continue after err.
// Only position cache problems are recoverable; everything else aborts.
func Recoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeCacheRead, ErrCodeCacheWrite:
		return true
	}
	return false
}

// Retryable reports whether a later run may succeed after err once the user
// edits a file: a broken or missing document, a bad config, or a failed
// render. Usage and format errors are not retryable.
func Retryable(err error) bool {
	if Recoverable(err) || IsValidation(err) {
		return true
	}
	switch GetCode(err) {
	case ErrCodeInvalidConfig, ErrCodeFileNotFound, ErrCodeRender:
		return true
	}
	return false
}
