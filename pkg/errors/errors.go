// Package errors provides structured error types for blockdock.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the libraries
//   - Machine-readable reason codes for malformed block definitions
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND_*: Resource not found
//   - malformed definition reasons (BAD_MAGIC, CHECKSUM_MISMATCH, ...)
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeBadMagic, "unexpected magic %#04x", magic)
//	if errors.IsMalformed(err) {
//	    // Skip the file, keep loading the catalog
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "read %s", path)
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
	ErrCodeInvalidKind       Code = "INVALID_KIND"
	ErrCodeInvalidColor      Code = "INVALID_COLOR"
	ErrCodeInvalidSlotType   Code = "INVALID_SLOT_TYPE"
	ErrCodeInvalidManifest   Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath       Code = "INVALID_PATH"
	ErrCodeInvalidWorkspace  Code = "INVALID_WORKSPACE"
	ErrCodeInvalidIdentifier Code = "INVALID_IDENTIFIER"
	ErrCodeTooLarge          Code = "TOO_LARGE"

	// Malformed definition reasons (recoverable, reported by the codec)
	ErrCodeTruncated        Code = "TRUNCATED"
	ErrCodeBadMagic         Code = "BAD_MAGIC"
	ErrCodeChecksumMismatch Code = "CHECKSUM_MISMATCH"
	ErrCodeLengthMismatch   Code = "LENGTH_MISMATCH"
	ErrCodeCountMismatch    Code = "COUNT_MISMATCH"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeTemplateNotFound Code = "TEMPLATE_NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"

	// Backend errors
	ErrCodeStorage Code = "STORAGE_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// malformedCodes is the set of codes that describe a corrupt definition file.
var malformedCodes = map[Code]bool{
	ErrCodeTruncated:        true,
	ErrCodeBadMagic:         true,
	ErrCodeChecksumMismatch: true,
	ErrCodeLengthMismatch:   true,
	ErrCodeCountMismatch:    true,
	ErrCodeInvalidKind:      true,
}

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

// IsMalformed reports whether err describes a corrupt or truncated block
// definition. Such errors are recoverable: callers skip the input and go on.
func IsMalformed(err error) bool {
	return malformedCodes[GetCode(err)]
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
