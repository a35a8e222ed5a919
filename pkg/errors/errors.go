// Package errors provides structured error types for pacefig.
//
// This package defines error codes and types that enable:
//   - Consistent error reporting from parser, layout, renderer and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or option validation failures
//   - MISSING_* / MALFORMED_*: Timing log content defects
//   - FILE_NOT_FOUND / OUTPUT_WRITE: I/O failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", f)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeOutputWrite, origErr, "write %s", path)
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPolicy Code = "INVALID_POLICY"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Timing log content errors
	ErrCodeMissingConfiguration Code = "MISSING_CONFIGURATION"
	ErrCodeMalformedNumber      Code = "MALFORMED_NUMBER"

	// I/O errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeOutputWrite  Code = "OUTPUT_WRITE"

	// Internal errors
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
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// MissingConfigurationError reports a component that has no usable row in the
// timing log's PE layout block.
type MissingConfigurationError struct {
	Component string
}

// Error implements the error interface.
func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("missing configuration for component %s", e.Component)
}

// Code returns the error code for this error type.
func (e *MissingConfigurationError) Code() Code {
	return ErrCodeMissingConfiguration
}

// MissingConfiguration builds a MISSING_CONFIGURATION error for component,
// naming the 1-indexed line range that was searched.
func MissingConfiguration(component string, firstLine, lastLine int) *Error {
	return Wrap(ErrCodeMissingConfiguration, &MissingConfigurationError{Component: component},
		"component %s has no root PE/task count in lines %d-%d", component, firstLine, lastLine)
}

// MissingComponent returns the component named by a MissingConfigurationError
// in err's chain, or "" when there is none.
func MissingComponent(err error) string {
	var mce *MissingConfigurationError
	if errors.As(err, &mce) {
		return mce.Component
	}
	return ""
}
