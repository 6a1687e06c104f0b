// Package errors provides structured error types for the Netloom application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and library callers
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - MALFORMED_*: Source payload and record failures (recoverable)
//   - *_ERROR: Component-scoped failures (render, store, cache)
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", format)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSourceUnavailable, origErr, "fetch %s", vendor)
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidVendor   Code = "INVALID_VENDOR"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidArtifact Code = "INVALID_ARTIFACT"
	ErrCodeInvalidNode     Code = "INVALID_NODE"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// Source collection errors (recoverable, surfaced through metadata)
	ErrCodeSourceUnavailable Code = "SOURCE_UNAVAILABLE"
	ErrCodeMalformedSource   Code = "MALFORMED_SOURCE"
	ErrCodeMalformedRecord   Code = "MALFORMED_RECORD"
	ErrCodeTimeout           Code = "TIMEOUT"

	// Merge errors (recoverable, counted in metadata)
	ErrCodeUnresolvedEndpoint Code = "UNRESOLVED_EDGE_ENDPOINT"

	// Layout and export errors (fatal for the request or the one artifact)
	ErrCodeUnknownStrategy Code = "UNKNOWN_LAYOUT_STRATEGY"
	ErrCodeRender          Code = "RENDER_ERROR"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Persistence errors
	ErrCodeStore Code = "STORE_ERROR"
	ErrCodeCache Code = "CACHE_ERROR"

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

// As finds the first error in err's chain matching target's type. It is the
// standard library errors.As, re-exported so callers extracting a typed error
// (such as *RenderFieldError) need only this package.
func As(err error, target any) bool {
	return errors.As(err, target)
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

// RenderFieldError reports which renderer rejected the topology and which
// field it could not serialize. Export renderers never partially write, so
// this is the only detail a caller needs to diagnose a failed artifact.
type RenderFieldError struct {
	Renderer string // Format name (json, graphml, diagram, scene, dot)
	Field    string // Offending topology field (e.g. "node.id", "edge.from")
	Message  string
}

// Error implements the error interface.
func (e *RenderFieldError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("render %s: field %s: %s", e.Renderer, e.Field, e.Message)
	}
	return fmt.Sprintf("render %s: invalid field %s", e.Renderer, e.Field)
}

// Code returns the error code for this error type.
func (e *RenderFieldError) Code() Code {
	return ErrCodeRender
}
