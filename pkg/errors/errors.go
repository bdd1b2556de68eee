// Package errors provides structured error types for report rendering.
//
// This package defines error codes and types that enable:
//   - One failure taxonomy shared by the render core, the pipeline and the CLI
//   - Machine-readable error codes for programmatic handling
//   - Captured subprocess output for external tool failures
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Render failures use one code per failure class (INVALID_GRAPH_REFERENCE,
// TEMPLATE_NOT_FOUND, PLOT_TOOL_FAILURE, ...). Input and configuration
// problems reuse the INVALID_* codes.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidGraphReference, "edge %d: target %d out of range", i, to)
//	if errors.Is(err, errors.ErrCodeInvalidGraphReference) {
//	    // Handle bad graph
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFilesystem, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Render failures
	ErrCodeInvalidGraphReference  Code = "INVALID_GRAPH_REFERENCE"
	ErrCodeTemplateNotFound       Code = "TEMPLATE_NOT_FOUND"
	ErrCodeTemplateRender         Code = "TEMPLATE_RENDER"
	ErrCodeScratchDirUnavailable  Code = "SCRATCH_DIR_UNAVAILABLE"
	ErrCodePlotToolFailure        Code = "PLOT_TOOL_FAILURE"
	ErrCodeGraphToolFailure       Code = "GRAPH_TOOL_FAILURE"
	ErrCodeUnsupportedShortcutKey Code = "UNSUPPORTED_SHORTCUT_KEY"
	ErrCodeFilesystem             Code = "FILESYSTEM"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
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

// ToolError reports an external tool run that violated the strict success
// criterion. The captured streams are kept verbatim for the caller.
type ToolError struct {
	Kind     Code   // ErrCodePlotToolFailure or ErrCodeGraphToolFailure
	Tool     string // Executable name, e.g. "gnuplot"
	ExitCode int
	Stdout   string
	Stderr   string
	Cause    error // Start or wait failure (optional)
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Tool)
	switch {
	case e.Cause != nil:
		fmt.Fprintf(&b, " failed: %v", e.Cause)
	case e.ExitCode != 0:
		fmt.Fprintf(&b, " exited with status %d", e.ExitCode)
	default:
		b.WriteString(" produced unexpected output")
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, "\nstderr: %s", s)
	}
	if s := strings.TrimSpace(e.Stdout); s != "" {
		fmt.Fprintf(&b, "\nstdout: %s", s)
	}
	return b.String()
}

// Unwrap returns the start or wait failure, if any.
func (e *ToolError) Unwrap() error {
	return e.Cause
}

// Code returns the error code for this error type.
func (e *ToolError) Code() Code {
	return e.Kind
}

// coder is implemented by error types that carry a code through a method.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a coded error type
// with a matching code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no coded error is found in the chain.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case coder:
			return e.Code()
		}
		err = errors.Unwrap(err)
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
