// Package errors provides coded errors for the CLI and HTTP API boundary.
//
// Library packages return sentinel errors wrapped with context. At the
// boundary, [Classify] maps them to a machine-readable [Code] so the CLI can
// print a short message and the API can pick a status with [HTTPStatus].
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "missing --x")
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	err := errors.Classify(grapl.ReadFile(path))
//	status := errors.HTTPStatus(errors.GetCode(err))
package errors

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/matzehuels/causaltower/pkg/admg"
	"github.com/matzehuels/causaltower/pkg/grapl"
	"github.com/matzehuels/causaltower/pkg/identify"
	graphio "github.com/matzehuels/causaltower/pkg/io"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeUnknownNode   Code = "UNKNOWN_NODE"
	ErrCodeInvalidSyntax Code = "INVALID_SYNTAX"
	ErrCodeInvalidMode   Code = "INVALID_MODE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Request lifecycle
	ErrCodeCanceled Code = "CANCELED"
	ErrCodeTimeout  Code = "TIMEOUT"

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
	if e.Message == "" && e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Cause)
	}
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
// For *Error types, returns the message and cause without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		switch {
		case e.Message == "" && e.Cause != nil:
			return e.Cause.Error()
		case e.Cause != nil:
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

var sentinels = []struct {
	err  error
	code Code
}{
	{admg.ErrUnknownNode, ErrCodeUnknownNode},
	{admg.ErrInvalidNodeID, ErrCodeInvalidGraph},
	{admg.ErrAsymmetric, ErrCodeInvalidGraph},
	{admg.ErrGraphHasCycle, ErrCodeInvalidGraph},
	{graphio.ErrDuplicateNode, ErrCodeInvalidGraph},
	{grapl.ErrSyntax, ErrCodeInvalidSyntax},
	{grapl.ErrUndeclaredNode, ErrCodeInvalidSyntax},
	{identify.ErrNoIntervention, ErrCodeInvalidInput},
	{identify.ErrOverlap, ErrCodeInvalidInput},
	{identify.ErrInvalidMode, ErrCodeInvalidMode},
	{fs.ErrNotExist, ErrCodeFileNotFound},
	{context.Canceled, ErrCodeCanceled},
	{context.DeadlineExceeded, ErrCodeTimeout},
}

// Classify returns err as an *Error wrapping it. Errors that already carry a
// code are returned unchanged. Known sentinels get their code and anything
// else becomes INTERNAL_ERROR. Classify(nil) is nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return &Error{Code: s.code, Cause: err}
		}
	}
	return &Error{Code: ErrCodeInternal, Cause: err}
}

// HTTPStatus maps a code to the status the API responds with.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidGraph, ErrCodeInvalidSyntax,
		ErrCodeInvalidMode, ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ErrCodeUnknownNode:
		return http.StatusUnprocessableEntity
	case ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeCanceled:
		return 499
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
