// Package errors provides structured error types for the brewtower application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI, API client and server
//   - Machine-readable error codes carried in JSON error bodies
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *NOT_FOUND: Resource not found
//   - NETWORK_*: Network-related errors
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidRecipe, "batch size must be positive, got %v", size)
//	if errors.Is(err, errors.ErrCodeInvalidRecipe) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidRecipe   Code = "INVALID_RECIPE"
	ErrCodeInvalidStyle    Code = "INVALID_STYLE"
	ErrCodeInvalidRange    Code = "INVALID_RANGE"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidBeerXML  Code = "INVALID_BEERXML"
	ErrCodeNoDirectory     Code = "NO_DIRECTORY"
	ErrCodeInvalidFilename Code = "INVALID_FILENAME"

	// Resource not found errors
	ErrCodeNotFound           Code = "NOT_FOUND"
	ErrCodeRecipeNotFound     Code = "RECIPE_NOT_FOUND"
	ErrCodeStyleNotFound      Code = "STYLE_NOT_FOUND"
	ErrCodeIngredientNotFound Code = "INGREDIENT_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

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

// HTTPStatus maps an error code to the HTTP status the server responds with.
// Errors without a code map to 500.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidRecipe, ErrCodeInvalidStyle, ErrCodeInvalidRange,
		ErrCodeInvalidFormat, ErrCodeInvalidPath, ErrCodeInvalidBeerXML, ErrCodeNoDirectory,
		ErrCodeInvalidFilename:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeRecipeNotFound, ErrCodeStyleNotFound, ErrCodeIngredientNotFound:
		return http.StatusNotFound
	case ErrCodeNetwork:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// FromStatus builds an Error for a non-OK HTTP response. It is the inverse of
// [HTTPStatus] for clients that received a body without a code.
func FromStatus(status int, message string) *Error {
	code := ErrCodeInternal
	switch {
	case status == http.StatusNotFound:
		code = ErrCodeNotFound
	case status == http.StatusBadRequest:
		code = ErrCodeInvalidInput
	case status == http.StatusGatewayTimeout:
		code = ErrCodeTimeout
	case status >= 500:
		code = ErrCodeNetwork
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return New(code, "%s", message)
}
