// Package errs defines custom error types and utilities.
//
//   - Return consistent error shapes to API clients (JSON).
//   - Support field-level errors for request-format failures.
//   - Carry explicit application rejections (AppError) distinct from bad input.
//   - Play nicely with Go's standard errors package.
package errs

import (
	"strings"
)

// FieldError represents a field-level error in the JSON error shape.
//
//	{ "field": "ownerId", "error": "failed to bind field value to int64" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the JSON error shape for request-format and framework failures.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: lets the error handler replace the message in production.
//   - Errors: list of per-field errors.
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
	}
}

// AppError is an explicit application-level rejection raised by handler
// or service logic. It is never produced by binding.
type AppError struct {
	message string
}

// NewAppError creates an AppError carrying message.
func NewAppError(message string) *AppError {
	return &AppError{message: message}
}

func (e *AppError) Error() string {
	return "application error: " + e.message
}

// ErrorMessage returns the human-readable message without any prefix.
func (e *AppError) ErrorMessage() string {
	if e == nil {
		return ""
	}
	return e.message
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
