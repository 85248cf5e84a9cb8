package errs

import (
	"net/http"
)

func newHTTPError(status int, message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message:  message,
		Status:   status,
		Override: override,
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code replaces the default "BAD_REQUEST" when non-nil; errors carries
// optional per-field details.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError) *HTTPError {
	err := newHTTPError(http.StatusBadRequest, message, override)
	if code != nil {
		err.Code = *code
	}
	err.Errors = errors
	return err
}

// NewMalformedRequestError is the request-format error used when a body or
// parameter cannot be parsed into the expected shape at all.
func NewMalformedRequestError(message string) *HTTPError {
	code := "MALFORMED_REQUEST"
	return NewBadRequestError(message, false, &code, nil)
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	err := newHTTPError(http.StatusNotFound, message, override)
	if code != nil {
		err.Code = *code
	}
	return err
}

// NewUnsupportedMediaTypeError creates a 415 for bodies sent with the wrong Content-Type.
func NewUnsupportedMediaTypeError(message string) *HTTPError {
	return newHTTPError(http.StatusUnsupportedMediaType, message, false)
}

// NewServiceUnavailableError creates a 503, used when a deferred result times out.
func NewServiceUnavailableError(message string) *HTTPError {
	return newHTTPError(http.StatusServiceUnavailable, message, false)
}

// NewInternalServerError creates a 500 with the generic status text as message.
// Clients never see the underlying error.
func NewInternalServerError() *HTTPError {
	return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), false)
}
