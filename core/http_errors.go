// Package core holds the HTTP boundary vocabulary: error values carrying a
// status code and the uniform JSON envelope every handler responds with.
package core

import "net/http"

// HTTPError represents an HTTP error with a status code and a caller-facing
// message. Messages on 4xx errors are surfaced verbatim; 5xx messages are
// always redacted by the responder.
type HTTPError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest, Message: "bad request"}
	ErrUnauthorized        = HTTPError{Code: http.StatusUnauthorized, Message: "unauthorized"}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound, Message: "not found"}
	ErrConflict            = HTTPError{Code: http.StatusConflict, Message: "conflict"}
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Message: "internal server error"}
)

// NewHTTPError creates an HTTP error with the given status code and message.
func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}
