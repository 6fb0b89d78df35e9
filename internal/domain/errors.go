package domain

import (
	"errors"
	"net/http"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal server error")
)

// AppError carries an HTTP status and a client-facing message. Fields holds
// per-field validation messages when present.
type AppError struct {
	Code    int               `json:"-"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"errors,omitempty"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(code int, sentinel error, msg string) *AppError {
	return &AppError{Code: code, Message: msg, Err: sentinel}
}

func BadRequest(msg string) *AppError {
	return newAppError(http.StatusBadRequest, ErrBadRequest, msg)
}

func Unauthorized(msg string) *AppError {
	return newAppError(http.StatusUnauthorized, ErrUnauthorized, msg)
}

func Forbidden(msg string) *AppError {
	return newAppError(http.StatusForbidden, ErrForbidden, msg)
}

func NotFound(msg string) *AppError {
	return newAppError(http.StatusNotFound, ErrNotFound, msg)
}

func Conflict(msg string) *AppError {
	return newAppError(http.StatusConflict, ErrConflict, msg)
}

// Internal wraps an unexpected failure. The cause is kept for logging and
// never shown to the client.
func Internal(cause error) *AppError {
	if cause == nil {
		cause = ErrInternal
	}
	return &AppError{Code: http.StatusInternalServerError, Message: "Internal Server Error", Err: cause}
}

func ValidationFailed(fields map[string]string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: "Validation failed",
		Fields:  fields,
		Err:     ErrBadRequest,
	}
}

// AsAppError unwraps err into an *AppError, if it is one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
