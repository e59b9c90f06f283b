// Package errors defines the widget's error vocabulary: sentinels for
// errors.Is checks and AppError for errors that carry a public code and an
// HTTP status.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels. Every AppError built here wraps one of them.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternal       = errors.New("internal error")
	ErrServiceUnavail = errors.New("service unavailable")
	ErrLoad           = errors.New("catalog load failed")
	ErrStorage        = errors.New("storage failure")
)

// AppError is an error with a stable public code and an HTTP status.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// NotFound reports a missing resource, e.g. NotFound("product", "42").
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput reports a request the caller must fix.
func InvalidInput(message string) *AppError {
	return &AppError{Code: "INVALID_INPUT", Message: message, Status: http.StatusBadRequest, Err: ErrInvalidInput}
}

// Internal hides err behind a generic message.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     errors.Join(ErrInternal, err),
	}
}

// LoadFailed reports a catalog feed that could not be fetched or parsed.
// Both ErrLoad and cause remain reachable through errors.Is.
func LoadFailed(source string, cause error) *AppError {
	return &AppError{
		Code:    "LOAD_FAILED",
		Message: "load catalog from " + source,
		Status:  http.StatusServiceUnavailable,
		Err:     errors.Join(ErrLoad, cause),
	}
}

// StorageFailed reports a cart store that could not be read or written.
func StorageFailed(op string, cause error) *AppError {
	return &AppError{
		Code:    "STORAGE_FAILED",
		Message: "cart storage " + op,
		Status:  http.StatusInternalServerError,
		Err:     errors.Join(ErrStorage, cause),
	}
}

var sentinelStatus = []struct {
	err    error
	status int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrInvalidInput, http.StatusBadRequest},
	{ErrLoad, http.StatusServiceUnavailable},
	{ErrServiceUnavail, http.StatusServiceUnavailable},
}

// HTTPStatus maps err to a response status. An AppError anywhere in the
// chain decides; otherwise the first matching sentinel does; anything else
// is a 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}
