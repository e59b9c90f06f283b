package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/utafrali/catalog-widget/pkg/errors"
	"github.com/utafrali/catalog-widget/pkg/logger"
	"github.com/utafrali/catalog-widget/pkg/validator"
)

// Response is the standard JSON response envelope.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse represents an error in the standard response format.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes v as the data of a 200 response envelope.
func WriteData(w http.ResponseWriter, v any) {
	WriteJSON(w, http.StatusOK, Response{Data: v})
}

// sentinelErrors maps bare sentinels to their public code and message, in
// match order. Sentinels absent here are reported as internal errors.
var sentinelErrors = []struct {
	err     error
	code    string
	message string
}{
	{apperrors.ErrNotFound, "NOT_FOUND", "resource not found"},
	{apperrors.ErrInvalidInput, "INVALID_INPUT", ""},
	{apperrors.ErrLoad, "LOAD_FAILED", "catalog unavailable"},
	{apperrors.ErrServiceUnavail, "SERVICE_UNAVAILABLE", "service unavailable"},
}

// WriteError writes a standardized error response based on the error type.
// An *AppError keeps its own code and message; bare sentinels are mapped
// through sentinelErrors. 5xx responses are logged with the request-scoped
// logger when one is set, else with fallback. The response carries the
// request's correlation id as request_id.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	status := apperrors.HTTPStatus(err)
	body := &ErrorResponse{
		Code:      "INTERNAL_ERROR",
		Message:   "an internal error occurred",
		RequestID: logger.CorrelationIDFromContext(r.Context()),
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body.Code, body.Message = appErr.Code, appErr.Message
	} else {
		for _, s := range sentinelErrors {
			if errors.Is(err, s.err) {
				body.Code, body.Message = s.code, s.message
				if body.Message == "" {
					body.Message = err.Error()
				}
				break
			}
		}
	}

	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "request failed",
			slog.String("code", body.Code),
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, Response{Error: body})
}

// WriteValidationError writes a 400 response. A *validator.ValidationError
// is reported per field under VALIDATION_ERROR; anything else, such as a
// malformed body, is reported as INVALID_INPUT.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, Response{
		Error: &ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()},
	})
}

// ParseID parses a positive integer path parameter. On failure it writes a
// 400 response with code INVALID_PARAMETER and returns false.
func ParseID(w http.ResponseWriter, param string) (int, bool) {
	id, err := strconv.Atoi(param)
	if err != nil || id <= 0 {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:    "INVALID_PARAMETER",
				Message: "invalid id: " + param,
			},
		})
		return 0, false
	}
	return id, true
}
