package outcome

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	CodeInvalidArgument  ErrorCode = "invalid_argument"
	CodeUnauthenticated  ErrorCode = "unauthenticated"
	CodePermissionDenied ErrorCode = "permission_denied"
	CodeNotFound         ErrorCode = "not_found"
	CodeMethodNotAllowed ErrorCode = "method_not_allowed"
	CodeConflict         ErrorCode = "conflict"
	CodeAlreadyExists    ErrorCode = "already_exists"
	CodeInternal         ErrorCode = "internal"
)

var codeStatus = map[ErrorCode]int{
	CodeInvalidArgument:  http.StatusBadRequest,
	CodeUnauthenticated:  http.StatusUnauthorized,
	CodePermissionDenied: http.StatusForbidden,
	CodeNotFound:         http.StatusNotFound,
	CodeMethodNotAllowed: http.StatusMethodNotAllowed,
	CodeConflict:         http.StatusConflict,
	CodeAlreadyExists:    http.StatusConflict,
	CodeInternal:         http.StatusInternalServerError,
}

// HTTPStatus maps an ErrorCode to an HTTP status code, 500 for unknown codes.
// Contracts fix the status of rejected outcomes; this mapping is used only
// for responses produced outside any contract (routing errors, faults).
func (c ErrorCode) HTTPStatus() int {
	if s, ok := codeStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is the structured error body carried by rejected outcomes.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates a new error body.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf creates a new error body with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// WithDetail returns a copy of e with key set in its details.
func (e *Error) WithDetail(key string, value any) *Error {
	return e.WithDetails(map[string]any{key: value})
}

// WithDetails returns a copy of e with details merged in. e is returned
// unchanged when details is empty.
func (e *Error) WithDetails(details map[string]any) *Error {
	if len(details) == 0 {
		return e
	}
	merged := make(map[string]any, len(e.Details)+len(details))
	maps.Copy(merged, e.Details)
	maps.Copy(merged, details)
	return &Error{Code: e.Code, Message: e.Message, Details: merged}
}

// As returns an ordinary outcome tagged tag whose body is the error envelope.
func (e *Error) As(tag Tag) Value {
	return Value{Tag: tag, Body: ErrorBody{Error: e}}
}

// ErrorBody is the wire envelope of every error response: {"error": {...}}.
type ErrorBody struct {
	Error *Error `json:"error"`
}

// Reject is shorthand for NewError(code, message).As(tag).
func Reject(tag Tag, code ErrorCode, message string) Value {
	return NewError(code, message).As(tag)
}

var validationMessages = map[string]string{
	"required": "required",
	"email":    "must be a valid email address",
	"url":      "must be a valid URL",
	"uuid":     "must be a valid UUID",
	"uuid4":    "must be a valid UUID",
	"min":      "must be at least %s",
	"gte":      "must be at least %s",
	"max":      "must be at most %s",
	"lte":      "must be at most %s",
	"gt":       "must be greater than %s",
	"lt":       "must be less than %s",
	"len":      "must be exactly %s characters",
	"eq":       "must equal %s",
	"ne":       "must not equal %s",
	"oneof":    "must be one of: %s",
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(fe validator.FieldError) string {
	if msg, ok := validationMessages[fe.Tag()]; ok {
		if strings.Contains(msg, "%s") {
			return fmt.Sprintf(msg, fe.Param())
		}
		return msg
	}
	if fe.Param() != "" {
		return fmt.Sprintf("failed %s=%s validation", fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

func writeError(w http.ResponseWriter, svcErr *Error, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(svcErr.Code.HTTPStatus())
	if err := json.NewEncoder(w).Encode(ErrorBody{Error: svcErr}); err != nil {
		// Headers already sent, nothing we can do. Log for debugging.
		logger.Error("failed to encode error response",
			slog.String("code", string(svcErr.Code)),
			slog.String("message", svcErr.Message),
			slog.Any("error", err))
	}
}

// WriteFault writes the response for a dispatcher fault. The fault itself is
// never exposed: the client sees a generic internal error, with the request
// ID as the only detail when one is known.
func WriteFault(w http.ResponseWriter, requestID string, logger *slog.Logger) {
	e := NewError(CodeInternal, "internal server error")
	if requestID != "" {
		e = e.WithDetail("request_id", requestID)
	}
	writeError(w, e, logger)
}
