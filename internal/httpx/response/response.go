package response

import (
	"encoding/json"
	"net/http"

	"github.com/stayhaven/edge/internal/apierr"
	"github.com/stayhaven/edge/pkg/logger"
)

// ErrorResponse represents a structured JSON error response
type ErrorResponse struct {
	Error   string              `json:"error"`
	Code    string              `json:"code,omitempty"`
	Details string              `json:"details,omitempty"`
	Fields  []apierr.FieldError `json:"fields,omitempty"`
}

// Envelope wraps a successful payload the same way the backend does, so
// browser callers see one shape regardless of which side answered.
type Envelope struct {
	Data any `json:"data"`
}

// Common error codes
const (
	CodeInvalidInput   = "INVALID_INPUT"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidBooking = "INVALID_BOOKING"
	CodeDraftMismatch  = "DRAFT_MISMATCH"
	CodeUpstreamError  = "UPSTREAM_ERROR"
	CodeInternalError  = "INTERNAL_ERROR"
)

// WriteJSON writes an arbitrary JSON body with the given status.
func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// WriteData wraps the payload in the {data} envelope.
func WriteData(w http.ResponseWriter, statusCode int, data any) {
	WriteJSON(w, statusCode, Envelope{Data: data})
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// WriteValidationError writes the full offending-field list alongside the
// error code, so clients can highlight every bad field at once.
func WriteValidationError(w http.ResponseWriter, statusCode int, verr *apierr.ValidationError) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error:  "validation failed",
		Code:   CodeInvalidInput,
		Fields: verr.Fields,
	})
}

// Convenience functions for common errors
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message, CodeForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}
