// Package response renders the JSON bodies of the public API.
// Success bodies are flat objects; every error body has the shape
// {"message": ..., "code": ..., "request_id": ...}.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"

	deliverycontext "tasktracker/internal/delivery/context"
)

// ErrorResponse defines the structure for error responses
type ErrorResponse struct {
	Message   string `json:"message"`           // User-friendly error message
	Code      string `json:"code"`              // Machine-readable error code, e.g., "VALIDATION_FAILED"
	RequestID string `json:"request_id"`        // Request tracking ID
	Details   string `json:"details,omitempty"` // Additional context, 400 responses only
}

// MessageResponse is the body of operations that only report success.
type MessageResponse struct {
	Message string `json:"message"`
}

// JSON writes body with the given status code.
func JSON(c echo.Context, statusCode int, body any) error {
	return c.JSON(statusCode, body)
}

// Message writes {"message": message}.
func Message(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, MessageResponse{Message: message})
}

// Error writes an error body. Details are dropped for everything except 400 responses.
func Error(c echo.Context, statusCode int, errorCode, message, details string) error {
	if statusCode != http.StatusBadRequest {
		details = ""
	}

	return c.JSON(statusCode, ErrorResponse{
		Message:   message,
		Code:      errorCode,
		RequestID: deliverycontext.GetRequestID(c),
		Details:   details,
	})
}

// InternalServerError returns a 500 error
func InternalServerError(c echo.Context, errorCode, message string) error {
	return Error(c, http.StatusInternalServerError, errorCode, message, "")
}
