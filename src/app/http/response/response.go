// Package response defines consistent HTTP response structures.
// Failure bodies always carry success:false so clients can branch on one field.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"piadas/src/core/domain"
)

// Error represents an error response.
type Error struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`

	// Errors lists field-level problems for validation failures.
	Errors []FieldError `json:"errors,omitempty"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// RequestID is the request ID for debugging
	RequestID string `json:"request_id,omitempty"`
}

// FieldError is one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func fail(c *gin.Context, status int, code, message, requestID string) {
	c.JSON(status, Error{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	})
}

// BadRequest sends a 400 response.
func BadRequest(c *gin.Context, message, requestID string) {
	fail(c, http.StatusBadRequest, "BAD_REQUEST", message, requestID)
}

// ValidationError sends a 400 response listing every failed field.
func ValidationError(c *gin.Context, fields []FieldError, requestID string) {
	c.JSON(http.StatusBadRequest, Error{
		Error: ErrorDetail{
			Code:      "VALIDATION_ERROR",
			Message:   "request validation failed",
			RequestID: requestID,
		},
		Errors: fields,
	})
}

// NotFound sends a 404 response.
func NotFound(c *gin.Context, message, requestID string) {
	fail(c, http.StatusNotFound, "NOT_FOUND", message, requestID)
}

// Conflict sends a 409 response.
func Conflict(c *gin.Context, message, requestID string) {
	fail(c, http.StatusConflict, "CONFLICT", message, requestID)
}

// Forbidden sends a 403 response.
func Forbidden(c *gin.Context, message, requestID string) {
	fail(c, http.StatusForbidden, "FORBIDDEN", message, requestID)
}

// TooManyRequests sends a 429 response.
func TooManyRequests(c *gin.Context, requestID string) {
	fail(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, try again later", requestID)
}

// NoData sends a 500 response for an empty store.
func NoData(c *gin.Context, message, requestID string) {
	fail(c, http.StatusInternalServerError, "NO_DATA", message, requestID)
}

// InternalError sends a 500 response.
func InternalError(c *gin.Context, requestID string) {
	fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", requestID)
}

// FromDomainError converts a domain error to an appropriate HTTP response.
// Errors without a domain meaning become a generic 500; their text never
// reaches the client.
func FromDomainError(c *gin.Context, err error, requestID string) {
	var domainErr *domain.DomainError
	switch {
	case domain.IsValidationError(err):
		field, message := "", err.Error()
		if errors.As(err, &domainErr) {
			field, message = domainErr.Field, domainErr.Message
		}
		ValidationError(c, []FieldError{{Field: field, Message: message}}, requestID)
	case domain.IsConflict(err):
		msg := "conflict"
		if errors.As(err, &domainErr) && domainErr.Message != "" {
			msg = domainErr.Message
		}
		Conflict(c, msg, requestID)
	case domain.IsInvalidToken(err), domain.IsUnauthorized(err):
		Forbidden(c, "access denied", requestID)
	case domain.IsNotFound(err):
		NotFound(c, "resource not found", requestID)
	case domain.IsEmpty(err):
		NoData(c, "no data available", requestID)
	default:
		InternalError(c, requestID)
	}
}
