package response

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// Error codes shared by services, handlers and middleware.
// The code is the stable error kind clients branch on.
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeUnauthenticated = "UNAUTHENTICATED"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// AppError is the error type returned by the service layer
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Code + ": " + e.Message + " (" + e.Details + ")"
	}
	return e.Code + ": " + e.Message
}

// NewAppError creates a new AppError
func NewAppError(code, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message, details string) *AppError {
	return NewAppError(ErrCodeValidation, message, details)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message, details string) *AppError {
	return NewAppError(ErrCodeNotFound, message, details)
}

// NewUnauthorizedError creates an error for an authenticated caller lacking rights
func NewUnauthorizedError(message, details string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, details)
}

// NewUnauthenticatedError creates an error for a missing or invalid credential
func NewUnauthenticatedError(message, details string) *AppError {
	return NewAppError(ErrCodeUnauthenticated, message, details)
}

// NewConflictError creates a conflict error
func NewConflictError(message, details string) *AppError {
	return NewAppError(ErrCodeConflict, message, details)
}

// NewInternalError creates an internal error
func NewInternalError(message, details string) *AppError {
	return NewAppError(ErrCodeInternal, message, details)
}

// CodeOf returns the AppError code carried by err, or an empty string
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// SuccessResponse wraps successful payloads
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

// ErrorResponse wraps error payloads
type ErrorResponse struct {
	Error interface{} `json:"error"`
}

// ErrorBody is the shape of ErrorResponse.Error
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SendSuccess writes a success response
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{Data: data})
}

// SendError writes an error response
func SendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// AbortWithError writes an error response and stops the handler chain
func AbortWithError(c *gin.Context, status int, code, message string) {
	SendError(c, status, code, message)
	c.Abort()
}
