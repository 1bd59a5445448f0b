package common

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Status  int
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, status int, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Cause:   cause,
	}
}

// HTTP error helpers
func InvalidArgumentError(message string) *AppError {
	return NewAppError("INVALID_ARGUMENT", message, http.StatusBadRequest, ErrInvalidInput)
}

func NotFoundError(message string) *AppError {
	return NewAppError("NOT_FOUND", message, http.StatusNotFound, ErrNotFound)
}

func UpstreamError(message string, cause error) *AppError {
	return NewAppError("UPSTREAM_ERROR", message, http.StatusInternalServerError, cause)
}

func InternalError(message string, cause error) *AppError {
	return NewAppError("INTERNAL_ERROR", message, http.StatusInternalServerError, cause)
}

func InvalidArgumentErrorf(format string, args ...interface{}) *AppError {
	return InvalidArgumentError(fmt.Sprintf(format, args...))
}

func NotFoundErrorf(format string, args ...interface{}) *AppError {
	return NotFoundError(fmt.Sprintf(format, args...))
}

// HTTPStatus maps an error to the status code it should surface with.
// Unknown errors map to 500.
func HTTPStatus(err error) int {
	var ae *AppError
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}
