package errors

import (
	"fmt"
	"net/http"

	"github.com/NomadCrew/todo-api/logger"
)

type ErrorType string

const (
	ValidationError   ErrorType = "VALIDATION_ERROR"
	BadRequestError   ErrorType = "BAD_REQUEST"
	NotFoundError     ErrorType = "NOT_FOUND"
	DatabaseError     ErrorType = "DATABASE_ERROR"
	ServerError       ErrorType = "SERVER_ERROR"
	RateLimitError    ErrorType = "RATE_LIMIT_EXCEEDED"
	TimeoutError      ErrorType = "TIMEOUT"
	RouteNotFoundType ErrorType = "ROUTE_NOT_FOUND"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	RetryAfter int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the status code the error is rendered with.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// NotFound reports a missing entity. The message names the entity and id,
// e.g. "todo with id 999 not found".
func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s with id %v not found", entity, id),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return New(ValidationError, message, details)
}

func BadRequest(message string) *AppError {
	return New(BadRequestError, message, "")
}

func NewDatabaseError(err error) *AppError {
	// Log original error but return sanitized message
	logger.GetLogger().Errorw("Database error", "error", err)
	return &AppError{
		Type:       DatabaseError,
		Message:    "Database operation failed",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func Timeout(message string) *AppError {
	return New(TimeoutError, message, "")
}

func InternalServerError(message string) *AppError {
	return New(ServerError, message, "")
}

func RateLimitExceeded(message string, retryAfter int) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Message:    message,
		HTTPStatus: http.StatusTooManyRequests,
		RetryAfter: retryAfter,
	}
}

func RouteNotFound() *AppError {
	return New(RouteNotFoundType, "route not found", "")
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError, BadRequestError:
		return http.StatusBadRequest
	case NotFoundError, RouteNotFoundType:
		return http.StatusNotFound
	case RateLimitError:
		return http.StatusTooManyRequests
	case TimeoutError:
		return http.StatusGatewayTimeout
	case DatabaseError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
