package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// TaskErrorType categorizes the ways a task operation can fail
type TaskErrorType string

const (
	InvalidInputError TaskErrorType = "invalid_input"
	NotFoundError     TaskErrorType = "not_found"
	InternalError     TaskErrorType = "internal"
)

// TaskError provides structured error information with HTTP status suggestions
type TaskError struct {
	Type    TaskErrorType  `json:"type"`
	Message string         `json:"message"`
	Code    int            `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Constructor functions for common error types
func NewInvalidInputError(message string, details ...map[string]any) *TaskError {
	return &TaskError{
		Type:    InvalidInputError,
		Message: message,
		Code:    http.StatusBadRequest,
		Details: firstDetails(details),
	}
}

func NewNotFoundError(message string, details ...map[string]any) *TaskError {
	return &TaskError{
		Type:    NotFoundError,
		Message: message,
		Code:    http.StatusNotFound,
		Details: firstDetails(details),
	}
}

func NewInternalError(message string) *TaskError {
	return &TaskError{
		Type:    InternalError,
		Message: message,
		Code:    http.StatusInternalServerError,
	}
}

func firstDetails(details []map[string]any) map[string]any {
	if len(details) > 0 {
		return details[0]
	}
	return nil
}

// IsTaskError checks if an error is (or wraps) a TaskError and returns it
func IsTaskError(err error) (*TaskError, bool) {
	var taskErr *TaskError
	if stderrors.As(err, &taskErr) {
		return taskErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is a TaskError of kind not_found.
func IsNotFound(err error) bool {
	taskErr, ok := IsTaskError(err)
	return ok && taskErr.Type == NotFoundError
}

// IsInvalidInput reports whether err is a TaskError of kind invalid_input.
func IsInvalidInput(err error) bool {
	taskErr, ok := IsTaskError(err)
	return ok && taskErr.Type == InvalidInputError
}
