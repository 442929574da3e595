package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user id resolves to nothing.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// NotApprovedError is returned when a regular user whose account is not in
// good standing attempts to log in. It carries the current status so the
// client can explain what the user is waiting on.
type NotApprovedError struct {
	Status string
}

func (e *NotApprovedError) Error() string {
	return "account not approved yet"
}

// InvalidTransitionError is returned when an approve/reject decision targets
// an account that is no longer PENDING.
type InvalidTransitionError struct {
	Action string
	Status string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s user with status: %s", e.Action, e.Status)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Status string `json:"status,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Status     string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Status: e.Status,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var notApproved *NotApprovedError
	var invalidTransition *InvalidTransitionError

	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.As(err, &notApproved):
		httpErr := NewHTTPError(http.StatusForbidden, err.Error(), "ACCOUNT_NOT_APPROVED")
		httpErr.Status = notApproved.Status
		return httpErr
	case errors.As(err, &invalidTransition):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_TRANSITION")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
