package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when a required field is missing or malformed.
	ErrValidation = errors.New("missing required fields")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("user already exists")
	// ErrUserNotFound is returned at login for an unknown email.
	ErrUserNotFound = errors.New("user not found")
	// ErrIncorrectPassword is returned at login when the password does not match.
	ErrIncorrectPassword = errors.New("incorrect password")
	// ErrMissingToken is returned when a protected route is called without credentials.
	ErrMissingToken = errors.New("token not provided")
	// ErrInvalidToken is returned when the bearer token is malformed, tampered or expired.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTaskNotFound is returned when a task id does not exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrForbidden is returned when a task belongs to another user.
	ErrForbidden = errors.New("not authorized")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
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
		Error: e.Message,
		Code:  e.Code,
	}
}

// Internal is the response for anything that is not a known domain error.
func Internal() *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Wrapped errors are matched too.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, ErrValidation.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusBadRequest, ErrEmailTaken.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusBadRequest, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrIncorrectPassword):
		return NewHTTPError(http.StatusBadRequest, ErrIncorrectPassword.Error(), "INVALID_PASSWORD")
	case errors.Is(err, ErrMissingToken):
		return NewHTTPError(http.StatusUnauthorized, ErrMissingToken.Error(), "MISSING_TOKEN")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusForbidden, ErrInvalidToken.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrTaskNotFound):
		return NewHTTPError(http.StatusNotFound, ErrTaskNotFound.Error(), "TASK_NOT_FOUND")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	default:
		return Internal()
	}
}
