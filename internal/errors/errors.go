package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthenticated is returned when no valid session is presented.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the session lacks rights on the resource.
	ErrForbidden = errors.New("insufficient rights")
	// ErrNotFound is returned when a resource id does not resolve.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput is returned when required fields are missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyExists is returned on a duplicate unique key.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnknownMember is returned when chat membership references a nonexistent user.
	ErrUnknownMember = errors.New("unknown member")
	// ErrStorageFailure is returned when the persistence layer fails to write.
	ErrStorageFailure = errors.New("storage failure")
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

// MapErrorToHTTP maps domain errors to HTTP errors. Domain errors may arrive
// wrapped, so matching goes through errors.Is.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthenticated.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, ErrNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrInvalidInput):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_INPUT")
	case errors.Is(err, ErrAlreadyExists):
		return NewHTTPError(http.StatusConflict, ErrAlreadyExists.Error(), "ALREADY_EXISTS")
	case errors.Is(err, ErrUnknownMember):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "UNKNOWN_MEMBER")
	case errors.Is(err, ErrStorageFailure):
		return NewHTTPError(http.StatusInternalServerError, "storage failure", "STORAGE_FAILURE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
