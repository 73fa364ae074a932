package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrDuplicateUsername is returned when the username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrReviewNotFound is returned when a review does not exist.
	ErrReviewNotFound = errors.New("review not found")
	// ErrForbidden is returned when a user touches a review they do not own.
	ErrForbidden = errors.New("you do not own this review")
	// ErrTitleRequired is returned when the book title is empty.
	ErrTitleRequired = errors.New("book title is required")
	// ErrTextRequired is returned when the review text is empty.
	ErrTextRequired = errors.New("review text is required")
	// ErrRatingOutOfRange is returned when the rating is outside 1-5.
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
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

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrDuplicateUsername:
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_USERNAME")
	case ErrDuplicateEmail:
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_EMAIL")
	case ErrInvalidCredentials:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case ErrReviewNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "REVIEW_NOT_FOUND")
	case ErrForbidden:
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case ErrTitleRequired:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TITLE_REQUIRED")
	case ErrTextRequired:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TEXT_REQUIRED")
	case ErrRatingOutOfRange:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "RATING_OUT_OF_RANGE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
