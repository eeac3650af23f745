package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidPhone is returned when a phone number fails validation.
	ErrInvalidPhone = errors.New("phone number must be numeric and at least 10 digits")
	// ErrUserNotFound is returned when no user exists for a phone number.
	ErrUserNotFound = errors.New("no user found with this phone number")
	// ErrOTPNotFound is returned when no pending code exists for the user.
	ErrOTPNotFound = errors.New("no active otp found")
	// ErrOTPExpired is returned when the pending code has passed its expiry.
	ErrOTPExpired = errors.New("otp has expired")
	// ErrOTPInvalid is returned when the supplied code does not match.
	ErrOTPInvalid = errors.New("invalid otp")
	// ErrCategoryNotFound is returned when a category lookup misses.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrProductNotFound is returned when a product lookup misses.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid or revoked.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrForbidden is returned when the caller's role does not permit the operation.
	ErrForbidden = errors.New("operation not permitted for this role")
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

// MapErrorToHTTP maps domain errors to HTTP errors. Missing users and codes
// are reported as 404 rather than collapsed into a generic 400.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrInvalidPhone:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PHONE")
	case ErrUserNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case ErrOTPNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "OTP_NOT_FOUND")
	case ErrOTPExpired:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "OTP_EXPIRED")
	case ErrOTPInvalid:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "OTP_INVALID")
	case ErrCategoryNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "CATEGORY_NOT_FOUND")
	case ErrProductNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "PRODUCT_NOT_FOUND")
	case ErrInvalidRefreshToken:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	case ErrForbidden:
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
