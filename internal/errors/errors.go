package errors

import (
	"errors"
	"net/http"
)

// Error kinds returned by repositories and services. Handlers translate these
// into HTTP statuses with StatusFor; everything else maps to 500.
var (
	ErrNotFound             = errors.New("record not found")
	ErrAlreadyExists        = errors.New("record already exists")
	ErrInvalidState         = errors.New("operation not allowed in current state")
	ErrSpotUnavailable      = errors.New("parking spot is not available")
	ErrVehicleAlreadyParked = errors.New("vehicle already has an active reservation")
	ErrLimitExceeded        = errors.New("active reservation limit reached")
	ErrValidation           = errors.New("invalid input")
	ErrUnauthorized         = errors.New("unauthorized")
)

// HTTPError carries an explicit status code for handlers that need one.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

// StatusFor maps an error kind to its HTTP status code.
func StatusFor(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrSpotUnavailable),
		errors.Is(err, ErrVehicleAlreadyParked),
		errors.Is(err, ErrLimitExceeded):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
