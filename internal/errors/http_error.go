package errors

import "errors"

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Sentinel errors handlers need to tell apart when mapping to a response.
var (
	ErrNotFound           = errors.New("not found")
	ErrSlotUnavailable    = errors.New("slot is no longer available")
	ErrSlotHasReservation = errors.New("slot has an active reservation")
	ErrReferenceTaken     = errors.New("booking reference already taken")
	ErrRateLimited        = errors.New("too many booking attempts")
	ErrChallengeFailed    = errors.New("verification challenge failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSlotWindow  = errors.New("end time must be after start time")
)
