package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDateRange      = errors.New("check-out must be after check-in")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrRoomNotFound          = errors.New("room not found")
	ErrNotOwner              = errors.New("booking belongs to another guest")
	ErrMalformedNotification = errors.New("notification missing required fields")
)

// ValidationError reports a submission field that is missing or fails
// its format or range constraint. Validation runs before any write, so
// a ValidationError always means nothing was persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
