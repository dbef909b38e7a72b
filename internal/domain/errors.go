package domain

import "errors"

// Sentinel errors shared across repositories, services and handlers.
// Handlers map them to HTTP statuses with errors.Is.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenNotFound      = errors.New("reset token not found")
	ErrTokenUsed          = errors.New("this reset token has already been used")
	ErrTokenExpired       = errors.New("this reset token has expired")
)

// ValidationError marks malformed or missing input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
