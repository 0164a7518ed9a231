package domain

import "errors"

var (
	// ErrNotFound covers both a truly absent record and a record owned by
	// another user, so callers cannot tell the two apart.
	ErrNotFound = errors.New("resource not found")

	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for both unknown-email and
	// wrong-password failures.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
