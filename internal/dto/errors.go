package dto

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("invalid input")
	ErrDataIntegrity = errors.New("data integrity error")
)

// ValidationError carries field-level messages for a rejected payload.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
