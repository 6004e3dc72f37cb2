package domain

import "errors"

var (
	// ErrValidation wraps every field-level validation failure of a lesson,
	// card, review record or attempt.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID marks a nil or malformed identifier.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized is returned when a user acts on data they do not own.
	ErrUnauthorized = errors.New("unauthorized operation")
)
