package service

import (
	"errors"
	"fmt"
)

// Sentinel errors callers check with errors.Is.
var (
	// ErrExerciseNotFound means no card has the requested exercise ID.
	ErrExerciseNotFound = errors.New("exercise not found")

	// ErrNotPracticeCard means the card exists but is a knowledge card.
	ErrNotPracticeCard = errors.New("card is not a practice exercise")

	// ErrHintOutOfRange means the exercise has no hint at the requested level.
	ErrHintOutOfRange = errors.New("no hint at this level")

	// ErrLessonNotFound means no lesson has the requested ID.
	ErrLessonNotFound = errors.New("lesson not found")

	// ErrUserNotFound means no user has the requested ID or email.
	ErrUserNotFound = errors.New("user not found")
)

// ServiceError adds the failing operation to an unexpected error.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap supports errors.Is and errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
