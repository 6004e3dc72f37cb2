package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/domain"
)

// Common errors
var (
	ErrNilRecord     = errors.New("review record cannot be nil")
	ErrInvalidRecord = errors.New("invalid review record")
)

// Service defines the interface for SRS algorithm operations
type Service interface {
	// NewRecord returns the default record for a first attempt.
	NewRecord(userID, exerciseID uuid.UUID, now time.Time) (*domain.ReviewRecord, error)

	// UpdateSchedule computes the record that follows an answer.
	// Quality is clamped to [0,5] and reconciled with isCorrect.
	UpdateSchedule(
		record *domain.ReviewRecord,
		isCorrect bool,
		quality domain.Quality,
		now time.Time,
	) (*domain.ReviewRecord, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// NewRecord implements Service.
func (s *defaultService) NewRecord(
	userID, exerciseID uuid.UUID,
	now time.Time,
) (*domain.ReviewRecord, error) {
	record, err := domain.NewReviewRecord(userID, exerciseID, now)
	if err != nil {
		return nil, err
	}
	record.EasinessFactor = s.params.InitialEaseFactor
	return record, nil
}

// UpdateSchedule implements Service.
func (s *defaultService) UpdateSchedule(
	record *domain.ReviewRecord,
	isCorrect bool,
	quality domain.Quality,
	now time.Time,
) (*domain.ReviewRecord, error) {
	if record == nil {
		return nil, ErrNilRecord
	}

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	return calculateNextRecord(record, isCorrect, quality, now, s.params), nil
}
