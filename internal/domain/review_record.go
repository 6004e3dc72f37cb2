package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Scheduling defaults for a record that has never been reviewed.
const (
	DefaultEasinessFactor = 2.5
	MinEasinessFactor     = 1.3
)

// Quality is the SM-2 recall grade of an answer, from 0 (blackout) to 5
// (perfect recall).
type Quality int

// Quality bounds and the default grades used when a caller does not grade
// an answer explicitly.
const (
	MinQuality Quality = 0
	MaxQuality Quality = 5

	QualityCorrect   Quality = 4
	QualityIncorrect Quality = 1
)

// ClampQuality forces q into [MinQuality, MaxQuality].
func ClampQuality(q Quality) Quality {
	if q < MinQuality {
		return MinQuality
	}
	if q > MaxQuality {
		return MaxQuality
	}
	return q
}

// DefaultQuality maps a correctness verdict onto a grade.
func DefaultQuality(isCorrect bool) Quality {
	if isCorrect {
		return QualityCorrect
	}
	return QualityIncorrect
}

// Tier is the interval tier a record sits in, derived from its repetitions.
type Tier string

const (
	TierNew    Tier = "new"
	TierYoung  Tier = "young"
	TierMature Tier = "mature"
)

// Validation errors for ReviewRecord
var (
	ErrEmptyRecordUserID     = errors.New("review record user ID cannot be empty")
	ErrEmptyRecordExerciseID = errors.New("review record exercise ID cannot be empty")
	ErrInvalidEasinessFactor = errors.New("easiness factor must be at least 1.3")
	ErrNegativeRepetitions   = errors.New("repetitions must be greater than or equal to 0")
	ErrNegativeInterval      = errors.New("interval must be greater than or equal to 0")
)

// ReviewRecord holds the scheduling state of one exercise for one user.
// There is exactly one record per (UserID, ExerciseID) pair.
type ReviewRecord struct {
	UserID           uuid.UUID `json:"user_id"`
	ExerciseID       uuid.UUID `json:"exercise_id"`
	NextReviewAt     time.Time `json:"next_review_at"`
	EasinessFactor   float64   `json:"easiness_factor"`
	Repetitions      int       `json:"repetitions"`
	LastIntervalDays int       `json:"last_interval_days"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewReviewRecord returns the default record for an exercise the user has
// not attempted yet. It is due immediately.
func NewReviewRecord(userID, exerciseID uuid.UUID, now time.Time) (*ReviewRecord, error) {
	now = now.UTC()
	r := &ReviewRecord{
		UserID:           userID,
		ExerciseID:       exerciseID,
		NextReviewAt:     now,
		EasinessFactor:   DefaultEasinessFactor,
		Repetitions:      0,
		LastIntervalDays: 0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate checks the record invariants.
func (r *ReviewRecord) Validate() error {
	if r.UserID == uuid.Nil {
		return ErrEmptyRecordUserID
	}
	if r.ExerciseID == uuid.Nil {
		return ErrEmptyRecordExerciseID
	}
	if r.EasinessFactor < MinEasinessFactor {
		return ErrInvalidEasinessFactor
	}
	if r.Repetitions < 0 {
		return ErrNegativeRepetitions
	}
	if r.LastIntervalDays < 0 {
		return ErrNegativeInterval
	}
	return nil
}

// IsDue reports whether the record should be reviewed at asOf.
func (r *ReviewRecord) IsDue(asOf time.Time) bool {
	return !asOf.Before(r.NextReviewAt)
}

// Tier returns the interval tier of the record.
func (r *ReviewRecord) Tier() Tier {
	switch {
	case r.Repetitions <= 0:
		return TierNew
	case r.Repetitions == 1:
		return TierYoung
	default:
		return TierMature
	}
}

// ReviewStats are the aggregate counts reported for a user's records.
type ReviewStats struct {
	Total       int `json:"total"`
	DueToday    int `json:"due_today"`
	DueTomorrow int `json:"due_tomorrow"`
}
