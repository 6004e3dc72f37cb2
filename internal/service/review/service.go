// Package review grades practice submissions and maintains the review
// schedule of each exercise a user has attempted.
package review

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/domain"
	"github.com/phrazzld/texdrill-api/internal/domain/latex"
)

// AttemptResult is the outcome of one submission.
type AttemptResult struct {
	IsCorrect    bool                 `json:"is_correct"`
	Tip          *latex.Tip           `json:"tip,omitempty"`
	Diagnosis    *latex.Diagnosis     `json:"diagnosis,omitempty"`
	Record       *domain.ReviewRecord `json:"review"`
	TargetAnswer string               `json:"target_answer,omitempty"`
	// Hint is the first hint of the exercise, set on incorrect practice
	// submissions.
	Hint string `json:"hint,omitempty"`
}

// HintResult is a single hint and whether a further level exists.
type HintResult struct {
	Hint         string `json:"hint"`
	HintLevel    int    `json:"hint_level"`
	HasMoreHints bool   `json:"has_more_hints"`
}

// Service is the practice and review use case.
type Service interface {
	// SubmitAttempt grades userAnswer against targetAnswer, reschedules the
	// exercise and logs the attempt in one transaction. Quality is derived
	// from the verdict.
	SubmitAttempt(
		ctx context.Context,
		userID, exerciseID uuid.UUID,
		userAnswer, targetAnswer string,
	) (*AttemptResult, error)

	// SubmitAttemptWithQuality is SubmitAttempt with an explicit grade.
	SubmitAttemptWithQuality(
		ctx context.Context,
		userID, exerciseID uuid.UUID,
		userAnswer, targetAnswer string,
		quality domain.Quality,
	) (*AttemptResult, error)

	// SubmitPractice grades an answer to a stored practice card. A nil
	// quality derives the grade from the verdict.
	//
	// Returns service.ErrExerciseNotFound or service.ErrNotPracticeCard
	// when exerciseID does not name a practice card.
	SubmitPractice(
		ctx context.Context,
		userID, exerciseID uuid.UUID,
		userAnswer string,
		quality *domain.Quality,
	) (*AttemptResult, error)

	// RequestHint returns the hint at level, starting from 0.
	// Returns service.ErrHintOutOfRange past the last hint.
	RequestHint(ctx context.Context, exerciseID uuid.UUID, level int) (*HintResult, error)

	// Check grades an answer without recording anything.
	Check(userAnswer, targetAnswer string) latex.Evaluation

	// ListDue returns the records due at asOf, earliest first. A nil asOf
	// means now.
	ListDue(ctx context.Context, userID uuid.UUID, asOf *time.Time) ([]*domain.ReviewRecord, error)

	// Stats counts the user's records and those due today and tomorrow.
	Stats(ctx context.Context, userID uuid.UUID) (domain.ReviewStats, error)

	// ResetUserData deletes the user's review records, attempts and lesson
	// completions in one transaction.
	ResetUserData(ctx context.Context, userID uuid.UUID) (*ResetResult, error)
}

// ResetResult counts the rows removed by ResetUserData.
type ResetResult struct {
	ReviewRecords int64 `json:"review_records"`
	Attempts      int64 `json:"attempts"`
	Completions   int64 `json:"completions"`
}
