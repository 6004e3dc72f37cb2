package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/domain"
	"github.com/phrazzld/texdrill-api/internal/domain/latex"
	"github.com/phrazzld/texdrill-api/internal/service/review"
)

// RegisterRequest is the payload of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// LoginRequest is the payload of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest is the payload of POST /api/auth/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	// ExpiresAt is when the access token expires, in RFC 3339.
	ExpiresAt string `json:"expires_at"`
}

// SubmitAttemptRequest is the payload of POST /api/practice/submit.
type SubmitAttemptRequest struct {
	ExerciseID uuid.UUID `json:"exercise_id" validate:"required"`
	UserAnswer string    `json:"user_answer" validate:"max=4096"`
	// Quality overrides the grade derived from the verdict.
	Quality *int `json:"quality,omitempty" validate:"omitempty,gte=0,lte=5"`
}

// HintRequest is the payload of POST /api/practice/hint.
type HintRequest struct {
	ExerciseID uuid.UUID `json:"exercise_id" validate:"required"`
	HintLevel  int       `json:"hint_level"  validate:"gte=0"`
}

// CheckRequest is the payload of POST /api/practice/check.
type CheckRequest struct {
	UserAnswer   string `json:"user_answer"   validate:"max=4096"`
	TargetAnswer string `json:"target_answer" validate:"required,max=4096"`
}

// SubmitAttemptResponse reports the verdict and the updated schedule.
type SubmitAttemptResponse struct {
	IsCorrect    bool             `json:"is_correct"`
	Tip          *latex.Tip       `json:"tip,omitempty"`
	Diagnosis    *latex.Diagnosis `json:"diagnosis,omitempty"`
	TargetAnswer string           `json:"target_answer"`
	Hint         string           `json:"hint,omitempty"`
	Review       ReviewResponse   `json:"review"`
}

// ReviewResponse is the client view of a review record.
type ReviewResponse struct {
	ExerciseID       uuid.UUID `json:"exercise_id"`
	NextReviewAt     time.Time `json:"next_review_at"`
	EasinessFactor   float64   `json:"easiness_factor"`
	Repetitions      int       `json:"repetitions"`
	LastIntervalDays int       `json:"last_interval_days"`
	Tier             string    `json:"tier"`
}

// DueReviewsResponse lists the records due at AsOf.
type DueReviewsResponse struct {
	AsOf    time.Time        `json:"as_of"`
	Reviews []ReviewResponse `json:"reviews"`
}

// LessonListResponse wraps the lesson listing.
type LessonListResponse struct {
	Lessons []domain.LessonSummary `json:"lessons"`
}

// CompleteLessonResponse confirms a lesson completion.
type CompleteLessonResponse struct {
	LessonID    uuid.UUID `json:"lesson_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// ResetResponse counts the rows removed by a data reset.
type ResetResponse struct {
	Deleted review.ResetResult `json:"deleted"`
}

func reviewToResponse(r *domain.ReviewRecord) ReviewResponse {
	return ReviewResponse{
		ExerciseID:       r.ExerciseID,
		NextReviewAt:     r.NextReviewAt,
		EasinessFactor:   r.EasinessFactor,
		Repetitions:      r.Repetitions,
		LastIntervalDays: r.LastIntervalDays,
		Tier:             string(r.Tier()),
	}
}

func attemptToResponse(res *review.AttemptResult) SubmitAttemptResponse {
	resp := SubmitAttemptResponse{
		IsCorrect:    res.IsCorrect,
		Tip:          res.Tip,
		Diagnosis:    res.Diagnosis,
		TargetAnswer: res.TargetAnswer,
		Hint:         res.Hint,
	}
	if res.Record != nil {
		resp.Review = reviewToResponse(res.Record)
	}
	return resp
}
