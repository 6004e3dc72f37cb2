package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/api/shared"
	"github.com/phrazzld/texdrill-api/internal/domain"
	"github.com/phrazzld/texdrill-api/internal/domain/latex"
	"github.com/phrazzld/texdrill-api/internal/service"
	"github.com/phrazzld/texdrill-api/internal/service/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPracticeHandler_SubmitAttempt(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	exerciseID := uuid.New()
	now := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)

	t.Run("grades and reschedules", func(t *testing.T) {
		t.Parallel()
		deps := newTestDeps()
		var gotQuality *domain.Quality
		deps.reviews.SubmitPracticeFn = func(
			_ context.Context, u, e uuid.UUID, answer string, q *domain.Quality,
		) (*review.AttemptResult, error) {
			assert.Equal(t, userID, u)
			assert.Equal(t, exerciseID, e)
			assert.Equal(t, `\frac{2}{3}`, answer)
			gotQuality = q
			return &review.AttemptResult{
				IsCorrect:    false,
				Diagnosis:    &latex.Diagnosis{Type: latex.DiagnosisFractionFormat, Message: "m"},
				TargetAnswer: `\frac{1}{2}`,
				Hint:         "Use \\frac",
				Record: &domain.ReviewRecord{
					UserID: u, ExerciseID: e, NextReviewAt: now.AddDate(0, 0, 1),
					EasinessFactor: 1.96, Repetitions: 0, LastIntervalDays: 1,
				},
			}, nil
		}

		rec := doRequest(t, deps.router(userID), http.MethodPost, "/api/practice/submit",
			map[string]interface{}{"exercise_id": exerciseID, "user_answer": `\frac{2}{3}`, "quality": 2})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		require.NotNil(t, gotQuality)
		assert.Equal(t, domain.Quality(2), *gotQuality)

		resp := decodeBody[SubmitAttemptResponse](t, rec)
		assert.False(t, resp.IsCorrect)
		require.NotNil(t, resp.Diagnosis)
		assert.Equal(t, latex.DiagnosisFractionFormat, resp.Diagnosis.Type)
		assert.Equal(t, "Use \\frac", resp.Hint)
		assert.Equal(t, exerciseID, resp.Review.ExerciseID)
		assert.Equal(t, 1, resp.Review.LastIntervalDays)
		assert.Equal(t, string(domain.TierNew), resp.Review.Tier)
	})

	t.Run("quality omitted", func(t *testing.T) {
		t.Parallel()
		deps := newTestDeps()
		deps.reviews.SubmitPracticeFn = func(
			_ context.Context, _, e uuid.UUID, _ string, q *domain.Quality,
		) (*review.AttemptResult, error) {
			assert.Nil(t, q)
			return &review.AttemptResult{IsCorrect: true, Record: &domain.ReviewRecord{ExerciseID: e}}, nil
		}

		rec := doRequest(t, deps.router(userID), http.MethodPost, "/api/practice/submit",
			SubmitAttemptRequest{ExerciseID: exerciseID, UserAnswer: "x^2"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	errorCases := []struct {
		name       string
		body       interface{}
		err        error
		userID     uuid.UUID
		wantStatus int
		wantError  string
	}{
		{
			name:       "unknown exercise",
			body:       SubmitAttemptRequest{ExerciseID: exerciseID},
			err:        fmt.Errorf("%w: lookup", service.ErrExerciseNotFound),
			userID:     userID,
			wantStatus: http.StatusNotFound,
			wantError:  "Exercise not found",
		},
		{
			name:       "knowledge card",
			body:       SubmitAttemptRequest{ExerciseID: exerciseID},
			err:        service.ErrNotPracticeCard,
			userID:     userID,
			wantStatus: http.StatusBadRequest,
			wantError:  "Card is not a practice exercise",
		},
		{
			name:       "missing exercise id",
			body:       map[string]string{"user_answer": "x"},
			userID:     userID,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid exercise_id: required field",
		},
		{
			name:       "quality out of range",
			body:       map[string]interface{}{"exercise_id": exerciseID, "user_answer": "x", "quality": 9},
			userID:     userID,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid quality: too long or too large",
		},
		{
			name:       "unauthenticated",
			body:       SubmitAttemptRequest{ExerciseID: exerciseID},
			wantStatus: http.StatusUnauthorized,
			wantError:  "User ID not found or invalid",
		},
		{
			name:       "service failure",
			body:       SubmitAttemptRequest{ExerciseID: exerciseID},
			err:        service.NewServiceError("submit attempt", "failed to save", fmt.Errorf("pq: deadlock detected")),
			userID:     userID,
			wantStatus: http.StatusInternalServerError,
			wantError:  "An unexpected error occurred",
		},
	}

	for _, tt := range errorCases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			deps := newTestDeps()
			deps.reviews.SubmitPracticeFn = func(
				context.Context, uuid.UUID, uuid.UUID, string, *domain.Quality,
			) (*review.AttemptResult, error) {
				return nil, tt.err
			}

			rec := doRequest(t, deps.router(tt.userID), http.MethodPost, "/api/practice/submit", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantError, decodeBody[shared.ErrorResponse](t, rec).Error)
			assert.NotContains(t, rec.Body.String(), "deadlock")
		})
	}
}

func TestPracticeHandler_RequestHint(t *testing.T) {
	t.Parallel()

	exerciseID := uuid.New()

	tests := []struct {
		name       string
		body       interface{}
		result     *review.HintResult
		err        error
		wantStatus int
	}{
		{
			name:       "first hint",
			body:       HintRequest{ExerciseID: exerciseID, HintLevel: 0},
			result:     &review.HintResult{Hint: "Use \\frac", HintLevel: 0, HasMoreHints: true},
			wantStatus: http.StatusOK,
		},
		{
			name:       "past the last hint",
			body:       HintRequest{ExerciseID: exerciseID, HintLevel: 3},
			err:        service.ErrHintOutOfRange,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative level",
			body:       HintRequest{ExerciseID: exerciseID, HintLevel: -1},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			deps := newTestDeps()
			deps.reviews.RequestHintFn = func(_ context.Context, e uuid.UUID, level int) (*review.HintResult, error) {
				assert.Equal(t, exerciseID, e)
				return tt.result, tt.err
			}

			rec := doRequest(t, deps.router(uuid.New()), http.MethodPost, "/api/practice/hint", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.result != nil {
				assert.Equal(t, *tt.result, decodeBody[review.HintResult](t, rec))
			}
		})
	}
}

func TestPracticeHandler_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		user        string
		target      string
		wantCorrect bool
		wantTip     latex.TipType
	}{
		{name: "slash fraction", user: "1/2", target: `\frac{1}{2}`, wantCorrect: true},
		{name: "bare function", user: "sin(x)", target: `\sin(x)`, wantCorrect: true, wantTip: latex.TipFunctionName},
		{name: "wrong", user: "2/3", target: `\frac{1}{2}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			deps := newTestDeps()

			rec := doRequest(t, deps.router(uuid.Nil), http.MethodPost, "/api/practice/check",
				CheckRequest{UserAnswer: tt.user, TargetAnswer: tt.target})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			eval := decodeBody[latex.Evaluation](t, rec)
			assert.Equal(t, tt.wantCorrect, eval.IsCorrect)
			if tt.wantTip != "" {
				require.NotNil(t, eval.Tip)
				assert.Equal(t, tt.wantTip, eval.Tip.Type)
			}
		})
	}

	t.Run("target required", func(t *testing.T) {
		t.Parallel()
		rec := doRequest(t, newTestDeps().router(uuid.Nil), http.MethodPost, "/api/practice/check",
			CheckRequest{UserAnswer: "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
