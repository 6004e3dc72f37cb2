package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/texdrill-api/internal/api/shared"
	"github.com/phrazzld/texdrill-api/internal/domain"
	"github.com/phrazzld/texdrill-api/internal/platform/logger"
	"github.com/phrazzld/texdrill-api/internal/service/review"
)

// PracticeHandler grades practice answers and serves hints.
type PracticeHandler struct {
	reviewService review.Service
}

// NewPracticeHandler creates a PracticeHandler.
func NewPracticeHandler(reviewService review.Service) *PracticeHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil")
	}
	return &PracticeHandler{reviewService: reviewService}
}

// SubmitAttempt handles POST /api/practice/submit.
func (h *PracticeHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req SubmitAttemptRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var quality *domain.Quality
	if req.Quality != nil {
		q := domain.Quality(*req.Quality)
		quality = &q
	}

	result, err := h.reviewService.SubmitPractice(r.Context(), userID, req.ExerciseID, req.UserAnswer, quality)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContext(r.Context()).Debug("practice attempt graded",
		slog.String("exercise_id", req.ExerciseID.String()),
		slog.Bool("is_correct", result.IsCorrect))

	shared.RespondWithJSON(w, r, http.StatusOK, attemptToResponse(result))
}

// RequestHint handles POST /api/practice/hint.
func (h *PracticeHandler) RequestHint(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req HintRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	hint, err := h.reviewService.RequestHint(r.Context(), req.ExerciseID, req.HintLevel)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, hint)
}

// Check handles POST /api/practice/check. Nothing is recorded.
func (h *PracticeHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.reviewService.Check(req.UserAnswer, req.TargetAnswer))
}
