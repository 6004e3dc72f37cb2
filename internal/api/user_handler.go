package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/texdrill-api/internal/api/shared"
	"github.com/phrazzld/texdrill-api/internal/platform/logger"
	"github.com/phrazzld/texdrill-api/internal/service/review"
)

// UserHandler serves operations on the caller's own account.
type UserHandler struct {
	reviewService review.Service
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(reviewService review.Service) *UserHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil")
	}
	return &UserHandler{reviewService: reviewService}
}

// ResetData handles POST /api/users/me/reset.
func (h *UserHandler) ResetData(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	result, err := h.reviewService.ResetUserData(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reset user data")
		return
	}

	logger.FromContext(r.Context()).Info("user data reset",
		slog.Int64("review_records", result.ReviewRecords),
		slog.Int64("attempts", result.Attempts),
		slog.Int64("completions", result.Completions))

	shared.RespondWithJSON(w, r, http.StatusOK, ResetResponse{Deleted: *result})
}
