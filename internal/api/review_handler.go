package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/texdrill-api/internal/api/shared"
	"github.com/phrazzld/texdrill-api/internal/service/review"
)

// ReviewHandler serves the review queue and statistics.
type ReviewHandler struct {
	reviewService review.Service
	now           func() time.Time
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(reviewService review.Service) *ReviewHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil")
	}
	return &ReviewHandler{reviewService: reviewService, now: time.Now}
}

// ListDue handles GET /api/reviews/due. The optional as_of query parameter
// is an RFC 3339 timestamp and defaults to now.
func (h *ReviewHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	asOf, err := parseOptionalTime(r, "as_of")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid as_of: must be an RFC 3339 timestamp")
		return
	}
	if asOf == nil {
		now := h.now()
		asOf = &now
	}
	utc := asOf.UTC()

	records, err := h.reviewService.ListDue(r.Context(), userID, &utc)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list due reviews")
		return
	}

	resp := DueReviewsResponse{AsOf: utc, Reviews: make([]ReviewResponse, 0, len(records))}
	for _, rec := range records {
		resp.Reviews = append(resp.Reviews, reviewToResponse(rec))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Stats handles GET /api/reviews/stats.
func (h *ReviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	stats, err := h.reviewService.Stats(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load review statistics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
