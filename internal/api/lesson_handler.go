package api

import (
	"net/http"

	"github.com/phrazzld/texdrill-api/internal/api/shared"
	"github.com/phrazzld/texdrill-api/internal/domain"
	"github.com/phrazzld/texdrill-api/internal/service"
)

// LessonHandler serves lesson content and per-user progress.
type LessonHandler struct {
	lessonService service.LessonService
}

// NewLessonHandler creates a LessonHandler.
func NewLessonHandler(lessonService service.LessonService) *LessonHandler {
	if lessonService == nil {
		panic("lessonService cannot be nil")
	}
	return &LessonHandler{lessonService: lessonService}
}

// ListLessons handles GET /api/lessons.
func (h *LessonHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.lessonService.ListLessons(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list lessons")
		return
	}
	if lessons == nil {
		lessons = []domain.LessonSummary{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, LessonListResponse{Lessons: lessons})
}

// GetLesson handles GET /api/lessons/{id}.
func (h *LessonHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	_, lessonID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	lesson, err := h.lessonService.GetLesson(r.Context(), lessonID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, lesson)
}

// GetProgress handles GET /api/lessons/{id}/progress.
func (h *LessonHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, lessonID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	progress, err := h.lessonService.Progress(r.Context(), userID, lessonID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}

// CompleteLesson handles POST /api/lessons/{id}/complete.
func (h *LessonHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, lessonID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	completedAt, err := h.lessonService.CompleteLesson(r.Context(), userID, lessonID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CompleteLessonResponse{
		LessonID:    lessonID,
		CompletedAt: completedAt,
	})
}
