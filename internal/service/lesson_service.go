package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/domain"
	"github.com/phrazzld/texdrill-api/internal/platform/logger"
	"github.com/phrazzld/texdrill-api/internal/store"
)

// LessonService serves lesson content and tracks lesson progress.
type LessonService interface {
	// ListLessons returns all lessons ordered by sequence.
	ListLessons(ctx context.Context) ([]domain.LessonSummary, error)

	// GetLesson returns a lesson with its cards, or ErrLessonNotFound.
	GetLesson(ctx context.Context, lessonID uuid.UUID) (*domain.Lesson, error)

	// Progress reports the user's attempts on each practice card of a lesson.
	Progress(ctx context.Context, userID, lessonID uuid.UUID) (*domain.LessonProgress, error)

	// CompleteLesson marks the lesson completed for the user and returns the
	// completion time. Completing a lesson twice keeps the first time.
	CompleteLesson(ctx context.Context, userID, lessonID uuid.UUID) (time.Time, error)
}

type lessonService struct {
	lessons  store.LessonStore
	attempts store.AttemptStore
	now      func() time.Time
	logger   *slog.Logger
}

var _ LessonService = (*lessonService)(nil)

// NewLessonService creates a LessonService.
func NewLessonService(lessons store.LessonStore, attempts store.AttemptStore, logger *slog.Logger) LessonService {
	if lessons == nil {
		panic("lessons cannot be nil")
	}
	if attempts == nil {
		panic("attempts cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &lessonService{
		lessons:  lessons,
		attempts: attempts,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "lesson_service")),
	}
}

func (s *lessonService) ListLessons(ctx context.Context) ([]domain.LessonSummary, error) {
	lessons, err := s.lessons.List(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list lessons",
			slog.String("error", err.Error()))
		return nil, NewServiceError("list lessons", "failed to retrieve lessons", err)
	}
	return lessons, nil
}

func (s *lessonService) GetLesson(ctx context.Context, lessonID uuid.UUID) (*domain.Lesson, error) {
	lesson, err := s.lessons.Get(ctx, lessonID)
	if err != nil {
		return nil, s.lessonError(ctx, "get lesson", lessonID, err)
	}
	return lesson, nil
}

func (s *lessonService) Progress(ctx context.Context, userID, lessonID uuid.UUID) (*domain.LessonProgress, error) {
	lesson, err := s.lessons.Get(ctx, lessonID)
	if err != nil {
		return nil, s.lessonError(ctx, "lesson progress", lessonID, err)
	}

	cards := lesson.PracticeCards()
	ids := make([]uuid.UUID, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}

	byExercise, err := s.attempts.ProgressByExercise(ctx, userID, ids)
	if err != nil {
		return nil, s.lessonError(ctx, "lesson progress", lessonID, err)
	}

	completedAt, err := s.lessons.CompletedAt(ctx, userID, lessonID)
	if err != nil {
		return nil, s.lessonError(ctx, "lesson progress", lessonID, err)
	}

	return domain.BuildLessonProgress(lesson, byExercise, completedAt), nil
}

func (s *lessonService) CompleteLesson(ctx context.Context, userID, lessonID uuid.UUID) (time.Time, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.lessons.MarkCompleted(ctx, userID, lessonID, s.now().UTC()); err != nil {
		return time.Time{}, s.lessonError(ctx, "complete lesson", lessonID, err)
	}

	completedAt, err := s.lessons.CompletedAt(ctx, userID, lessonID)
	if err != nil {
		return time.Time{}, s.lessonError(ctx, "complete lesson", lessonID, err)
	}
	if completedAt == nil {
		return time.Time{}, NewServiceError("complete lesson", "completion was not recorded", nil)
	}

	log.Info("lesson completed",
		slog.String("user_id", userID.String()),
		slog.String("lesson_id", lessonID.String()))
	return *completedAt, nil
}

func (s *lessonService) lessonError(ctx context.Context, op string, lessonID uuid.UUID, err error) error {
	if errors.Is(err, store.ErrLessonNotFound) {
		return fmt.Errorf("%w: %w", ErrLessonNotFound, err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("lesson operation failed",
		slog.String("operation", op),
		slog.String("lesson_id", lessonID.String()),
		slog.String("error", err.Error()))
	return NewServiceError(op, "failed to access lesson data", err)
}
