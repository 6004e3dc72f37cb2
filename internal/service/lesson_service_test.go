package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/domain"
	"github.com/phrazzld/texdrill-api/internal/mocks"
	"github.com/phrazzld/texdrill-api/internal/platform/logger"
	"github.com/phrazzld/texdrill-api/internal/service"
	"github.com/phrazzld/texdrill-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func buildLesson(t *testing.T) *domain.Lesson {
	t.Helper()
	lesson, err := domain.NewLesson(1, "Fractions", "Writing fractions", time.Now())
	require.NoError(t, err)
	_, err = lesson.AddKnowledgeCard(`Use \frac{a}{b} for fractions.`)
	require.NoError(t, err)
	_, err = lesson.AddPracticeCard(domain.PracticeSpec{
		Question:      "Write one half",
		TargetFormula: `\frac{1}{2}`,
		Hints:         []string{`Use \frac`},
	})
	require.NoError(t, err)
	_, err = lesson.AddPracticeCard(domain.PracticeSpec{
		Question:      "Write x squared",
		TargetFormula: `x^2`,
	})
	require.NoError(t, err)
	return lesson
}

func TestLessonService_ListAndGet(t *testing.T) {
	t.Parallel()

	lesson := buildLesson(t)
	missing := uuid.New()

	lessons := new(mocks.MockLessonStore)
	lessons.On("List", mock.Anything).Return([]domain.LessonSummary{{ID: lesson.ID, Sequence: 1, Title: "Fractions", CardCount: 3}}, nil)
	lessons.On("Get", mock.Anything, lesson.ID).Return(lesson, nil)
	lessons.On("Get", mock.Anything, missing).Return(nil, store.ErrLessonNotFound)

	log, _ := logger.NewCapture()
	svc := service.NewLessonService(lessons, new(mocks.MockAttemptStore), log)
	ctx := context.Background()

	list, err := svc.ListLessons(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].CardCount)

	got, err := svc.GetLesson(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Len(t, got.Cards, 3)

	_, err = svc.GetLesson(ctx, missing)
	assert.ErrorIs(t, err, service.ErrLessonNotFound)
}

func TestLessonService_ListFailure(t *testing.T) {
	t.Parallel()

	lessons := new(mocks.MockLessonStore)
	lessons.On("List", mock.Anything).Return(nil, errors.New("timeout"))

	log, buf := logger.NewCapture()
	svc := service.NewLessonService(lessons, new(mocks.MockAttemptStore), log)

	_, err := svc.ListLessons(context.Background())
	var svcErr *service.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "list lessons", svcErr.Operation)
	assert.Contains(t, buf.String(), "failed to list lessons")
}

func TestLessonService_Progress(t *testing.T) {
	t.Parallel()

	lesson := buildLesson(t)
	userID := uuid.New()
	practice := lesson.PracticeCards()
	solvedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	lessons := new(mocks.MockLessonStore)
	lessons.On("Get", mock.Anything, lesson.ID).Return(lesson, nil)
	lessons.On("CompletedAt", mock.Anything, userID, lesson.ID).Return(nil, nil)

	attempts := new(mocks.MockAttemptStore)
	attempts.On("ProgressByExercise", mock.Anything, userID, []uuid.UUID{practice[0].ID, practice[1].ID}).
		Return(map[uuid.UUID]domain.ExerciseProgress{
			practice[0].ID: {ExerciseID: practice[0].ID, Attempts: 2, Solved: true, FirstSolvedAt: &solvedAt},
		}, nil)

	log, _ := logger.NewCapture()
	svc := service.NewLessonService(lessons, attempts, log)

	progress, err := svc.Progress(context.Background(), userID, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Solved)
	assert.Equal(t, 2, progress.Total)
	assert.False(t, progress.Completed)
	require.Len(t, progress.Exercises, 2)
	assert.Equal(t, 2, progress.Exercises[0].Attempts)
	assert.Equal(t, 0, progress.Exercises[1].Attempts)
	assert.Equal(t, practice[1].ID, progress.Exercises[1].ExerciseID)
}

func TestLessonService_CompleteLesson(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	lessonID := uuid.New()
	first := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("returns stored completion time", func(t *testing.T) {
		t.Parallel()
		lessons := new(mocks.MockLessonStore)
		lessons.On("MarkCompleted", mock.Anything, userID, lessonID, mock.AnythingOfType("time.Time")).Return(nil)
		lessons.On("CompletedAt", mock.Anything, userID, lessonID).Return(&first, nil)

		log, _ := logger.NewCapture()
		svc := service.NewLessonService(lessons, new(mocks.MockAttemptStore), log)

		at, err := svc.CompleteLesson(context.Background(), userID, lessonID)
		require.NoError(t, err)
		assert.True(t, first.Equal(at))
		lessons.AssertExpectations(t)
	})

	t.Run("unknown lesson", func(t *testing.T) {
		t.Parallel()
		lessons := new(mocks.MockLessonStore)
		lessons.On("MarkCompleted", mock.Anything, userID, lessonID, mock.Anything).Return(store.ErrLessonNotFound)

		log, _ := logger.NewCapture()
		svc := service.NewLessonService(lessons, new(mocks.MockAttemptStore), log)

		_, err := svc.CompleteLesson(context.Background(), userID, lessonID)
		assert.ErrorIs(t, err, service.ErrLessonNotFound)
	})
}
