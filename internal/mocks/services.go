package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/domain"
	"github.com/phrazzld/texdrill-api/internal/domain/latex"
	"github.com/phrazzld/texdrill-api/internal/service"
	"github.com/phrazzld/texdrill-api/internal/service/review"
)

var (
	_ review.Service        = (*MockReviewService)(nil)
	_ service.LessonService = (*MockLessonService)(nil)
	_ service.UserService   = (*MockUserService)(nil)
)

// MockReviewService implements review.Service. Unset functions return
// zero values, except Check which grades with the real checker.
type MockReviewService struct {
	SubmitAttemptFn            func(ctx context.Context, userID, exerciseID uuid.UUID, userAnswer, targetAnswer string) (*review.AttemptResult, error)
	SubmitAttemptWithQualityFn func(ctx context.Context, userID, exerciseID uuid.UUID, userAnswer, targetAnswer string, quality domain.Quality) (*review.AttemptResult, error)
	SubmitPracticeFn           func(ctx context.Context, userID, exerciseID uuid.UUID, userAnswer string, quality *domain.Quality) (*review.AttemptResult, error)
	RequestHintFn              func(ctx context.Context, exerciseID uuid.UUID, level int) (*review.HintResult, error)
	ListDueFn                  func(ctx context.Context, userID uuid.UUID, asOf *time.Time) ([]*domain.ReviewRecord, error)
	StatsFn                    func(ctx context.Context, userID uuid.UUID) (domain.ReviewStats, error)
	ResetUserDataFn            func(ctx context.Context, userID uuid.UUID) (*review.ResetResult, error)
}

func (m *MockReviewService) SubmitAttempt(
	ctx context.Context,
	userID, exerciseID uuid.UUID,
	userAnswer, targetAnswer string,
) (*review.AttemptResult, error) {
	if m.SubmitAttemptFn != nil {
		return m.SubmitAttemptFn(ctx, userID, exerciseID, userAnswer, targetAnswer)
	}
	return nil, nil
}

func (m *MockReviewService) SubmitAttemptWithQuality(
	ctx context.Context,
	userID, exerciseID uuid.UUID,
	userAnswer, targetAnswer string,
	quality domain.Quality,
) (*review.AttemptResult, error) {
	if m.SubmitAttemptWithQualityFn != nil {
		return m.SubmitAttemptWithQualityFn(ctx, userID, exerciseID, userAnswer, targetAnswer, quality)
	}
	return nil, nil
}

func (m *MockReviewService) SubmitPractice(
	ctx context.Context,
	userID, exerciseID uuid.UUID,
	userAnswer string,
	quality *domain.Quality,
) (*review.AttemptResult, error) {
	if m.SubmitPracticeFn != nil {
		return m.SubmitPracticeFn(ctx, userID, exerciseID, userAnswer, quality)
	}
	return nil, nil
}

func (m *MockReviewService) RequestHint(ctx context.Context, exerciseID uuid.UUID, level int) (*review.HintResult, error) {
	if m.RequestHintFn != nil {
		return m.RequestHintFn(ctx, exerciseID, level)
	}
	return nil, nil
}

func (m *MockReviewService) Check(userAnswer, targetAnswer string) latex.Evaluation {
	return latex.Evaluate(userAnswer, targetAnswer)
}

func (m *MockReviewService) ListDue(ctx context.Context, userID uuid.UUID, asOf *time.Time) ([]*domain.ReviewRecord, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, userID, asOf)
	}
	return []*domain.ReviewRecord{}, nil
}

func (m *MockReviewService) Stats(ctx context.Context, userID uuid.UUID) (domain.ReviewStats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx, userID)
	}
	return domain.ReviewStats{}, nil
}

func (m *MockReviewService) ResetUserData(ctx context.Context, userID uuid.UUID) (*review.ResetResult, error) {
	if m.ResetUserDataFn != nil {
		return m.ResetUserDataFn(ctx, userID)
	}
	return &review.ResetResult{}, nil
}

// MockLessonService implements service.LessonService.
type MockLessonService struct {
	ListLessonsFn    func(ctx context.Context) ([]domain.LessonSummary, error)
	GetLessonFn      func(ctx context.Context, lessonID uuid.UUID) (*domain.Lesson, error)
	ProgressFn       func(ctx context.Context, userID, lessonID uuid.UUID) (*domain.LessonProgress, error)
	CompleteLessonFn func(ctx context.Context, userID, lessonID uuid.UUID) (time.Time, error)
}

func (m *MockLessonService) ListLessons(ctx context.Context) ([]domain.LessonSummary, error) {
	if m.ListLessonsFn != nil {
		return m.ListLessonsFn(ctx)
	}
	return []domain.LessonSummary{}, nil
}

func (m *MockLessonService) GetLesson(ctx context.Context, lessonID uuid.UUID) (*domain.Lesson, error) {
	if m.GetLessonFn != nil {
		return m.GetLessonFn(ctx, lessonID)
	}
	return nil, service.ErrLessonNotFound
}

func (m *MockLessonService) Progress(ctx context.Context, userID, lessonID uuid.UUID) (*domain.LessonProgress, error) {
	if m.ProgressFn != nil {
		return m.ProgressFn(ctx, userID, lessonID)
	}
	return nil, service.ErrLessonNotFound
}

func (m *MockLessonService) CompleteLesson(ctx context.Context, userID, lessonID uuid.UUID) (time.Time, error) {
	if m.CompleteLessonFn != nil {
		return m.CompleteLessonFn(ctx, userID, lessonID)
	}
	return time.Time{}, service.ErrLessonNotFound
}

// MockUserService implements service.UserService.
type MockUserService struct {
	CreateUserFn     func(ctx context.Context, email, password string) (*domain.User, error)
	GetUserFn        func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetUserByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (m *MockUserService) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	if m.CreateUserFn != nil {
		return m.CreateUserFn(ctx, email, password)
	}
	return domain.NewUser(email, password, time.Now())
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return nil, service.ErrUserNotFound
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetUserByEmailFn != nil {
		return m.GetUserByEmailFn(ctx, email)
	}
	return nil, service.ErrUserNotFound
}
