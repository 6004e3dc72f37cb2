package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/domain"
	"github.com/phrazzld/texdrill-api/internal/store"
	"github.com/stretchr/testify/mock"
)

var (
	_ store.ReviewStore  = (*MockReviewStore)(nil)
	_ store.AttemptStore = (*MockAttemptStore)(nil)
	_ store.LessonStore  = (*MockLessonStore)(nil)
	_ store.UserStore    = (*MockUserStore)(nil)
)

// MockReviewStore mocks store.ReviewStore.
//
// Upsert calls fn with the record registered through the "Upsert" return
// values when the first one is a *domain.ReviewRecord, so the update
// function under test runs as it would against a real store. Return nil
// and an error to fail before fn runs.
type MockReviewStore struct {
	mock.Mock
}

func (m *MockReviewStore) Upsert(
	ctx context.Context,
	initial *domain.ReviewRecord,
	fn store.ReviewUpdateFn,
) (*domain.ReviewRecord, error) {
	args := m.Called(ctx, initial, fn)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	current := initial
	if existing, ok := args.Get(0).(*domain.ReviewRecord); ok && existing != nil {
		current = existing
	}
	return fn(current)
}

func (m *MockReviewStore) Get(ctx context.Context, userID, exerciseID uuid.UUID) (*domain.ReviewRecord, error) {
	args := m.Called(ctx, userID, exerciseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewRecord), args.Error(1)
}

func (m *MockReviewStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	asOf time.Time,
) ([]*domain.ReviewRecord, error) {
	args := m.Called(ctx, userID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewRecord), args.Error(1)
}

func (m *MockReviewStore) CountStats(
	ctx context.Context,
	userID uuid.UUID,
	todayEnd, tomorrowEnd time.Time,
) (domain.ReviewStats, error) {
	args := m.Called(ctx, userID, todayEnd, tomorrowEnd)
	return args.Get(0).(domain.ReviewStats), args.Error(1)
}

func (m *MockReviewStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewStore) WithTx(*sql.Tx) store.ReviewStore {
	return m
}

// MockAttemptStore mocks store.AttemptStore.
type MockAttemptStore struct {
	mock.Mock
}

func (m *MockAttemptStore) Create(ctx context.Context, attempt *domain.PracticeAttempt) error {
	return m.Called(ctx, attempt).Error(0)
}

func (m *MockAttemptStore) ProgressByExercise(
	ctx context.Context,
	userID uuid.UUID,
	exerciseIDs []uuid.UUID,
) (map[uuid.UUID]domain.ExerciseProgress, error) {
	args := m.Called(ctx, userID, exerciseIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]domain.ExerciseProgress), args.Error(1)
}

func (m *MockAttemptStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAttemptStore) WithTx(*sql.Tx) store.AttemptStore {
	return m
}

// MockLessonStore mocks store.LessonStore.
type MockLessonStore struct {
	mock.Mock
}

func (m *MockLessonStore) List(ctx context.Context) ([]domain.LessonSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LessonSummary), args.Error(1)
}

func (m *MockLessonStore) Get(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lesson), args.Error(1)
}

func (m *MockLessonStore) GetCard(ctx context.Context, id uuid.UUID) (domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Card), args.Error(1)
}

func (m *MockLessonStore) Save(ctx context.Context, lesson *domain.Lesson) error {
	return m.Called(ctx, lesson).Error(0)
}

func (m *MockLessonStore) MarkCompleted(ctx context.Context, userID, lessonID uuid.UUID, at time.Time) error {
	return m.Called(ctx, userID, lessonID, at).Error(0)
}

func (m *MockLessonStore) CompletedAt(ctx context.Context, userID, lessonID uuid.UUID) (*time.Time, error) {
	args := m.Called(ctx, userID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockLessonStore) DeleteCompletionsForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLessonStore) WithTx(*sql.Tx) store.LessonStore {
	return m
}

// MockUserStore mocks store.UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore {
	return m
}
