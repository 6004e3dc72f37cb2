package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/texdrill-api/internal/domain"
	"github.com/phrazzld/texdrill-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewColumnNames = []string{
	"user_id", "exercise_id", "next_review_at", "easiness_factor",
	"repetitions", "last_interval_days", "created_at", "updated_at",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func recordRow(r *domain.ReviewRecord) *sqlmock.Rows {
	return sqlmock.NewRows(reviewColumnNames).AddRow(
		r.UserID.String(), r.ExerciseID.String(), r.NextReviewAt, r.EasinessFactor,
		r.Repetitions, r.LastIntervalDays, r.CreatedAt, r.UpdatedAt,
	)
}

func mustRecord(t *testing.T, userID, exerciseID uuid.UUID, now time.Time) *domain.ReviewRecord {
	t.Helper()
	r, err := domain.NewReviewRecord(userID, exerciseID, now)
	require.NoError(t, err)
	return r
}

func bumpRepetitions(current *domain.ReviewRecord) (*domain.ReviewRecord, error) {
	next := *current
	next.Repetitions++
	next.LastIntervalDays = 1
	next.NextReviewAt = current.NextReviewAt.AddDate(0, 0, 1)
	return &next, nil
}

func TestReviewStore_UpsertOpensTransaction(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresReviewStore(db, nil)

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	initial := mustRecord(t, uuid.New(), uuid.New(), now)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO review_records")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(recordRow(initial))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE review_records")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := s.Upsert(context.Background(), initial, bumpRepetitions)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Repetitions)
	assert.Equal(t, now.AddDate(0, 0, 1), got.NextReviewAt)
	assert.Equal(t, 0, initial.Repetitions, "initial record must not change")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewStore_UpsertUsesBoundTransaction(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresReviewStore(db, nil)

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	initial := mustRecord(t, uuid.New(), uuid.New(), now)
	existing := *initial
	existing.Repetitions = 2
	existing.LastIntervalDays = 6

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO review_records")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(recordRow(&existing))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE review_records")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	var seen *domain.ReviewRecord
	got, err := s.WithTx(tx).Upsert(context.Background(), initial, func(current *domain.ReviewRecord) (*domain.ReviewRecord, error) {
		seen = current
		return bumpRepetitions(current)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, seen.Repetitions, "update sees the stored record, not the default")
	assert.Equal(t, 3, got.Repetitions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewStore_UpsertFnErrorRollsBack(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresReviewStore(db, nil)

	initial := mustRecord(t, uuid.New(), uuid.New(), time.Now())
	fnErr := errors.New("scheduler rejected record")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO review_records")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(recordRow(initial))
	mock.ExpectRollback()

	_, err := s.Upsert(context.Background(), initial, func(*domain.ReviewRecord) (*domain.ReviewRecord, error) {
		return nil, fnErr
	})
	assert.ErrorIs(t, err, fnErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewStore_UpsertMissingParent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{name: "unknown exercise", constraint: reviewExerciseFK, want: store.ErrCardNotFound},
		{name: "unknown user", constraint: reviewUserFK, want: store.ErrUserNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db, mock := newMock(t)
			s := NewPostgresReviewStore(db, nil)
			initial := mustRecord(t, uuid.New(), uuid.New(), time.Now())

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO review_records")).
				WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: tt.constraint})
			mock.ExpectRollback()

			_, err := s.Upsert(context.Background(), initial, bumpRepetitions)
			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReviewStore_UpsertRejectsKeyChange(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresReviewStore(db, nil)

	initial := mustRecord(t, uuid.New(), uuid.New(), time.Now())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO review_records")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(recordRow(initial))
	mock.ExpectRollback()

	_, err := s.Upsert(context.Background(), initial, func(current *domain.ReviewRecord) (*domain.ReviewRecord, error) {
		next := *current
		next.ExerciseID = uuid.New()
		return &next, nil
	})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewStore_UpsertInvalidInitial(t *testing.T) {
	t.Parallel()
	db, _ := newMock(t)
	s := NewPostgresReviewStore(db, nil)

	_, err := s.Upsert(context.Background(), nil, bumpRepetitions)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)

	bad := mustRecord(t, uuid.New(), uuid.New(), time.Now())
	bad.EasinessFactor = 1.0
	_, err = s.Upsert(context.Background(), bad, bumpRepetitions)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestReviewStore_GetNotFound(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresReviewStore(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM review_records")).
		WillReturnRows(sqlmock.NewRows(reviewColumnNames))

	_, err := s.Get(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrReviewRecordNotFound)
}

func TestReviewStore_ListDue(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresReviewStore(db, nil)

	userID := uuid.New()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	a := mustRecord(t, userID, uuid.New(), now.Add(-time.Hour))
	b := mustRecord(t, userID, uuid.New(), now)

	rows := recordRow(a).AddRow(
		b.UserID.String(), b.ExerciseID.String(), b.NextReviewAt, b.EasinessFactor,
		b.Repetitions, b.LastIntervalDays, b.CreatedAt, b.UpdatedAt,
	)
	mock.ExpectQuery(regexp.QuoteMeta("next_review_at <= $2")).
		WithArgs(userID.String(), now).
		WillReturnRows(rows)

	got, err := s.ListDue(context.Background(), userID, now)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a.ExerciseID, got[0].ExerciseID)
	assert.Equal(t, b.ExerciseID, got[1].ExerciseID)
}

func TestReviewStore_ListDueEmpty(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresReviewStore(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM review_records")).
		WillReturnRows(sqlmock.NewRows(reviewColumnNames))

	got, err := s.ListDue(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReviewStore_CountStats(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresReviewStore(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER")).
		WillReturnRows(sqlmock.NewRows([]string{"total", "today", "tomorrow"}).AddRow(7, 3, 2))

	stats, err := s.CountStats(context.Background(), uuid.New(), time.Now(), time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStats{Total: 7, DueToday: 3, DueTomorrow: 2}, stats)
}

func TestReviewStore_DeleteAllForUser(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresReviewStore(db, nil)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM review_records")).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := s.DeleteAllForUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestNewPostgresReviewStore_NilDB(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewPostgresReviewStore(nil, nil) })
}
