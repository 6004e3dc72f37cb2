package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/texdrill-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: sql.ErrNoRows, want: store.ErrNotFound},
		{name: "wrapped no rows", err: fmt.Errorf("scan: %w", sql.ErrNoRows), want: store.ErrNotFound},
		{name: "unique", err: &pgconn.PgError{Code: uniqueViolationCode}, want: store.ErrDuplicate},
		{name: "foreign key", err: &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "fk"}, want: store.ErrInvalidEntity},
		{name: "check", err: &pgconn.PgError{Code: checkViolationCode, ConstraintName: "review_records_ef_floor"}, want: store.ErrInvalidEntity},
		{name: "not null", err: &pgconn.PgError{Code: notNullViolationCode, ColumnName: "email"}, want: store.ErrInvalidEntity},
		{name: "other pg error", err: &pgconn.PgError{Code: "40001"}, want: store.ErrInternal},
		{name: "unknown", err: errors.New("connection reset"), want: store.ErrInternal},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, MapError(tc.err), tc.want)
		})
	}

	assert.NoError(t, MapError(nil))
}

func TestMapError_KeepsDetail(t *testing.T) {
	t.Parallel()

	err := MapError(&pgconn.PgError{Code: checkViolationCode, ConstraintName: "review_records_ef_floor"})
	assert.Contains(t, err.Error(), "review_records_ef_floor")
}

func TestViolationPredicates(t *testing.T) {
	t.Parallel()

	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolationCode})
	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
	assert.True(t, IsCheckConstraintViolation(&pgconn.PgError{Code: checkViolationCode}))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckRowsAffected(sqlmock.NewResult(0, 1), store.ErrCardNotFound))
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), store.ErrCardNotFound), store.ErrCardNotFound)
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), nil), store.ErrNotFound)
	assert.Error(t, CheckRowsAffected(nil, nil))
	assert.Error(t, CheckRowsAffected(sqlmock.NewErrorResult(errors.New("driver")), nil))
}

func TestEntityError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, entityError(nil, store.ErrUserNotFound, nil))
	assert.Equal(t, store.ErrUserNotFound, entityError(sql.ErrNoRows, store.ErrUserNotFound, nil))
	assert.ErrorIs(t, entityError(&pgconn.PgError{Code: uniqueViolationCode}, nil, store.ErrEmailExists), store.ErrEmailExists)
	assert.ErrorIs(t, entityError(sql.ErrNoRows, nil, nil), store.ErrNotFound)
}
