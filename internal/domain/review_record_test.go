package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReviewRecord(t *testing.T) {
	t.Parallel()
	userID, exerciseID := uuid.New(), uuid.New()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))

	r, err := NewReviewRecord(userID, exerciseID, now)
	require.NoError(t, err)

	assert.Equal(t, userID, r.UserID)
	assert.Equal(t, exerciseID, r.ExerciseID)
	assert.Equal(t, DefaultEasinessFactor, r.EasinessFactor)
	assert.Zero(t, r.Repetitions)
	assert.Zero(t, r.LastIntervalDays)
	assert.Equal(t, time.UTC, r.NextReviewAt.Location())
	assert.True(t, r.IsDue(now))
	assert.Equal(t, TierNew, r.Tier())
}

func TestReviewRecordValidate(t *testing.T) {
	t.Parallel()
	valid := func() ReviewRecord {
		return ReviewRecord{UserID: uuid.New(), ExerciseID: uuid.New(), EasinessFactor: 2.5}
	}

	testCases := []struct {
		name   string
		mutate func(r *ReviewRecord)
		err    error
	}{
		{"valid", func(r *ReviewRecord) {}, nil},
		{"nil user", func(r *ReviewRecord) { r.UserID = uuid.Nil }, ErrEmptyRecordUserID},
		{"nil exercise", func(r *ReviewRecord) { r.ExerciseID = uuid.Nil }, ErrEmptyRecordExerciseID},
		{"ease factor below floor", func(r *ReviewRecord) { r.EasinessFactor = 1.29 }, ErrInvalidEasinessFactor},
		{"ease factor at floor", func(r *ReviewRecord) { r.EasinessFactor = 1.3 }, nil},
		{"negative repetitions", func(r *ReviewRecord) { r.Repetitions = -1 }, ErrNegativeRepetitions},
		{"negative interval", func(r *ReviewRecord) { r.LastIntervalDays = -1 }, ErrNegativeInterval},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := valid()
			tc.mutate(&r)
			err := r.Validate()
			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestReviewRecordTierAndDue(t *testing.T) {
	t.Parallel()
	next := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	r := ReviewRecord{NextReviewAt: next}

	assert.False(t, r.IsDue(next.Add(-time.Nanosecond)))
	assert.True(t, r.IsDue(next))
	assert.True(t, r.IsDue(next.Add(time.Hour)))

	r.Repetitions = 1
	assert.Equal(t, TierYoung, r.Tier())
	r.Repetitions = 5
	assert.Equal(t, TierMature, r.Tier())
}

func TestQualityHelpers(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Quality(4), DefaultQuality(true))
	assert.Equal(t, Quality(1), DefaultQuality(false))
	assert.Equal(t, Quality(0), ClampQuality(-1))
	assert.Equal(t, Quality(5), ClampQuality(6))
	assert.Equal(t, Quality(3), ClampQuality(3))
}
