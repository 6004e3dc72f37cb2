package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDayWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 31, 18, 30, 0, 0, time.UTC)
	w := NewDayWindow(now)

	assert.Equal(t, time.Date(2026, 5, 31, 23, 59, 59, 999999000, time.UTC), w.TodayEnd)
	assert.Equal(t, time.Date(2026, 6, 1, 23, 59, 59, 999999000, time.UTC), w.TomorrowEnd)
}

func TestNewDayWindow_ConvertsToUTC(t *testing.T) {
	t.Parallel()

	// 01:00 on June 1st in UTC+2 is still May 31st in UTC.
	loc := time.FixedZone("UTC+2", 2*60*60)
	w := NewDayWindow(time.Date(2026, 6, 1, 1, 0, 0, 0, loc))

	assert.Equal(t, time.Date(2026, 5, 31, 23, 59, 59, 999999000, time.UTC), w.TodayEnd)
}
