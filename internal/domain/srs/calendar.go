package srs

import "time"

// DayWindow holds the cutoffs used for due counts.
type DayWindow struct {
	// TodayEnd is the last microsecond of the current UTC day.
	TodayEnd time.Time
	// TomorrowEnd is TodayEnd plus one day.
	TomorrowEnd time.Time
}

// NewDayWindow returns the cutoffs for the UTC day containing now.
// A record counts as due today when next_review_at <= TodayEnd, and as due
// tomorrow when TodayEnd < next_review_at <= TomorrowEnd.
func NewDayWindow(now time.Time) DayWindow {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	todayEnd := start.AddDate(0, 0, 1).Add(-time.Microsecond)
	return DayWindow{
		TodayEnd:    todayEnd,
		TomorrowEnd: todayEnd.AddDate(0, 0, 1),
	}
}
