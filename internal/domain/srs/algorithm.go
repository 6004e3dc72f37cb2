package srs

import (
	"math"
	"time"

	"github.com/phrazzld/texdrill-api/internal/domain"
)

// reconcileQuality clamps a grade into [0,5] and makes it agree with the
// correctness verdict.
//
// Callers may grade answers themselves, so a grade can contradict the
// verdict (quality 5 on an incorrect answer). The verdict wins:
//   - incorrect answers are capped at 2, the highest failing SM-2 grade
//   - correct answers are raised to at least 3, the lowest passing grade
func reconcileQuality(quality domain.Quality, isCorrect bool) domain.Quality {
	q := domain.ClampQuality(quality)
	if isCorrect && q < 3 {
		return 3
	}
	if !isCorrect && q > 2 {
		return 2
	}
	return q
}

// calculateNewEaseFactor applies the SM-2 E-Factor recurrence.
//
//	EF' = EF + (0.1 - (5-q) * (0.08 + (5-q) * 0.02))
//
// Parameters:
//   - currentEF: The ease factor before this answer
//   - quality: The reconciled grade in [0,5]
//   - params: Configuration parameters for the SRS algorithm
//
// Returns:
//   - The new ease factor, never below params.MinEaseFactor
//
// Algorithm behavior:
//   - quality 5 raises the factor by 0.10
//   - quality 4 leaves it unchanged
//   - quality 3 lowers it by 0.14, quality 0 by 0.80
func calculateNewEaseFactor(currentEF float64, quality domain.Quality, params *Params) float64 {
	d := float64(5 - quality)
	newEF := currentEF + (0.1 - d*(0.08+d*0.02))
	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	return newEF
}

// calculateNewInterval determines the next interval in days.
//
// Parameters:
//   - repetitions: Consecutive correct answers before this one
//   - lastInterval: The interval used for the previous schedule
//   - easeFactor: The ease factor before this answer is applied
//   - isCorrect: Whether this answer was correct
//   - params: Configuration parameters for the SRS algorithm
//
// Algorithm behavior:
//   - Incorrect: params.LapseInterval regardless of history
//   - First correct answer in a row: params.FirstInterval
//   - Second: params.SecondInterval
//   - Later: lastInterval * easeFactor rounded half to even
func calculateNewInterval(
	repetitions int,
	lastInterval int,
	easeFactor float64,
	isCorrect bool,
	params *Params,
) int {
	if !isCorrect {
		return params.LapseInterval
	}

	switch repetitions {
	case 0:
		return params.FirstInterval
	case 1:
		return params.SecondInterval
	default:
		return int(math.RoundToEven(float64(lastInterval) * easeFactor))
	}
}

// calculateNextReviewDate returns now advanced by interval calendar days in UTC.
func calculateNextReviewDate(interval int, now time.Time) time.Time {
	return now.UTC().AddDate(0, 0, interval)
}

// calculateNextRecord creates a new ReviewRecord with updated values based on
// the answer.
//
// The input record is copied and never modified. The interval uses the ease
// factor as it was before this answer; the factor is updated afterwards in
// both branches.
func calculateNextRecord(
	record *domain.ReviewRecord,
	isCorrect bool,
	quality domain.Quality,
	now time.Time,
	params *Params,
) *domain.ReviewRecord {
	next := *record

	q := reconcileQuality(quality, isCorrect)
	interval := calculateNewInterval(
		record.Repetitions,
		record.LastIntervalDays,
		record.EasinessFactor,
		isCorrect,
		params,
	)

	if isCorrect {
		next.Repetitions = record.Repetitions + 1
	} else {
		next.Repetitions = 0
	}
	next.LastIntervalDays = interval
	next.NextReviewAt = calculateNextReviewDate(interval, now)
	next.EasinessFactor = calculateNewEaseFactor(record.EasinessFactor, q, params)
	next.UpdatedAt = now.UTC()

	return &next
}
