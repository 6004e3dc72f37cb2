package srs

import (
	"github.com/phrazzld/texdrill-api/internal/domain"
)

// Params defines all configurable parameters for the SRS algorithm
type Params struct {
	// Ease factor given to records that have never been reviewed, and the
	// floor the recurrence can never go below.
	InitialEaseFactor float64
	MinEaseFactor     float64

	// Intervals in days for the first and second correct answers in a row.
	FirstInterval  int
	SecondInterval int

	// Interval in days after an incorrect answer.
	LapseInterval int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the default.
type ParamsConfig struct {
	InitialEaseFactor float64
	MinEaseFactor     float64
	FirstInterval     int
	SecondInterval    int
	LapseInterval     int
}

// NewDefaultParams returns the classic SM-2 parameters.
func NewDefaultParams() *Params {
	return &Params{
		InitialEaseFactor: domain.DefaultEasinessFactor,
		MinEaseFactor:     domain.MinEasinessFactor,
		FirstInterval:     1,
		SecondInterval:    6,
		LapseInterval:     1,
	}
}

// NewParams creates a new Params instance with custom configuration.
// A MinEaseFactor below the domain floor is ignored so records stay valid.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor >= domain.MinEasinessFactor {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.InitialEaseFactor > 0 {
		params.InitialEaseFactor = config.InitialEaseFactor
	}
	if params.InitialEaseFactor < params.MinEaseFactor {
		params.InitialEaseFactor = params.MinEaseFactor
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.LapseInterval > 0 {
		params.LapseInterval = config.LapseInterval
	}

	return params
}
