package srs

import "github.com/phrazzld/hanzi-srs/internal/domain"

// Params defines the constants of the SM-2 variant. The defaults reproduce
// the scheduler's published behavior; overriding them is meant for
// experiments, not for normal operation.
type Params struct {
	// Core limits
	DefaultEasinessFactor float64
	MinEasinessFactor     float64

	// Friction handling
	FrictionPenalty float64

	// Intervals (days) after the first and second consecutive success
	FirstInterval          int
	SecondInterval         int
	SecondFrictionInterval int

	// Interval scheduled after a lapse
	LapseInterval int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values keep the defaults.
type ParamsConfig struct {
	DefaultEasinessFactor  float64
	MinEasinessFactor      float64
	FrictionPenalty        float64
	FirstInterval          int
	SecondInterval         int
	SecondFrictionInterval int
	LapseInterval          int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		DefaultEasinessFactor:  domain.DefaultEasinessFactor,
		MinEasinessFactor:      domain.MinEasinessFactor,
		FrictionPenalty:        domain.FrictionPenalty,
		FirstInterval:          1,
		SecondInterval:         6,
		SecondFrictionInterval: 3,
		LapseInterval:          1,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.DefaultEasinessFactor > 0 {
		params.DefaultEasinessFactor = config.DefaultEasinessFactor
	}
	if config.MinEasinessFactor > 0 {
		params.MinEasinessFactor = config.MinEasinessFactor
	}
	if config.FrictionPenalty > 0 {
		params.FrictionPenalty = config.FrictionPenalty
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.SecondFrictionInterval > 0 {
		params.SecondFrictionInterval = config.SecondFrictionInterval
	}
	if config.LapseInterval > 0 {
		params.LapseInterval = config.LapseInterval
	}

	return params
}
