package mastery

import (
	"errors"
	"fmt"
)

const (
	DefaultLearningRate      = 0.3
	DefaultPropagationWeight = 0.5
	DefaultMasteredThreshold = 0.8
)

// Config holds the update policy constants. Every value must lie in (0, 1].
type Config struct {
	// LearningRate is the step toward the observed score.
	LearningRate float64
	// PropagationWeight scales the update applied to prerequisites of a
	// concept answered correctly.
	PropagationWeight float64
	// MasteredThreshold is the estimate at which a concept counts as
	// mastered.
	MasteredThreshold float64
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		LearningRate:      DefaultLearningRate,
		PropagationWeight: DefaultPropagationWeight,
		MasteredThreshold: DefaultMasteredThreshold,
	}
}

// Validate checks that every constant lies in (0, 1].
func (c Config) Validate() error {
	var errs []error
	check := func(name string, v float64) {
		if !(v > 0 && v <= 1) {
			errs = append(errs, fmt.Errorf("%s must be in (0,1], got %v", name, v))
		}
	}
	check("learning_rate", c.LearningRate)
	check("propagation_weight", c.PropagationWeight)
	check("mastered_threshold", c.MasteredThreshold)
	return errors.Join(errs...)
}
