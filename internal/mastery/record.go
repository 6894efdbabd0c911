package mastery

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidLearner is returned for an empty learner id.
	ErrInvalidLearner = errors.New("invalid learner id")
	// ErrLearnerNotFound is returned when a learner has no records yet.
	ErrLearnerNotFound = errors.New("learner not found")
	// ErrRecordNotFound is returned when a learner has never touched a concept.
	ErrRecordNotFound = errors.New("mastery record not found")
)

// Record holds the mastery estimate of one learner for one concept.
type Record struct {
	LearnerID   string
	ConceptCode string
	// Estimate is in [0, 1].
	Estimate float64
	// Attempts counts submissions that moved the estimate, directly or
	// through propagation.
	Attempts int
	// Failures counts failed direct attempts since the last passed one.
	// Propagated credit leaves it unchanged.
	Failures   int
	State      MasteryState
	UpdatedAt  time.Time
	MasteredAt *time.Time // when mastery was first reached
}

// IsStruggling reports whether the learner's last direct attempt failed or
// the concept has slipped from mastered.
func (r Record) IsStruggling() bool {
	return r.Failures > 0 || r.State == StateRusty
}

// IsMastered reports whether the record is currently mastered.
func (r Record) IsMastered() bool {
	return r.State == StateMastered
}

func recordNotFound(learner, code string) error {
	return fmt.Errorf("%w: learner %q concept %q", ErrRecordNotFound, learner, code)
}

func learnerNotFound(learner string) error {
	return fmt.Errorf("%w: %q", ErrLearnerNotFound, learner)
}
