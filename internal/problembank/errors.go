package problembank

import (
	"errors"
	"fmt"
)

// ErrProblemNotFound is returned when an id does not name a problem.
var ErrProblemNotFound = errors.New("problem not found")

// InvalidProblemError reports a problem definition rejected at load time.
type InvalidProblemError struct {
	ProblemID string
	Reason    string
	Err       error
}

func (e *InvalidProblemError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid problem %q: %s: %v", e.ProblemID, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid problem %q: %s", e.ProblemID, e.Reason)
}

func (e *InvalidProblemError) Unwrap() error { return e.Err }

func notFound(id string) error {
	return fmt.Errorf("%w: %q", ErrProblemNotFound, id)
}
