package conceptgraph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConceptNotFound is returned when a code does not name a concept.
var ErrConceptNotFound = errors.New("concept not found")

// UnknownReferenceError reports a reference to a concept code that is not
// part of the graph.
type UnknownReferenceError struct {
	From    string // the concept or problem holding the reference
	Missing string // the unresolved code
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("%q references unknown concept %q", e.From, e.Missing)
}

// CycleError reports a prerequisite cycle. Path starts and ends with the
// same code, e.g. [A B A].
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "cyclic prerequisite: " + strings.Join(e.Path, " -> ")
}

// DuplicateConceptError reports a code declared more than once.
type DuplicateConceptError struct {
	Code string
}

func (e *DuplicateConceptError) Error() string {
	return fmt.Sprintf("duplicate concept code %q", e.Code)
}

func notFound(code string) error {
	return fmt.Errorf("%w: %q", ErrConceptNotFound, code)
}
