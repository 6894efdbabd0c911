// Package misconception holds known error patterns, each tied to the
// concept it concerns. Patterns are ontology data; nothing here reads
// free-text answers.
package misconception

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Valentine-chinedu/ITS-backend/internal/conceptgraph"
	"github.com/Valentine-chinedu/ITS-backend/internal/ontology"
)

// ConceptResolver reports whether a concept code exists.
// *conceptgraph.Graph satisfies it.
type ConceptResolver interface {
	Has(code string) bool
}

// Misconception is one known error pattern.
type Misconception struct {
	ID          string `json:"id"`
	ConceptCode string `json:"concept_code"`
	Label       string `json:"label,omitempty"`
	Message     string `json:"message"`
}

// InvalidMisconceptionError reports a record rejected at load time.
type InvalidMisconceptionError struct {
	ID     string
	Reason string
	Err    error
}

func (e *InvalidMisconceptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid misconception %q: %s: %v", e.ID, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid misconception %q: %s", e.ID, e.Reason)
}

func (e *InvalidMisconceptionError) Unwrap() error { return e.Err }

// Catalog is an immutable, validated set of misconceptions.
type Catalog struct {
	all       []Misconception // sorted by id
	byConcept map[string][]int
}

// Build validates every record against the concepts. All problems found
// are reported together; on error no catalog is returned.
func Build(records []ontology.MisconceptionRecord, concepts ConceptResolver) (*Catalog, error) {
	var errs []error
	seen := make(map[string]bool, len(records))
	all := make([]Misconception, 0, len(records))

	for _, r := range records {
		id := strings.TrimSpace(r.ID)
		switch {
		case id == "":
			errs = append(errs, &InvalidMisconceptionError{ID: r.ID, Reason: "empty id"})
			continue
		case !concepts.Has(r.ConceptCode):
			errs = append(errs, &InvalidMisconceptionError{
				ID:     id,
				Reason: "unknown concept",
				Err:    &conceptgraph.UnknownReferenceError{From: id, Missing: r.ConceptCode},
			})
			continue
		case seen[id]:
			errs = append(errs, &InvalidMisconceptionError{ID: id, Reason: "duplicate id"})
			continue
		}
		seen[id] = true

		msg := strings.TrimSpace(r.Message)
		if msg == "" {
			msg = fmt.Sprintf("Possible misconception related to concept %s.", r.ConceptCode)
		}
		all = append(all, Misconception{ID: id, ConceptCode: r.ConceptCode, Label: r.Label, Message: msg})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("misconception catalog validation failed: %w", err)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	c := &Catalog{all: all, byConcept: make(map[string][]int)}
	for i, m := range all {
		c.byConcept[m.ConceptCode] = append(c.byConcept[m.ConceptCode], i)
	}
	return c, nil
}

// Len returns the number of misconceptions.
func (c *Catalog) Len() int {
	return len(c.all)
}

// List returns every misconception sorted by id.
func (c *Catalog) List() []Misconception {
	out := make([]Misconception, len(c.all))
	copy(out, c.all)
	return out
}

// ForConcept returns the misconceptions tied to one concept.
func (c *Catalog) ForConcept(code string) []Misconception {
	idx := c.byConcept[code]
	out := make([]Misconception, len(idx))
	for i, j := range idx {
		out[i] = c.all[j]
	}
	return out
}

// ForConcepts returns the misconceptions of every listed concept, in the
// order the concepts are given, without repeats.
func (c *Catalog) ForConcepts(codes []string) []Misconception {
	var out []Misconception
	seen := make(map[string]bool)
	for _, code := range codes {
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, c.ForConcept(code)...)
	}
	return out
}
