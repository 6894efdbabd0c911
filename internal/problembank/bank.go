package problembank

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Valentine-chinedu/ITS-backend/internal/conceptgraph"
	"github.com/Valentine-chinedu/ITS-backend/internal/equivalence"
	"github.com/Valentine-chinedu/ITS-backend/internal/ontology"
)

// ConceptResolver reports whether a concept code exists.
// *conceptgraph.Graph satisfies it.
type ConceptResolver interface {
	Has(code string) bool
}

// Bank is an immutable, validated set of problems.
type Bank struct {
	problems  []Problem // sorted by id
	byID      map[string]int
	byConcept map[string][]int
}

// Build validates every record against the concepts and returns a bank.
// All problems found are reported together; on error no bank is returned.
func Build(records []ontology.ProblemRecord, concepts ConceptResolver) (*Bank, error) {
	var errs []error
	seen := make(map[string]bool, len(records))
	problems := make([]Problem, 0, len(records))

	for _, r := range records {
		p, err := fromRecord(r, concepts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[p.ID] {
			errs = append(errs, &InvalidProblemError{ProblemID: p.ID, Reason: "duplicate id"})
			continue
		}
		seen[p.ID] = true
		problems = append(problems, p)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("problem bank validation failed: %w", err)
	}

	sort.Slice(problems, func(i, j int) bool { return problems[i].ID < problems[j].ID })
	b := &Bank{
		problems:  problems,
		byID:      make(map[string]int, len(problems)),
		byConcept: make(map[string][]int),
	}
	for i, p := range problems {
		b.byID[p.ID] = i
		for _, code := range p.ConceptCodes {
			b.byConcept[code] = append(b.byConcept[code], i)
		}
	}
	return b, nil
}

func fromRecord(r ontology.ProblemRecord, concepts ConceptResolver) (Problem, error) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return Problem{}, &InvalidProblemError{ProblemID: r.ID, Reason: "empty id"}
	}
	if len(r.ConceptCodes) == 0 {
		return Problem{}, &InvalidProblemError{ProblemID: id, Reason: "no concept codes"}
	}

	codes := make([]string, 0, len(r.ConceptCodes))
	dup := make(map[string]bool, len(r.ConceptCodes))
	for _, code := range r.ConceptCodes {
		if !concepts.Has(code) {
			return Problem{}, &InvalidProblemError{
				ProblemID: id,
				Reason:    "unknown concept",
				Err:       &conceptgraph.UnknownReferenceError{From: id, Missing: code},
			}
		}
		if !dup[code] {
			dup[code] = true
			codes = append(codes, code)
		}
	}

	spec, err := specFromRecord(r.Answer)
	if err != nil {
		return Problem{}, &InvalidProblemError{ProblemID: id, Reason: "malformed answer", Err: err}
	}

	return Problem{
		ID:           id,
		Label:        r.Label,
		ConceptCodes: codes,
		Prompt:       r.Prompt,
		Answer:       spec,
	}, nil
}

func specFromRecord(a ontology.AnswerRecord) (equivalence.Spec, error) {
	kind, err := equivalence.ParseKind(a.Type)
	if err != nil {
		return equivalence.Spec{}, err
	}
	spec := equivalence.Spec{
		Kind:       kind,
		Text:       a.Text,
		Expression: a.Expression,
		Values:     a.Values,
		Compare:    equivalence.CompareMode(a.Compare),
	}
	if kind == equivalence.KindNumeric {
		if a.Value == nil || a.Tolerance == nil {
			return equivalence.Spec{}, errors.New("numeric answer needs value and tolerance")
		}
		spec.Value, spec.Tolerance, spec.Unit = *a.Value, *a.Tolerance, a.Unit
	}
	if spec.Compare == "" {
		spec.Compare = equivalence.CompareText
	}
	if err := spec.Validate(); err != nil {
		return equivalence.Spec{}, err
	}
	return spec, nil
}

// Len returns the number of problems.
func (b *Bank) Len() int {
	return len(b.problems)
}

// Get returns a problem, including its expected answer.
func (b *Bank) Get(id string) (Problem, error) {
	i, ok := b.byID[id]
	if !ok {
		return Problem{}, notFound(id)
	}
	return b.problems[i].clone(), nil
}

// List returns all problems sorted by id.
func (b *Bank) List() []Problem {
	out := make([]Problem, len(b.problems))
	for i, p := range b.problems {
		out[i] = p.clone()
	}
	return out
}

// ByConcept returns the problems that exercise code, sorted by id.
func (b *Bank) ByConcept(code string) []Problem {
	idx := b.byConcept[code]
	out := make([]Problem, len(idx))
	for i, j := range idx {
		out[i] = b.problems[j].clone()
	}
	return out
}

// Public returns the answer-free view of every problem, or of the problems
// exercising conceptCode when it is non-empty.
func (b *Bank) Public(conceptCode string) []PublicProblem {
	var src []Problem
	if conceptCode == "" {
		src = b.problems
	} else {
		for _, i := range b.byConcept[conceptCode] {
			src = append(src, b.problems[i])
		}
	}
	out := make([]PublicProblem, len(src))
	for i, p := range src {
		out[i] = p.Public()
	}
	return out
}
