// Package problembank holds the immutable set of problems, each bound to
// one or more concept codes and carrying a typed expected answer.
package problembank

import (
	"slices"

	"github.com/Valentine-chinedu/ITS-backend/internal/equivalence"
)

// Problem is a validated problem definition.
type Problem struct {
	ID    string
	Label string
	// ConceptCodes is ordered by relevance, primary concept first.
	ConceptCodes []string
	Prompt       string
	Answer       equivalence.Spec
}

func (p Problem) clone() Problem {
	p.ConceptCodes = slices.Clone(p.ConceptCodes)
	p.Answer.Values = slices.Clone(p.Answer.Values)
	return p
}

// PublicProblem is the view of a problem that is safe to show a learner.
// It never carries the expected answer.
type PublicProblem struct {
	ID           string           `json:"id"`
	Label        string           `json:"label,omitempty"`
	ConceptCodes []string         `json:"concept_codes"`
	Prompt       string           `json:"prompt"`
	AnswerType   equivalence.Kind `json:"answer_type"`
	// ExpectedCount is the number of distinct values a multi_value answer
	// expects.
	ExpectedCount int `json:"expected_count,omitempty"`
	// Unit a numeric answer is read in when given without one.
	Unit string `json:"unit,omitempty"`
}

// Public returns the answer-free view of p.
func (p Problem) Public() PublicProblem {
	pub := PublicProblem{
		ID:           p.ID,
		Label:        p.Label,
		ConceptCodes: slices.Clone(p.ConceptCodes),
		Prompt:       p.Prompt,
		AnswerType:   p.Answer.Kind,
	}
	switch p.Answer.Kind {
	case equivalence.KindMultiValue:
		pub.ExpectedCount = p.Answer.DistinctValues()
	case equivalence.KindNumeric:
		pub.Unit = p.Answer.Unit
	}
	return pub
}
