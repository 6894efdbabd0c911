// Package equivalence decides whether a submitted answer matches a typed
// expected answer. Each answer kind has one pure comparison strategy and
// every comparison yields a score in [0, 1].
package equivalence

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Kind tags the shape of an expected answer.
type Kind string

const (
	KindExactText  Kind = "exact_text"
	KindNumeric    Kind = "numeric"
	KindSymbolic   Kind = "symbolic_expression"
	KindMultiValue Kind = "multi_value"
)

// AllKinds returns every supported answer kind.
func AllKinds() []Kind {
	return []Kind{KindExactText, KindNumeric, KindSymbolic, KindMultiValue}
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown answer type %q", s)
}

// CompareMode selects how multi_value elements are normalized.
type CompareMode string

const (
	CompareText     CompareMode = "text"
	CompareSymbolic CompareMode = "symbolic"
)

// Spec is a tagged expected answer. Only the fields of its Kind are read.
type Spec struct {
	Kind Kind

	// exact_text
	Text string

	// numeric
	Value     float64
	Tolerance float64
	Unit      string // optional; see IsNumericUnit

	// symbolic_expression
	Expression string

	// multi_value
	Values  []string
	Compare CompareMode
}

// Validate reports why a spec can never be graded.
func (s Spec) Validate() error {
	switch s.Kind {
	case KindExactText:
		if NormalizeText(s.Text) == "" {
			return errors.New("exact_text answer is empty")
		}
	case KindNumeric:
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			return fmt.Errorf("numeric value %v is not finite", s.Value)
		}
		if !(s.Tolerance > 0) || math.IsInf(s.Tolerance, 0) {
			return fmt.Errorf("numeric tolerance must be positive and finite, got %v", s.Tolerance)
		}
		if s.Unit != "" && !IsNumericUnit(s.Unit) {
			return fmt.Errorf("unknown numeric unit %q", s.Unit)
		}
	case KindSymbolic:
		if strings.TrimSpace(s.Expression) == "" {
			return errors.New("symbolic expression is empty")
		}
		if _, err := Canonicalize(s.Expression); err != nil {
			return err
		}
	case KindMultiValue:
		switch s.Compare {
		case "", CompareText, CompareSymbolic:
		default:
			return fmt.Errorf("unknown compare mode %q", s.Compare)
		}
		if len(s.Values) == 0 {
			return errors.New("multi_value set is empty")
		}
		for i, v := range s.Values {
			if NormalizeText(v) == "" {
				return fmt.Errorf("multi_value element %d is empty", i)
			}
			if s.Compare == CompareSymbolic {
				if _, err := Canonicalize(v); err != nil {
					return fmt.Errorf("multi_value element %d: %w", i, err)
				}
			}
		}
	default:
		return fmt.Errorf("unknown answer type %q", s.Kind)
	}
	return nil
}

// DistinctValues returns how many different values a multi_value answer
// expects, after the same normalization grading applies.
func (s Spec) DistinctValues() int {
	if s.Kind != KindMultiValue {
		return 0
	}
	return len(normalizeSet(s.Values, s.Compare))
}
