package equivalence

import "fmt"

// Result is the outcome of one comparison.
type Result struct {
	// Score is in [0, 1]. Boolean strategies yield exactly 0 or 1.
	Score float64
	// Extraneous counts submitted multi_value elements outside the
	// expected set.
	Extraneous int
}

// Options tune grading policy.
type Options struct {
	// PartialCredit grades multi_value answers by the fraction of expected
	// elements present instead of all-or-nothing.
	PartialCredit bool
}

type strategy func(spec Spec, raw any, opts Options) Result

// Checker dispatches a comparison to the strategy for the spec's kind.
// It holds no mutable state and is safe for concurrent use.
type Checker struct {
	opts       Options
	strategies map[Kind]strategy
}

// NewChecker builds a checker. It panics if a kind has no strategy, which
// can only happen when a kind is added without one.
func NewChecker(opts Options) *Checker {
	c := &Checker{
		opts: opts,
		strategies: map[Kind]strategy{
			KindExactText:  checkExactText,
			KindNumeric:    checkNumeric,
			KindSymbolic:   checkSymbolic,
			KindMultiValue: checkMultiValue,
		},
	}
	for _, k := range AllKinds() {
		if _, ok := c.strategies[k]; !ok {
			panic(fmt.Sprintf("equivalence: no strategy for answer type %q", k))
		}
	}
	return c
}

// Check grades raw against spec. Malformed submissions score 0; Check
// never fails.
func (c *Checker) Check(spec Spec, raw any) Result {
	s, ok := c.strategies[spec.Kind]
	if !ok {
		return Result{}
	}
	r := s(spec, raw, c.opts)
	r.Score = clamp(r.Score)
	return r
}

func clamp(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func checkSymbolic(spec Spec, raw any, _ Options) Result {
	s, ok := stringify(raw)
	if !ok {
		return Result{}
	}
	got, err := Canonicalize(s)
	if err != nil {
		return Result{}
	}
	want, err := Canonicalize(spec.Expression)
	if err != nil || got != want {
		return Result{}
	}
	return Result{Score: 1}
}
