package equivalence

import (
	"errors"
	"fmt"
)

// ErrMalformedExpression is wrapped by every canonicalization failure.
var ErrMalformedExpression = errors.New("malformed expression")

// ExpressionError reports why an expression could not be canonicalized.
type ExpressionError struct {
	Expr   string
	Reason error
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("malformed expression %q: %v", e.Expr, e.Reason)
}

func (e *ExpressionError) Unwrap() error { return ErrMalformedExpression }

// Canonicalize reduces a geometric or algebraic expression to a normal form
// so that differently written but equal expressions compare equal as strings.
//
// The normal form is a polynomial with exact rational coefficients over
// atoms. Atoms are points and segments (AB equals BA), polygons named by
// their vertices in any rotation or direction (ABC equals CBA), angles with
// a fixed vertex (∠ABC equals ∠CBA, also written "angle ABC"), lowercase
// single-letter variables, and π. Like terms are collected, terms and
// factors are ordered, length units are scaled to metres and degree marks
// are dropped. Multiplication by juxtaposition is supported; division is
// only supported by a single term.
//
// Canonicalize is idempotent: Canonicalize(Canonicalize(x)) == Canonicalize(x).
func Canonicalize(expr string) (string, error) {
	p, err := parseExpression(expr)
	if err != nil {
		return "", &ExpressionError{Expr: expr, Reason: err}
	}
	return p.String(), nil
}
