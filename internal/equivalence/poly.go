package equivalence

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// Limits that keep canonicalization cheap on hostile input.
const (
	maxExponent = 16
	maxTerms    = 256
)

// factor is one atom raised to a non-zero integer power.
type factor struct {
	atom string
	exp  int
}

// monomial is a product of factors, sorted by atom.
type monomial []factor

func (m monomial) key() string {
	parts := make([]string, len(m))
	for i, f := range m {
		if f.exp == 1 {
			parts[i] = f.atom
		} else {
			parts[i] = f.atom + "^" + strconv.Itoa(f.exp)
		}
	}
	return strings.Join(parts, "*")
}

func (m monomial) degree() int {
	d := 0
	for _, f := range m {
		d += f.exp
	}
	return d
}

func mulMonomial(a, b monomial) monomial {
	exps := make(map[string]int, len(a)+len(b))
	for _, f := range a {
		exps[f.atom] += f.exp
	}
	for _, f := range b {
		exps[f.atom] += f.exp
	}
	out := make(monomial, 0, len(exps))
	for atom, exp := range exps {
		if exp != 0 {
			out = append(out, factor{atom: atom, exp: exp})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].atom < out[j].atom })
	return out
}

type term struct {
	mono monomial
	coef *big.Rat
}

// poly is a sum of terms with exact rational coefficients, keyed by
// monomial. Zero terms are never stored, so equal polynomials have equal
// term sets. Values are treated as immutable.
type poly map[string]term

func constant(r *big.Rat) poly {
	if r.Sign() == 0 {
		return poly{}
	}
	return poly{"": {coef: new(big.Rat).Set(r)}}
}

func variable(atom string) poly {
	m := monomial{{atom: atom, exp: 1}}
	return poly{m.key(): {mono: m, coef: big.NewRat(1, 1)}}
}

func (p poly) addTerm(t term) {
	k := t.mono.key()
	if cur, ok := p[k]; ok {
		sum := new(big.Rat).Add(cur.coef, t.coef)
		if sum.Sign() == 0 {
			delete(p, k)
			return
		}
		p[k] = term{mono: cur.mono, coef: sum}
		return
	}
	if t.coef.Sign() != 0 {
		p[k] = term{mono: t.mono, coef: new(big.Rat).Set(t.coef)}
	}
}

func (p poly) add(q poly) poly {
	out := make(poly, len(p)+len(q))
	for _, t := range p {
		out.addTerm(t)
	}
	for _, t := range q {
		out.addTerm(t)
	}
	return out
}

func (p poly) neg() poly {
	out := make(poly, len(p))
	for k, t := range p {
		out[k] = term{mono: t.mono, coef: new(big.Rat).Neg(t.coef)}
	}
	return out
}

func (p poly) mul(q poly) (poly, error) {
	if len(p)*len(q) > maxTerms*maxTerms {
		return nil, fmt.Errorf("expression too large")
	}
	out := make(poly)
	for _, a := range p {
		for _, b := range q {
			out.addTerm(term{
				mono: mulMonomial(a.mono, b.mono),
				coef: new(big.Rat).Mul(a.coef, b.coef),
			})
		}
	}
	if len(out) > maxTerms {
		return nil, fmt.Errorf("expression has more than %d terms", maxTerms)
	}
	return out, nil
}

// constantValue returns the value of a polynomial with no atoms.
func (p poly) constantValue() (*big.Rat, bool) {
	switch len(p) {
	case 0:
		return new(big.Rat), true
	case 1:
		if t, ok := p[""]; ok {
			return t.coef, true
		}
	}
	return nil, false
}

// inverse is defined only for a single non-zero term.
func (p poly) inverse() (poly, error) {
	if len(p) != 1 {
		if len(p) == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return nil, fmt.Errorf("division by a sum is not supported")
	}
	var t term
	for _, v := range p {
		t = v
	}
	inv := make(monomial, len(t.mono))
	for i, f := range t.mono {
		inv[i] = factor{atom: f.atom, exp: -f.exp}
	}
	return poly{inv.key(): {mono: inv, coef: new(big.Rat).Inv(t.coef)}}, nil
}

func (p poly) pow(n int) (poly, error) {
	if n > maxExponent || n < -maxExponent {
		return nil, fmt.Errorf("exponent %d out of range", n)
	}
	base := p
	if n < 0 {
		inv, err := p.inverse()
		if err != nil {
			return nil, err
		}
		base, n = inv, -n
	}
	out := constant(big.NewRat(1, 1))
	for k := 0; k < n; k++ {
		var err error
		if out, err = out.mul(base); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// String renders the canonical form: terms by descending degree then
// monomial key, coefficients as reduced fractions. The output parses back
// to the same polynomial.
func (p poly) String() string {
	if len(p) == 0 {
		return "0"
	}
	terms := make([]term, 0, len(p))
	for _, t := range p {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		di, dj := terms[i].mono.degree(), terms[j].mono.degree()
		if di != dj {
			return di > dj
		}
		return terms[i].mono.key() < terms[j].mono.key()
	})

	var b strings.Builder
	for i, t := range terms {
		abs := new(big.Rat).Abs(t.coef)
		neg := t.coef.Sign() < 0
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i > 0 && neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}

		key := t.mono.key()
		switch {
		case key == "":
			b.WriteString(ratString(abs))
		case abs.Cmp(big.NewRat(1, 1)) == 0:
			b.WriteString(key)
		default:
			b.WriteString(ratString(abs))
			b.WriteString("*")
			b.WriteString(key)
		}
	}
	return b.String()
}

func ratString(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.String()
}
