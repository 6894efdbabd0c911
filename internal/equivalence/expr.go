package equivalence

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

const maxExpressionLen = 512

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokUpper            // run of uppercase letters: point, segment or polygon
	tokLower            // run of lowercase letters: variables, pi, units
	tokSymbol           // single non-ASCII letter such as π or θ
	tokAngle            // ∠ABC or "angle ABC"; text holds the vertex letters
	tokDegree           // °
	tokOp               // + - * / ^
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

// unitScale maps length units to metres. Angle units scale by one.
var unitScale = map[string]*big.Rat{
	"mm":      big.NewRat(1, 1000),
	"cm":      big.NewRat(1, 100),
	"m":       big.NewRat(1, 1),
	"km":      big.NewRat(1000, 1),
	"deg":     big.NewRat(1, 1),
	"degree":  big.NewRat(1, 1),
	"degrees": big.NewRat(1, 1),
}

// Function names are rejected rather than read as products of variables.
var unsupportedWords = map[string]bool{
	"sqrt": true, "sin": true, "cos": true, "tan": true, "log": true, "ln": true,
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func tokenize(s string) ([]token, error) {
	if len(s) > maxExpressionLen {
		return nil, fmt.Errorf("expression longer than %d bytes", maxExpressionLen)
	}
	rs := []rune(s)
	var toks []token

	skipSpace := func(i int) int {
		for i < len(rs) && unicode.IsSpace(rs[i]) {
			i++
		}
		return i
	}
	upperRun := func(i int) (string, int) {
		j := i
		for j < len(rs) && isUpper(rs[j]) {
			j++
		}
		return string(rs[i:j]), j
	}

	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++

		case isDigit(r) || (r == '.' && i+1 < len(rs) && isDigit(rs[i+1])):
			j, dots := i, 0
			for j < len(rs) && (isDigit(rs[j]) || rs[j] == '.') {
				if rs[j] == '.' {
					dots++
				}
				j++
			}
			if dots > 1 {
				return nil, fmt.Errorf("malformed number %q", string(rs[i:j]))
			}
			toks = append(toks, token{kind: tokNumber, text: string(rs[i:j])})
			i = j

		case isUpper(r):
			run, j := upperRun(i)
			toks = append(toks, token{kind: tokUpper, text: run})
			i = j

		case isLower(r):
			j := i
			for j < len(rs) && isLower(rs[j]) {
				j++
			}
			word := string(rs[i:j])
			if word == "angle" {
				if k := skipSpace(j); k < len(rs) && isUpper(rs[k]) {
					run, end := upperRun(k)
					toks = append(toks, token{kind: tokAngle, text: run})
					i = end
					continue
				}
			}
			toks = append(toks, token{kind: tokLower, text: word})
			i = j

		case r == '∠':
			k := skipSpace(i + 1)
			if k >= len(rs) || !isUpper(rs[k]) {
				return nil, fmt.Errorf("angle sign must be followed by vertex letters")
			}
			run, end := upperRun(k)
			toks = append(toks, token{kind: tokAngle, text: run})
			i = end

		case r == '°':
			toks = append(toks, token{kind: tokDegree, text: "°"})
			i++

		case r == '+':
			toks = append(toks, token{kind: tokOp, text: "+"})
			i++
		case r == '-' || r == '−' || r == '–':
			toks = append(toks, token{kind: tokOp, text: "-"})
			i++
		case r == '*' || r == '×' || r == '·' || r == '⋅':
			toks = append(toks, token{kind: tokOp, text: "*"})
			i++
		case r == '/' || r == '÷':
			toks = append(toks, token{kind: tokOp, text: "/"})
			i++
		case r == '^':
			toks = append(toks, token{kind: tokOp, text: "^"})
			i++
		case r == '²' || r == '³':
			exp := "2"
			if r == '³' {
				exp = "3"
			}
			toks = append(toks, token{kind: tokOp, text: "^"}, token{kind: tokNumber, text: exp})
			i++

		case r == '(' || r == '[':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case r == ')' || r == ']':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++

		case unicode.IsLetter(r):
			toks = append(toks, token{kind: tokSymbol, text: string(r)})
			i++

		default:
			return nil, fmt.Errorf("unexpected character %q", r)
		}
	}
	return toks, nil
}

// parser is a recursive descent parser over the grammar
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary | unary }
//	unary   = ("+" | "-") unary | power
//	power   = primary [ "^" unary ]
//	primary = number [unit] | atom | "(" expr ")"
//
// Juxtaposition is multiplication. Every production evaluates straight
// into a polynomial.
type parser struct {
	toks []token
	pos  int
}

func parseExpression(s string) (poly, error) {
	toks, err := tokenize(s)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	p := &parser{toks: toks}
	out, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.toks) {
		return nil, fmt.Errorf("unexpected %q", p.toks[p.pos].text)
	}
	return out, nil
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) peekOp(ops ...string) (string, bool) {
	t, ok := p.peek()
	if !ok || t.kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			return op, true
		}
	}
	return "", false
}

func (p *parser) expr() (poly, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.peekOp("+", "-")
		if !ok {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			right = right.neg()
		}
		left = left.add(right)
	}
}

func (p *parser) term() (poly, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op, isOp := p.peekOp("*", "/")
		if isOp {
			p.pos++
		} else if !p.startsPrimary() {
			return left, nil
		}

		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op == "/" {
			if right, err = right.inverse(); err != nil {
				return nil, err
			}
		}
		if left, err = left.mul(right); err != nil {
			return nil, err
		}
	}
}

func (p *parser) startsPrimary() bool {
	t, ok := p.peek()
	if !ok {
		return false
	}
	switch t.kind {
	case tokNumber, tokUpper, tokLower, tokSymbol, tokAngle, tokLParen:
		return true
	}
	return false
}

func (p *parser) unary() (poly, error) {
	if op, ok := p.peekOp("+", "-"); ok {
		p.pos++
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			return operand.neg(), nil
		}
		return operand, nil
	}
	return p.power()
}

func (p *parser) power() (poly, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if _, ok := p.peekOp("^"); !ok {
		return base, nil
	}
	p.pos++
	n, err := p.exponent()
	if err != nil {
		return nil, err
	}
	return base.pow(n)
}

// exponent parses a signed integer exponent.
func (p *parser) exponent() (int, error) {
	e, err := p.unary()
	if err != nil {
		return 0, err
	}
	v, ok := e.constantValue()
	if !ok || !v.IsInt() || !v.Num().IsInt64() {
		return 0, fmt.Errorf("exponent must be an integer")
	}
	n := v.Num().Int64()
	if n > maxExponent || n < -maxExponent {
		return 0, fmt.Errorf("exponent %d out of range", n)
	}
	return int(n), nil
}

func (p *parser) primary() (poly, error) {
	t, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of expression")
	}
	p.pos++

	switch t.kind {
	case tokNumber:
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, fmt.Errorf("malformed number %q", t.text)
		}
		return p.applyUnit(r)

	case tokUpper:
		return variable(canonicalPoints(t.text)), nil

	case tokAngle:
		atom, err := canonicalAngle(t.text)
		if err != nil {
			return nil, err
		}
		return variable(atom), nil

	case tokSymbol:
		return variable(t.text), nil

	case tokLower:
		return lowerRun(t.text)

	case tokLParen:
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if t, ok := p.peek(); !ok || t.kind != tokRParen {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return inner, nil

	case tokDegree:
		return nil, fmt.Errorf("degree sign must follow a number")
	}
	return nil, fmt.Errorf("unexpected %q", t.text)
}

// applyUnit consumes an optional unit after a number literal and scales
// the value into base units. A unit may carry an integer power, as in cm².
func (p *parser) applyUnit(r *big.Rat) (poly, error) {
	t, ok := p.peek()
	if !ok {
		return constant(r), nil
	}
	switch {
	case t.kind == tokDegree:
		p.pos++
		return constant(r), nil
	case t.kind == tokLower && unitScale[t.text] != nil:
		p.pos++
		scale := constant(unitScale[t.text])
		if _, ok := p.peekOp("^"); ok {
			p.pos++
			n, err := p.exponent()
			if err != nil {
				return nil, err
			}
			if scale, err = scale.pow(n); err != nil {
				return nil, err
			}
		}
		return constant(r).mul(scale)
	}
	return constant(r), nil
}

// lowerRun reads a run of lowercase letters as a product of single-letter
// variables, with "pi" read as π.
func lowerRun(word string) (poly, error) {
	if unsupportedWords[word] {
		return nil, fmt.Errorf("function %q is not supported", word)
	}
	if _, ok := unitScale[word]; ok && len(word) > 1 {
		return nil, fmt.Errorf("unit %q must follow a number", word)
	}
	out := constant(big.NewRat(1, 1))
	for i := 0; i < len(word); {
		var atom string
		if strings.HasPrefix(word[i:], "pi") {
			atom, i = "π", i+2
		} else {
			atom, i = word[i:i+1], i+1
		}
		var err error
		if out, err = out.mul(variable(atom)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// canonicalPoints names a run of uppercase vertex letters independently of
// how it was written. A segment is unordered, and a polygon is the same
// figure under any rotation or reflection of its vertex list.
func canonicalPoints(s string) string {
	if len(s) < 2 {
		return s
	}
	best := s
	n := len(s)
	rev := reverse(s)
	for i := 0; i < n; i++ {
		for _, cand := range []string{s[i:] + s[:i], rev[i:] + rev[:i]} {
			if cand < best {
				best = cand
			}
		}
	}
	return best
}

// canonicalAngle keeps the vertex in the middle and orders the two arms.
func canonicalAngle(s string) (string, error) {
	switch len(s) {
	case 1:
		return "∠" + s, nil
	case 3:
		if r := reverse(s); r < s {
			s = r
		}
		return "∠" + s, nil
	}
	return "", fmt.Errorf("angle %q must name one vertex or three points", s)
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
