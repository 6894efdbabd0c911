package equivalence

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// relativeEpsilon absorbs float representation error at the tolerance edge.
const relativeEpsilon = 1e-9

// numericUnit is a unit a numeric answer may carry. Units of one dimension
// convert through scale; "units" has no dimension and never converts.
type numericUnit struct {
	dimension string
	scale     float64
}

var numericUnits = map[string]numericUnit{
	"°": {"angle", 1}, "deg": {"angle", 1}, "degree": {"angle", 1}, "degrees": {"angle", 1},
	"mm": {"length", 1e-3}, "cm": {"length", 1e-2}, "m": {"length", 1}, "km": {"length", 1e3},
	"mm²": {"area", 1e-6}, "cm²": {"area", 1e-4}, "m²": {"area", 1}, "km²": {"area", 1e6},
	"unit": {}, "units": {},
}

// unitSuffixes lists numericUnits keys so that no suffix is tried before a
// longer one ending the same way.
var unitSuffixes = []string{
	"degrees", "degree", "deg", "°",
	"units", "unit",
	"mm²", "cm²", "km²", "m²",
	"mm", "cm", "km", "m",
}

// IsNumericUnit reports whether u may be used as the unit of a numeric answer.
func IsNumericUnit(u string) bool {
	_, ok := numericUnits[u]
	return ok
}

// ParseNumber reads a raw answer as a number. Strings may be decimals,
// fractions such as "26/2", use a Unicode minus and carry a trailing unit.
// The value is returned as written: a unit is dropped, not converted. Use
// ParseQuantity to keep the unit.
func ParseNumber(raw any) (float64, bool) {
	f, _, ok := ParseQuantity(raw)
	return f, ok
}

// ParseQuantity is ParseNumber that also returns the trailing unit, or ""
// when there is none.
func ParseQuantity(raw any) (float64, string, bool) {
	var (
		f    float64
		unit string
	)
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		var err error
		if f, err = v.Float64(); err != nil {
			return 0, "", false
		}
	case string:
		var err error
		if f, unit, err = parseNumericString(v); err != nil {
			return 0, "", false
		}
	default:
		return 0, "", false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, "", false
	}
	return f, unit, true
}

// convert expresses v, given in unit from, in unit to. It fails when the
// units measure different things.
func convert(v float64, from, to string) (float64, bool) {
	src, dst := numericUnits[from], numericUnits[to]
	if src.dimension == "" || dst.dimension == "" {
		return v, true
	}
	if src.dimension != dst.dimension {
		return 0, false
	}
	return v * src.scale / dst.scale, true
}

func parseNumericString(s string) (float64, string, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "−", "-"))
	var unit string
	for _, u := range unitSuffixes {
		if trimmed, ok := strings.CutSuffix(s, u); ok {
			s, unit = strings.TrimSpace(trimmed), u
			break
		}
	}
	if s == "" {
		return 0, "", fmt.Errorf("empty number")
	}
	if strings.Contains(s, "/") {
		num, den, err := parseFraction(s)
		if err != nil {
			return 0, "", err
		}
		if den == 0 {
			return 0, "", fmt.Errorf("zero denominator")
		}
		return num / den, unit, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, unit, err
}

// parseFraction parses "a/b" into numerator and denominator.
func parseFraction(s string) (float64, float64, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid fraction format: %q", s)
	}
	num, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid numerator: %w", err)
	}
	den, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid denominator: %w", err)
	}
	return num, den, nil
}

// WithinTolerance reports whether got is within tolerance of want.
func WithinTolerance(got, want, tolerance float64) bool {
	slack := relativeEpsilon * math.Max(1, math.Abs(want))
	return math.Abs(got-want) <= tolerance+slack
}

// checkNumeric compares in the problem's unit. A bare number is read in
// that unit; a unit of another dimension is wrong. Problems without a unit
// ignore whatever unit the answer carries.
func checkNumeric(spec Spec, raw any, _ Options) Result {
	got, unit, ok := ParseQuantity(raw)
	if !ok {
		return Result{}
	}
	if spec.Unit != "" && unit != "" {
		if got, ok = convert(got, unit, spec.Unit); !ok {
			return Result{}
		}
	}
	if !WithinTolerance(got, spec.Value, spec.Tolerance) {
		return Result{}
	}
	return Result{Score: 1}
}
