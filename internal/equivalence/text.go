package equivalence

import (
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText folds s for comparison: Unicode NFKC, full case folding,
// outer whitespace trimmed and inner runs of whitespace collapsed to one
// space.
func NormalizeText(s string) string {
	// Casers carry state, so one is built per call.
	folded := cases.Fold().String(norm.NFKC.String(s))
	return strings.Join(strings.Fields(folded), " ")
}

// stringify accepts the scalar shapes a raw answer can arrive in.
func stringify(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

func checkExactText(spec Spec, raw any, _ Options) Result {
	s, ok := stringify(raw)
	if !ok {
		return Result{}
	}
	got := NormalizeText(s)
	if got != "" && got == NormalizeText(spec.Text) {
		return Result{Score: 1}
	}
	return Result{}
}
