package equivalence

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChecker_CoversEveryKind(t *testing.T) {
	c := NewChecker(Options{})
	for _, k := range AllKinds() {
		_, ok := c.strategies[k]
		assert.True(t, ok, "no strategy for %s", k)
	}
}

func TestCheck_Numeric(t *testing.T) {
	c := NewChecker(Options{})
	spec := Spec{Kind: KindNumeric, Value: 5.0, Tolerance: 0.01}

	tests := []struct {
		input any
		want  float64
	}{
		{5.005, 1},
		{5.02, 0},
		{"not-a-number", 0},
		{"5.01", 1},
		{"4.99", 1},
		{" 5 ", 1},
		{"5 cm", 1},
		{"10/2", 1},
		{json.Number("5.004"), 1},
		{5, 1},
		{"", 0},
		{"5/0", 0},
		{"NaN", 0},
		{nil, 0},
		{[]string{"5"}, 0},
	}
	for _, tc := range tests {
		got := c.Check(spec, tc.input)
		if got.Score != tc.want {
			t.Errorf("Check(%v, 5.0±0.01) = %v, want %v", tc.input, got.Score, tc.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input  any
		want   float64
		wantOK bool
	}{
		{"13.05", 13.05, true},
		{"26/2", 13, true},
		{"−5", -5, true},
		{"90°", 90, true},
		{"90 degrees", 90, true},
		{"12 cm²", 12, true},
		{json.Number("7"), 7, true},
		{int64(3), 3, true},
		{"Inf", 0, false},
		{"abc", 0, false},
		{"1/x", 0, false},
		{true, 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseNumber(tc.input)
		if ok != tc.wantOK || (ok && got != tc.want) {
			t.Errorf("ParseNumber(%v) = %v, %v; want %v, %v", tc.input, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestCheck_NumericUnits(t *testing.T) {
	c := NewChecker(Options{})
	length := Spec{Kind: KindNumeric, Value: 13, Tolerance: 0.1, Unit: "cm"}
	angle := Spec{Kind: KindNumeric, Value: 70, Tolerance: 0.5, Unit: "deg"}

	tests := []struct {
		spec  Spec
		input any
		want  float64
	}{
		{length, "13", 1},
		{length, 13.05, 1},
		{length, "13 cm", 1},
		{length, "130 mm", 1},
		{length, "0.13 m", 1},
		{length, "13 km", 0},
		{length, "13 mm", 0},
		{length, "13°", 0},
		{length, "13 cm²", 0},
		{length, "13 units", 1},
		{angle, "70°", 1},
		{angle, "70 degrees", 1},
		{angle, "70 cm", 0},
	}
	for _, tc := range tests {
		got := c.Check(tc.spec, tc.input)
		if got.Score != tc.want {
			t.Errorf("Check(%v, %v %s) = %v, want %v", tc.input, tc.spec.Value, tc.spec.Unit, got.Score, tc.want)
		}
	}
}

func TestParseQuantity_KeepsUnit(t *testing.T) {
	v, unit, ok := ParseQuantity("130 mm")
	require.True(t, ok)
	assert.Equal(t, 130.0, v)
	assert.Equal(t, "mm", unit)

	v, unit, ok = ParseQuantity(4.5)
	require.True(t, ok)
	assert.Equal(t, 4.5, v)
	assert.Empty(t, unit)
}

func TestSpec_DistinctValues(t *testing.T) {
	tests := []struct {
		spec Spec
		want int
	}{
		{Spec{Kind: KindMultiValue, Values: []string{"∠ABC", "∠CBA", "∠DEF"}, Compare: CompareSymbolic}, 2},
		{Spec{Kind: KindMultiValue, Values: []string{"∠ABC", "∠CBA"}, Compare: CompareText}, 2},
		{Spec{Kind: KindMultiValue, Values: []string{"SSS", " sss", "SAS"}}, 2},
		{Spec{Kind: KindNumeric, Value: 1, Tolerance: 1}, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.spec.DistinctValues(), "%+v", tc.spec)
	}
}

func TestCheck_ExactText(t *testing.T) {
	c := NewChecker(Options{})
	spec := Spec{Kind: KindExactText, Text: "Right angle"}

	tests := []struct {
		input any
		want  float64
	}{
		{"right angle", 1},
		{"  RIGHT   ANGLE ", 1},
		{"ｒｉｇｈｔ ａｎｇｌｅ", 1},
		{"right-angle", 0},
		{"", 0},
		{42, 0},
		{map[string]any{}, 0},
	}
	for _, tc := range tests {
		got := c.Check(spec, tc.input)
		if got.Score != tc.want {
			t.Errorf("Check(%q, exact_text) = %v, want %v", tc.input, got.Score, tc.want)
		}
	}
}

func TestNormalizeText_FoldsCase(t *testing.T) {
	assert.Equal(t, "isosceles", NormalizeText("ISOSCELES"))
	assert.Equal(t, "a b", NormalizeText(" A \t\n B "))
	assert.Equal(t, "x2", NormalizeText("x²"))
}

func TestCheck_Symbolic(t *testing.T) {
	c := NewChecker(Options{})
	spec := Spec{Kind: KindSymbolic, Expression: "AB + BC"}

	tests := []struct {
		input any
		want  float64
	}{
		{"AB + BC", 1},
		{"BC + AB", 1},
		{"CB + BA", 1},
		{"AB+BC+0", 1},
		{"AB + CD", 0},
		{"AB +", 0},
		{"", 0},
		{12, 0},
		{nil, 0},
	}
	for _, tc := range tests {
		got := c.Check(spec, tc.input)
		if got.Score != tc.want {
			t.Errorf("Check(%v, symbolic) = %v, want %v", tc.input, got.Score, tc.want)
		}
	}
}

func TestCheck_MultiValueExact(t *testing.T) {
	c := NewChecker(Options{})
	spec := Spec{Kind: KindMultiValue, Values: []string{"SSS", "SAS", "ASA", "AAS"}}

	tests := []struct {
		name      string
		input     any
		want      float64
		wantExtra int
	}{
		{"all in order", []string{"SSS", "SAS", "ASA", "AAS"}, 1, 0},
		{"reordered", []string{"AAS", "asa", "sas", "SSS"}, 1, 0},
		{"duplicates collapse", []string{"SSS", "sss", "SAS", "ASA", "AAS", "AAS"}, 1, 0},
		{"delimited string", "sas, sss; asa,aas", 1, 0},
		{"any slice", []any{"SSS", "SAS", "ASA", "AAS"}, 1, 0},
		{"subset", []string{"SSS", "SAS"}, 0, 0},
		{"extraneous", []string{"SSS", "SAS", "ASA", "AAS", "HL"}, 0, 1},
		{"empty", []string{}, 0, 0},
		{"wrong shape", 42, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Check(spec, tc.input)
			assert.Equal(t, tc.want, got.Score)
			assert.Equal(t, tc.wantExtra, got.Extraneous)
		})
	}
}

func TestCheck_MultiValuePartialCredit(t *testing.T) {
	c := NewChecker(Options{PartialCredit: true})
	spec := Spec{Kind: KindMultiValue, Values: []string{"SSS", "SAS", "ASA", "AAS"}}

	got := c.Check(spec, []string{"SSS", "SAS"})
	assert.Equal(t, 0.5, got.Score)

	got = c.Check(spec, []string{"SSS", "SAS", "ASA", "AAS", "HL"})
	assert.Equal(t, 1.0, got.Score)
	assert.Equal(t, 1, got.Extraneous)

	got = c.Check(spec, []string{"HL"})
	assert.Equal(t, 0.0, got.Score)
}

func TestCheck_MultiValueCompareModes(t *testing.T) {
	c := NewChecker(Options{})

	angles := Spec{Kind: KindMultiValue, Values: []string{"∠ABC", "∠GHI"}, Compare: CompareSymbolic}
	got := c.Check(angles, []string{"∠CBA", "angle IHG"})
	assert.Equal(t, 1.0, got.Score)

	// Text comparison must not merge names that are rotations of each other.
	criteria := Spec{Kind: KindMultiValue, Values: []string{"ASA"}}
	got = c.Check(criteria, []string{"AAS"})
	assert.Equal(t, 0.0, got.Score)
	assert.Equal(t, 1, got.Extraneous)
}

func TestCheck_UnknownKindScoresZero(t *testing.T) {
	c := NewChecker(Options{})
	got := c.Check(Spec{Kind: "essay", Text: "x"}, "x")
	assert.Equal(t, Result{}, got)
}

func TestCheck_ScoreAlwaysInRange(t *testing.T) {
	c := NewChecker(Options{PartialCredit: true})
	specs := []Spec{
		{Kind: KindExactText, Text: "isosceles"},
		{Kind: KindNumeric, Value: 13, Tolerance: 0.1},
		{Kind: KindSymbolic, Expression: "2*π*r"},
		{Kind: KindMultiValue, Values: []string{"a", "b"}},
	}
	inputs := []any{nil, "", "isosceles", 13, "13", "2πr", []string{"a", "c"}, []any{1, "b"}, struct{}{}}
	for _, s := range specs {
		for _, in := range inputs {
			r := c.Check(s, in)
			if r.Score < 0 || r.Score > 1 {
				t.Errorf("Check(%v, %v) score %v out of [0,1]", s.Kind, in, r.Score)
			}
		}
	}
}

func TestSpec_Validate(t *testing.T) {
	valid := []Spec{
		{Kind: KindExactText, Text: "isosceles"},
		{Kind: KindNumeric, Value: 13, Tolerance: 0.1},
		{Kind: KindNumeric, Value: 13, Tolerance: 0.1, Unit: "cm"},
		{Kind: KindSymbolic, Expression: "AB + BC"},
		{Kind: KindMultiValue, Values: []string{"∠ABC"}, Compare: CompareSymbolic},
	}
	for _, s := range valid {
		require.NoError(t, s.Validate(), "spec %+v", s)
	}

	invalid := []Spec{
		{Kind: KindExactText, Text: "   "},
		{Kind: KindNumeric, Value: 13, Tolerance: 0},
		{Kind: KindNumeric, Value: 13, Tolerance: -1},
		{Kind: KindNumeric, Value: 13, Tolerance: 0.1, Unit: "furlong"},
		{Kind: KindSymbolic, Expression: ""},
		{Kind: KindSymbolic, Expression: "AB +"},
		{Kind: KindMultiValue},
		{Kind: KindMultiValue, Values: []string{"a", " "}},
		{Kind: KindMultiValue, Values: []string{"a"}, Compare: "fuzzy"},
		{Kind: KindMultiValue, Values: []string{"∠AB"}, Compare: CompareSymbolic},
		{Kind: "essay"},
	}
	for _, s := range invalid {
		assert.Error(t, s.Validate(), "spec %+v", s)
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("symbolic_expression")
	require.NoError(t, err)
	assert.Equal(t, KindSymbolic, k)

	_, err = ParseKind("essay")
	assert.Error(t, err)
}
