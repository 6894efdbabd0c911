package conceptgraph

import (
	"errors"
	"slices"
	"testing"

	"github.com/Valentine-chinedu/ITS-backend/internal/ontology"
)

// testRecords returns a small geometry DAG:
//
//	GEO.POINT <- ANG.BASIC <- TRI.BASIC <- TRI.PYTH
//	                       <- ANG.PAIRS
//	GEO.POINT <- MEAS.PERIM <- MEAS.AREA -> TRI.BASIC
func testRecords() []ontology.ConceptRecord {
	return []ontology.ConceptRecord{
		{Code: "TRI.PYTH", Label: "Pythagorean Theorem", Prerequisites: []string{"TRI.BASIC"}},
		{Code: "GEO.POINT", Label: "Points and Lines"},
		{Code: "ANG.BASIC", Label: "Angles", Prerequisites: []string{"GEO.POINT"}},
		{Code: "ANG.PAIRS", Label: "Angle Pairs", Prerequisites: []string{"ANG.BASIC"}},
		{Code: "TRI.BASIC", Label: "Triangles", Prerequisites: []string{"ANG.BASIC"}},
		{Code: "MEAS.PERIM", Label: "Perimeter", Prerequisites: []string{"GEO.POINT"}},
		{Code: "MEAS.AREA", Label: "Area", Prerequisites: []string{"MEAS.PERIM", "TRI.BASIC"}},
	}
}

func mustBuild(t *testing.T, records []ontology.ConceptRecord) *Graph {
	t.Helper()
	g, err := Build(records)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return g
}

func TestGet_Exists(t *testing.T) {
	g := mustBuild(t, testRecords())

	c, err := g.Get("TRI.PYTH")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Label != "Pythagorean Theorem" {
		t.Errorf("got label %q, want %q", c.Label, "Pythagorean Theorem")
	}
	if c.ImageKey != "TRI.PYTH" {
		t.Errorf("ImageKey = %q, want code as default", c.ImageKey)
	}
}

func TestGet_NotFound(t *testing.T) {
	g := mustBuild(t, testRecords())

	_, err := g.Get("nonexistent")
	if !errors.Is(err, ErrConceptNotFound) {
		t.Fatalf("got %v, want ErrConceptNotFound", err)
	}
}

func TestList_SortedAndStable(t *testing.T) {
	g := mustBuild(t, testRecords())

	first := g.List()
	if len(first) != 7 {
		t.Fatalf("got %d concepts, want 7", len(first))
	}
	for i := 1; i < len(first); i++ {
		if first[i-1].Code >= first[i].Code {
			t.Errorf("List not sorted: %q before %q", first[i-1].Code, first[i].Code)
		}
	}

	second := g.List()
	for i := range first {
		if first[i].Code != second[i].Code {
			t.Errorf("List order changed at %d: %q vs %q", i, first[i].Code, second[i].Code)
		}
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	g := mustBuild(t, testRecords())

	a := g.List()
	a[0].Label = "MUTATED"
	a[len(a)-1].Prerequisites[0] = "MUTATED"

	b := g.List()
	if b[0].Label == "MUTATED" || b[len(b)-1].Prerequisites[0] == "MUTATED" {
		t.Error("List returned shared storage")
	}
}

func TestAncestors(t *testing.T) {
	g := mustBuild(t, testRecords())

	tests := []struct {
		code string
		want []string
	}{
		{"GEO.POINT", nil},
		{"ANG.BASIC", []string{"GEO.POINT"}},
		{"TRI.PYTH", []string{"ANG.BASIC", "GEO.POINT", "TRI.BASIC"}},
		{"MEAS.AREA", []string{"ANG.BASIC", "GEO.POINT", "MEAS.PERIM", "TRI.BASIC"}},
	}
	for _, tt := range tests {
		got, err := g.Ancestors(tt.code)
		if err != nil {
			t.Fatalf("Ancestors(%q) error = %v", tt.code, err)
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("Ancestors(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestDescendants(t *testing.T) {
	g := mustBuild(t, testRecords())

	tests := []struct {
		code string
		want []string
	}{
		{"TRI.PYTH", nil},
		{"TRI.BASIC", []string{"MEAS.AREA", "TRI.PYTH"}},
		{"GEO.POINT", []string{"ANG.BASIC", "ANG.PAIRS", "MEAS.AREA", "MEAS.PERIM", "TRI.BASIC", "TRI.PYTH"}},
	}
	for _, tt := range tests {
		got, err := g.Descendants(tt.code)
		if err != nil {
			t.Fatalf("Descendants(%q) error = %v", tt.code, err)
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("Descendants(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestClosures_ConsistentWithEdges(t *testing.T) {
	g := mustBuild(t, testRecords())

	// a is an ancestor of b exactly when b is a descendant of a.
	for _, a := range g.List() {
		desc, err := g.Descendants(a.Code)
		if err != nil {
			t.Fatal(err)
		}
		for _, b := range g.List() {
			anc, err := g.Ancestors(b.Code)
			if err != nil {
				t.Fatal(err)
			}
			if slices.Contains(anc, a.Code) != slices.Contains(desc, b.Code) {
				t.Errorf("closure mismatch between %q and %q", a.Code, b.Code)
			}
		}
	}
}

func TestClosures_UnknownCode(t *testing.T) {
	g := mustBuild(t, testRecords())

	if _, err := g.Ancestors("nope"); !errors.Is(err, ErrConceptNotFound) {
		t.Errorf("Ancestors error = %v, want ErrConceptNotFound", err)
	}
	if _, err := g.Descendants("nope"); !errors.Is(err, ErrConceptNotFound) {
		t.Errorf("Descendants error = %v, want ErrConceptNotFound", err)
	}
}

func TestAncestors_CorruptedGraphFailsInsteadOfLooping(t *testing.T) {
	// newGraph skips validation, so this simulates a graph whose
	// acyclic invariant was broken.
	g := newGraph([]Concept{
		{Code: "A", Prerequisites: []string{"B"}},
		{Code: "B", Prerequisites: []string{"A"}},
	})

	_, err := g.Ancestors("A")
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("got %v, want *CycleError", err)
	}
	if !slices.Equal(cycleErr.Path, []string{"A", "B", "A"}) {
		t.Errorf("cycle path = %v, want [A B A]", cycleErr.Path)
	}

	if _, err := g.Descendants("B"); !errors.As(err, &cycleErr) {
		t.Errorf("Descendants error = %v, want *CycleError", err)
	}
}

func TestPrerequisitesAndDependents(t *testing.T) {
	g := mustBuild(t, testRecords())

	prereqs, err := g.Prerequisites("MEAS.AREA")
	if err != nil {
		t.Fatal(err)
	}
	if len(prereqs) != 2 || prereqs[0].Code != "MEAS.PERIM" || prereqs[1].Code != "TRI.BASIC" {
		t.Errorf("Prerequisites(MEAS.AREA) = %v", prereqs)
	}

	deps, err := g.Dependents("ANG.BASIC")
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) != 2 || deps[0].Code != "ANG.PAIRS" || deps[1].Code != "TRI.BASIC" {
		t.Errorf("Dependents(ANG.BASIC) = %v", deps)
	}

	if _, err := g.Dependents("nope"); !errors.Is(err, ErrConceptNotFound) {
		t.Errorf("Dependents(nope) error = %v", err)
	}
}

func TestRoots(t *testing.T) {
	g := mustBuild(t, testRecords())

	roots := g.Roots()
	if len(roots) != 1 || roots[0].Code != "GEO.POINT" {
		t.Errorf("Roots() = %v, want [GEO.POINT]", roots)
	}
}

func TestTopologicalOrder(t *testing.T) {
	g := mustBuild(t, testRecords())

	topo := g.TopologicalOrder()
	if len(topo) != g.Len() {
		t.Fatalf("got %d concepts in topo order, want %d", len(topo), g.Len())
	}

	pos := make(map[string]int, len(topo))
	for i, c := range topo {
		pos[c.Code] = i
	}
	for _, c := range topo {
		for _, p := range c.Prerequisites {
			if pos[p] >= pos[c.Code] {
				t.Errorf("concept %q (pos %d) appears before prerequisite %q (pos %d)",
					c.Code, pos[c.Code], p, pos[p])
			}
		}
	}
}

func TestIsUnlocked(t *testing.T) {
	g := mustBuild(t, testRecords())
	empty := map[string]bool{}

	if !g.IsUnlocked("GEO.POINT", empty) {
		t.Error("root concept should be unlocked with empty mastered set")
	}
	if g.IsUnlocked("MEAS.AREA", map[string]bool{"MEAS.PERIM": true}) {
		t.Error("MEAS.AREA should stay locked with only one of two prerequisites")
	}
	if !g.IsUnlocked("MEAS.AREA", map[string]bool{"MEAS.PERIM": true, "TRI.BASIC": true}) {
		t.Error("MEAS.AREA should be unlocked with both prerequisites")
	}
	if g.IsUnlocked("nope", empty) {
		t.Error("unknown concept should never be unlocked")
	}
}

func TestAvailable(t *testing.T) {
	g := mustBuild(t, testRecords())

	got := g.Available(map[string]bool{})
	if len(got) != 1 || got[0].Code != "GEO.POINT" {
		t.Errorf("Available(empty) = %v, want [GEO.POINT]", got)
	}

	got = g.Available(map[string]bool{"GEO.POINT": true, "ANG.BASIC": true})
	var codes []string
	for _, c := range got {
		codes = append(codes, c.Code)
	}
	slices.Sort(codes)
	want := []string{"ANG.PAIRS", "MEAS.PERIM", "TRI.BASIC"}
	if !slices.Equal(codes, want) {
		t.Errorf("Available = %v, want %v", codes, want)
	}
}

func TestBuild_CollapsesDuplicatePrerequisites(t *testing.T) {
	g := mustBuild(t, []ontology.ConceptRecord{
		{Code: "A"},
		{Code: "B", Prerequisites: []string{"A", "A"}},
	})
	c, _ := g.Get("B")
	if len(c.Prerequisites) != 1 {
		t.Errorf("prerequisites = %v, want [A]", c.Prerequisites)
	}
}
