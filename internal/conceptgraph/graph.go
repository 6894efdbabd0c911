package conceptgraph

import (
	"fmt"
	"slices"
	"sort"

	"github.com/Valentine-chinedu/ITS-backend/internal/ontology"
)

// Graph is an immutable concept DAG with precomputed indices.
// Edges are index based: code -> prerequisite codes, plus the reverse
// code -> dependent codes.
type Graph struct {
	concepts   []Concept // sorted by code
	byCode     map[string]int
	dependents map[string][]string
	topoOrder  []string
}

// Build validates the concept records and constructs a graph.
// Build is all-or-nothing: on error no graph is returned.
func Build(records []ontology.ConceptRecord) (*Graph, error) {
	concepts := make([]Concept, 0, len(records))
	for _, r := range records {
		concepts = append(concepts, fromRecord(r))
	}
	if err := validateConcepts(concepts); err != nil {
		return nil, fmt.Errorf("concept graph validation failed: %w", err)
	}
	return newGraph(concepts), nil
}

// fromRecord converts a raw record, collapsing repeated prerequisites.
func fromRecord(r ontology.ConceptRecord) Concept {
	c := Concept{
		Code:        r.Code,
		Label:       r.Label,
		Description: r.Description,
		Difficulty:  r.Difficulty,
		KSLevel:     r.KSLevel,
		ImageKey:    r.ImageKey,
	}
	if c.ImageKey == "" {
		c.ImageKey = r.Code
	}
	if c.Label == "" {
		c.Label = r.Code
	}
	seen := make(map[string]bool, len(r.Prerequisites))
	for _, p := range r.Prerequisites {
		if !seen[p] {
			seen[p] = true
			c.Prerequisites = append(c.Prerequisites, p)
		}
	}
	return c
}

// newGraph builds all indices. It assumes the concepts were validated.
func newGraph(concepts []Concept) *Graph {
	g := &Graph{
		concepts:   slices.Clone(concepts),
		byCode:     make(map[string]int, len(concepts)),
		dependents: make(map[string][]string),
	}
	sort.Slice(g.concepts, func(i, j int) bool {
		return g.concepts[i].Code < g.concepts[j].Code
	})

	for i := range g.concepts {
		g.byCode[g.concepts[i].Code] = i
	}

	// Reverse edges. Concepts are iterated in code order so each
	// dependents list comes out sorted.
	for i := range g.concepts {
		for _, prereq := range g.concepts[i].Prerequisites {
			g.dependents[prereq] = append(g.dependents[prereq], g.concepts[i].Code)
		}
	}

	// Topological sort (Kahn's algorithm), prerequisites first.
	inDegree := make(map[string]int, len(g.concepts))
	var queue []string
	for _, c := range g.concepts {
		inDegree[c.Code] = len(c.Prerequisites)
		if len(c.Prerequisites) == 0 {
			queue = append(queue, c.Code)
		}
	}
	for len(queue) > 0 {
		code := queue[0]
		queue = queue[1:]
		g.topoOrder = append(g.topoOrder, code)
		for _, dep := range g.dependents[code] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	return g
}

// Len returns the number of concepts.
func (g *Graph) Len() int {
	return len(g.concepts)
}

// Has reports whether code names a concept.
func (g *Graph) Has(code string) bool {
	_, ok := g.byCode[code]
	return ok
}

// Get returns a concept by code.
func (g *Graph) Get(code string) (Concept, error) {
	i, ok := g.byCode[code]
	if !ok {
		return Concept{}, notFound(code)
	}
	return g.concepts[i].clone(), nil
}

// List returns all concepts sorted by code.
func (g *Graph) List() []Concept {
	out := make([]Concept, len(g.concepts))
	for i, c := range g.concepts {
		out[i] = c.clone()
	}
	return out
}

// Prerequisites returns the direct prerequisites of a concept.
func (g *Graph) Prerequisites(code string) ([]Concept, error) {
	i, ok := g.byCode[code]
	if !ok {
		return nil, notFound(code)
	}
	return g.lookup(g.concepts[i].Prerequisites), nil
}

// Dependents returns the concepts that directly require the given one.
func (g *Graph) Dependents(code string) ([]Concept, error) {
	if !g.Has(code) {
		return nil, notFound(code)
	}
	return g.lookup(g.dependents[code]), nil
}

// Ancestors returns the codes of every transitive prerequisite of code,
// sorted. The concept itself is not included.
func (g *Graph) Ancestors(code string) ([]string, error) {
	return g.closure(code, func(c string) []string {
		return g.concepts[g.byCode[c]].Prerequisites
	})
}

// Descendants returns the codes of every concept that transitively
// requires code, sorted. The concept itself is not included.
func (g *Graph) Descendants(code string) ([]string, error) {
	return g.closure(code, func(c string) []string {
		return g.dependents[c]
	})
}

// closure walks edges depth first from code. A back-edge means the graph
// was corrupted after validation; it is reported instead of looping.
func (g *Graph) closure(code string, next func(string) []string) ([]string, error) {
	if !g.Has(code) {
		return nil, notFound(code)
	}

	state := make(map[string]int)
	var path, out []string

	var walk func(c string) error
	walk = func(c string) error {
		state[c] = visiting
		path = append(path, c)
		for _, n := range next(c) {
			if !g.Has(n) {
				continue
			}
			switch state[n] {
			case visiting:
				i := slices.Index(path, n)
				return &CycleError{Path: append(slices.Clone(path[i:]), n)}
			case unvisited:
				out = append(out, n)
				if err := walk(n); err != nil {
					return err
				}
			}
		}
		path = path[:len(path)-1]
		state[c] = done
		return nil
	}

	if err := walk(code); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// Roots returns all concepts with no prerequisites, sorted by code.
func (g *Graph) Roots() []Concept {
	var out []Concept
	for _, c := range g.concepts {
		if len(c.Prerequisites) == 0 {
			out = append(out, c.clone())
		}
	}
	return out
}

// TopologicalOrder returns all concepts with every prerequisite ahead of
// the concepts that need it. The order is the same on every call.
func (g *Graph) TopologicalOrder() []Concept {
	return g.lookup(g.topoOrder)
}

// IsUnlocked returns true if every prerequisite of code is in mastered.
func (g *Graph) IsUnlocked(code string, mastered map[string]bool) bool {
	i, ok := g.byCode[code]
	if !ok {
		return false
	}
	for _, prereq := range g.concepts[i].Prerequisites {
		if !mastered[prereq] {
			return false
		}
	}
	return true
}

// Available returns concepts that are unlocked but not yet mastered, in
// topological order. These are the concepts a learner should study next.
func (g *Graph) Available(mastered map[string]bool) []Concept {
	var out []Concept
	for _, code := range g.topoOrder {
		if !mastered[code] && g.IsUnlocked(code, mastered) {
			out = append(out, g.concepts[g.byCode[code]].clone())
		}
	}
	return out
}

func (g *Graph) lookup(codes []string) []Concept {
	out := make([]Concept, 0, len(codes))
	for _, code := range codes {
		if i, ok := g.byCode[code]; ok {
			out = append(out, g.concepts[i].clone())
		}
	}
	return out
}
