package conceptgraph

import (
	"errors"
	"slices"
	"sort"
	"strings"
)

// DFS node colours.
const (
	unvisited = iota
	visiting
	done
)

// validateConcepts performs all structural checks on the given concept set.
// Returns every problem found joined into one error, or nil if valid.
func validateConcepts(concepts []Concept) error {
	var errs []error

	known := make(map[string]bool, len(concepts))
	for _, c := range concepts {
		if strings.TrimSpace(c.Code) == "" {
			errs = append(errs, errors.New("concept with empty code"))
			continue
		}
		if known[c.Code] {
			errs = append(errs, &DuplicateConceptError{Code: c.Code})
		}
		known[c.Code] = true
	}

	// Dangling prerequisites.
	for _, c := range concepts {
		for _, prereq := range c.Prerequisites {
			if !known[prereq] {
				errs = append(errs, &UnknownReferenceError{From: c.Code, Missing: prereq})
			}
		}
	}

	// Cycles, over the edges that do resolve.
	adj := make(map[string][]string, len(concepts))
	for _, c := range concepts {
		adj[c.Code] = append(adj[c.Code], c.Prerequisites...)
	}
	if cycle := findCycle(adj); cycle != nil {
		errs = append(errs, &CycleError{Path: cycle})
	}

	return errors.Join(errs...)
}

// findCycle runs a depth-first search over adj and returns the first cycle
// found as a path that starts and ends on the same code, or nil.
// Roots are visited in code order so the reported cycle is deterministic.
func findCycle(adj map[string][]string) []string {
	state := make(map[string]int, len(adj))
	var path []string

	var visit func(code string) []string
	visit = func(code string) []string {
		state[code] = visiting
		path = append(path, code)
		for _, next := range adj[code] {
			if _, ok := adj[next]; !ok {
				continue
			}
			switch state[next] {
			case visiting:
				i := slices.Index(path, next)
				return append(slices.Clone(path[i:]), next)
			case unvisited:
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}
		path = path[:len(path)-1]
		state[code] = done
		return nil
	}

	codes := make([]string, 0, len(adj))
	for code := range adj {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		if state[code] == unvisited {
			if cycle := visit(code); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
