// Package conceptgraph holds the immutable prerequisite graph of geometry
// concepts. A Graph is built once from ontology records and is safe for
// concurrent reads; reloading builds a new Graph.
package conceptgraph

import "slices"

// Concept is a single node of the prerequisite graph.
type Concept struct {
	Code          string
	Label         string
	Description   string
	Difficulty    int
	KSLevel       int
	ImageKey      string
	Prerequisites []string
}

// clone returns a copy that does not share the prerequisite slice.
func (c Concept) clone() Concept {
	c.Prerequisites = slices.Clone(c.Prerequisites)
	return c
}
