package tutor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Valentine-chinedu/ITS-backend/internal/conceptgraph"
	"github.com/Valentine-chinedu/ITS-backend/internal/misconception"
	"github.com/Valentine-chinedu/ITS-backend/internal/ontology"
	"github.com/Valentine-chinedu/ITS-backend/internal/problembank"
)

// Snapshot is one fully built ontology. It is never modified after
// construction; a reload produces a new Snapshot.
type Snapshot struct {
	Version       string // unique per load
	Source        string
	SchemaVersion string
	Name          string
	LoadedAt      time.Time
	Graph         *conceptgraph.Graph
	Bank          *problembank.Bank
	// Misconceptions are the known error patterns, keyed by concept.
	Misconceptions *misconception.Catalog
}

// buildSnapshot loads a document and builds the graph, then the bank and
// the misconception catalog against that graph. Any failure returns no snapshot.
func buildSnapshot(ctx context.Context, src ontology.Source) (*Snapshot, error) {
	doc, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ontology from %s: %w", src, err)
	}
	graph, err := conceptgraph.Build(doc.Concepts)
	if err != nil {
		return nil, err
	}
	bank, err := problembank.Build(doc.Problems, graph)
	if err != nil {
		return nil, err
	}
	catalog, err := misconception.Build(doc.Misconceptions, graph)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Version:        uuid.NewString(),
		Source:         src.String(),
		SchemaVersion:  doc.SchemaVersion,
		Name:           doc.Name,
		LoadedAt:       time.Now(),
		Graph:          graph,
		Bank:           bank,
		Misconceptions: catalog,
	}, nil
}
