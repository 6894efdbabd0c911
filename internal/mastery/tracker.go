// Package mastery tracks per-learner, per-concept mastery estimates and
// propagates credit from answered concepts to their prerequisites.
package mastery

import (
	"maps"
	"sort"
	"strings"
	"sync"
	"time"
)

// AncestorSource resolves the transitive prerequisites of a concept.
// *conceptgraph.Graph satisfies it.
type AncestorSource interface {
	Ancestors(code string) ([]string, error)
}

// Submission is one graded answer as seen by the tracker.
type Submission struct {
	LearnerID string
	// ConceptCodes is ordered by relevance, primary concept first.
	ConceptCodes []string
	Score        float64
	// Passed enables propagation to prerequisites.
	Passed bool
}

// Outcome reports every record a submission touched.
type Outcome struct {
	// Estimates maps each touched concept code to its new estimate.
	Estimates   map[string]float64
	Transitions []StateTransition
}

type entry struct {
	mu  sync.Mutex
	rec Record
}

// Tracker owns all mastery records. Reads never create records. Updates
// to one (learner, concept) pair are serialized by that record's lock;
// the tracker-wide lock only guards record creation.
type Tracker struct {
	cfg Config
	now func() time.Time

	mu       sync.RWMutex
	learners map[string]map[string]*entry
}

// NewTracker creates an empty tracker. The config must be valid.
func NewTracker(cfg Config) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Tracker{
		cfg:      cfg,
		now:      time.Now,
		learners: make(map[string]map[string]*entry),
	}, nil
}

// Config returns the tracker's policy constants.
func (t *Tracker) Config() Config {
	return t.cfg
}

// Record applies a graded submission. Exercised concepts are updated with
// their relevance weight. When the submission passed, every ancestor that
// was not itself exercised is updated with PropagationWeight times the
// largest weight among the exercised concepts it supports. A failed
// submission never touches prerequisites.
//
// Ancestors are resolved before anything is written, so a resolution
// error leaves every record unchanged.
func (t *Tracker) Record(sub Submission, graph AncestorSource) (Outcome, error) {
	if strings.TrimSpace(sub.LearnerID) == "" {
		return Outcome{}, ErrInvalidLearner
	}

	direct := relevanceWeights(sub.ConceptCodes)
	weights := maps.Clone(direct)
	if sub.Passed && graph != nil {
		propagated := make(map[string]float64)
		for _, code := range sub.ConceptCodes {
			ancestors, err := graph.Ancestors(code)
			if err != nil {
				return Outcome{}, err
			}
			w := t.cfg.PropagationWeight * direct[code]
			for _, a := range ancestors {
				if _, ok := direct[a]; !ok && w > propagated[a] {
					propagated[a] = w
				}
			}
		}
		for code, w := range propagated {
			weights[code] = w
		}
	}

	codes := make([]string, 0, len(weights))
	for code := range weights {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := Outcome{Estimates: make(map[string]float64, len(codes))}
	for _, code := range codes {
		_, isDirect := direct[code]
		est, tr := t.apply(sub.LearnerID, code, sub.Score, weights[code], isDirect && !sub.Passed, isDirect && sub.Passed)
		out.Estimates[code] = est
		if tr != nil {
			out.Transitions = append(out.Transitions, *tr)
		}
	}
	return out, nil
}

func (t *Tracker) apply(learner, code string, score, weight float64, failed, passed bool) (float64, *StateTransition) {
	e := t.entry(learner, code)
	e.mu.Lock()
	defer e.mu.Unlock()

	now := t.now()
	e.rec.Estimate = UpdateEstimate(e.rec.Estimate, score, t.cfg.LearningRate, weight)
	e.rec.Attempts++
	e.rec.UpdatedAt = now
	switch {
	case failed:
		e.rec.Failures++
	case passed:
		e.rec.Failures = 0
	}

	next, trigger := nextState(e.rec.State, e.rec.Estimate, t.cfg.MasteredThreshold)
	if next == e.rec.State {
		return e.rec.Estimate, nil
	}
	tr := &StateTransition{
		LearnerID:   learner,
		ConceptCode: code,
		From:        e.rec.State,
		To:          next,
		Trigger:     trigger,
	}
	e.rec.State = next
	if next == StateMastered && e.rec.MasteredAt == nil {
		e.rec.MasteredAt = &now
	}
	return e.rec.Estimate, tr
}

// entry returns the record holder for a pair, creating it on first use.
func (t *Tracker) entry(learner, code string) *entry {
	t.mu.RLock()
	e, ok := t.learners[learner][code]
	t.mu.RUnlock()
	if ok {
		return e
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	byCode, ok := t.learners[learner]
	if !ok {
		byCode = make(map[string]*entry)
		t.learners[learner] = byCode
	}
	if e, ok := byCode[code]; ok {
		return e
	}
	e = &entry{rec: Record{LearnerID: learner, ConceptCode: code, State: StateNew}}
	byCode[code] = e
	return e
}

func (e *entry) snapshot() Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	r := e.rec
	if r.MasteredAt != nil {
		at := *r.MasteredAt
		r.MasteredAt = &at
	}
	return r
}

// Get returns one record.
func (t *Tracker) Get(learner, code string) (Record, error) {
	t.mu.RLock()
	e, ok := t.learners[learner][code]
	t.mu.RUnlock()
	if !ok {
		return Record{}, recordNotFound(learner, code)
	}
	return e.snapshot(), nil
}

// Learner returns every record of a learner sorted by concept code.
func (t *Tracker) Learner(learner string) ([]Record, error) {
	t.mu.RLock()
	byCode, ok := t.learners[learner]
	entries := make([]*entry, 0, len(byCode))
	for _, e := range byCode {
		entries = append(entries, e)
	}
	t.mu.RUnlock()
	if !ok {
		return nil, learnerNotFound(learner)
	}

	out := make([]Record, len(entries))
	for i, e := range entries {
		out[i] = e.snapshot()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ConceptCode < out[j].ConceptCode })
	return out, nil
}

// Mastered returns the set of concept codes the learner has mastered.
// An unknown learner has mastered nothing.
func (t *Tracker) Mastered(learner string) map[string]bool {
	records, err := t.Learner(learner)
	if err != nil {
		return map[string]bool{}
	}
	out := make(map[string]bool)
	for _, r := range records {
		if r.IsMastered() {
			out[r.ConceptCode] = true
		}
	}
	return out
}

// Struggling returns the codes of the learner's concepts whose last direct
// attempt failed or that have gone rusty, sorted.
func (t *Tracker) Struggling(learner string) []string {
	records, err := t.Learner(learner)
	if err != nil {
		return nil
	}
	var out []string
	for _, r := range records {
		if r.IsStruggling() {
			out = append(out, r.ConceptCode)
		}
	}
	return out
}

// Learners returns the ids of every learner with at least one record.
func (t *Tracker) Learners() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.learners))
	for id := range t.learners {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
