// Package tutor is the entry point of the knowledge core. It holds the
// current ontology snapshot and combines answer checking with mastery
// tracking.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/Valentine-chinedu/ITS-backend/internal/conceptgraph"
	"github.com/Valentine-chinedu/ITS-backend/internal/equivalence"
	"github.com/Valentine-chinedu/ITS-backend/internal/mastery"
	"github.com/Valentine-chinedu/ITS-backend/internal/misconception"
	"github.com/Valentine-chinedu/ITS-backend/internal/ontology"
	"github.com/Valentine-chinedu/ITS-backend/internal/platform/logger"
	"github.com/Valentine-chinedu/ITS-backend/internal/problembank"
)

// ErrInvalidLearner is returned for an empty learner id.
var ErrInvalidLearner = mastery.ErrInvalidLearner

// DefaultPassThreshold is the score at or above which an answer is correct.
const DefaultPassThreshold = 0.8

// Options configure a Service.
type Options struct {
	PassThreshold float64
	// PartialCredit enables fractional multi_value scores.
	PartialCredit bool
	Mastery       mastery.Config
	Logger        *logger.Logger
}

// DefaultOptions returns the documented defaults with a discarding logger.
func DefaultOptions() Options {
	return Options{
		PassThreshold: DefaultPassThreshold,
		Mastery:       mastery.DefaultConfig(),
	}
}

// Validate checks every policy constant.
func (o Options) Validate() error {
	var errs []error
	if !(o.PassThreshold > 0 && o.PassThreshold <= 1) {
		errs = append(errs, fmt.Errorf("pass_threshold must be in (0,1], got %v", o.PassThreshold))
	}
	if err := o.Mastery.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// CheckResult is the outcome of one submission.
type CheckResult struct {
	ProblemID string
	Correct   bool
	Score     float64
	// Extraneous counts multi_value elements outside the expected set.
	Extraneous int
	// UpdatedMastery maps every touched concept to its new estimate.
	UpdatedMastery map[string]float64
	Transitions    []mastery.StateTransition
	// Misconceptions lists known error patterns of the problem's concepts
	// when the answer is incorrect.
	Misconceptions []misconception.Misconception
}

// ConceptProgress is a learner's standing on one concept.
type ConceptProgress struct {
	Concept  conceptgraph.Concept
	Estimate float64
	Attempts int
	State    mastery.MasteryState
	Display  mastery.DisplayState
}

// Service answers concept, problem and submission requests. Each request
// reads a single snapshot, so it never sees a mix of two ontologies.
type Service struct {
	opts    Options
	log     *logger.Logger
	checker *equivalence.Checker
	tracker *mastery.Tracker

	snap    atomic.Pointer[Snapshot]
	reloads singleflight.Group
}

// New validates opts, builds the first snapshot from src and returns a
// ready service.
func New(ctx context.Context, src ontology.Source, opts Options) (*Service, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	tracker, err := mastery.NewTracker(opts.Mastery)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	s := &Service{
		opts:    opts,
		log:     log,
		checker: equivalence.NewChecker(equivalence.Options{PartialCredit: opts.PartialCredit}),
		tracker: tracker,
	}
	if _, err := s.Reload(ctx, src); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload builds a new snapshot from src and swaps it in. On failure the
// current snapshot stays in effect. Concurrent reloads with the same
// source Key share one build; reloads of different documents never do.
func (s *Service) Reload(ctx context.Context, src ontology.Source) (*Snapshot, error) {
	v, err, shared := s.reloads.Do(src.Key(), func() (interface{}, error) {
		snap, err := buildSnapshot(ctx, src)
		if err != nil {
			s.log.Warn("ontology reload failed", "source", src.String(), "error", err)
			return nil, err
		}
		prev := s.snap.Swap(snap)
		fields := []interface{}{
			"source", snap.Source,
			"version", snap.Version,
			"schema_version", snap.SchemaVersion,
			"concepts", snap.Graph.Len(),
			"problems", snap.Bank.Len(),
			"misconceptions", snap.Misconceptions.Len(),
		}
		if prev != nil {
			fields = append(fields, "previous_version", prev.Version)
		}
		s.log.Info("ontology loaded", fields...)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.log.Debug("ontology reload coalesced", "source", src.String())
	}
	return v.(*Snapshot), nil
}

// Snapshot returns the snapshot currently in effect.
func (s *Service) Snapshot() *Snapshot {
	return s.snap.Load()
}

// ListConcepts returns every concept sorted by code.
func (s *Service) ListConcepts() []conceptgraph.Concept {
	return s.snap.Load().Graph.List()
}

// GetConcept returns one concept.
func (s *Service) GetConcept(code string) (conceptgraph.Concept, error) {
	return s.snap.Load().Graph.Get(code)
}

// ListProblems returns the public view of every problem, or only those
// exercising conceptCode when it is non-empty.
func (s *Service) ListProblems(conceptCode string) ([]problembank.PublicProblem, error) {
	snap := s.snap.Load()
	if conceptCode != "" && !snap.Graph.Has(conceptCode) {
		return nil, fmt.Errorf("%w: %q", conceptgraph.ErrConceptNotFound, conceptCode)
	}
	return snap.Bank.Public(conceptCode), nil
}

// GetProblem returns the public view of one problem.
func (s *Service) GetProblem(id string) (problembank.PublicProblem, error) {
	p, err := s.snap.Load().Bank.Get(id)
	if err != nil {
		return problembank.PublicProblem{}, err
	}
	return p.Public(), nil
}

// CheckAnswer grades raw against a problem and updates the learner's
// mastery. The answer is correct when its score reaches the pass threshold
// and it names no extraneous values. An unknown problem changes nothing.
func (s *Service) CheckAnswer(learnerID, problemID string, raw any) (*CheckResult, error) {
	if strings.TrimSpace(learnerID) == "" {
		return nil, ErrInvalidLearner
	}
	snap := s.snap.Load()
	p, err := snap.Bank.Get(problemID)
	if err != nil {
		return nil, err
	}

	res := s.checker.Check(p.Answer, raw)
	correct := res.Score >= s.opts.PassThreshold && res.Extraneous == 0

	out, err := s.tracker.Record(mastery.Submission{
		LearnerID:    learnerID,
		ConceptCodes: p.ConceptCodes,
		Score:        res.Score,
		Passed:       correct,
	}, snap.Graph)
	if err != nil {
		return nil, fmt.Errorf("update mastery: %w", err)
	}

	s.log.Debug("answer checked",
		"learner_id", learnerID,
		"problem_id", p.ID,
		"answer_type", p.Answer.Kind,
		"score", res.Score,
		"correct", correct,
	)
	for _, tr := range out.Transitions {
		s.log.Info("mastery state changed",
			"learner_id", tr.LearnerID,
			"concept", tr.ConceptCode,
			"from", tr.From,
			"to", tr.To,
			"trigger", tr.Trigger,
		)
	}

	result := &CheckResult{
		ProblemID:      p.ID,
		Correct:        correct,
		Score:          res.Score,
		Extraneous:     res.Extraneous,
		UpdatedMastery: out.Estimates,
		Transitions:    out.Transitions,
	}
	if !correct {
		result.Misconceptions = snap.Misconceptions.ForConcepts(p.ConceptCodes)
	}
	return result, nil
}

// Mastery returns every mastery record of a learner.
func (s *Service) Mastery(learnerID string) ([]mastery.Record, error) {
	return s.tracker.Learner(learnerID)
}

// Progress returns the learner's standing on every concept in
// prerequisite order. Concepts the learner never touched are reported as
// new, without creating records.
func (s *Service) Progress(learnerID string) ([]ConceptProgress, error) {
	if strings.TrimSpace(learnerID) == "" {
		return nil, ErrInvalidLearner
	}
	graph := s.snap.Load().Graph
	mastered := s.tracker.Mastered(learnerID)

	concepts := graph.TopologicalOrder()
	out := make([]ConceptProgress, 0, len(concepts))
	for _, c := range concepts {
		p := ConceptProgress{Concept: c, State: mastery.StateNew}
		if rec, err := s.tracker.Get(learnerID, c.Code); err == nil {
			p.Estimate, p.Attempts, p.State = rec.Estimate, rec.Attempts, rec.State
		}
		p.Display = mastery.ResolveDisplayState(p.State, graph.IsUnlocked(c.Code, mastered))
		out = append(out, p)
	}
	return out, nil
}

// Recommend returns the concepts the learner should study next: every
// prerequisite mastered, the concept itself not yet mastered. Codes in
// known count as mastered in addition to the tracked ones; an unknown code
// is ErrConceptNotFound.
func (s *Service) Recommend(learnerID string, known ...string) ([]conceptgraph.Concept, error) {
	if strings.TrimSpace(learnerID) == "" {
		return nil, ErrInvalidLearner
	}
	graph := s.snap.Load().Graph
	mastered := s.tracker.Mastered(learnerID)
	for _, code := range known {
		if !graph.Has(code) {
			return nil, fmt.Errorf("%w: %q", conceptgraph.ErrConceptNotFound, code)
		}
		mastered[code] = true
	}
	return graph.Available(mastered), nil
}

// Misconceptions returns the known error patterns of every concept the
// learner is struggling with, in prerequisite order. A learner with no
// records has none.
func (s *Service) Misconceptions(learnerID string) ([]misconception.Misconception, error) {
	if strings.TrimSpace(learnerID) == "" {
		return nil, ErrInvalidLearner
	}
	snap := s.snap.Load()
	struggling := make(map[string]bool)
	for _, code := range s.tracker.Struggling(learnerID) {
		struggling[code] = true
	}

	var codes []string
	for _, c := range snap.Graph.TopologicalOrder() {
		if struggling[c.Code] {
			codes = append(codes, c.Code)
		}
	}
	return snap.Misconceptions.ForConcepts(codes), nil
}

// IsNotFound reports whether err is any of the request-time not-found
// errors.
func IsNotFound(err error) bool {
	return errors.Is(err, conceptgraph.ErrConceptNotFound) ||
		errors.Is(err, problembank.ErrProblemNotFound) ||
		errors.Is(err, mastery.ErrRecordNotFound) ||
		errors.Is(err, mastery.ErrLearnerNotFound)
}
