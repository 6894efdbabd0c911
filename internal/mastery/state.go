package mastery

// MasteryState represents a concept's position in the mastery lifecycle.
type MasteryState string

const (
	StateNew      MasteryState = "new"
	StateLearning MasteryState = "learning"
	StateMastered MasteryState = "mastered"
	StateRusty    MasteryState = "rusty"
)

// Transition triggers.
const (
	TriggerFirstAttempt = "first-attempt"
	TriggerThreshold    = "threshold-reached"
	TriggerDropped      = "estimate-dropped"
	TriggerRecovered    = "recovery-complete"
)

// StateTransition records a mastery state change for display and event logging.
type StateTransition struct {
	LearnerID   string
	ConceptCode string
	From        MasteryState
	To          MasteryState
	Trigger     string
}

// nextState derives the state after an estimate update. A record that was
// mastered and falls below the threshold becomes rusty, and climbing back
// restores mastered.
func nextState(cur MasteryState, estimate, threshold float64) (MasteryState, string) {
	above := estimate >= threshold
	switch cur {
	case StateNew:
		if above {
			return StateMastered, TriggerThreshold
		}
		return StateLearning, TriggerFirstAttempt
	case StateLearning:
		if above {
			return StateMastered, TriggerThreshold
		}
	case StateMastered:
		if !above {
			return StateRusty, TriggerDropped
		}
	case StateRusty:
		if above {
			return StateMastered, TriggerRecovered
		}
	}
	return cur, ""
}
