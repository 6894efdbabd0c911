package mastery

// DisplayState is how a concept is presented on a learner's map.
type DisplayState string

const (
	DisplayLocked    DisplayState = "locked"
	DisplayAvailable DisplayState = "available"
	DisplayLearning  DisplayState = "learning"
	DisplayMastered  DisplayState = "mastered"
	DisplayRusty     DisplayState = "rusty"
)

// ResolveDisplayState maps a mastery state + graph position into the
// display state used by clients.
func ResolveDisplayState(state MasteryState, prerequisitesMet bool) DisplayState {
	switch state {
	case StateNew:
		if prerequisitesMet {
			return DisplayAvailable
		}
		return DisplayLocked
	case StateLearning:
		return DisplayLearning
	case StateMastered:
		return DisplayMastered
	case StateRusty:
		return DisplayRusty
	default:
		return DisplayLocked
	}
}
