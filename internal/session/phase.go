package session

// Phase is the conversation stage of one active call.
type Phase int

const (
	PhaseGreeting Phase = iota
	PhaseVerifying
	PhaseCategorizing
	PhaseCollectingDetails
	PhaseFiling
	PhaseAssurance
	PhaseClosing
)

// String returns the operator-facing phase name.
func (p Phase) String() string {
	switch p {
	case PhaseGreeting:
		return "greeting"
	case PhaseVerifying:
		return "verifying"
	case PhaseCategorizing:
		return "categorizing"
	case PhaseCollectingDetails:
		return "collecting_details"
	case PhaseFiling:
		return "filing"
	case PhaseAssurance:
		return "assurance"
	case PhaseClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// Transitions other than caller hangup move strictly forward, except the
// verification retry loop which returns to verifying on a lookup miss.
var allowedPhaseTransitions = map[Phase][]Phase{
	PhaseGreeting:          {PhaseVerifying},
	PhaseVerifying:         {PhaseVerifying, PhaseCategorizing},
	PhaseCategorizing:      {PhaseCollectingDetails},
	PhaseCollectingDetails: {PhaseFiling},
	PhaseFiling:            {PhaseAssurance, PhaseCollectingDetails},
	PhaseAssurance:         {PhaseClosing, PhaseCollectingDetails},
	PhaseClosing:           {},
}

func isLegalTransition(from, to Phase) bool {
	for _, candidate := range allowedPhaseTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
