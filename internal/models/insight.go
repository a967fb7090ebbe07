package models

type Phase string

const (
	PhaseFollicular  Phase = "Follicular"
	PhaseOvulation   Phase = "Ovulation"
	PhaseEarlyLuteal Phase = "Early Luteal"
	PhaseLateLuteal  Phase = "Late Luteal"
	PhaseTransition  Phase = "Transition"

	// PhaseUnknown is a display fallback for labels that do not parse.
	// The classifier never produces it.
	PhaseUnknown Phase = "Unknown"
)

type Insight struct {
	Phase           Phase    `json:"phase"`
	Confidence      int      `json:"confidence"`
	Message         string   `json:"message"`
	Explanation     string   `json:"explanation"`
	Recommendations []string `json:"recommendations"`
}

func ProducedPhases() []Phase {
	return []Phase{
		PhaseFollicular,
		PhaseOvulation,
		PhaseEarlyLuteal,
		PhaseLateLuteal,
		PhaseTransition,
	}
}

// ParsePhase maps a stored label back to a Phase, falling back to PhaseUnknown.
func ParsePhase(label string) Phase {
	for _, phase := range ProducedPhases() {
		if string(phase) == label {
			return phase
		}
	}
	return PhaseUnknown
}
