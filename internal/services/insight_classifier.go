package services

import "github.com/terraincognita07/lunara/internal/models"

type insightRule struct {
	phase      models.Phase
	confidence int
	matches    func(models.CheckIn) bool
}

// insightRules are evaluated in order and the first match wins. The ranges
// overlap, so reordering changes results.
var insightRules = []insightRule{
	{
		phase:      models.PhaseLateLuteal,
		confidence: 85,
		matches: func(checkIn models.CheckIn) bool {
			return checkIn.Mood <= 3 && checkIn.Energy <= 4 && checkIn.Sleep == models.SleepPoor
		},
	},
	{
		phase:      models.PhaseFollicular,
		confidence: 90,
		matches: func(checkIn models.CheckIn) bool {
			return checkIn.Mood >= 7 && checkIn.Energy >= 7 && checkIn.Sleep == models.SleepGood
		},
	},
	{
		phase:      models.PhaseOvulation,
		confidence: 75,
		matches: func(checkIn models.CheckIn) bool {
			return checkIn.Mood >= 6 && checkIn.Energy >= 6
		},
	},
	{
		phase:      models.PhaseEarlyLuteal,
		confidence: 70,
		matches: func(checkIn models.CheckIn) bool {
			return checkIn.Mood <= 5 && checkIn.Energy <= 5
		},
	},
}

const (
	fallbackInsightPhase      = models.PhaseTransition
	fallbackInsightConfidence = 60
)

// ClassifyCheckIn maps a valid check-in to exactly one insight. It has no
// side effects and never fails; input ranges are checked by the caller.
func ClassifyCheckIn(checkIn models.CheckIn) models.Insight {
	for _, rule := range insightRules {
		if rule.matches(checkIn) {
			return buildInsight(rule.phase, rule.confidence)
		}
	}
	return buildInsight(fallbackInsightPhase, fallbackInsightConfidence)
}

func buildInsight(phase models.Phase, confidence int) models.Insight {
	copyText := PhaseCopyFor(phase)
	recommendations := make([]string, len(copyText.Recommendations))
	copy(recommendations, copyText.Recommendations)

	return models.Insight{
		Phase:           phase,
		Confidence:      confidence,
		Message:         copyText.Message,
		Explanation:     copyText.Explanation,
		Recommendations: recommendations,
	}
}
