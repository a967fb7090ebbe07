package services

import (
	"strings"

	"github.com/terraincognita07/lunara/internal/models"
)

type PhaseCopy struct {
	Message         string
	Explanation     string
	Recommendations []string
}

type PhasePresentation struct {
	Emoji    string `json:"emoji"`
	Gradient string `json:"gradient"`
	Badge    string `json:"badge"`
}

var phaseCopyCatalog = map[models.Phase]PhaseCopy{
	models.PhaseLateLuteal: {
		Message:     "You may be in your late luteal phase - PMS symptoms are common right now.",
		Explanation: "Your low mood, energy, and poor sleep align with the hormonal dip that happens 5-7 days before menstruation. Estrogen and progesterone are both declining.",
		Recommendations: []string{
			"Prioritize rest and gentle movement",
			"Eat magnesium-rich foods",
			"Practice stress-reduction techniques",
		},
	},
	models.PhaseFollicular: {
		Message:     "You seem to be in your follicular phase - energy and mood are naturally elevated!",
		Explanation: "Rising estrogen levels during this phase boost serotonin and energy. This is typically the most productive time of your cycle.",
		Recommendations: []string{
			"Take advantage of high energy for important tasks",
			"Try new activities or challenges",
			"Focus on creative projects",
		},
	},
	models.PhaseOvulation: {
		Message:     "You might be approaching or in ovulation - feeling confident and social?",
		Explanation: "Peak estrogen around ovulation enhances mood, energy, and social confidence. Many women feel most attractive and outgoing during this time.",
		Recommendations: []string{
			"Schedule important meetings or social events",
			"Consider high-intensity workouts",
			"Great time for networking",
		},
	},
	models.PhaseEarlyLuteal: {
		Message:     "You may be in your early luteal phase - energy is starting to shift inward.",
		Explanation: "After ovulation, progesterone rises while estrogen drops, leading to a more introspective, calmer energy state.",
		Recommendations: []string{
			"Focus on completing existing projects",
			"Prioritize self-care routines",
			"Listen to your body's need for rest",
		},
	},
	models.PhaseTransition: {
		Message:     "Your hormones seem to be in transition - this is completely normal!",
		Explanation: "Hormonal fluctuations can create mixed signals. Your body is constantly adjusting throughout your cycle.",
		Recommendations: []string{
			"Stay hydrated and maintain regular sleep",
			"Track patterns over time for better insights",
			"Be patient with yourself",
		},
	},
}

var phasePresentations = map[models.Phase]PhasePresentation{
	models.PhaseFollicular:  {Emoji: "🌱", Gradient: "from-green-400 to-emerald-500", Badge: "bg-green-100 text-green-700"},
	models.PhaseOvulation:   {Emoji: "🌸", Gradient: "from-pink-400 to-rose-500", Badge: "bg-yellow-100 text-yellow-700"},
	models.PhaseEarlyLuteal: {Emoji: "🍂", Gradient: "from-orange-400 to-amber-500", Badge: "bg-blue-100 text-blue-700"},
	models.PhaseLateLuteal:  {Emoji: "🌑", Gradient: "from-purple-400 to-violet-500", Badge: "bg-purple-100 text-purple-700"},
	models.PhaseTransition:  {Emoji: "🌀", Gradient: "from-blue-400 to-indigo-500", Badge: "bg-gray-100 text-gray-700"},
	models.PhaseUnknown:     {Emoji: "❓", Gradient: "from-gray-400 to-slate-500", Badge: "bg-gray-100 text-gray-700"},
}

// PhaseCopyFor returns the fixed copy of a producible phase. Unknown phases
// get the Transition copy.
func PhaseCopyFor(phase models.Phase) PhaseCopy {
	if copyText, ok := phaseCopyCatalog[phase]; ok {
		return copyText
	}
	return phaseCopyCatalog[models.PhaseTransition]
}

func PresentPhase(label string) PhasePresentation {
	return phasePresentations[models.ParsePhase(label)]
}

// PhaseTranslationKey builds the i18n key prefix for a phase, e.g.
// "phase.early_luteal".
func PhaseTranslationKey(phase models.Phase) string {
	normalized := strings.ToLower(strings.TrimSpace(string(phase)))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	if normalized == "" {
		normalized = "unknown"
	}
	return "phase." + normalized
}
