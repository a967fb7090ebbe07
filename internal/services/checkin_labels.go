package services

import "github.com/terraincognita07/lunara/internal/models"

var moodScaleEmojis = [models.MaxScore]string{"😢", "😔", "😐", "🙂", "😊", "😄", "🤩", "🥰", "😍", "🤗"}

const quickTipCount = 2

// MoodScaleEmoji is the picker emoji for an exact mood score.
func MoodScaleEmoji(mood int) string {
	if !models.IsValidScore(mood) {
		return ""
	}
	return moodScaleEmojis[mood-models.MinScore]
}

// MoodTrendEmoji is the coarser emoji used in history lists.
func MoodTrendEmoji(mood int) string {
	switch {
	case mood <= 2:
		return "😢"
	case mood <= 4:
		return "😐"
	case mood <= 6:
		return "🙂"
	default:
		return "😊"
	}
}

func MoodLabelKey(mood int) string {
	switch {
	case mood <= 3:
		return "checkin.mood.low"
	case mood <= 6:
		return "checkin.mood.neutral"
	default:
		return "checkin.mood.great"
	}
}

func EnergyLabelKey(energy int) string {
	switch {
	case energy <= 3:
		return "checkin.energy.low"
	case energy <= 7:
		return "checkin.energy.moderate"
	default:
		return "checkin.energy.high"
	}
}

func SleepLabelKey(sleep models.Sleep) string {
	return "checkin.sleep." + string(sleep)
}

// QuickTips returns the recommendations shown on the insight card and how
// many more are available behind the explanation view.
func QuickTips(insight models.Insight) ([]string, int) {
	if len(insight.Recommendations) <= quickTipCount {
		return insight.Recommendations, 0
	}
	return insight.Recommendations[:quickTipCount], len(insight.Recommendations) - quickTipCount
}
