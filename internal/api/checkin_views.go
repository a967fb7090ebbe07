package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunara/internal/i18n"
	"github.com/terraincognita07/lunara/internal/models"
	"github.com/terraincognita07/lunara/internal/services"
)

type localizedInsight struct {
	Phase           string   `json:"phase"`
	Message         string   `json:"message"`
	Explanation     string   `json:"explanation"`
	Recommendations []string `json:"recommendations"`
}

type insightView struct {
	models.Insight
	Presentation  services.PhasePresentation `json:"presentation"`
	QuickTips     []string                   `json:"quick_tips"`
	MoreTips      int                        `json:"more_tips"`
	MoreTipsLabel string                     `json:"more_tips_label,omitempty"`
	Localized     *localizedInsight          `json:"localized,omitempty"`
}

type checkInLabels struct {
	MoodEmoji   string `json:"mood_emoji"`
	MoodLabel   string `json:"mood_label"`
	EnergyLabel string `json:"energy_label"`
	SleepLabel  string `json:"sleep_label"`
}

type historyEntryView struct {
	models.HistoryEntry
	MoodEmoji  string                     `json:"mood_emoji"`
	PhaseLabel string                     `json:"phase_label"`
	PhaseStyle services.PhasePresentation `json:"phase_style"`
}

func buildInsightView(c *fiber.Ctx, insight models.Insight) insightView {
	quickTips, moreTips := services.QuickTips(insight)
	view := insightView{
		Insight:      insight,
		Presentation: services.PresentPhase(string(insight.Phase)),
		QuickTips:    quickTips,
		MoreTips:     moreTips,
	}
	if moreTips > 0 {
		view.MoreTipsLabel = fmt.Sprintf(translate(c, "checkin.more_tips"), moreTips)
	}
	if language := currentLanguage(c); language != "" && language != i18n.LangEN {
		view.Localized = localizeInsight(currentMessages(c), insight)
	}
	return view
}

func localizeInsight(messages map[string]string, insight models.Insight) *localizedInsight {
	prefix := services.PhaseTranslationKey(models.ParsePhase(string(insight.Phase)))
	localized := &localizedInsight{
		Phase:           i18n.TranslateMessage(messages, prefix+".label"),
		Message:         translateOr(messages, prefix+".message", insight.Message),
		Explanation:     translateOr(messages, prefix+".explanation", insight.Explanation),
		Recommendations: make([]string, 0, len(insight.Recommendations)),
	}
	for index, recommendation := range insight.Recommendations {
		key := fmt.Sprintf("%s.recommendation_%d", prefix, index+1)
		localized.Recommendations = append(localized.Recommendations, translateOr(messages, key, recommendation))
	}
	return localized
}

func translateOr(messages map[string]string, key string, fallback string) string {
	if translated := i18n.TranslateMessage(messages, key); translated != key {
		return translated
	}
	return fallback
}

func buildCheckInLabels(c *fiber.Ctx, checkIn models.CheckIn) checkInLabels {
	return checkInLabels{
		MoodEmoji:   services.MoodScaleEmoji(checkIn.Mood),
		MoodLabel:   translate(c, services.MoodLabelKey(checkIn.Mood)),
		EnergyLabel: translate(c, services.EnergyLabelKey(checkIn.Energy)),
		SleepLabel:  translate(c, services.SleepLabelKey(checkIn.Sleep)),
	}
}

func buildHistoryEntryView(c *fiber.Ctx, entry models.HistoryEntry) historyEntryView {
	phase := models.ParsePhase(string(entry.Insight.Phase))
	return historyEntryView{
		HistoryEntry: entry,
		MoodEmoji:    services.MoodTrendEmoji(entry.Mood),
		PhaseLabel:   translateOr(currentMessages(c), services.PhaseTranslationKey(phase)+".label", string(phase)),
		PhaseStyle:   services.PresentPhase(string(entry.Insight.Phase)),
	}
}
