package services

import (
	"time"

	"github.com/terraincognita07/lunara/internal/models"
)

type sampleEntry struct {
	id         string
	date       string
	mood       int
	energy     int
	sleep      models.Sleep
	phase      models.Phase
	confidence int
}

// Illustrative history shown when the stored payload cannot be parsed.
// Newest first. Confidence values are display samples, not classifier output.
var sampleHistory = []sampleEntry{
	{id: "1", date: "2024-01-15", mood: 7, energy: 8, sleep: models.SleepGood, phase: models.PhaseFollicular, confidence: 90},
	{id: "2", date: "2024-01-14", mood: 6, energy: 7, sleep: models.SleepGood, phase: models.PhaseFollicular, confidence: 85},
	{id: "3", date: "2024-01-13", mood: 4, energy: 5, sleep: models.SleepOkay, phase: models.PhaseLateLuteal, confidence: 80},
}

// SampleHistoryEntries returns a fresh copy of the fallback set, newest first.
func SampleHistoryEntries() []models.HistoryEntry {
	entries := make([]models.HistoryEntry, 0, len(sampleHistory))
	for _, sample := range sampleHistory {
		insight := buildInsight(sample.phase, sample.confidence)
		capturedAt, err := time.Parse(models.CheckInDateLayout, sample.date)
		if err != nil {
			capturedAt = time.Time{}
		}
		entries = append(entries, models.HistoryEntry{
			ID:        sample.id,
			Mood:      sample.mood,
			Energy:    sample.energy,
			Sleep:     sample.sleep,
			Date:      sample.date,
			Insight:   insight,
			Timestamp: capturedAt.Add(12 * time.Hour),
		})
	}
	return entries
}
