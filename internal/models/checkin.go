package models

import "time"

type Sleep string

const (
	SleepPoor Sleep = "poor"
	SleepOkay Sleep = "okay"
	SleepGood Sleep = "good"
)

const (
	MinScore = 1
	MaxScore = 10
)

// CheckInDateLayout is the ISO 8601 calendar date used for CheckIn.Date.
const CheckInDateLayout = "2006-01-02"

type CheckIn struct {
	Mood   int    `json:"mood"`
	Energy int    `json:"energy"`
	Sleep  Sleep  `json:"sleep"`
	Date   string `json:"date"`
}

// HistoryEntry is the persisted shape of one check-in. Field names match the
// payload written by the browser client so exported data can be imported as is.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Mood      int       `json:"mood"`
	Energy    int       `json:"energy"`
	Sleep     Sleep     `json:"sleep"`
	Date      string    `json:"date"`
	Insight   Insight   `json:"insight"`
	Timestamp time.Time `json:"timestamp"`
}

func (entry HistoryEntry) CheckIn() CheckIn {
	return CheckIn{
		Mood:   entry.Mood,
		Energy: entry.Energy,
		Sleep:  entry.Sleep,
		Date:   entry.Date,
	}
}

func IsValidSleep(value Sleep) bool {
	switch value {
	case SleepPoor, SleepOkay, SleepGood:
		return true
	default:
		return false
	}
}

func IsValidScore(value int) bool {
	return value >= MinScore && value <= MaxScore
}
