package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/lunara/internal/models"
)

var (
	ErrInvalidMood        = errors.New("invalid mood")
	ErrInvalidEnergy      = errors.New("invalid energy")
	ErrInvalidSleep       = errors.New("invalid sleep")
	ErrInvalidCheckInDate = errors.New("invalid date")
	ErrFutureCheckInDate  = errors.New("date is in the future")
)

type CheckInInput struct {
	Mood   int
	Energy int
	Sleep  string
	Date   string
}

// NormalizeCheckInInput validates raw input and fills the date with today's
// calendar day in location when it is empty.
func NormalizeCheckInInput(input CheckInInput, now time.Time, location *time.Location) (models.CheckIn, error) {
	if location == nil {
		location = time.UTC
	}
	if !models.IsValidScore(input.Mood) {
		return models.CheckIn{}, ErrInvalidMood
	}
	if !models.IsValidScore(input.Energy) {
		return models.CheckIn{}, ErrInvalidEnergy
	}

	sleep := models.Sleep(strings.ToLower(strings.TrimSpace(input.Sleep)))
	if !models.IsValidSleep(sleep) {
		return models.CheckIn{}, ErrInvalidSleep
	}

	today := DateAtLocation(now, location)
	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = today.Format(models.CheckInDateLayout)
	} else {
		parsed, err := time.ParseInLocation(models.CheckInDateLayout, date, location)
		if err != nil {
			return models.CheckIn{}, ErrInvalidCheckInDate
		}
		if parsed.After(today) {
			return models.CheckIn{}, ErrFutureCheckInDate
		}
		date = parsed.Format(models.CheckInDateLayout)
	}

	return models.CheckIn{
		Mood:   input.Mood,
		Energy: input.Energy,
		Sleep:  sleep,
		Date:   date,
	}, nil
}

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}
