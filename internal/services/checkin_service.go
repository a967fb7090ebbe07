package services

import (
	"context"
	"hash/maphash"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/terraincognita07/lunara/internal/logger"
	"github.com/terraincognita07/lunara/internal/models"
)

type CheckInResult struct {
	Entry      models.HistoryEntry
	Insight    models.Insight
	Persisted  bool
	StorageErr error
}

type HistorySummary struct {
	Count         int          `json:"count"`
	AverageMood   float64      `json:"average_mood"`
	AverageEnergy float64      `json:"average_energy"`
	LatestPhase   models.Phase `json:"latest_phase,omitempty"`
}

type TrendPoint struct {
	Date   string `json:"date"`
	Mood   int    `json:"mood"`
	Energy int    `json:"energy"`
}

type CheckInService struct {
	blobs    BlobStore
	now      func() time.Time
	location *time.Location
	log      *logger.Logger

	seed  maphash.Seed
	locks [historyLockStripes]sync.Mutex
}

const historyLockStripes = 64

func NewCheckInService(blobs BlobStore, location *time.Location, log *logger.Logger) *CheckInService {
	if location == nil {
		location = time.Local
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CheckInService{
		blobs:    blobs,
		now:      time.Now,
		location: location,
		log:      log.With("service", "CheckInService"),
		seed:     maphash.MakeSeed(),
	}
}

// HistoryKey scopes the well-known history key to one session profile. An
// empty profile maps to the bare key.
func HistoryKey(profileID string) string {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return HistoryStorageKey
	}
	return HistoryStorageKey + ":" + profileID
}

// StoreFor builds a store for a profile. Nothing is retained per profile;
// appends to the same key are serialized by a shared lock stripe.
func (service *CheckInService) StoreFor(profileID string) *CheckInStore {
	key := HistoryKey(profileID)
	return newCheckInStore(service.blobs, key, service.now, service.log, service.lockFor(key))
}

func (service *CheckInService) lockFor(key string) *sync.Mutex {
	return &service.locks[maphash.String(service.seed, key)%historyLockStripes]
}

// Submit validates input, classifies it and appends the result. Validation
// errors are returned; storage errors are reported on the result so callers
// can still show the insight.
func (service *CheckInService) Submit(ctx context.Context, profileID string, input CheckInInput) (CheckInResult, error) {
	checkIn, err := NormalizeCheckInInput(input, service.now(), service.location)
	if err != nil {
		return CheckInResult{}, err
	}

	insight := ClassifyCheckIn(checkIn)
	entry, err := service.StoreFor(profileID).Append(ctx, checkIn, insight)
	if err != nil {
		service.log.Warn("check-in not persisted", "error", err)
		return CheckInResult{
			Entry: models.HistoryEntry{
				Mood:    checkIn.Mood,
				Energy:  checkIn.Energy,
				Sleep:   checkIn.Sleep,
				Date:    checkIn.Date,
				Insight: insight,
			},
			Insight:    insight,
			StorageErr: err,
		}, nil
	}

	return CheckInResult{
		Entry:     entry,
		Insight:   insight,
		Persisted: true,
	}, nil
}

func (service *CheckInService) History(ctx context.Context, profileID string) []models.HistoryEntry {
	return service.StoreFor(profileID).Entries(ctx)
}

func (service *CheckInService) Summary(ctx context.Context, profileID string) HistorySummary {
	entries := service.History(ctx, profileID)
	summary := HistorySummary{
		Count:         len(entries),
		AverageMood:   RoundToTenth(averageOf(slices.Values(entries), func(entry models.HistoryEntry) int { return entry.Mood })),
		AverageEnergy: RoundToTenth(averageOf(slices.Values(entries), func(entry models.HistoryEntry) int { return entry.Energy })),
	}
	if len(entries) > 0 {
		summary.LatestPhase = models.ParsePhase(string(entries[0].Insight.Phase))
	}
	return summary
}

// Trend returns the chart series oldest first.
func (service *CheckInService) Trend(ctx context.Context, profileID string) []TrendPoint {
	entries := service.History(ctx, profileID)
	points := make([]TrendPoint, 0, len(entries))
	for index := len(entries) - 1; index >= 0; index-- {
		points = append(points, TrendPoint{
			Date:   entries[index].Date,
			Mood:   entries[index].Mood,
			Energy: entries[index].Energy,
		})
	}
	return points
}

func RoundToTenth(value float64) float64 {
	return math.Round(value*10) / 10
}
