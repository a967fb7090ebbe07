package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/terraincognita07/lunara/internal/logger"
	"github.com/terraincognita07/lunara/internal/models"
)

// HistoryStorageKey is the well-known key the browser client used for its
// check-in history. Session stores append ":<profile>".
const HistoryStorageKey = "hormonal-health-data"

var (
	ErrStorage        = errors.New("check-in storage unavailable")
	ErrCorruptHistory = errors.New("stored check-in history is corrupt")
)

// BlobStore is the storage port: a named blob that can be read and replaced.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

type CheckInStore struct {
	blobs BlobStore
	key   string
	now   func() time.Time
	log   *logger.Logger
	mu    *sync.Mutex
}

func NewCheckInStore(blobs BlobStore, key string, now func() time.Time, log *logger.Logger) *CheckInStore {
	return newCheckInStore(blobs, key, now, log, &sync.Mutex{})
}

// newCheckInStore builds a store whose appends are serialized by lock, which
// may be shared with other stores.
func newCheckInStore(blobs BlobStore, key string, now func() time.Time, log *logger.Logger, lock *sync.Mutex) *CheckInStore {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CheckInStore{
		blobs: blobs,
		key:   key,
		now:   now,
		log:   log.With("store_key", key),
		mu:    lock,
	}
}

func (store *CheckInStore) Key() string {
	return store.key
}

// Append stores a new immutable entry. Existing corrupt history is never
// overwritten: the append fails with ErrCorruptHistory instead.
func (store *CheckInStore) Append(ctx context.Context, checkIn models.CheckIn, insight models.Insight) (models.HistoryEntry, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	entries, err := store.readEntries(ctx)
	if err != nil {
		return models.HistoryEntry{}, err
	}

	capturedAt := store.now().UTC()
	entry := models.HistoryEntry{
		ID:        nextEntryID(entries, capturedAt),
		Mood:      checkIn.Mood,
		Energy:    checkIn.Energy,
		Sleep:     checkIn.Sleep,
		Date:      checkIn.Date,
		Insight:   insight,
		Timestamp: capturedAt,
	}
	entries = append(entries, entry)

	payload, err := json.Marshal(entries)
	if err != nil {
		return models.HistoryEntry{}, fmt.Errorf("%w: encode history: %v", ErrStorage, err)
	}
	if err := store.blobs.Set(ctx, store.key, payload); err != nil {
		return models.HistoryEntry{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return entry, nil
}

// List yields all entries newest first. The blob is read when iteration
// starts. A missing blob or a read failure yields nothing; a corrupt blob
// yields SampleHistoryEntries.
func (store *CheckInStore) List(ctx context.Context) iter.Seq[models.HistoryEntry] {
	return func(yield func(models.HistoryEntry) bool) {
		store.mu.Lock()
		entries, err := store.readEntries(ctx)
		store.mu.Unlock()

		switch {
		case errors.Is(err, ErrCorruptHistory):
			store.log.Warn("check-in history is corrupt, serving sample entries", "error", err)
			entries = SampleHistoryEntries()
			slices.Reverse(entries)
		case err != nil:
			store.log.Warn("check-in history unavailable, serving empty list", "error", err)
			return
		}

		for index := len(entries) - 1; index >= 0; index-- {
			if !yield(entries[index]) {
				return
			}
		}
	}
}

func (store *CheckInStore) Entries(ctx context.Context) []models.HistoryEntry {
	entries := slices.Collect(store.List(ctx))
	if entries == nil {
		return []models.HistoryEntry{}
	}
	return entries
}

func (store *CheckInStore) AverageMood(ctx context.Context) float64 {
	return averageOf(store.List(ctx), func(entry models.HistoryEntry) int { return entry.Mood })
}

func (store *CheckInStore) AverageEnergy(ctx context.Context) float64 {
	return averageOf(store.List(ctx), func(entry models.HistoryEntry) int { return entry.Energy })
}

func (store *CheckInStore) readEntries(ctx context.Context) ([]models.HistoryEntry, error) {
	raw, found, err := store.blobs.Get(ctx, store.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if !found || len(raw) == 0 {
		return []models.HistoryEntry{}, nil
	}

	entries := make([]models.HistoryEntry, 0)
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptHistory, err)
	}
	return entries, nil
}

func averageOf(entries iter.Seq[models.HistoryEntry], value func(models.HistoryEntry) int) float64 {
	total := 0
	count := 0
	for entry := range entries {
		total += value(entry)
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

// nextEntryID derives the id from the capture time in milliseconds and keeps
// ids strictly increasing when two appends land in the same millisecond.
func nextEntryID(existing []models.HistoryEntry, capturedAt time.Time) string {
	candidate := capturedAt.UnixMilli()
	if len(existing) > 0 {
		if last, err := strconv.ParseInt(existing[len(existing)-1].ID, 10, 64); err == nil && candidate <= last {
			candidate = last + 1
		}
	}
	return strconv.FormatInt(candidate, 10)
}
