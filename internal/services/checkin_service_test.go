package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/terraincognita07/lunara/internal/models"
)

func newTestCheckInService(blobs BlobStore) *CheckInService {
	service := NewCheckInService(blobs, time.UTC, nil)
	clock := &stepClock{current: time.Date(2026, 2, 19, 9, 0, 0, 0, time.UTC), step: time.Minute}
	service.now = clock.Now
	return service
}

func TestCheckInServiceSubmitPersistsAndClassifies(t *testing.T) {
	blobs := newStubBlobStore()
	service := newTestCheckInService(blobs)

	result, err := service.Submit(context.Background(), "profile-a", CheckInInput{Mood: 2, Energy: 3, Sleep: "poor"})
	if err != nil {
		t.Fatalf("Submit() unexpected error: %v", err)
	}
	if !result.Persisted || result.StorageErr != nil {
		t.Fatalf("expected persisted result, got %#v", result)
	}
	if result.Insight.Phase != models.PhaseLateLuteal {
		t.Fatalf("expected Late Luteal, got %q", result.Insight.Phase)
	}
	if result.Entry.Date != "2026-02-19" {
		t.Fatalf("expected default date, got %q", result.Entry.Date)
	}
	if _, ok := blobs.values["hormonal-health-data:profile-a"]; !ok {
		t.Fatalf("expected profile-scoped key, got keys %#v", blobs.values)
	}
}

func TestCheckInServiceSubmitRejectsInvalidInput(t *testing.T) {
	blobs := newStubBlobStore()
	service := newTestCheckInService(blobs)

	_, err := service.Submit(context.Background(), "profile-a", CheckInInput{Mood: 12, Energy: 3, Sleep: "poor"})
	if !errors.Is(err, ErrInvalidMood) {
		t.Fatalf("expected ErrInvalidMood, got %v", err)
	}
	if blobs.sets != 0 {
		t.Fatalf("expected no writes for invalid input, got %d", blobs.sets)
	}
}

func TestCheckInServiceSubmitKeepsInsightOnStorageFailure(t *testing.T) {
	blobs := newStubBlobStore()
	blobs.setErr = errors.New("disk full")
	service := newTestCheckInService(blobs)

	result, err := service.Submit(context.Background(), "profile-a", CheckInInput{Mood: 9, Energy: 9, Sleep: "good"})
	if err != nil {
		t.Fatalf("expected storage failure to be non-fatal, got %v", err)
	}
	if result.Persisted {
		t.Fatal("expected result to be marked as not persisted")
	}
	if !errors.Is(result.StorageErr, ErrStorage) {
		t.Fatalf("expected ErrStorage on result, got %v", result.StorageErr)
	}
	if result.Insight.Phase != models.PhaseFollicular {
		t.Fatalf("expected insight to still be computed, got %q", result.Insight.Phase)
	}
}

func TestCheckInServiceSeparatesProfiles(t *testing.T) {
	service := newTestCheckInService(newStubBlobStore())
	ctx := context.Background()

	if _, err := service.Submit(ctx, "profile-a", CheckInInput{Mood: 5, Energy: 5, Sleep: "okay"}); err != nil {
		t.Fatalf("Submit() unexpected error: %v", err)
	}
	if got := len(service.History(ctx, "profile-b")); got != 0 {
		t.Fatalf("expected profile-b history to be empty, got %d", got)
	}
}

func TestCheckInServiceStoresShareLockWithoutRetention(t *testing.T) {
	service := newTestCheckInService(newStubBlobStore())
	ctx := context.Background()

	for index := range 10000 {
		service.History(ctx, fmt.Sprintf("profile%05d", index))
	}

	first := service.StoreFor("profile-a")
	second := service.StoreFor("profile-a")
	if first == second {
		t.Fatal("expected a fresh store per call")
	}
	if first.mu != second.mu {
		t.Fatal("expected stores for the same profile to share a lock")
	}
	for index := range service.locks {
		if !service.locks[index].TryLock() {
			t.Fatalf("expected lock stripe %d to be free", index)
		}
		service.locks[index].Unlock()
	}
}

type lockedBlobStore struct {
	mu    sync.Mutex
	inner *stubBlobStore
}

func (store *lockedBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.inner.Get(ctx, key)
}

func (store *lockedBlobStore) Set(ctx context.Context, key string, value []byte) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.inner.Set(ctx, key, value)
}

func TestCheckInServiceConcurrentSubmitsKeepEveryEntry(t *testing.T) {
	blobs := &lockedBlobStore{inner: newStubBlobStore()}
	service := NewCheckInService(blobs, time.UTC, nil)
	frozen := time.Date(2026, 2, 19, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return frozen }
	ctx := context.Background()

	const submits = 20
	var wg sync.WaitGroup
	for range submits {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.Submit(ctx, "profile-a", CheckInInput{Mood: 5, Energy: 5, Sleep: "okay"}); err != nil {
				t.Errorf("Submit() unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	entries := service.History(ctx, "profile-a")
	if len(entries) != submits {
		t.Fatalf("expected %d entries, got %d", submits, len(entries))
	}
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		seen[entry.ID] = struct{}{}
	}
	if len(seen) != submits {
		t.Fatalf("expected unique ids, got %d distinct", len(seen))
	}
}

func TestCheckInServiceSummaryAndTrend(t *testing.T) {
	service := newTestCheckInService(newStubBlobStore())
	ctx := context.Background()

	empty := service.Summary(ctx, "profile-a")
	if empty.Count != 0 || empty.AverageMood != 0 || empty.AverageEnergy != 0 || empty.LatestPhase != "" {
		t.Fatalf("expected zero summary, got %#v", empty)
	}

	inputs := []CheckInInput{
		{Mood: 4, Energy: 3, Sleep: "okay", Date: "2026-02-17"},
		{Mood: 8, Energy: 4, Sleep: "good", Date: "2026-02-18"},
		{Mood: 9, Energy: 9, Sleep: "good", Date: "2026-02-19"},
	}
	for _, input := range inputs {
		if _, err := service.Submit(ctx, "profile-a", input); err != nil {
			t.Fatalf("Submit() unexpected error: %v", err)
		}
	}

	summary := service.Summary(ctx, "profile-a")
	if summary.Count != 3 {
		t.Fatalf("expected count 3, got %d", summary.Count)
	}
	if summary.AverageMood != 7.0 {
		t.Fatalf("expected average mood 7.0, got %v", summary.AverageMood)
	}
	if summary.AverageEnergy != 5.3 {
		t.Fatalf("expected average energy rounded to 5.3, got %v", summary.AverageEnergy)
	}
	if summary.LatestPhase != models.PhaseFollicular {
		t.Fatalf("expected latest phase Follicular, got %q", summary.LatestPhase)
	}

	trend := service.Trend(ctx, "profile-a")
	if len(trend) != 3 || trend[0].Date != "2026-02-17" || trend[2].Date != "2026-02-19" {
		t.Fatalf("expected oldest-first trend, got %#v", trend)
	}
}

func TestRoundToTenth(t *testing.T) {
	tests := map[float64]float64{
		0:        0,
		6:        6,
		5.333333: 5.3,
		7.96:     8,
	}
	for input, want := range tests {
		if got := RoundToTenth(input); got != want {
			t.Fatalf("RoundToTenth(%v) = %v, want %v", input, got, want)
		}
	}
}
