package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/terraincognita07/lunara/internal/models"
)

type stubBlobStore struct {
	values map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{values: make(map[string][]byte)}
}

func (stub *stubBlobStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if stub.getErr != nil {
		return nil, false, stub.getErr
	}
	value, ok := stub.values[key]
	return value, ok, nil
}

func (stub *stubBlobStore) Set(_ context.Context, key string, value []byte) error {
	if stub.setErr != nil {
		return stub.setErr
	}
	stub.sets++
	stub.values[key] = append([]byte(nil), value...)
	return nil
}

type stepClock struct {
	current time.Time
	step    time.Duration
}

func (clock *stepClock) Now() time.Time {
	value := clock.current
	clock.current = clock.current.Add(clock.step)
	return value
}

func newTestCheckInStore(blobs BlobStore) (*CheckInStore, *stepClock) {
	clock := &stepClock{current: time.Date(2026, 2, 19, 9, 0, 0, 0, time.UTC), step: time.Minute}
	return NewCheckInStore(blobs, HistoryStorageKey, clock.Now, nil), clock
}

func TestCheckInStoreAppendThenListReturnsEntryFirst(t *testing.T) {
	store, _ := newTestCheckInStore(newStubBlobStore())
	ctx := context.Background()

	checkIn := models.CheckIn{Mood: 8, Energy: 7, Sleep: models.SleepGood, Date: "2026-02-19"}
	insight := ClassifyCheckIn(checkIn)
	entry, err := store.Append(ctx, checkIn, insight)
	if err != nil {
		t.Fatalf("Append() unexpected error: %v", err)
	}

	entries := store.Entries(ctx)
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if diff := cmp.Diff(entry, entries[0]); diff != "" {
		t.Fatalf("listed entry differs from appended (-appended +listed):\n%s", diff)
	}
	if entry.ID != "1771491600000" {
		t.Fatalf("expected id derived from capture time, got %q", entry.ID)
	}
	if entry.CheckIn() != checkIn {
		t.Fatalf("expected check-in %#v, got %#v", checkIn, entry.CheckIn())
	}
}

func TestCheckInStoreListsInReverseInsertionOrder(t *testing.T) {
	store, _ := newTestCheckInStore(newStubBlobStore())
	ctx := context.Background()

	for mood := 1; mood <= 5; mood++ {
		checkIn := models.CheckIn{Mood: mood, Energy: 5, Sleep: models.SleepOkay, Date: "2026-02-19"}
		if _, err := store.Append(ctx, checkIn, ClassifyCheckIn(checkIn)); err != nil {
			t.Fatalf("Append(mood=%d) unexpected error: %v", mood, err)
		}
	}

	entries := store.Entries(ctx)
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	for index, entry := range entries {
		if want := 5 - index; entry.Mood != want {
			t.Fatalf("entry %d: expected mood %d, got %d", index, want, entry.Mood)
		}
	}
}

func TestCheckInStoreKeepsIDsUniqueWithinOneMillisecond(t *testing.T) {
	blobs := newStubBlobStore()
	frozen := time.Date(2026, 2, 19, 9, 0, 0, 0, time.UTC)
	store := NewCheckInStore(blobs, HistoryStorageKey, func() time.Time { return frozen }, nil)
	ctx := context.Background()

	checkIn := models.CheckIn{Mood: 5, Energy: 5, Sleep: models.SleepOkay, Date: "2026-02-19"}
	first, err := store.Append(ctx, checkIn, ClassifyCheckIn(checkIn))
	if err != nil {
		t.Fatalf("first Append() unexpected error: %v", err)
	}
	second, err := store.Append(ctx, checkIn, ClassifyCheckIn(checkIn))
	if err != nil {
		t.Fatalf("second Append() unexpected error: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct ids, both were %q", first.ID)
	}
}

func TestCheckInStorePersistsFlatListNewestLast(t *testing.T) {
	blobs := newStubBlobStore()
	store, _ := newTestCheckInStore(blobs)
	ctx := context.Background()

	for _, mood := range []int{2, 9} {
		checkIn := models.CheckIn{Mood: mood, Energy: 6, Sleep: models.SleepGood, Date: "2026-02-19"}
		if _, err := store.Append(ctx, checkIn, ClassifyCheckIn(checkIn)); err != nil {
			t.Fatalf("Append() unexpected error: %v", err)
		}
	}

	raw := []map[string]any{}
	if err := json.Unmarshal(blobs.values[HistoryStorageKey], &raw); err != nil {
		t.Fatalf("decode persisted payload: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("expected 2 persisted entries, got %d", len(raw))
	}
	if raw[0]["mood"] != float64(2) || raw[1]["mood"] != float64(9) {
		t.Fatalf("expected newest appended last, got %#v", raw)
	}
	for _, field := range []string{"id", "mood", "energy", "sleep", "date", "insight", "timestamp"} {
		if _, ok := raw[0][field]; !ok {
			t.Fatalf("expected persisted field %q, got %#v", field, raw[0])
		}
	}
	insight, ok := raw[0]["insight"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested insight object, got %#v", raw[0]["insight"])
	}
	for _, field := range []string{"phase", "confidence", "message", "explanation", "recommendations"} {
		if _, ok := insight[field]; !ok {
			t.Fatalf("expected insight field %q, got %#v", field, insight)
		}
	}
}

func TestCheckInStoreReadsBrowserExportPayload(t *testing.T) {
	blobs := newStubBlobStore()
	blobs.values[HistoryStorageKey] = []byte(`[
		{"id":"1706000000000","mood":3,"energy":2,"sleep":"poor","date":"2024-01-23",
		 "insight":{"phase":"Late Luteal","confidence":85,"message":"m","explanation":"e","recommendations":["a","b","c"]},
		 "timestamp":"2024-01-23T08:53:20.000Z"},
		{"id":"1706100000000","mood":9,"energy":9,"sleep":"good","date":"2024-01-24",
		 "insight":{"phase":"Follicular","confidence":90,"message":"m","explanation":"e","recommendations":["a","b","c"]},
		 "timestamp":"2024-01-24T12:40:00.000Z"}
	]`)
	store, _ := newTestCheckInStore(blobs)

	entries := store.Entries(context.Background())
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "1706100000000" || entries[0].Insight.Phase != models.PhaseFollicular {
		t.Fatalf("expected newest browser entry first, got %#v", entries[0])
	}
}

func TestCheckInStoreEmptyAndAverages(t *testing.T) {
	store, _ := newTestCheckInStore(newStubBlobStore())
	ctx := context.Background()

	if entries := store.Entries(ctx); len(entries) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(entries))
	}
	if got := store.AverageMood(ctx); got != 0 {
		t.Fatalf("expected empty average mood 0, got %v", got)
	}
	if got := store.AverageEnergy(ctx); got != 0 {
		t.Fatalf("expected empty average energy 0, got %v", got)
	}

	for _, mood := range []int{4, 8} {
		checkIn := models.CheckIn{Mood: mood, Energy: mood, Sleep: models.SleepOkay, Date: "2026-02-19"}
		if _, err := store.Append(ctx, checkIn, ClassifyCheckIn(checkIn)); err != nil {
			t.Fatalf("Append() unexpected error: %v", err)
		}
	}
	if got := store.AverageMood(ctx); got != 6.0 {
		t.Fatalf("expected average mood 6.0, got %v", got)
	}
	if got := store.AverageEnergy(ctx); got != 6.0 {
		t.Fatalf("expected average energy 6.0, got %v", got)
	}
}

func TestCheckInStoreCorruptPayloadFallsBackToSamples(t *testing.T) {
	blobs := newStubBlobStore()
	blobs.values[HistoryStorageKey] = []byte("{not json")
	store, _ := newTestCheckInStore(blobs)
	ctx := context.Background()

	entries := store.Entries(ctx)
	if diff := cmp.Diff(SampleHistoryEntries(), entries); diff != "" {
		t.Fatalf("expected sample entries (-want +got):\n%s", diff)
	}
	if entries[0].Date != "2024-01-15" {
		t.Fatalf("expected newest sample first, got %q", entries[0].Date)
	}
}

func TestCheckInStoreAppendDoesNotOverwriteCorruptPayload(t *testing.T) {
	blobs := newStubBlobStore()
	blobs.values[HistoryStorageKey] = []byte("{not json")
	store, _ := newTestCheckInStore(blobs)

	checkIn := models.CheckIn{Mood: 5, Energy: 5, Sleep: models.SleepOkay, Date: "2026-02-19"}
	_, err := store.Append(context.Background(), checkIn, ClassifyCheckIn(checkIn))
	if !errors.Is(err, ErrCorruptHistory) {
		t.Fatalf("expected ErrCorruptHistory, got %v", err)
	}
	if blobs.sets != 0 {
		t.Fatalf("expected corrupt payload to be left untouched, got %d writes", blobs.sets)
	}
}

func TestCheckInStoreWriteFailureIsStorageError(t *testing.T) {
	blobs := newStubBlobStore()
	blobs.setErr = errors.New("quota exceeded")
	store, _ := newTestCheckInStore(blobs)

	checkIn := models.CheckIn{Mood: 5, Energy: 5, Sleep: models.SleepOkay, Date: "2026-02-19"}
	_, err := store.Append(context.Background(), checkIn, ClassifyCheckIn(checkIn))
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestCheckInStoreReadFailureListsNothing(t *testing.T) {
	blobs := newStubBlobStore()
	blobs.getErr = errors.New("medium offline")
	store, _ := newTestCheckInStore(blobs)
	ctx := context.Background()

	if entries := store.Entries(ctx); len(entries) != 0 {
		t.Fatalf("expected empty list on read failure, got %d entries", len(entries))
	}
	if got := store.AverageMood(ctx); got != 0 {
		t.Fatalf("expected average 0 on read failure, got %v", got)
	}

	checkIn := models.CheckIn{Mood: 5, Energy: 5, Sleep: models.SleepOkay, Date: "2026-02-19"}
	if _, err := store.Append(ctx, checkIn, ClassifyCheckIn(checkIn)); !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage on append with unreadable medium, got %v", err)
	}
}

func TestCheckInStoreListStopsEarly(t *testing.T) {
	store, _ := newTestCheckInStore(newStubBlobStore())
	ctx := context.Background()
	for mood := 1; mood <= 3; mood++ {
		checkIn := models.CheckIn{Mood: mood, Energy: 5, Sleep: models.SleepOkay, Date: "2026-02-19"}
		if _, err := store.Append(ctx, checkIn, ClassifyCheckIn(checkIn)); err != nil {
			t.Fatalf("Append() unexpected error: %v", err)
		}
	}

	seen := 0
	for entry := range store.List(ctx) {
		seen++
		if entry.Mood != 3 {
			t.Fatalf("expected newest entry first, got mood %d", entry.Mood)
		}
		break
	}
	if seen != 1 {
		t.Fatalf("expected iteration to stop after one entry, got %d", seen)
	}
}
