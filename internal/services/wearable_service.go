package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/terraincognita07/lunara/internal/logger"
	"github.com/terraincognita07/lunara/internal/models"
)

const (
	WearableStorageKey     = "wearable-connections"
	DefaultWearablePairing = 2 * time.Second
)

var ErrDeviceNotFound = errors.New("device not found")

var wearableCatalog = []models.WearableDevice{
	{
		ID:          "apple-health",
		Name:        "Apple Health",
		Description: "Heart rate, sleep, activity data",
		DataTypes:   []string{"Heart Rate", "Sleep Analysis", "Steps", "Workout Data"},
	},
	{
		ID:          "oura-ring",
		Name:        "Oura Ring",
		Description: "Sleep, HRV, temperature tracking",
		DataTypes:   []string{"Sleep Score", "HRV", "Body Temperature", "Readiness Score"},
	},
	{
		ID:          "fitbit",
		Name:        "Fitbit",
		Description: "Activity, heart rate, sleep data",
		DataTypes:   []string{"Heart Rate", "Sleep Stages", "Activity", "Stress Score"},
	},
	{
		ID:          "garmin",
		Name:        "Garmin",
		Description: "Comprehensive health metrics",
		DataTypes:   []string{"Heart Rate", "Sleep", "Stress", "Body Battery"},
	},
	{
		ID:          "samsung-health",
		Name:        "Samsung Health",
		Description: "Health and fitness tracking",
		DataTypes:   []string{"Heart Rate", "Sleep", "Steps", "Stress Level"},
	},
}

type WearableService struct {
	blobs     BlobStore
	pairDelay time.Duration
	log       *logger.Logger
	mu        sync.Mutex
}

func NewWearableService(blobs BlobStore, pairDelay time.Duration, log *logger.Logger) *WearableService {
	if pairDelay < 0 {
		pairDelay = DefaultWearablePairing
	}
	if log == nil {
		log = logger.Nop()
	}
	return &WearableService{
		blobs:     blobs,
		pairDelay: pairDelay,
		log:       log.With("service", "WearableService"),
	}
}

func WearableKey(profileID string) string {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return WearableStorageKey
	}
	return WearableStorageKey + ":" + profileID
}

func (service *WearableService) List(ctx context.Context, profileID string) ([]models.WearableDevice, error) {
	connected, err := service.connectedIDs(ctx, profileID)
	if err != nil {
		return nil, err
	}

	devices := make([]models.WearableDevice, 0, len(wearableCatalog))
	for _, device := range wearableCatalog {
		device.DataTypes = slices.Clone(device.DataTypes)
		device.Connected = slices.Contains(connected, device.ID)
		devices = append(devices, device)
	}
	return devices, nil
}

// Connect simulates pairing and records the device as connected. Connecting
// an already connected device is a no-op after the pairing delay.
func (service *WearableService) Connect(ctx context.Context, profileID string, deviceID string) (models.WearableDevice, error) {
	device, ok := findWearable(deviceID)
	if !ok {
		return models.WearableDevice{}, ErrDeviceNotFound
	}

	if err := sleepContext(ctx, service.pairDelay); err != nil {
		return models.WearableDevice{}, err
	}

	err := service.update(ctx, profileID, func(ids []string) []string {
		if slices.Contains(ids, device.ID) {
			return ids
		}
		return append(ids, device.ID)
	})
	if err != nil {
		return models.WearableDevice{}, err
	}

	service.log.Info("wearable connected", "device", device.ID)
	device.Connected = true
	return device, nil
}

func (service *WearableService) Disconnect(ctx context.Context, profileID string, deviceID string) (models.WearableDevice, error) {
	device, ok := findWearable(deviceID)
	if !ok {
		return models.WearableDevice{}, ErrDeviceNotFound
	}

	err := service.update(ctx, profileID, func(ids []string) []string {
		return slices.DeleteFunc(ids, func(id string) bool { return id == device.ID })
	})
	if err != nil {
		return models.WearableDevice{}, err
	}

	service.log.Info("wearable disconnected", "device", device.ID)
	device.Connected = false
	return device, nil
}

func (service *WearableService) update(ctx context.Context, profileID string, mutate func([]string) []string) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	ids, err := service.connectedIDs(ctx, profileID)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(mutate(ids))
	if err != nil {
		return fmt.Errorf("encode wearable connections: %w", err)
	}
	if err := service.blobs.Set(ctx, WearableKey(profileID), payload); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// connectedIDs treats an unreadable payload as no connections.
func (service *WearableService) connectedIDs(ctx context.Context, profileID string) ([]string, error) {
	raw, ok, err := service.blobs.Get(ctx, WearableKey(profileID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if !ok || len(raw) == 0 {
		return []string{}, nil
	}

	ids := make([]string, 0)
	if err := json.Unmarshal(raw, &ids); err != nil {
		service.log.Warn("wearable connections unreadable, resetting", "error", err)
		return []string{}, nil
	}
	return slices.DeleteFunc(ids, func(id string) bool {
		_, known := findWearable(id)
		return !known
	}), nil
}

func findWearable(deviceID string) (models.WearableDevice, bool) {
	deviceID = strings.ToLower(strings.TrimSpace(deviceID))
	for _, device := range wearableCatalog {
		if device.ID == deviceID {
			device.DataTypes = slices.Clone(device.DataTypes)
			return device, true
		}
	}
	return models.WearableDevice{}, false
}

func WearableConnectedToast(device models.WearableDevice) (string, string) {
	return "Connected successfully!", device.Name + " is now syncing your health data."
}

func WearableDisconnectedToast(device models.WearableDevice) (string, string) {
	return "Disconnected", device.Name + " has been disconnected."
}
