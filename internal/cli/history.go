package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/terraincognita07/lunara/internal/services"
)

// KeyLister enumerates stored blob keys. The SQL blob repository implements it.
type KeyLister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// RunHistoryCommand prints a profile's check-ins newest first followed by the
// averages shown on the history screen.
func RunHistoryCommand(ctx context.Context, out io.Writer, blobs services.BlobStore, profileID string) error {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return errors.New("session profile id is required")
	}

	store := services.NewCheckInStore(blobs, services.HistoryKey(profileID), time.Now, nil)
	count := 0
	for entry := range store.List(ctx) {
		count++
		fmt.Fprintf(out, "%s  mood %2d  energy %2d  sleep %-4s  %s (%d%%)\n",
			entry.Date, entry.Mood, entry.Energy, entry.Sleep, entry.Insight.Phase, entry.Insight.Confidence)
	}
	if count == 0 {
		fmt.Fprintln(out, "No check-ins yet.")
		return nil
	}

	fmt.Fprintf(out, "\n%d check-ins, average mood %.1f, average energy %.1f\n",
		count,
		services.RoundToTenth(store.AverageMood(ctx)),
		services.RoundToTenth(store.AverageEnergy(ctx)))
	return nil
}

// RunProfilesCommand prints every profile id that has stored history.
func RunProfilesCommand(ctx context.Context, out io.Writer, keys KeyLister) error {
	prefix := services.HistoryKey("") + ":"
	stored, err := keys.Keys(ctx, prefix)
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}
	if len(stored) == 0 {
		fmt.Fprintln(out, "No profiles with stored history.")
		return nil
	}
	for _, key := range stored {
		fmt.Fprintln(out, strings.TrimPrefix(key, prefix))
	}
	return nil
}
