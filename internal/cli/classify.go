package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/terraincognita07/lunara/internal/services"
)

// RunClassifyCommand prints the insight for one check-in without storing it.
func RunClassifyCommand(out io.Writer, input services.CheckInInput, now time.Time, location *time.Location) error {
	checkIn, err := services.NormalizeCheckInInput(input, now, location)
	if err != nil {
		return err
	}

	insight := services.ClassifyCheckIn(checkIn)
	fmt.Fprintf(out, "Phase: %s (%d%% confidence)\n", insight.Phase, insight.Confidence)
	fmt.Fprintf(out, "%s\n\n%s\n\n", insight.Message, insight.Explanation)
	fmt.Fprintln(out, "Recommendations:")
	for _, recommendation := range insight.Recommendations {
		fmt.Fprintf(out, "- %s\n", recommendation)
	}
	return nil
}
