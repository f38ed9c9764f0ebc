package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/fieldops/fieldtrack/internal/lib/tracking"
)

// Feeds a short synthetic GPS trace into a PositionTracker and prints the
// derived motion state after each sample, then demonstrates the stale-gap
// suppression by querying again after the configured silence.
func main() {
	intervalSec := flag.Int("interval", 5, "Seconds between synthetic samples")
	silenceSec := flag.Int("silence", 35, "Seconds of silence before the final query")
	flag.Parse()

	tracker := tracking.NewPositionTracker()

	// Southbound trace through San Telmo
	trace := []struct{ lat, lng float64 }{
		{-34.6000, -58.3800},
		{-34.6025, -58.3850},
		{-34.6050, -58.3900},
		{-34.6075, -58.3950},
		{-34.6100, -58.4000},
		{-34.6125, -58.4050},
	}

	base := time.Now().Add(-time.Duration(len(trace)**intervalSec) * time.Second)

	for i, fix := range trace {
		capturedAt := base.Add(time.Duration(i**intervalSec) * time.Second)
		tracker.AddPosition(tracking.PositionSample{
			Latitude:     fix.lat,
			Longitude:    fix.lng,
			CapturedAtMs: capturedAt.UnixMilli(),
		})

		position, ok := tracker.GetEstimatedPosition()
		if !ok {
			log.Fatal("tracker returned no position after a sample")
		}

		fmt.Printf("Sample %d: raw (%.4f, %.4f)\n", i+1, fix.lat, fix.lng)
		fmt.Printf("  estimated: (%.5f, %.5f)\n", position.Latitude, position.Longitude)
		fmt.Printf("  speed:     %.1f km/h\n", tracker.GetSpeedKmh())
		fmt.Printf("  heading:   %.1f°\n", tracker.GetHeadingDegrees())
	}

	fmt.Printf("\nHistory holds %d samples (bounded)\n", len(tracker.History()))

	fmt.Printf("\nAfter %ds of radio silence:\n", *silenceSec)
	time.Sleep(time.Duration(*silenceSec) * time.Second)
	position, _ := tracker.GetEstimatedPosition()
	fmt.Printf("  estimated: (%.5f, %.5f) (prediction suppressed, last raw fix)\n",
		position.Latitude, position.Longitude)
}
