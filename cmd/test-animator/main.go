package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/fieldops/fieldtrack/internal/lib/animation"
	"github.com/fieldops/fieldtrack/internal/lib/geo"
)

// Runs one marker transition and a few pulse cycles against the real frame
// ticker, printing every callback.
func main() {
	durationMs := flag.Int("duration", 1000, "Transition duration in milliseconds")
	easing := flag.String("easing", "easeOut", "Easing kernel (linear, easeOut, easeInOut)")
	pulseCycles := flag.Int("pulse-cycles", 2, "Pulse cycles to observe")
	flag.Parse()

	animator := animation.NewAnimator()

	start := geo.Point{Latitude: -34.600, Longitude: -58.380}
	end := geo.Point{Latitude: -34.610, Longitude: -58.400}

	done := make(chan struct{})
	frames := 0

	cancel := animator.Animate(start, end,
		func(p geo.Point, bearing float64) {
			frames++
			fmt.Printf("frame %3d: (%.6f, %.6f) bearing %.1f°\n", frames, p.Latitude, p.Longitude, bearing)
		},
		func() { close(done) },
		animation.Options{
			Duration: time.Duration(*durationMs) * time.Millisecond,
			Easing:   animation.Easing(*easing),
		})
	defer cancel()

	<-done
	fmt.Printf("Transition complete after %d frames\n\n", frames)

	pulseDone := time.After(time.Duration(*pulseCycles) * 1500 * time.Millisecond)
	stopPulse := animator.Pulse(func(scale, opacity float64) {
		fmt.Printf("pulse: scale %.3f opacity %.3f\n", scale, opacity)
	}, 1500)

	<-pulseDone
	stopPulse()
	fmt.Println("Pulse cancelled")
}
