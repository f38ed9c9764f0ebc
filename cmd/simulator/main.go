package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/fieldops/fieldtrack/internal/clients/osrm"
	"github.com/fieldops/fieldtrack/internal/config"
	"github.com/fieldops/fieldtrack/internal/lib/geo"
	"github.com/fieldops/fieldtrack/internal/lib/session"
	"github.com/fieldops/fieldtrack/internal/lib/tracking"
	"github.com/fieldops/fieldtrack/internal/services"
)

// Simulates one technician's transit end to end: fetches a real route,
// replays its decoded points into a tracking session as GPS samples at a
// fixed interval, and logs the motion state the rendering layer would see.
func main() {
	configPath := flag.String("config", "", "Path to config.yml")
	sessionID := flag.String("session", "job-demo", "Session identifier")
	intervalSec := flag.Int("interval", 5, "Seconds between replayed samples")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	service := services.NewTrackingService(osrm.NewClient(cfg.Routing.BaseURL), cfg)
	log.Printf("Map provider: %s", service.Provider().Type)

	destination := session.Destination{Latitude: -34.61, Longitude: -58.40, Address: "Av. Caseros 400"}
	sess, err := service.StartSession(*sessionID, destination, session.MovementMode(cfg.Tracking.DefaultMode))
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	// Seed the tracker with the origin so the first route request has a fix
	origin := tracking.PositionSample{Latitude: -34.60, Longitude: -58.38, CapturedAtMs: time.Now().UnixMilli()}
	if err := service.Ingest(*sessionID, origin, nil); err != nil {
		log.Fatalf("Failed to ingest origin: %v", err)
	}

	route, err := service.RefreshRoute(context.Background(), *sessionID)
	if err != nil {
		log.Fatalf("Route refresh failed: %v", err)
	}
	if route == nil {
		log.Fatal("No route available")
	}
	log.Printf("Route: %d min, %.1f km", route.DurationMinutes, route.DistanceKm)

	points, err := geo.NewGeoUtils().DecodePolyline(route.Polyline)
	if err != nil {
		log.Fatalf("Failed to decode route polyline: %v", err)
	}
	log.Printf("Replaying %d route points every %ds", len(points), *intervalSec)

	// The session cancels the pulse itself on arrival
	if err := service.StartPulse(*sessionID, func(scale, opacity float64) {}); err != nil {
		log.Printf("Pulse not started: %v", err)
	}

	onUpdate := func(p geo.Point, bearing float64) {
		fmt.Printf("marker: (%.5f, %.5f) bearing %.1f°\n", p.Latitude, p.Longitude, bearing)
	}

	tracker := sess.Tracker()
	for i, pt := range points {
		sample := tracking.PositionSample{
			Latitude:     pt.Latitude,
			Longitude:    pt.Longitude,
			CapturedAtMs: time.Now().UnixMilli(),
		}
		if err := service.Ingest(*sessionID, sample, onUpdate); err != nil {
			log.Fatalf("Ingest failed: %v", err)
		}

		log.Printf("Point %d/%d: speed %.1f km/h heading %.1f°",
			i+1, len(points), tracker.GetSpeedKmh(), tracker.GetHeadingDegrees())

		time.Sleep(time.Duration(*intervalSec) * time.Second)
	}

	if err := service.Arrive(*sessionID); err != nil {
		log.Fatalf("Arrival transition failed: %v", err)
	}
	log.Printf("Arrived at %s", destination.Address)

	if err := service.Complete(*sessionID); err != nil {
		log.Fatalf("Completion transition failed: %v", err)
	}
	log.Printf("Session %s completed", *sessionID)
}
