package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/fieldops/fieldtrack/internal/clients/osrm"
	"github.com/fieldops/fieldtrack/internal/lib/geo"
	"github.com/fieldops/fieldtrack/internal/lib/maps"
)

// Requests a route from an OSRM-compatible service, prints the derived trip
// statistics and a preview of the decoded overlay, and shows which map
// provider the current credentials select.
func main() {
	baseURL := flag.String("base-url", osrm.DefaultBaseURL, "Routing service base URL")
	originLat := flag.Float64("origin-lat", -34.60, "Origin latitude")
	originLng := flag.Float64("origin-lng", -58.38, "Origin longitude")
	destLat := flag.Float64("dest-lat", -34.61, "Destination latitude")
	destLng := flag.Float64("dest-lng", -58.40, "Destination longitude")
	mode := flag.String("mode", "driving", "Movement mode (driving or walking)")
	googleKey := flag.String("google-key", "", "Google Maps API key (optional)")
	mapboxToken := flag.String("mapbox-token", "", "Mapbox access token (optional)")
	flag.Parse()

	client := osrm.NewClient(*baseURL)

	result, err := client.CalculateRoute(context.Background(), osrm.RouteRequest{
		Origin:      geo.Point{Latitude: *originLat, Longitude: *originLng},
		Destination: geo.Point{Latitude: *destLat, Longitude: *destLng},
		Mode:        *mode,
	})
	if err != nil {
		log.Fatalf("No route available: %v", err)
	}

	fmt.Printf("Route computed (%s):\n", *mode)
	fmt.Printf("  duration: %d min\n", result.DurationMinutes)
	fmt.Printf("  distance: %.1f km\n", result.DistanceKm)

	points, err := geo.NewGeoUtils().DecodePolyline(result.Polyline)
	if err != nil {
		log.Fatalf("Failed to decode route polyline: %v", err)
	}
	fmt.Printf("  overlay:  %d points\n", len(points))
	for i := 0; i < len(points) && i < 5; i++ {
		fmt.Printf("    (%.5f, %.5f)\n", points[i].Latitude, points[i].Longitude)
	}
	if len(points) > 5 {
		fmt.Printf("    ... %d more\n", len(points)-5)
	}

	provider := maps.SelectProvider(maps.Credentials{
		GoogleAPIKey:      *googleKey,
		MapboxAccessToken: *mapboxToken,
	})
	fmt.Printf("\nMap provider: %s\n", provider.Type)
	fmt.Printf("  raster tiles: %s\n", maps.RasterTileTemplate(provider))
	fmt.Printf("  attribution:  %s\n", provider.Attribution)
}
