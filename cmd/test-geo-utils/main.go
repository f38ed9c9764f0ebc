package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fieldops/fieldtrack/internal/lib/geo"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	geoUtils := geo.NewGeoUtils()

	switch command {
	case "distance":
		handleDistance(geoUtils)
	case "bearing":
		handleBearing(geoUtils)
	case "decode-polyline":
		handleDecodePolyline(geoUtils)
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleDistance(geoUtils geo.GeoUtils) {
	fs := flag.NewFlagSet("distance", flag.ExitOnError)
	lat1 := fs.Float64("lat1", 0, "Latitude of first point")
	lng1 := fs.Float64("lng1", 0, "Longitude of first point")
	lat2 := fs.Float64("lat2", 0, "Latitude of second point")
	lng2 := fs.Float64("lng2", 0, "Longitude of second point")

	fs.Parse(os.Args[2:])

	if *lat1 == 0 && *lng1 == 0 && *lat2 == 0 && *lng2 == 0 {
		fmt.Println("Example usage:")
		fmt.Println("  test-geo-utils distance --lat1 -34.6037 --lng1 -58.3816 --lat2 -34.5889 --lng2 -58.4306")
		os.Exit(1)
	}

	p1 := geo.Point{Latitude: *lat1, Longitude: *lng1}
	p2 := geo.Point{Latitude: *lat2, Longitude: *lng2}

	distance, err := geoUtils.DistanceKm(p1, p2)
	if err != nil {
		log.Fatalf("Error calculating distance: %v", err)
	}

	fmt.Printf("Distance between points:\n")
	fmt.Printf("  Point 1: (%.6f, %.6f)\n", p1.Latitude, p1.Longitude)
	fmt.Printf("  Point 2: (%.6f, %.6f)\n", p2.Latitude, p2.Longitude)
	fmt.Printf("  Distance: %.3f km (%.2f miles)\n", distance, distance*0.621371)
}

func handleBearing(geoUtils geo.GeoUtils) {
	fs := flag.NewFlagSet("bearing", flag.ExitOnError)
	lat1 := fs.Float64("lat1", 0, "Latitude of origin")
	lng1 := fs.Float64("lng1", 0, "Longitude of origin")
	lat2 := fs.Float64("lat2", 0, "Latitude of target")
	lng2 := fs.Float64("lng2", 0, "Longitude of target")

	fs.Parse(os.Args[2:])

	bearing, err := geoUtils.BearingDegrees(
		geo.Point{Latitude: *lat1, Longitude: *lng1},
		geo.Point{Latitude: *lat2, Longitude: *lng2})
	if err != nil {
		log.Fatalf("Error calculating bearing: %v", err)
	}

	fmt.Printf("Initial bearing: %.2f°\n", bearing)
}

func handleDecodePolyline(geoUtils geo.GeoUtils) {
	fs := flag.NewFlagSet("decode-polyline", flag.ExitOnError)
	encoded := fs.String("polyline", "", "Encoded polyline string")

	fs.Parse(os.Args[2:])

	if *encoded == "" {
		fmt.Println("Example usage:")
		fmt.Println("  test-geo-utils decode-polyline --polyline '_p~iF~ps|U_ulLnnqC_mqNvxq`@'")
		os.Exit(1)
	}

	points, err := geoUtils.DecodePolyline(*encoded)
	if err != nil {
		log.Fatalf("Error decoding polyline: %v", err)
	}

	fmt.Printf("Decoded %d points:\n", len(points))
	for i, p := range points {
		fmt.Printf("  %3d: (%.5f, %.5f)\n", i+1, p.Latitude, p.Longitude)
	}
}

func printUsage() {
	fmt.Println("Usage: test-geo-utils <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  distance         Great-circle distance between two points")
	fmt.Println("  bearing          Initial compass bearing between two points")
	fmt.Println("  decode-polyline  Decode an encoded polyline string")
	fmt.Println("  help             Show this help")
}
