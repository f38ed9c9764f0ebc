package geo

// Point represents a geographic coordinate
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// GeoUtils interface defines the geodesy calculations used by the tracking engine
type GeoUtils interface {
	// Great-circle distance between two points in kilometers (haversine)
	DistanceKm(p1, p2 Point) (float64, error)

	// Initial compass bearing from one point toward another, normalized to [0, 360)
	BearingDegrees(from, to Point) (float64, error)

	// Linear component-wise interpolation between two points, t in [0, 1]
	InterpolatePoint(start, end Point, t float64) Point

	// Decode an encoded polyline string to a point sequence
	DecodePolyline(encoded string) ([]Point, error)

	// Encode a point sequence to the standard polyline representation
	EncodePolyline(points []Point) string
}

// NewGeoUtils is implemented in geo.go
