package geo

import (
	"errors"

	polyline "github.com/twpayne/go-polyline"
)

// polylineScale is the coordinate precision used by the standard polyline
// encoding (five decimal places).
const polylineScale = 1e5

// DecodePolyline decodes an encoded polyline string into a point sequence.
// The encoding stores signed coordinate deltas scaled by 1e5, each split into
// 5-bit chunks with 0x20 as the continuation bit and zig-zag sign encoding.
func (g *geoUtils) DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	var points []Point
	var lat, lng int64
	index := 0

	for index < len(encoded) {
		dlat, next, err := decodeChunk(encoded, index)
		if err != nil {
			return nil, err
		}
		lat += dlat
		index = next

		dlng, next, err := decodeChunk(encoded, index)
		if err != nil {
			return nil, err
		}
		lng += dlng
		index = next

		point := Point{
			Latitude:  float64(lat) / polylineScale,
			Longitude: float64(lng) / polylineScale,
		}
		if !isValidCoordinate(point) {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
		points = append(points, point)
	}

	return points, nil
}

// decodeChunk accumulates 5-bit groups for a single delta value starting at
// index, returning the de-zigzagged delta and the index of the next value.
func decodeChunk(encoded string, index int) (int64, int, error) {
	var result int64
	var shift uint

	for {
		if index >= len(encoded) {
			return 0, index, errors.New("truncated polyline chunk")
		}
		b := int64(encoded[index]) - 63
		if b < 0 {
			return 0, index, errors.New("polyline contains characters below ASCII 63")
		}
		index++

		result |= (b & 0x1f) << shift
		shift += 5

		if b < 0x20 {
			break
		}
	}

	// Zig-zag decode: even values are positive, odd are negative
	if result&1 != 0 {
		return ^(result >> 1), index, nil
	}
	return result >> 1, index, nil
}

// EncodePolyline encodes a point sequence with the symmetric encoding.
func (g *geoUtils) EncodePolyline(points []Point) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}
