// Package geo holds the small amount of spherical geometry the game needs:
// coordinates, great-circle distance, bounding boxes and marker interpolation.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// LatLng is a WGS 84 coordinate in degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// String formats the coordinate as "12.34°N 56.78°W".
func (p LatLng) String() string {
	ns, ew := 'N', 'E'
	if p.Lat < 0 {
		ns = 'S'
	}
	if p.Lng < 0 {
		ew = 'W'
	}
	return fmt.Sprintf("%.2f°%c %.2f°%c", math.Abs(p.Lat), ns, math.Abs(p.Lng), ew)
}

// Valid reports whether the coordinate lies in the usual degree ranges.
func (p LatLng) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Haversine returns the great-circle distance between a and b in kilometres.
func Haversine(a, b LatLng) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	// Rounding can push h a hair above 1 for antipodal points.
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
