package geo

import "math"

// Bounds is a latitude/longitude box. The zero value is empty.
// Boxes never wrap across the antimeridian.
type Bounds struct {
	MinLat, MinLng float64
	MaxLat, MaxLng float64
	set            bool
}

// World covers the whole projection.
var World = Bounds{MinLat: -60, MinLng: -180, MaxLat: 85, MaxLng: 180, set: true}

// BoundsOf returns the smallest box containing every point.
func BoundsOf(points ...LatLng) Bounds {
	var b Bounds
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return !b.set
}

// Extend returns b grown to include p.
func (b Bounds) Extend(p LatLng) Bounds {
	if !b.set {
		return Bounds{MinLat: p.Lat, MinLng: p.Lng, MaxLat: p.Lat, MaxLng: p.Lng, set: true}
	}
	b.MinLat = math.Min(b.MinLat, p.Lat)
	b.MinLng = math.Min(b.MinLng, p.Lng)
	b.MaxLat = math.Max(b.MaxLat, p.Lat)
	b.MaxLng = math.Max(b.MaxLng, p.Lng)
	return b
}

// Contains reports whether p lies inside the box (edges included).
func (b Bounds) Contains(p LatLng) bool {
	return b.set &&
		p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// Center returns the midpoint of the box.
func (b Bounds) Center() LatLng {
	return LatLng{Lat: (b.MinLat + b.MaxLat) / 2, Lng: (b.MinLng + b.MaxLng) / 2}
}

// Span returns the latitude and longitude extents in degrees.
func (b Bounds) Span() (lat, lng float64) {
	return b.MaxLat - b.MinLat, b.MaxLng - b.MinLng
}

// Pad grows the box by frac of its span on every side, and to at least
// minSpan degrees in each direction. The result is clipped to World.
func (b Bounds) Pad(frac, minSpan float64) Bounds {
	if !b.set {
		return b
	}
	latSpan, lngSpan := b.Span()
	padLat := math.Max(latSpan*frac, (minSpan-latSpan)/2)
	padLng := math.Max(lngSpan*frac, (minSpan-lngSpan)/2)

	return Bounds{
		MinLat: math.Max(World.MinLat, b.MinLat-padLat),
		MaxLat: math.Min(World.MaxLat, b.MaxLat+padLat),
		MinLng: math.Max(World.MinLng, b.MinLng-padLng),
		MaxLng: math.Min(World.MaxLng, b.MaxLng+padLng),
		set:    true,
	}
}
