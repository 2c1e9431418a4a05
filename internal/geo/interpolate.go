package geo

// EaseOutQuad decelerates towards the end of a motion; t is clamped to [0, 1].
func EaseOutQuad(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * (2 - t)
}

// Lerp returns the point a fraction t of the way from a to b, interpolating
// latitude and longitude linearly. Longitude takes the short way round the
// antimeridian and the result is normalised back into [-180, 180].
func Lerp(a, b LatLng, t float64) LatLng {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}

	dLng := b.Lng - a.Lng
	if dLng > 180 {
		dLng -= 360
	} else if dLng < -180 {
		dLng += 360
	}

	lng := a.Lng + dLng*t
	if lng > 180 {
		lng -= 360
	} else if lng < -180 {
		lng += 360
	}

	return LatLng{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lng: lng,
	}
}
