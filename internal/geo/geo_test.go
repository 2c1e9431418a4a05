package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	paris    = LatLng{Lat: 48.8566, Lng: 2.3522}
	london   = LatLng{Lat: 51.5074, Lng: -0.1278}
	sydney   = LatLng{Lat: -33.8688, Lng: 151.2093}
	nullIsle = LatLng{}
)

func TestHaversine(t *testing.T) {
	t.Run("same point is zero", func(t *testing.T) {
		for _, p := range []LatLng{paris, london, sydney, nullIsle} {
			require.Zero(t, Haversine(p, p), "distance from %v to itself", p)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		pairs := [][2]LatLng{{paris, london}, {london, sydney}, {sydney, nullIsle}}
		for _, pair := range pairs {
			require.InDelta(t, Haversine(pair[0], pair[1]), Haversine(pair[1], pair[0]), 1e-9)
		}
	})

	t.Run("known distance", func(t *testing.T) {
		require.InDelta(t, 343.5, Haversine(paris, london), 1.0,
			"Paris to London is about 343.5 km")
	})

	t.Run("quarter meridian", func(t *testing.T) {
		pole := LatLng{Lat: 90, Lng: 0}
		require.InDelta(t, EarthRadiusKm*3.141592653589793/2, Haversine(nullIsle, pole), 1e-6)
	})

	t.Run("antipodes stay finite", func(t *testing.T) {
		d := Haversine(LatLng{Lat: 0, Lng: 0}, LatLng{Lat: 0, Lng: 180})
		require.InDelta(t, EarthRadiusKm*3.141592653589793, d, 1e-6)
	})
}

func TestLatLngString(t *testing.T) {
	require.Equal(t, "33.87°S 151.21°E", sydney.String())
	require.Equal(t, "51.51°N 0.13°W", london.String())
}

func TestBounds(t *testing.T) {
	var empty Bounds
	require.True(t, empty.Empty())
	require.False(t, empty.Contains(paris))

	b := BoundsOf(paris, london)
	require.False(t, b.Empty())
	require.True(t, b.Contains(paris))
	require.True(t, b.Contains(london))
	require.False(t, b.Contains(sydney))

	c := b.Center()
	require.InDelta(t, (paris.Lat+london.Lat)/2, c.Lat, 1e-9)
	require.InDelta(t, (paris.Lng+london.Lng)/2, c.Lng, 1e-9)
}

func TestBoundsPad(t *testing.T) {
	t.Run("single point gets minimum span", func(t *testing.T) {
		b := BoundsOf(paris).Pad(0.1, 20)
		lat, lng := b.Span()
		require.InDelta(t, 20, lat, 1e-9)
		require.InDelta(t, 20, lng, 1e-9)
		require.True(t, b.Contains(paris))
	})

	t.Run("clipped to world", func(t *testing.T) {
		b := BoundsOf(LatLng{Lat: 80, Lng: 179}).Pad(0.5, 30)
		require.LessOrEqual(t, b.MaxLat, World.MaxLat)
		require.LessOrEqual(t, b.MaxLng, World.MaxLng)
	})

	t.Run("empty stays empty", func(t *testing.T) {
		require.True(t, Bounds{}.Pad(0.1, 10).Empty())
	})
}

func TestLerp(t *testing.T) {
	require.Equal(t, paris, Lerp(paris, london, 0))
	require.Equal(t, london, Lerp(paris, london, 1))

	mid := Lerp(paris, london, 0.5)
	require.InDelta(t, (paris.Lat+london.Lat)/2, mid.Lat, 1e-9)

	t.Run("crosses the antimeridian the short way", func(t *testing.T) {
		a := LatLng{Lat: 0, Lng: 170}
		b := LatLng{Lat: 0, Lng: -170}
		p := Lerp(a, b, 0.5)
		require.InDelta(t, 180, abs(p.Lng), 1e-9)
	})
}

func TestEaseOutQuad(t *testing.T) {
	require.Zero(t, EaseOutQuad(-1))
	require.Equal(t, 1.0, EaseOutQuad(2))
	require.InDelta(t, 0.75, EaseOutQuad(0.5), 1e-9)
	require.Greater(t, EaseOutQuad(0.3), 0.3, "ease-out runs ahead of linear")
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
