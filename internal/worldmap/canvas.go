// Package worldmap draws a small equirectangular world map into a
// core.Screen: background dots for every known country and labelled
// markers on top.
package worldmap

import (
	"math"

	"github.com/vovakirdan/catch-bash/internal/core"
	"github.com/vovakirdan/catch-bash/internal/geo"
)

// Marker is a labelled point on the map.
type Marker struct {
	Label string
	Glyph rune
	Color core.Color
	At    geo.LatLng
}

// Surface accepts marker placements and viewport requests.
type Surface interface {
	PlaceMarker(m Marker)
	FitBounds(b geo.Bounds)
}

const (
	defaultPad     = 0.25
	defaultMinSpan = 12.0 // degrees
	cellAspect     = 2.0  // a terminal cell is about twice as tall as wide
	backgroundDot  = '·'
)

// Canvas is a Surface backed by a rectangle of a screen.
type Canvas struct {
	area       core.Rect
	view       geo.Bounds
	requested  geo.Bounds
	background []geo.LatLng
	markers    []Marker

	Pad     float64 // fraction of the fitted span added on each side
	MinSpan float64 // never zoom tighter than this many degrees
	Frame   core.Color
}

// NewCanvas creates a canvas over area showing the whole world.
func NewCanvas(area core.Rect, background []geo.LatLng) *Canvas {
	c := &Canvas{
		area:       area,
		background: background,
		Pad:        defaultPad,
		MinSpan:    defaultMinSpan,
		Frame:      core.ColorGray,
	}
	c.FitBounds(geo.Bounds{})
	return c
}

// SetArea moves the canvas and refits the current bounds to the new shape.
func (c *Canvas) SetArea(r core.Rect) {
	if r == c.area {
		return
	}
	c.area = r
	c.FitBounds(c.requested)
}

// Area returns the rectangle the canvas draws into, frame included.
func (c *Canvas) Area() core.Rect { return c.area }

// View returns the geographic box currently shown.
func (c *Canvas) View() geo.Bounds { return c.view }

// PlaceMarker queues a marker for the next Draw. Later markers draw on top.
func (c *Canvas) PlaceMarker(m Marker) {
	c.markers = append(c.markers, m)
}

// ClearMarkers drops all queued markers.
func (c *Canvas) ClearMarkers() {
	c.markers = c.markers[:0]
}

// Markers returns the queued markers.
func (c *Canvas) Markers() []Marker {
	out := make([]Marker, len(c.markers))
	copy(out, c.markers)
	return out
}

// FitBounds sets the viewport to contain b, padded and widened to keep
// the terminal cell aspect. Empty bounds show the whole world.
func (c *Canvas) FitBounds(b geo.Bounds) {
	c.requested = b
	if b.Empty() {
		c.view = geo.World
		return
	}

	v := b.Pad(c.Pad, c.MinSpan)
	inner := c.inner()
	if inner.W <= 1 || inner.H <= 1 {
		c.view = v
		return
	}

	// Match degrees per row to cellAspect times degrees per column.
	latSpan, lngSpan := v.Span()
	wantLat := lngSpan / float64(inner.W) * float64(inner.H) * cellAspect
	wantLng := latSpan / float64(inner.H) * float64(inner.W) / cellAspect
	center := v.Center()
	if wantLat > latSpan {
		latSpan = wantLat
	} else {
		lngSpan = wantLng
	}
	c.view = geo.BoundsOf(
		geo.LatLng{Lat: center.Lat - latSpan/2, Lng: center.Lng - lngSpan/2},
		geo.LatLng{Lat: center.Lat + latSpan/2, Lng: center.Lng + lngSpan/2},
	).Pad(0, 0)
}

func (c *Canvas) inner() core.Rect {
	return c.area.Inset(1)
}

// Project maps p to a screen cell inside the frame.
func (c *Canvas) Project(p geo.LatLng) (x, y int, ok bool) {
	inner := c.inner()
	if inner.Empty() || !c.view.Contains(p) {
		return 0, 0, false
	}
	latSpan, lngSpan := c.view.Span()
	if latSpan <= 0 || lngSpan <= 0 {
		return 0, 0, false
	}
	fx := (p.Lng - c.view.MinLng) / lngSpan
	fy := (c.view.MaxLat - p.Lat) / latSpan
	x = inner.X + int(math.Round(fx*float64(inner.W-1)))
	y = inner.Y + int(math.Round(fy*float64(inner.H-1)))
	return x, y, true
}

// Draw renders the frame, background and markers onto s.
func (c *Canvas) Draw(s *core.Screen) {
	if c.area.W < 3 || c.area.H < 3 {
		return
	}
	s.DrawBox(c.area, c.Frame)

	for _, p := range c.background {
		if x, y, ok := c.Project(p); ok {
			s.SetColored(x, y, backgroundDot, core.ColorLand)
		}
	}

	inner := c.inner()
	for _, m := range c.markers {
		x, y, ok := c.Project(m.At)
		if !ok {
			continue
		}
		s.SetColored(x, y, m.Glyph, m.Color)
		if m.Label == "" {
			continue
		}
		label := []rune(m.Label)
		lx := x + 2
		if lx+len(label) > inner.Right() {
			lx = x - 1 - len(label)
		}
		if lx < inner.X {
			lx = inner.X
			label = label[:min(len(label), inner.W)]
		}
		s.DrawTextColored(lx, y, string(label), m.Color)
	}
}
