package catchbash

import (
	"math"

	"github.com/vovakirdan/catch-bash/internal/atlas"
	"github.com/vovakirdan/catch-bash/internal/config"
	"github.com/vovakirdan/catch-bash/internal/geo"
)

// RunnerClock counts ticks down to the runner's next move.
// A disarmed clock never fires.
type RunnerClock struct {
	armed     bool
	period    int
	remaining int
}

// Arm (re)starts the clock with a period in ticks.
func (c *RunnerClock) Arm(period int) {
	c.armed = true
	c.period = max(1, period)
	c.remaining = c.period
}

// Disarm stops the clock.
func (c *RunnerClock) Disarm() {
	c.armed = false
	c.remaining = 0
}

// Armed reports whether the clock is running.
func (c *RunnerClock) Armed() bool { return c.armed }

// Remaining returns ticks until the next firing.
func (c *RunnerClock) Remaining() int { return c.remaining }

// Advance moves the clock one tick and reports whether it fired.
// After firing the clock restarts with the same period.
func (c *RunnerClock) Advance() bool {
	if !c.armed {
		return false
	}
	c.remaining--
	if c.remaining > 0 {
		return false
	}
	c.remaining = c.period
	return true
}

// secondsToTicks converts seconds to a whole number of ticks, at least one.
func secondsToTicks(seconds float64, tickRate int) int {
	return max(1, int(math.Round(seconds*float64(tickRate))))
}

// Glide animates the chaser marker between two coordinates. While active it
// owns the displayed chaser position; the logical move happens when it ends.
type Glide struct {
	active   bool
	from     geo.LatLng
	target   atlas.Country
	ticks    int
	duration int
}

// GlideDuration returns the glide length in ticks for a distance:
// km / speed seconds, clamped to the configured range.
func GlideDuration(km float64, cfg config.ChaserConfig, tickRate int) int {
	secs := cfg.GlideMinSeconds
	if cfg.GlideKmPerSecond > 0 {
		secs = km / cfg.GlideKmPerSecond
	}
	secs = math.Max(cfg.GlideMinSeconds, secs)
	if cfg.GlideMaxSeconds > 0 {
		secs = math.Min(cfg.GlideMaxSeconds, secs)
	}
	return secondsToTicks(secs, tickRate)
}

// Start begins a glide from a coordinate to target.
func (gl *Glide) Start(from geo.LatLng, target atlas.Country, duration int) {
	*gl = Glide{
		active:   true,
		from:     from,
		target:   target,
		duration: max(1, duration),
	}
}

// Active reports whether a glide is in progress.
func (gl *Glide) Active() bool { return gl.active }

// Target returns the country being glided to.
func (gl *Glide) Target() atlas.Country { return gl.target }

// Progress returns linear progress in [0, 1].
func (gl *Glide) Progress() float64 {
	if gl.duration == 0 {
		return 1
	}
	return math.Min(1, float64(gl.ticks)/float64(gl.duration))
}

// Position returns the displayed marker position with ease-out applied.
func (gl *Glide) Position() geo.LatLng {
	return geo.Lerp(gl.from, gl.target.LatLng, geo.EaseOutQuad(gl.Progress()))
}

// Advance moves the glide one tick and reports whether it just finished.
func (gl *Glide) Advance() bool {
	if !gl.active {
		return false
	}
	gl.ticks++
	if gl.ticks < gl.duration {
		return false
	}
	gl.active = false
	return true
}

// Cancel drops the glide without finishing it.
func (gl *Glide) Cancel() {
	gl.active = false
}
