package catchbash

import (
	"strings"

	"github.com/vovakirdan/catch-bash/internal/chase"
)

// ScreenState names what the player is looking at.
type ScreenState string

const (
	ScreenTitle       ScreenState = "title"
	ScreenChasing     ScreenState = "chasing"
	ScreenCaught      ScreenState = "caught"
	ScreenPaused      ScreenState = "paused"
	ScreenPausedSmall ScreenState = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
// It is comparable with ==.
type Snapshot struct {
	Tick           uint64
	Screen         ScreenState
	Phase          chase.Phase
	Runner         string // country code, empty before the chase
	Chaser         string
	Progress       float64
	Hops           int
	Guesses        int
	Stalled        bool
	Log            string // entries newest first, joined by "|"
	Gliding        bool
	GlideTarget    string
	ClockRemaining int
	Score          int
	Rounds         int
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	screen := ScreenChasing
	switch {
	case g.tooSmall:
		screen = ScreenPausedSmall
	case g.paused:
		screen = ScreenPaused
	case g.caught != nil:
		screen = ScreenCaught
	case !g.session.Running():
		screen = ScreenTitle
	}

	s := Snapshot{
		Tick:           g.tick,
		Screen:         screen,
		Phase:          g.session.Phase(),
		Progress:       g.session.Progress(),
		Hops:           g.session.Hops(),
		Guesses:        g.session.Guesses(),
		Stalled:        g.session.Stalled(),
		Gliding:        g.glide.Active(),
		ClockRemaining: g.clock.Remaining(),
		Score:          g.lastScore,
		Rounds:         g.rounds,
	}
	if r, ok := g.session.Runner(); ok {
		s.Runner = r.Code
	}
	if c, ok := g.session.Chaser(); ok {
		s.Chaser = c.Code
	}
	if s.Gliding {
		s.GlideTarget = g.glide.Target().Code
	}

	entries := g.session.Log()
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.Actor.String() + ":" + e.Destination
	}
	s.Log = strings.Join(parts, "|")
	return s
}
