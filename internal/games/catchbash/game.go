// Package catchbash implements Catch Bash, a geography chase: a hidden
// runner hops between bordering countries while the player types country
// names to move a chaser onto it.
package catchbash

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/vovakirdan/catch-bash/internal/atlas"
	"github.com/vovakirdan/catch-bash/internal/chase"
	"github.com/vovakirdan/catch-bash/internal/config"
	"github.com/vovakirdan/catch-bash/internal/core"
	"github.com/vovakirdan/catch-bash/internal/geo"
	"github.com/vovakirdan/catch-bash/internal/registry"
	"github.com/vovakirdan/catch-bash/internal/worldmap"
)

// Variant selects how the chaser moves.
type Variant string

const (
	VariantClassic Variant = "classic" // chaser teleports
	VariantGlide   Variant = "glide"   // chaser glides to its destination
)

// Game IDs used by the registry and score storage.
const (
	IDClassic = "catchbash"
	IDGlide   = "catchbash_glide"
)

// Notice kinds emitted by Step.
const (
	EventStarted       = "started"
	EventRunnerMoved   = "runner_moved"
	EventRunnerFlew    = "runner_flew"
	EventRunnerStalled = "runner_stalled"
	EventChaserMoved   = "chaser_moved"
	EventChaserGliding = "chaser_gliding"
	EventGuessInvalid  = "guess_invalid"
	EventGuessBusy     = "guess_busy"
	EventCaught        = "caught"
)

const defaultTickRate = 30

// Result describes a finished chase for the score store.
type Result struct {
	Mode         string
	Region       string
	CaughtIn     string
	Reason       string
	Guesses      int
	Hops         int
	DurationSecs float64
	Score        int
}

// Game implements registry.Game for both variants.
type Game struct {
	variant Variant
	opts    registry.Options
	cfg     config.ChaseConfig
	atlas   *atlas.Atlas
	diff    *config.DifficultyManager

	rng     *rand.Rand
	session *chase.Session
	clock   RunnerClock
	glide   Glide
	canvas  *worldmap.Canvas

	tickRate   int
	tick       uint64
	chaseTicks int // ticks since the current chase started

	screenW  int
	screenH  int
	paused   bool
	tooSmall bool

	caught    *chase.Catch // shown as an overlay until the player continues
	result    *Result
	lastScore int
	rounds    int
}

func init() {
	registry.Register(registry.GameInfo{
		ID:          IDClassic,
		Title:       "Catch Bash",
		Description: "Type a country to jump there. Land on Bash to win.",
	}, func(opts registry.Options) (registry.Game, error) {
		return New(VariantClassic, opts)
	})
	registry.Register(registry.GameInfo{
		ID:          IDGlide,
		Title:       "Catch Bash (Glide)",
		Description: "Your marker flies to each guess; no new guess until it lands.",
	}, func(opts registry.Options) (registry.Game, error) {
		return New(VariantGlide, opts)
	})
}

// New loads configuration and the country dataset for a game instance.
func New(variant Variant, opts registry.Options) (*Game, error) {
	cfg, err := config.LoadChase(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Difficulty != "" {
		preset, ok := config.ParsePreset(opts.Difficulty)
		if !ok {
			return nil, fmt.Errorf("unknown difficulty %q", opts.Difficulty)
		}
		config.ApplyChasePreset(&cfg, preset)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a, err := atlas.Load(opts.DatasetPath)
	if err != nil {
		return nil, err
	}
	if opts.Region != "" {
		if a, err = a.Subset(opts.Region); err != nil {
			return nil, err
		}
	}

	return NewWith(variant, cfg, a, opts), nil
}

// NewWith builds a game from an already loaded config and atlas.
func NewWith(variant Variant, cfg config.ChaseConfig, a *atlas.Atlas, opts registry.Options) *Game {
	return &Game{
		variant: variant,
		opts:    opts,
		cfg:     cfg,
		atlas:   a,
		diff:    config.NewDifficultyManager(cfg.Difficulty),
	}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.variant == VariantGlide {
		return IDGlide
	}
	return IDClassic
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.variant == VariantGlide {
		return "Catch Bash (Glide)"
	}
	return "Catch Bash"
}

// Variant returns how the chaser moves.
func (g *Game) Variant() Variant { return g.variant }

// Atlas returns the countries this game is played on.
func (g *Game) Atlas() *atlas.Atlas { return g.atlas }

// Reset initializes the game to its title screen.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = defaultTickRate
	}
	g.tick = 0
	g.chaseTicks = 0
	g.paused = false
	g.caught = nil
	g.result = nil
	g.lastScore = 0
	g.rounds = 0
	g.clock.Disarm()
	g.glide.Cancel()

	g.session = chase.NewSession(g.atlas, g.rng, chase.Config{
		NormalizerKm: g.cfg.Progress.NormalizerKm,
		WinThreshold: g.cfg.Progress.WinThreshold,
		LogSize:      g.cfg.MoveLog.Size,
	})
	g.session.OnPhase(g.onPhase)

	background := make([]geo.LatLng, 0, g.atlas.Len())
	for _, c := range g.atlas.Countries() {
		background = append(background, c.LatLng)
	}
	g.canvas = worldmap.NewCanvas(core.Rect{}, background)
	g.canvas.Pad = g.cfg.Map.PadFraction
	g.canvas.MinSpan = g.cfg.Map.MinSpanDegrees

	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Resize adapts the layout without touching the chase.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = w < minWidth || h < minHeight
	if g.canvas != nil {
		g.canvas.SetArea(g.mapArea())
	}
}

// onPhase keeps the timers in step with the session lifecycle: the runner
// clock only runs while a chase is running.
func (g *Game) onPhase(from, to chase.Phase) {
	switch to {
	case chase.PhaseRunning:
		g.chaseTicks = 0
		g.armClock()
	default:
		g.clock.Disarm()
		g.glide.Cancel()
	}
}

func (g *Game) armClock() {
	secs := g.diff.RunnerInterval(
		g.cfg.Runner.IntervalSeconds,
		g.cfg.Runner.MinIntervalSeconds,
		g.session.Hops(),
		g.chaseTicks,
	)
	g.clock.Arm(secondsToTicks(secs, g.tickRate))
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	var notices []core.Notice

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && g.session.Running() {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	// Title screen or caught overlay: Enter starts a new chase.
	if !g.session.Running() {
		if in.Has(core.ActionConfirm) || in.Has(core.ActionSubmit) {
			g.caught = nil
			notices = append(notices, g.start())
		}
		return core.StepResult{State: g.State(), Notices: notices}
	}

	g.chaseTicks++

	if in.Has(core.ActionSubmit) {
		notices = append(notices, g.submit(in.Text)...)
	}

	if g.session.Running() && g.glide.Advance() {
		notices = append(notices, g.land()...)
	}

	if g.session.Running() && g.clock.Advance() {
		notices = append(notices, g.runnerTick()...)
	}

	return core.StepResult{State: g.State(), Notices: notices}
}

func (g *Game) start() core.Notice {
	start, err := g.session.Start()
	if err != nil {
		return core.Notice{Level: core.NoticeError, Kind: EventStarted, Detail: err.Error()}
	}
	g.rounds++
	g.result = nil
	return core.Notice{
		Level:  core.NoticeInfo,
		Kind:   EventStarted,
		Text:   "Bash is on the run. Where is it hiding?",
		Detail: fmt.Sprintf("runner starts in %s", start.Code),
	}
}

func (g *Game) submit(text string) []core.Notice {
	name := strings.TrimSpace(text)
	if name == "" {
		return nil
	}

	if g.glide.Active() {
		return []core.Notice{{
			Level: core.NoticeWarn,
			Kind:  EventGuessBusy,
			Text:  fmt.Sprintf("Still flying to %s, wait for the landing.", g.glide.Target().Name),
		}}
	}

	outcome, c := g.session.Resolve(name)
	switch outcome {
	case chase.GuessInvalid:
		return []core.Notice{{
			Level:  core.NoticeError,
			Kind:   EventGuessInvalid,
			Text:   "Incorrect guess. Try again!",
			Detail: fmt.Sprintf("unknown country %q", name),
		}}

	case chase.GuessCatch:
		return []core.Notice{g.finish(g.session.ClaimCatch())}

	case chase.GuessMove:
		if g.variant == VariantGlide {
			from := c.LatLng
			if prev, ok := g.session.Chaser(); ok {
				from = prev.LatLng
			}
			km := geo.Haversine(from, c.LatLng)
			g.session.CountGuess()
			g.glide.Start(from, c, GlideDuration(km, g.cfg.Chaser, g.tickRate))
			return []core.Notice{{
				Level:  core.NoticeInfo,
				Kind:   EventChaserGliding,
				Text:   fmt.Sprintf("Flying to %s...", c.Name),
				Detail: fmt.Sprintf("%.0f km", km),
			}}
		}
		return g.moveChaser(c)
	}
	return nil
}

// land places the chaser at the end of a glide. The guess was counted when
// the glide started.
func (g *Game) land() []core.Notice {
	c := g.glide.Target()
	return g.chaserMoved(c, g.session.PlaceChaser(c))
}

func (g *Game) moveChaser(c atlas.Country) []core.Notice {
	return g.chaserMoved(c, g.session.MoveChaser(c))
}

func (g *Game) chaserMoved(c atlas.Country, catch *chase.Catch) []core.Notice {
	notices := []core.Notice{{
		Level:  core.NoticeInfo,
		Kind:   EventChaserMoved,
		Text:   fmt.Sprintf("You are in %s.", c.Name),
		Detail: fmt.Sprintf("chaser %s progress %.1f", c.Code, g.session.Progress()),
	}}
	if catch != nil {
		notices = append(notices, g.finish(catch))
	}
	return notices
}

func (g *Game) runnerTick() []core.Notice {
	wasStalled := g.session.Stalled()
	res := g.session.Tick()

	var notices []core.Notice
	switch res.Outcome {
	case chase.TickMoved:
		notices = append(notices, core.Notice{
			Level:  core.NoticeInfo,
			Kind:   EventRunnerMoved,
			Detail: fmt.Sprintf("runner %s", res.Hop.To.Code),
		})
	case chase.TickFlew:
		notices = append(notices, core.Notice{
			Level:  core.NoticeInfo,
			Kind:   EventRunnerFlew,
			Text:   "Bash ran out of borders and took a flight!",
			Detail: fmt.Sprintf("runner %s", res.Hop.To.Code),
		})
	case chase.TickStalled:
		if !wasStalled {
			notices = append(notices, core.Notice{
				Level: core.NoticeWarn,
				Kind:  EventRunnerStalled,
				Text:  "Bash is exhausted and stopped running.",
			})
		}
	}

	if res.Catch != nil {
		return append(notices, g.finish(res.Catch))
	}
	if g.session.Running() && !g.session.Stalled() {
		g.armClock()
	} else {
		g.clock.Disarm()
	}
	return notices
}

// finish records a catch. The session has already reset itself.
func (g *Game) finish(c *chase.Catch) core.Notice {
	score := g.cfg.Scoring.Score(c.Guesses, c.Hops)
	g.caught = c
	g.lastScore = score
	g.result = &Result{
		Mode:         g.ID(),
		Region:       g.opts.Region,
		CaughtIn:     c.Runner.Name,
		Reason:       c.Reason.String(),
		Guesses:      c.Guesses,
		Hops:         c.Hops,
		DurationSecs: float64(g.chaseTicks) / float64(g.tickRate),
		Score:        score,
	}
	return core.Notice{
		Level:  core.NoticeSuccess,
		Kind:   EventCaught,
		Text:   fmt.Sprintf("Congratulations! You caught Bash in %s!", c.Runner.Name),
		Detail: fmt.Sprintf("reason=%s guesses=%d hops=%d score=%d", c.Reason, c.Guesses, c.Hops, score),
	}
}

// Result returns the last finished chase, if any.
func (g *Game) Result() (Result, bool) {
	if g.result == nil {
		return Result{}, false
	}
	return *g.result, true
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.lastScore,
		Running:  g.session != nil && g.session.Running(),
		GameOver: g.caught != nil,
		Paused:   g.paused || g.tooSmall,
	}
}
