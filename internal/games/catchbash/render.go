package catchbash

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/catch-bash/internal/chase"
	"github.com/vovakirdan/catch-bash/internal/core"
	"github.com/vovakirdan/catch-bash/internal/geo"
	"github.com/vovakirdan/catch-bash/internal/worldmap"
)

const (
	minWidth  = 60
	minHeight = 18
	headerH   = 2
	barWidth  = 20
)

// Visual characters for rendering
const (
	RunnerGlyph = 'B'
	ChaserGlyph = '@'
	TrailGlyph  = '∘'
	BarFull     = '█'
	BarEmpty    = '░'
)

// mapArea is everything between the header and the move log.
func (g *Game) mapArea() core.Rect {
	h := g.screenH - headerH - g.logRows()
	return core.NewRect(0, headerH, g.screenW, max(0, h))
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	g.renderHeader(dst)

	if !g.session.Running() && g.caught == nil {
		g.renderTitle(dst)
		return
	}

	g.renderHUD(dst)
	g.canvas.ClearMarkers()
	g.placeMarkers(g.canvas)
	g.canvas.Draw(dst)
	g.renderLog(dst)

	if g.caught != nil {
		g.renderCaught(dst)
	}
	if g.paused {
		g.renderBanner(dst, "PAUSED", "Ctrl+P to resume", core.ColorYellow)
	}
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorDefault)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need at least %dx%d", minWidth, minHeight), core.ColorGray)
}

func (g *Game) renderHeader(dst *core.Screen) {
	dst.DrawTextColored(1, 0, "CATCH BASH", core.ColorBrightYellow)

	where := "World"
	if g.opts.Region != "" {
		where = g.opts.Region
	}
	info := fmt.Sprintf("%s · %d countries", where, g.atlas.Len())
	if g.variant == VariantGlide {
		info = "Glide · " + info
	}
	dst.DrawTextColored(g.screenW-len([]rune(info))-1, 0, info, core.ColorGray)
}

func (g *Game) renderHUD(dst *core.Screen) {
	progress := g.session.Progress()
	filled := int(math.Round(progress / 100 * barWidth))
	bar := strings.Repeat(string(BarFull), filled) + strings.Repeat(string(BarEmpty), barWidth-filled)

	x := 1
	dst.DrawText(x, 1, "Progress ")
	x += len("Progress ")
	dst.DrawTextColored(x, 1, bar, progressColor(progress))
	x += barWidth
	dst.DrawText(x, 1, fmt.Sprintf(" %3.0f%%", progress))
	x += 6

	stats := fmt.Sprintf("  Guesses %d  Hops %d", g.session.Guesses(), g.session.Hops())
	dst.DrawTextColored(x, 1, stats, core.ColorWhite)
	x += len(stats)

	var status string
	color := core.ColorGray
	switch {
	case g.session.Stalled():
		status = "Bash is exhausted"
		color = core.ColorOrange
	case g.glide.Active():
		status = fmt.Sprintf("Flying to %s", g.glide.Target().Name)
		color = core.ColorCyan
	case g.clock.Armed():
		secs := (g.clock.Remaining() + g.tickRate - 1) / g.tickRate
		status = fmt.Sprintf("Bash moves in %ds", secs)
	}
	if status != "" {
		dst.DrawTextColored(max(x+2, g.screenW-len([]rune(status))-1), 1, status, color)
	}
}

func progressColor(p float64) core.Color {
	switch {
	case p >= 90:
		return core.ColorBrightGreen
	case p >= 70:
		return core.ColorGreen
	case p >= 40:
		return core.ColorYellow
	default:
		return core.ColorOrange
	}
}

// chaserPosition returns where the chaser marker is displayed, which
// differs from the logical position while a glide is in progress.
func (g *Game) chaserPosition() (geo.LatLng, bool) {
	if g.glide.Active() {
		return g.glide.Position(), true
	}
	if c, ok := g.session.Chaser(); ok {
		return c.LatLng, true
	}
	return geo.LatLng{}, false
}

// placeMarkers emits the runner, the chaser and its trail to a surface and
// fits the view to runner and chaser once both are on the map.
func (g *Game) placeMarkers(s worldmap.Surface) {
	for _, code := range g.session.ChaserVisited() {
		if c, ok := g.atlas.ByCode(code); ok {
			s.PlaceMarker(worldmap.Marker{Glyph: TrailGlyph, Color: core.ColorTrail, At: c.LatLng})
		}
	}

	runner, hasRunner := g.session.Runner()
	if hasRunner {
		s.PlaceMarker(worldmap.Marker{Label: "Bash", Glyph: RunnerGlyph, Color: core.ColorRunner, At: runner.LatLng})
	}

	chaserAt, hasChaser := g.chaserPosition()
	if hasChaser {
		s.PlaceMarker(worldmap.Marker{Label: "You", Glyph: ChaserGlyph, Color: core.ColorChaser, At: chaserAt})
	}

	if hasRunner && hasChaser {
		s.FitBounds(geo.BoundsOf(runner.LatLng, chaserAt))
	} else {
		s.FitBounds(geo.Bounds{})
	}
}

// logRows is the height reserved for the move log.
func (g *Game) logRows() int {
	if g.session == nil {
		return chase.DefaultLogSize
	}
	return g.session.LogCap()
}

func (g *Game) renderLog(dst *core.Screen) {
	y := g.mapArea().Bottom()
	entries := g.session.Log()
	for i := 0; i < g.logRows(); i++ {
		if i >= len(entries) {
			break
		}
		e := entries[i]
		color := core.ColorChaser
		if e.Actor == chase.ActorRunner {
			color = core.ColorRunner
		}
		line := fmt.Sprintf("%-4s → %s", e.Actor, e.Destination)
		if e.Region != "" {
			line += fmt.Sprintf("  (%s)", e.Region)
		}
		if i > 0 {
			color = core.ColorGray
		}
		dst.DrawTextColored(1, y+i, line, color)
	}
}

func (g *Game) renderTitle(dst *core.Screen) {
	where := "somewhere in the world"
	if g.opts.Region != "" {
		where = "somewhere in " + g.opts.Region
	}
	interval := g.cfg.Runner.IntervalSeconds

	lines := []struct {
		text  string
		color core.Color
	}{
		{"C A T C H   B A S H", core.ColorBrightYellow},
		{"Test your geography skills!", core.ColorWhite},
		{"", core.ColorDefault},
		{fmt.Sprintf("Bash is hiding %s and hops to a", where), core.ColorDefault},
		{fmt.Sprintf("neighbouring country about every %.0f seconds.", interval), core.ColorDefault},
		{"Type a country and press Enter to go there.", core.ColorDefault},
		{"Name Bash's country, or land on it, to win.", core.ColorDefault},
		{"", core.ColorDefault},
		{"Press Enter to start", core.ColorBrightGreen},
	}
	if g.rounds > 0 {
		lines = append(lines, struct {
			text  string
			color core.Color
		}{fmt.Sprintf("Last score: %d", g.lastScore), core.ColorGray})
	}

	y := max(headerH, (g.screenH-len(lines))/2)
	for i, l := range lines {
		dst.DrawTextCentered(y+i, l.text, l.color)
	}
}

func (g *Game) renderCaught(dst *core.Screen) {
	c := g.caught
	how := "by name"
	if c.Reason == chase.CatchByDistance {
		how = "by closing in"
	}
	lines := []string{
		"You caught Bash!",
		fmt.Sprintf("Bash was hiding in %s", c.Runner.Name),
		fmt.Sprintf("Caught %s after %d guesses, %d hops", how, c.Guesses, c.Hops),
		fmt.Sprintf("Score: %d", g.lastScore),
		"",
		"Enter: play again    Esc: menu",
	}
	g.renderBox(dst, lines, core.ColorBrightGreen)
}

func (g *Game) renderBanner(dst *core.Screen, title, hint string, color core.Color) {
	g.renderBox(dst, []string{title, hint}, color)
}

// renderBox draws a centered framed box; the first line is the title.
func (g *Game) renderBox(dst *core.Screen, lines []string, color core.Color) {
	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	w += 4
	h := len(lines) + 2
	box := core.NewRect((g.screenW-w)/2, (g.screenH-h)/2, w, h)

	for y := box.Y; y < box.Bottom(); y++ {
		for x := box.X; x < box.Right(); x++ {
			dst.Set(x, y, ' ')
		}
	}
	dst.DrawBox(box, color)
	for i, l := range lines {
		c := core.ColorDefault
		if i == 0 {
			c = color
		}
		x := box.X + (w-len([]rune(l)))/2
		dst.DrawTextColored(x, box.Y+1+i, l, c)
	}
}
