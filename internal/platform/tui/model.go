package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/catch-bash/internal/core"
	"github.com/vovakirdan/catch-bash/internal/games/catchbash"
	"github.com/vovakirdan/catch-bash/internal/registry"
	"github.com/vovakirdan/catch-bash/internal/storage"
)

// Rows below the game screen: the flash line and the guess field.
const footerRows = 2

const flashSeconds = 3

// chaseReporter is implemented by games that report finished chases.
type chaseReporter interface {
	Result() (catchbash.Result, bool)
}

// resizer is implemented by games that can adapt to a new window size
// without restarting.
type resizer interface {
	Resize(w, h int)
}

type flash struct {
	text  string
	level core.NoticeLevel
	ttl   int // ticks left
}

// GameModel is the Bubble Tea model for one running game: it owns the tick
// loop, the guess field, flash messages and saving finished chases.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	input      textinput.Model
	help       help.Model
	keys       GameKeyMap
	frame      core.InputFrame
	state      core.GameState
	flash      flash
	saved      bool // Whether the current catch has been stored
	quitting   bool
	backToMenu bool
	standalone bool // Esc quits instead of returning to a menu
}

// NewGameModel creates a model for the given game. store and logger may be nil.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ti := textinput.New()
	ti.Placeholder = "Type a country and press Enter"
	ti.Prompt = "› "
	ti.CharLimit = 64
	ti.Width = max(10, cfg.ScreenW-4)
	ti.Focus()

	h := help.New()
	h.Width = cfg.ScreenW

	return GameModel{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		store:  store,
		logger: logger.With("game", game.ID()),
		config: cfg,
		input:  ti,
		help:   h,
		keys:   DefaultGameKeyMap(),
		frame:  core.NewInputFrame(),
	}
}

func gameHeight(h int) int {
	return max(1, h-footerRows)
}

// gameConfig is the runtime config as the game sees it, without the footer.
func (m GameModel) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = gameHeight(cfg.ScreenH)
	return cfg
}

// Init initializes the game and starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.gameConfig())
	m.logger.Debug("game started", "seed", m.config.Seed, "fps", m.config.TickRate)
	return tea.Batch(textinput.Blink, tickCmd(m.config.TickRate))
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	// Cursor blink and other textinput messages.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey maps keys to actions; everything else is typing.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		m.frame.Set(core.ActionPause)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if text := strings.TrimSpace(m.input.Value()); text != "" {
			// The game drops input while paused; keep the guess for later.
			if m.state.Paused {
				m.flash = flash{text: "Paused. Press Ctrl+P to resume, then Enter.", level: core.NoticeWarn, ttl: flashSeconds * m.config.TickRate}
				return m, nil
			}
			m.frame.Submit(text)
			m.input.Reset()
		} else {
			m.frame.Set(core.ActionConfirm)
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.input.Value() != "" {
			m.input.Reset()
			return m, nil
		}
		// Leaving is allowed from the title, the caught overlay or pause.
		if !m.state.Running || m.state.GameOver || m.state.Paused {
			if m.standalone {
				m.quitting = true
				return m, tea.Quit
			}
			m.backToMenu = true
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleResize keeps the chase going on window resize.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, gameHeight(msg.Height))
	m.input.Width = max(10, msg.Width-4)
	m.help.Width = msg.Width

	if r, ok := m.game.(resizer); ok {
		r.Resize(msg.Width, gameHeight(msg.Height))
	} else if !m.state.GameOver {
		m.game.Reset(m.gameConfig())
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.frame)
	m.state = result.State
	m.frame.Clear()

	if m.flash.ttl > 0 {
		m.flash.ttl--
	}
	for _, n := range result.Notices {
		m.notify(n)
	}

	m.saveResult()

	return m, tickCmd(m.config.TickRate)
}

// notify logs a notice and flashes its text, if any.
func (m *GameModel) notify(n core.Notice) {
	msg := n.Text
	if msg == "" {
		msg = n.Kind
	}
	fields := []any{"event", n.Kind}
	if n.Detail != "" {
		fields = append(fields, "detail", n.Detail)
	}
	switch n.Level {
	case core.NoticeSuccess:
		m.logger.Info(msg, fields...)
	default:
		m.logger.Debug(msg, fields...)
	}

	if n.Text != "" {
		m.flash = flash{text: n.Text, level: n.Level, ttl: flashSeconds * m.config.TickRate}
	}
}

// saveResult stores a finished chase once per catch.
func (m *GameModel) saveResult() {
	if !m.state.GameOver {
		m.saved = false
		return
	}
	if m.saved {
		return
	}
	m.saved = true

	reporter, ok := m.game.(chaseReporter)
	if !ok || m.store == nil {
		return
	}
	r, ok := reporter.Result()
	if !ok {
		return
	}

	id, err := m.store.SaveChase(storage.ChaseRecord{
		Mode:         r.Mode,
		Region:       r.Region,
		CaughtIn:     r.CaughtIn,
		Reason:       r.Reason,
		Guesses:      r.Guesses,
		RunnerHops:   r.Hops,
		DurationSecs: r.DurationSecs,
		Score:        r.Score,
	})
	if err != nil {
		m.logger.Warn("could not save chase", "error", err)
		return
	}
	m.logger.Info("chase saved", "id", id, "score", r.Score)
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("screenshot failed", "error", err)
		return
	}
	dir := filepath.Join(home, ".catchbash", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot failed", "error", err)
		return
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "error", err)
		return
	}
	m.flash = flash{text: "Screenshot saved to " + path, level: core.NoticeInfo, ttl: flashSeconds * m.config.TickRate}
}

// View renders the game screen, the flash line and the guess field.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	if m.flash.ttl > 0 {
		b.WriteString(" " + renderNotice(m.flash.level, m.flash.text))
	} else {
		b.WriteString(" " + hintStyle.Render(m.help.View(m.keys)))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single game in the terminal until the player quits.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewGameModel(game, store, cfg, logger)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
