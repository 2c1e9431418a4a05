package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/google/uuid"

	"github.com/vovakirdan/catch-bash/internal/atlas"
	"github.com/vovakirdan/catch-bash/internal/core"
	"github.com/vovakirdan/catch-bash/internal/registry"
	"github.com/vovakirdan/catch-bash/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.catchbash/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// MaxConnsPerIP limits concurrent sessions from one address. Zero means no limit.
	MaxConnsPerIP int

	// TickRate is the simulation rate of every session.
	TickRate int

	// Options are the game options shared by every session; region and
	// difficulty are chosen per session.
	Options registry.Options
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:       ":23234",
		IdleTimeout:   30 * time.Minute,
		MaxConnsPerIP: 3,
		TickRate:      core.DefaultConfig().TickRate,
	}
}

type sessionIDKey struct{}

// SSHServer wraps a Wish SSH server. Every connection gets its own
// SessionModel; only the store is shared.
type SSHServer struct {
	config  SSHServerConfig
	server  *ssh.Server
	store   *storage.Store
	logger  *log.Logger
	limiter *connLimiter
}

// NewSSHServer creates a new SSH server. store may be nil, in which case
// chases are not recorded.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "catchbash-ssh",
		})
	}

	srv := &SSHServer{
		config:  cfg,
		store:   store,
		logger:  logger,
		limiter: newConnLimiter(cfg.MaxConnsPerIP),
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".catchbash", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	// Middlewares run last to first: limit, log, tag, require a PTY, play.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			activeterm.Middleware(),
			srv.sessionMiddleware,
			logging.Middleware(),
			srv.limitMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
	}

	logger := s.logger.With("user", sess.User())
	if id, ok := sess.Context().Value(sessionIDKey{}).(uuid.UUID); ok {
		logger = logger.With("session", id.String()[:8])
	}

	model := NewSessionModel(s.store, cfg, s.config.Options, logger)
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// sessionMiddleware tags each session with an ID for the logs.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		id := uuid.New()
		sess.Context().SetValue(sessionIDKey{}, id)
		s.logger.Info("session started", "session", id, "user", sess.User(), "remote", remoteIP(sess))
		next(sess)
		s.logger.Info("session ended", "session", id, "user", sess.User())
	}
}

// limitMiddleware rejects sessions beyond the per-address limit.
func (s *SSHServer) limitMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		ip := remoteIP(sess)
		if !s.limiter.acquire(ip) {
			s.logger.Warn("connection denied: too many sessions", "ip", ip, "limit", s.limiter.max)
			//nolint:errcheck // Best-effort message before closing
			io.WriteString(sess, fmt.Sprintf("Too many active connections from your address (limit %d). Try again later.\r\n", s.limiter.max))
			sess.Exit(1) //nolint:errcheck
			return
		}
		defer s.limiter.release(ip)
		next(sess)
	}
}

func remoteIP(sess ssh.Session) string {
	if addr, ok := sess.RemoteAddr().(*net.TCPAddr); ok {
		return addr.IP.String()
	}
	return sess.RemoteAddr().String()
}

// connLimiter counts open sessions per remote address.
type connLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	max    int
}

func newConnLimiter(max int) *connLimiter {
	return &connLimiter{counts: make(map[string]int), max: max}
}

func (l *connLimiter) acquire(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.max > 0 && l.counts[ip] >= l.max {
		return false
	}
	l.counts[ip]++
	return true
}

func (l *connLimiter) release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[ip]--
	if l.counts[ip] <= 0 {
		delete(l.counts, ip)
	}
}

func (l *connLimiter) active(ip string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[ip]
}

// ListenAndServe starts the SSH server and blocks until SIGINT or SIGTERM.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-done:
	case err := <-errc:
		return fmt.Errorf("ssh server: %w", err)
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

type sessionView int

const (
	viewMenu sessionView = iota
	viewSetup
	viewGame
	viewScores
)

// SessionModel manages the full flow: menu -> setup -> game -> menu, with
// the scoreboard reachable from the menu. It is used for SSH sessions and
// for the local menu command.
type SessionModel struct {
	store    *storage.Store
	logger   *log.Logger
	config   core.RuntimeConfig
	options  registry.Options
	regions  []string
	view     sessionView
	menu     MenuModel
	setup    SetupModel
	scores   ScoreboardModel
	game     *GameModel
	gameID   string
	quitting bool
}

// NewSessionModel creates a new session model. store and logger may be nil.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, opts registry.Options, logger *log.Logger) SessionModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var regions []string
	if a, err := atlas.Load(opts.DatasetPath); err != nil {
		logger.Warn("could not load countries, offering the world only", "error", err)
	} else {
		regions = a.Regions()
	}

	m := SessionModel{
		store:   store,
		logger:  logger,
		config:  cfg,
		options: opts,
		regions: regions,
	}
	m.menu = m.newMenu()
	return m
}

func (m SessionModel) newMenu() MenuModel {
	var best map[string]int
	if m.store != nil {
		if stats, err := m.store.GetAllModeStats(); err == nil {
			best = make(map[string]int, len(stats))
			for mode, s := range stats {
				best[mode] = s.BestScore
			}
		}
	}
	return NewMenuModel(m.config.ScreenW, m.config.ScreenH, best)
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewSetup:
		return m.updateSetup(msg)
	case viewGame:
		return m.updateGame(msg)
	case viewScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.scores = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.view = viewScores
		return m, nil

	case m.menu.Selected() != nil:
		sel := m.menu.Selected()
		m.gameID = sel.GameID
		m.setup = NewSetupModel(sel.Title, m.regions, m.config.ScreenW, m.config.ScreenH)
		m.view = viewSetup
		return m, nil
	}

	return m, cmd
}

func (m SessionModel) updateSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.setup.Update(msg)
	m.setup = next.(SetupModel)

	switch {
	case m.setup.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.setup.WantsBack():
		return m.toMenu("")

	case m.setup.Selected() != nil:
		return m.startGame(*m.setup.Selected())
	}

	return m, cmd
}

// startGame creates the chosen game and hands the screen to it.
func (m SessionModel) startGame(sel ChaseSelection) (tea.Model, tea.Cmd) {
	opts := m.options
	opts.Region = sel.Region
	opts.Difficulty = string(sel.Difficulty)

	game, err := registry.Create(m.gameID, opts)
	if err != nil {
		m.logger.Error("could not start game", "game", m.gameID, "error", err)
		return m.toMenu("Could not start: " + err.Error())
	}

	m.logger.Info("chase setup", "game", m.gameID, "region", sel.Region, "difficulty", sel.Difficulty)
	gm := NewGameModel(game, m.store, m.config, m.logger)
	m.game = &gm
	m.view = viewGame
	return m, m.game.Init()
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	gm := next.(GameModel)
	m.game = &gm

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		// Pending ticks for the old game are ignored by the menu.
		m.game = nil
		return m.toMenu("")
	}

	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	m.scores = next.(ScoreboardModel)

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		return m.toMenu("")
	}
	return m, cmd
}

func (m SessionModel) toMenu(status string) (tea.Model, tea.Cmd) {
	m.menu = m.newMenu()
	m.menu.SetStatus(status)
	m.view = viewMenu
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewSetup:
		return m.setup.View()
	case viewGame:
		return m.game.View()
	case viewScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the menu flow in the local terminal.
func RunSession(store *storage.Store, cfg core.RuntimeConfig, opts registry.Options, logger *log.Logger) error {
	p := tea.NewProgram(
		NewSessionModel(store, cfg, opts, logger),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
