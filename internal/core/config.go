package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 30)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Score of the last finished round
	Running  bool // Whether a round is in progress
	GameOver bool // Whether the round has ended and awaits restart
	Paused   bool // Whether the game is paused
}

// NoticeLevel classifies a notice for styling and logging.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeWarn
	NoticeError
)

// String returns the lowercase level name.
func (l NoticeLevel) String() string {
	switch l {
	case NoticeInfo:
		return "info"
	case NoticeSuccess:
		return "success"
	case NoticeWarn:
		return "warn"
	case NoticeError:
		return "error"
	default:
		return "unknown"
	}
}

// Notice is something that happened during a tick that the platform should
// surface to the player or to the log.
type Notice struct {
	Level  NoticeLevel
	Kind   string // Machine-readable event name, e.g. "runner_moved"
	Text   string // Player-facing message; empty for log-only events
	Detail string // Log-only context, never shown to the player
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State   GameState
	Notices []Notice
}
