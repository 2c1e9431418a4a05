// Package config provides YAML-based game configuration loading and
// difficulty management for Catch Bash.
package config

// ChaseConfig contains all configuration for a chase.
type ChaseConfig struct {
	Runner     RunnerConfig     `yaml:"runner"`
	Chaser     ChaserConfig     `yaml:"chaser"`
	Progress   ProgressConfig   `yaml:"progress"`
	MoveLog    MoveLogConfig    `yaml:"move_log"`
	Map        MapConfig        `yaml:"map"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// RunnerConfig defines how often the runner moves.
type RunnerConfig struct {
	IntervalSeconds    float64 `yaml:"interval_seconds"`
	MinIntervalSeconds float64 `yaml:"min_interval_seconds"` // floor once difficulty speeds the runner up
}

// ChaserConfig defines the glide animation of the chaser marker.
type ChaserConfig struct {
	GlideKmPerSecond float64 `yaml:"glide_km_per_second"`
	GlideMinSeconds  float64 `yaml:"glide_min_seconds"`
	GlideMaxSeconds  float64 `yaml:"glide_max_seconds"`
}

// ProgressConfig defines the distance-to-progress mapping.
type ProgressConfig struct {
	NormalizerKm float64 `yaml:"normalizer_km"` // distance at which progress is 0
	WinThreshold float64 `yaml:"win_threshold"` // progress that counts as a catch
}

// MaxMoveLogSize is the most moves the log may show. A config can shrink the
// log but not grow it.
const MaxMoveLogSize = 3

// MoveLogConfig defines the size of the visible move log.
type MoveLogConfig struct {
	Size int `yaml:"size"`
}

// MapConfig defines how the map viewport is fitted.
type MapConfig struct {
	PadFraction    float64 `yaml:"pad_fraction"`
	MinSpanDegrees float64 `yaml:"min_span_degrees"`
}

// ScoringConfig defines the score awarded for a catch.
type ScoringConfig struct {
	Base         int `yaml:"base"`
	GuessPenalty int `yaml:"guess_penalty"`
	HopPenalty   int `yaml:"hop_penalty"`
}

// Score returns the score for a catch after guesses and runner hops.
func (s ScoringConfig) Score(guesses, hops int) int {
	return max(0, s.Base-s.GuessPenalty*guesses-s.HopPenalty*hops)
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases during a chase.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "hops", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Hops/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Runner speed added at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists the difficulty presets in menu order.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}

// ParsePreset converts a name to a preset, defaulting to normal.
func ParsePreset(name string) (DifficultyPreset, bool) {
	for _, p := range Presets {
		if string(p) == name {
			return p, true
		}
	}
	return DifficultyNormal, false
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
