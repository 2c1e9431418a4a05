package config

import (
	_ "embed"
)

//go:embed defaults/catchbash.yaml
var defaultChaseYAML []byte

// DefaultChaseConfig returns the default chase configuration.
func DefaultChaseConfig() ChaseConfig {
	return ChaseConfig{
		Runner: RunnerConfig{
			IntervalSeconds:    10,
			MinIntervalSeconds: 3,
		},
		Chaser: ChaserConfig{
			GlideKmPerSecond: 4000,
			GlideMinSeconds:  0.4,
			GlideMaxSeconds:  3,
		},
		Progress: ProgressConfig{
			NormalizerKm: 20000,
			WinThreshold: 100,
		},
		MoveLog: MoveLogConfig{
			Size: 3,
		},
		Map: MapConfig{
			PadFraction:    0.25,
			MinSpanDegrees: 12,
		},
		Scoring: ScoringConfig{
			Base:         1000,
			GuessPenalty: 50,
			HopPenalty:   10,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.3,
			Progression: ProgressionConfig{
				Type:  "hops",
				MaxAt: 20,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 2.0,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "catchbash", "catchbash_glide":
		return defaultChaseYAML
	default:
		return nil
	}
}
