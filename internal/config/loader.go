package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadChase loads Catch Bash configuration. Keys missing from the file keep
// their default values.
// Search order: customPath -> ~/.catchbash/configs/catchbash.yaml -> ./configs/catchbash.yaml -> embedded default
func LoadChase(customPath string) (ChaseConfig, error) {
	// Try custom path first
	if customPath != "" {
		cfg := DefaultChaseConfig()
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("catchbash.yaml"); userCfgPath != "" {
		if cfg, err := parseChase(userCfgPath); err == nil {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, err := parseChase(filepath.Join("configs", "catchbash.yaml")); err == nil {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg := DefaultChaseConfig()
	if err := yaml.Unmarshal(defaultChaseYAML, &cfg); err != nil {
		return DefaultChaseConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func parseChase(path string) (ChaseConfig, error) {
	cfg := DefaultChaseConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(data, &cfg)
	return cfg, err
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".catchbash", "configs", filename)
}

// ApplyChasePreset modifies the config based on a difficulty preset.
func ApplyChasePreset(cfg *ChaseConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust the base pace of the runner
	switch preset {
	case DifficultyEasy:
		cfg.Runner.IntervalSeconds = 14
		cfg.Scoring.HopPenalty = 5
	case DifficultyHard:
		cfg.Runner.IntervalSeconds = 7
		cfg.Runner.MinIntervalSeconds = 2
	}
}

// Validate reports settings that would make the game unplayable.
func (c ChaseConfig) Validate() error {
	switch {
	case c.Runner.IntervalSeconds <= 0:
		return fmt.Errorf("runner.interval_seconds must be positive, got %v", c.Runner.IntervalSeconds)
	case c.Progress.NormalizerKm <= 0:
		return fmt.Errorf("progress.normalizer_km must be positive, got %v", c.Progress.NormalizerKm)
	case c.Progress.WinThreshold <= 0 || c.Progress.WinThreshold > 100:
		return fmt.Errorf("progress.win_threshold must be in (0, 100], got %v", c.Progress.WinThreshold)
	case c.MoveLog.Size < 1 || c.MoveLog.Size > MaxMoveLogSize:
		return fmt.Errorf("move_log.size must be in [1, %d], got %d", MaxMoveLogSize, c.MoveLog.Size)
	case c.Chaser.GlideMinSeconds > c.Chaser.GlideMaxSeconds:
		return fmt.Errorf("chaser.glide_min_seconds (%v) exceeds glide_max_seconds (%v)",
			c.Chaser.GlideMinSeconds, c.Chaser.GlideMaxSeconds)
	}
	return nil
}
