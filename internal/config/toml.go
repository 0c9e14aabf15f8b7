// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice   PracticeConfig   `toml:"practice"`
	Time       TimeConfig       `toml:"time"`
	Difficulty DifficultyConfig `toml:"difficulty"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Mode            *string `toml:"mode"`
	Words           *int    `toml:"words"`
	SRS             *bool   `toml:"srs"`
	Warmup          *bool   `toml:"warmup"`
	WeakKeys        *int    `toml:"weak-keys"`
	WeakTransitions *int    `toml:"weak-transitions"`
	KpsWindow       *int    `toml:"kps-window"`
}

// TimeConfig maps countdown settings, in seconds.
type TimeConfig struct {
	Mode  *string  `toml:"mode"`
	Fixed *float64 `toml:"fixed"`
	Min   *float64 `toml:"min"`
	Max   *float64 `toml:"max"`
}

// DifficultyConfig maps the difficulty preset and per-field overrides.
type DifficultyConfig struct {
	Preset                  *string  `toml:"preset"`
	TargetKpsMultiplier     *float64 `toml:"target-kps-multiplier"`
	ComfortZoneRatio        *float64 `toml:"comfort-zone-ratio"`
	MinTimeLimit            *float64 `toml:"min-time-limit"`
	MissPenalty             *bool    `toml:"miss-penalty"`
	BasePenaltyPercent      *float64 `toml:"base-penalty-percent"`
	PenaltyEscalationFactor *float64 `toml:"penalty-escalation-factor"`
	MaxPenaltyPercent       *float64 `toml:"max-penalty-percent"`
	MinTimeAfterPenalty     *float64 `toml:"min-time-after-penalty"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
