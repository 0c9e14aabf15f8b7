package config

import (
	"fmt"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/timing"
)

// ResolveDifficulty expands a preset name and applies overrides. Any
// override marks the result as custom.
func ResolveDifficulty(preset string, overrides DifficultyConfig) (model.DifficultyParams, error) {
	p, err := timing.Preset(model.DifficultyPreset(preset))
	if err != nil {
		return model.DifficultyParams{}, err
	}
	changed := false
	setFloat := func(target *float64, value *float64) {
		if value != nil {
			*target = *value
			changed = true
		}
	}
	setFloat(&p.TargetKpsMultiplier, overrides.TargetKpsMultiplier)
	setFloat(&p.ComfortZoneRatio, overrides.ComfortZoneRatio)
	setFloat(&p.MinTimeLimit, overrides.MinTimeLimit)
	setFloat(&p.BasePenaltyPercent, overrides.BasePenaltyPercent)
	setFloat(&p.PenaltyEscalationFactor, overrides.PenaltyEscalationFactor)
	setFloat(&p.MaxPenaltyPercent, overrides.MaxPenaltyPercent)
	setFloat(&p.MinTimeAfterPenalty, overrides.MinTimeAfterPenalty)
	if overrides.MissPenalty != nil {
		p.MissPenaltyEnabled = *overrides.MissPenalty
		changed = true
	}
	if changed {
		p.Preset = model.PresetCustom
	}
	if err := timing.Validate(p); err != nil {
		return model.DifficultyParams{}, fmt.Errorf("invalid difficulty: %w", err)
	}
	return p, nil
}

// ResolveTimeLimits applies file overrides to the default countdown bounds.
func ResolveTimeLimits(tc TimeConfig) (model.TimeLimitConfig, error) {
	limits := timing.DefaultTimeLimits()
	if tc.Mode != nil {
		limits.Mode = model.TimeLimitMode(*tc.Mode)
	}
	if tc.Fixed != nil {
		limits.Fixed = *tc.Fixed
	}
	if tc.Min != nil {
		limits.Min = *tc.Min
	}
	if tc.Max != nil {
		limits.Max = *tc.Max
	}
	if err := timing.ValidateLimits(limits); err != nil {
		return model.TimeLimitConfig{}, fmt.Errorf("invalid time limits: %w", err)
	}
	return limits, nil
}
