package timing

import (
	"fmt"

	"github.com/verte-zerg/kanatype/internal/model"
)

// Default countdown bounds, in seconds.
const (
	DefaultMinTimeLimit   = 2.0
	DefaultMaxTimeLimit   = 20.0
	DefaultFixedTimeLimit = 10.0
)

var presets = map[model.DifficultyPreset]model.DifficultyParams{
	model.PresetEasy: {
		Preset:                  model.PresetEasy,
		TargetKpsMultiplier:     0.6,
		ComfortZoneRatio:        1.5,
		MinTimeLimit:            3.0,
		MissPenaltyEnabled:      true,
		BasePenaltyPercent:      3,
		PenaltyEscalationFactor: 1.2,
		MaxPenaltyPercent:       15,
		MinTimeAfterPenalty:     1.0,
	},
	model.PresetNormal: {
		Preset:                  model.PresetNormal,
		TargetKpsMultiplier:     0.8,
		ComfortZoneRatio:        1.3,
		MinTimeLimit:            2.0,
		MissPenaltyEnabled:      true,
		BasePenaltyPercent:      5,
		PenaltyEscalationFactor: 1.5,
		MaxPenaltyPercent:       25,
		MinTimeAfterPenalty:     0.5,
	},
	model.PresetHard: {
		Preset:                  model.PresetHard,
		TargetKpsMultiplier:     1.0,
		ComfortZoneRatio:        1.1,
		MinTimeLimit:            1.5,
		MissPenaltyEnabled:      true,
		BasePenaltyPercent:      8,
		PenaltyEscalationFactor: 1.8,
		MaxPenaltyPercent:       35,
		MinTimeAfterPenalty:     0.3,
	},
	model.PresetExpert: {
		Preset:                  model.PresetExpert,
		TargetKpsMultiplier:     1.2,
		ComfortZoneRatio:        1.0,
		MinTimeLimit:            1.0,
		MissPenaltyEnabled:      true,
		BasePenaltyPercent:      10,
		PenaltyEscalationFactor: 2.0,
		MaxPenaltyPercent:       50,
		MinTimeAfterPenalty:     0.2,
	},
}

// Preset returns the parameters of a named preset. Custom has no fixed
// values; callers start from normal and override fields.
func Preset(name model.DifficultyPreset) (model.DifficultyParams, error) {
	if name == "" || name == model.PresetCustom {
		p := presets[model.PresetNormal]
		if name == model.PresetCustom {
			p.Preset = model.PresetCustom
		}
		return p, nil
	}
	p, ok := presets[name]
	if !ok {
		return model.DifficultyParams{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// DefaultTimeLimits returns adaptive countdown bounds.
func DefaultTimeLimits() model.TimeLimitConfig {
	return model.TimeLimitConfig{
		Mode:  model.TimeAdaptive,
		Fixed: DefaultFixedTimeLimit,
		Min:   DefaultMinTimeLimit,
		Max:   DefaultMaxTimeLimit,
	}
}

// Validate checks difficulty parameters.
func Validate(p model.DifficultyParams) error {
	switch {
	case p.TargetKpsMultiplier <= 0:
		return fmt.Errorf("%w: target-kps-multiplier must be positive", ErrInvalidParams)
	case p.ComfortZoneRatio <= 0:
		return fmt.Errorf("%w: comfort-zone-ratio must be positive", ErrInvalidParams)
	case p.MinTimeLimit < 0:
		return fmt.Errorf("%w: min-time-limit must be non-negative", ErrInvalidParams)
	case p.BasePenaltyPercent < 0 || p.BasePenaltyPercent > 100:
		return fmt.Errorf("%w: base-penalty-percent must be within [0, 100]", ErrInvalidParams)
	case p.MaxPenaltyPercent < 0 || p.MaxPenaltyPercent > 100:
		return fmt.Errorf("%w: max-penalty-percent must be within [0, 100]", ErrInvalidParams)
	case p.PenaltyEscalationFactor < 1:
		return fmt.Errorf("%w: penalty-escalation-factor must be >= 1", ErrInvalidParams)
	case p.MinTimeAfterPenalty < 0:
		return fmt.Errorf("%w: min-time-after-penalty must be non-negative", ErrInvalidParams)
	}
	return nil
}

// ValidateLimits checks countdown bounds.
func ValidateLimits(l model.TimeLimitConfig) error {
	switch {
	case l.Mode != model.TimeAdaptive && l.Mode != model.TimeFixed:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidLimits, l.Mode)
	case l.Min <= 0:
		return fmt.Errorf("%w: min must be positive", ErrInvalidLimits)
	case l.Max < l.Min:
		return fmt.Errorf("%w: max must be >= min", ErrInvalidLimits)
	case l.Mode == model.TimeFixed && l.Fixed <= 0:
		return fmt.Errorf("%w: fixed limit must be positive", ErrInvalidLimits)
	}
	return nil
}
