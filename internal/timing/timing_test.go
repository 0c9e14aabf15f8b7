package timing

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/kanatype/internal/model"
)

func normal(t *testing.T) model.DifficultyParams {
	t.Helper()
	p, err := Preset(model.PresetNormal)
	require.NoError(t, err)
	return p
}

func TestRecentKpsEmptyHistory(t *testing.T) {
	kps := RecentKps(nil, 10)
	assert.Equal(t, 3.0, kps.Average)
	assert.Equal(t, 0.0, kps.Confidence)
	assert.Equal(t, 0, kps.Samples)
}

func TestRecentKpsSkipsInvalidAndLimitsWindow(t *testing.T) {
	scores := []model.GameScoreRecord{
		{Kps: 4, DurationMs: 1000},
		{Kps: 0, DurationMs: 1000},
		{Kps: 9, DurationMs: 0},
		{Kps: 2, DurationMs: 1000},
		{Kps: 100, DurationMs: 1000},
	}
	kps := RecentKps(scores, 2)
	assert.InDelta(t, 3.0, kps.Average, 1e-9)
	assert.Equal(t, 1.0, kps.Confidence)

	kps = RecentKps(scores, 10)
	assert.InDelta(t, 106.0/3, kps.Average, 1e-9)
	assert.InDelta(t, 0.3, kps.Confidence, 1e-9)
}

func TestWordTimeLimit(t *testing.T) {
	p := normal(t)
	limits := DefaultTimeLimits()
	// 10 keys / (3.0 * 0.8) * 1.3 = 5.4166 -> 5.4
	assert.Equal(t, 5.4, WordTimeLimit("konnichiwa", KpsStats{Average: 3}, limits, p))
	// Short words clamp to the minimum.
	assert.Equal(t, 2.0, WordTimeLimit("e", KpsStats{Average: 3}, limits, p))
	// Long words clamp to the maximum.
	assert.Equal(t, 20.0, WordTimeLimit(strings.Repeat("ka", 40), KpsStats{Average: 3}, limits, p))
}

func TestWordTimeLimitDifficultyFloorCannotExceedCeiling(t *testing.T) {
	p := normal(t)
	p.MinTimeLimit = 30
	limits := model.TimeLimitConfig{Mode: model.TimeAdaptive, Min: 1, Max: 8}
	assert.Equal(t, 8.0, WordTimeLimit("a", KpsStats{Average: 3}, limits, p))
}

func TestWordTimeLimitFixed(t *testing.T) {
	limits := model.TimeLimitConfig{Mode: model.TimeFixed, Fixed: 7.25, Min: 2, Max: 20}
	assert.Equal(t, 7.25, WordTimeLimit("sayounara", KpsStats{Average: 3}, limits, normal(t)))
}

func TestWordTimeLimitBounds(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	names := []model.DifficultyPreset{model.PresetEasy, model.PresetNormal, model.PresetHard, model.PresetExpert}
	for i := 0; i < 500; i++ {
		p, err := Preset(names[rnd.Intn(len(names))])
		require.NoError(t, err)
		limits := model.TimeLimitConfig{
			Mode: model.TimeAdaptive,
			Min:  0.5 + rnd.Float64()*3,
		}
		limits.Max = limits.Min + rnd.Float64()*20
		word := strings.Repeat("a", 1+rnd.Intn(30))
		got := WordTimeLimit(word, KpsStats{Average: 0.5 + rnd.Float64()*10}, limits, p)

		lower := limits.Min
		if p.MinTimeLimit > lower {
			lower = p.MinTimeLimit
		}
		if lower > limits.Max {
			lower = limits.Max
		}
		require.GreaterOrEqual(t, got, lower)
		require.LessOrEqual(t, got, limits.Max)
	}
}

func TestWordTimeLimitOffTenthBounds(t *testing.T) {
	p, err := Preset(model.PresetExpert)
	require.NoError(t, err)
	p.MinTimeLimit = 0
	limits := model.TimeLimitConfig{Mode: model.TimeAdaptive, Min: 1.94, Max: 20}
	assert.Equal(t, 1.94, WordTimeLimit("a", KpsStats{Average: 10}, limits, p))

	limits = model.TimeLimitConfig{Mode: model.TimeAdaptive, Min: 0.1, Max: 0.96}
	assert.Equal(t, 0.96, WordTimeLimit(strings.Repeat("a", 30), KpsStats{Average: 1}, limits, p))
}

func TestPenaltyExample(t *testing.T) {
	p := model.DifficultyParams{
		MissPenaltyEnabled:      true,
		BasePenaltyPercent:      5,
		PenaltyEscalationFactor: 1.5,
		MaxPenaltyPercent:       25,
		MinTimeAfterPenalty:     0.5,
	}
	assert.Equal(t, 5.0, PenaltyPercent(1, p))
	penalty := Penalty(1, 10, p)
	assert.Equal(t, 0.5, penalty)
	assert.InDelta(t, 9.5, 10-penalty, 1e-9)
}

func TestPenaltyEscalatesAndCaps(t *testing.T) {
	p := normal(t)
	assert.InDelta(t, 7.5, PenaltyPercent(2, p), 1e-9)
	assert.InDelta(t, 11.25, PenaltyPercent(3, p), 1e-9)
	assert.Equal(t, 25.0, PenaltyPercent(10, p))
}

func TestPenaltyDisabled(t *testing.T) {
	p := normal(t)
	assert.Equal(t, 0.0, Penalty(0, 10, p))
	p.MissPenaltyEnabled = false
	assert.Equal(t, 0.0, Penalty(3, 10, p))
}

func TestPenaltyFloor(t *testing.T) {
	rnd := rand.New(rand.NewSource(9))
	for i := 0; i < 1000; i++ {
		p := model.DifficultyParams{
			MissPenaltyEnabled:      true,
			BasePenaltyPercent:      rnd.Float64() * 100,
			PenaltyEscalationFactor: 1 + rnd.Float64()*2,
			MaxPenaltyPercent:       100,
			MinTimeAfterPenalty:     rnd.Float64() * 2,
		}
		remaining := rnd.Float64() * 10
		missCount := 1 + rnd.Intn(8)
		penalty := Penalty(missCount, remaining, p)
		require.GreaterOrEqual(t, penalty, 0.0)
		if remaining >= p.MinTimeAfterPenalty {
			require.GreaterOrEqual(t, remaining-penalty, p.MinTimeAfterPenalty-1e-9)
		} else {
			require.Equal(t, 0.0, penalty)
		}
	}
}

func TestPresets(t *testing.T) {
	for _, name := range []model.DifficultyPreset{model.PresetEasy, model.PresetNormal, model.PresetHard, model.PresetExpert} {
		p, err := Preset(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Preset)
		assert.NoError(t, Validate(p))
	}
	custom, err := Preset(model.PresetCustom)
	require.NoError(t, err)
	assert.Equal(t, model.PresetCustom, custom.Preset)

	_, err = Preset("nightmare")
	assert.True(t, errors.Is(err, ErrUnknownPreset))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.DifficultyParams)
	}{
		{"escalation below one", func(p *model.DifficultyParams) { p.PenaltyEscalationFactor = 0.9 }},
		{"base percent above 100", func(p *model.DifficultyParams) { p.BasePenaltyPercent = 101 }},
		{"max percent negative", func(p *model.DifficultyParams) { p.MaxPenaltyPercent = -1 }},
		{"zero multiplier", func(p *model.DifficultyParams) { p.TargetKpsMultiplier = 0 }},
		{"negative floor", func(p *model.DifficultyParams) { p.MinTimeAfterPenalty = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := normal(t)
			tt.mutate(&p)
			assert.ErrorIs(t, Validate(p), ErrInvalidParams)
		})
	}
}

func TestValidateLimits(t *testing.T) {
	assert.NoError(t, ValidateLimits(DefaultTimeLimits()))
	assert.ErrorIs(t, ValidateLimits(model.TimeLimitConfig{Mode: model.TimeAdaptive, Min: 5, Max: 2}), ErrInvalidLimits)
	assert.ErrorIs(t, ValidateLimits(model.TimeLimitConfig{Mode: "slow", Min: 1, Max: 2}), ErrInvalidLimits)
	assert.ErrorIs(t, ValidateLimits(model.TimeLimitConfig{Mode: model.TimeFixed, Min: 1, Max: 2}), ErrInvalidLimits)
}
