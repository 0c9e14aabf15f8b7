// Package timing sizes per-word countdowns and mistake penalties.
package timing

import (
	"math"
	"unicode/utf8"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/romaji"
)

// DefaultKps is assumed when there is no usable score history.
const DefaultKps = 3.0

// DefaultKpsWindow is how many recent scores feed the average.
const DefaultKpsWindow = 10

// KpsStats summarises recent typing speed.
type KpsStats struct {
	Average    float64
	Confidence float64
	Samples    int
}

// RecentKps averages kps over the newest valid scores. scores are newest first.
func RecentKps(scores []model.GameScoreRecord, window int) KpsStats {
	if window <= 0 {
		window = DefaultKpsWindow
	}
	var sum float64
	n := 0
	for _, s := range scores {
		if n == window {
			break
		}
		if s.Kps <= 0 || s.DurationMs <= 0 {
			continue
		}
		sum += s.Kps
		n++
	}
	if n == 0 {
		return KpsStats{Average: DefaultKps}
	}
	return KpsStats{
		Average:    sum / float64(n),
		Confidence: math.Min(float64(n)/float64(window), 1),
		Samples:    n,
	}
}

// WordTimeLimit returns the countdown in seconds for typing target.
func WordTimeLimit(target string, kps KpsStats, limits model.TimeLimitConfig, p model.DifficultyParams) float64 {
	if limits.Mode == model.TimeFixed {
		return limits.Fixed
	}
	keystrokes := utf8.RuneCountInString(romaji.Normalize(target))
	targetKps := kps.Average * p.TargetKpsMultiplier
	if targetKps <= 0 {
		targetKps = DefaultKps
	}
	seconds := float64(keystrokes) / targetKps * p.ComfortZoneRatio
	// Rounded before clamping so bounds that are not whole tenths hold.
	seconds = math.Round(seconds*10) / 10

	// The difficulty floor is applied after the configured bounds and must
	// not exceed the ceiling.
	seconds = math.Max(seconds, limits.Min)
	seconds = math.Min(seconds, limits.Max)
	seconds = math.Max(seconds, p.MinTimeLimit)
	return math.Min(seconds, limits.Max)
}

// PenaltyPercent is the escalated share of the remaining time lost on a miss.
func PenaltyPercent(missCount int, p model.DifficultyParams) float64 {
	if !p.MissPenaltyEnabled || missCount < 1 {
		return 0
	}
	pct := p.BasePenaltyPercent * math.Pow(p.PenaltyEscalationFactor, float64(missCount-1))
	return math.Min(pct, p.MaxPenaltyPercent)
}

// Penalty returns the seconds to deduct for the missCount-th mistake on a
// word. The result never takes remaining below MinTimeAfterPenalty.
func Penalty(missCount int, remaining float64, p model.DifficultyParams) float64 {
	pct := PenaltyPercent(missCount, p)
	if pct <= 0 || remaining <= 0 {
		return 0
	}
	limit := remaining - p.MinTimeAfterPenalty
	if limit <= 0 {
		return 0
	}
	penalty := math.Round(remaining*pct) / 100
	if penalty > limit {
		penalty = math.Floor(limit*100) / 100
	}
	return penalty
}
