// Package model defines shared data structures.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxMasteryLevel is the highest mastery level a word can reach.
const MaxMasteryLevel = 5

// ErrInvalidMode is returned when a practice mode name is unknown.
var ErrInvalidMode = errors.New("invalid practice mode")

// PracticeMode selects the word ordering policy for a session.
type PracticeMode string

// Practice modes.
const (
	ModeBalanced PracticeMode = "balanced"
	ModeWeakness PracticeMode = "weakness"
	ModeReview   PracticeMode = "review"
	ModeRandom   PracticeMode = "random"
)

// ParsePracticeMode parses a mode name. Empty input yields ModeBalanced.
func ParsePracticeMode(s string) (PracticeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "balanced":
		return ModeBalanced, nil
	case "weakness", "weakness-focus", "weak":
		return ModeWeakness, nil
	case "review":
		return ModeReview, nil
	case "random":
		return ModeRandom, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// DifficultyPreset names a bundle of DifficultyParams.
type DifficultyPreset string

// Difficulty presets.
const (
	PresetEasy   DifficultyPreset = "easy"
	PresetNormal DifficultyPreset = "normal"
	PresetHard   DifficultyPreset = "hard"
	PresetExpert DifficultyPreset = "expert"
	PresetCustom DifficultyPreset = "custom"
)

// DifficultyParams sizes countdowns and mistake penalties.
type DifficultyParams struct {
	Preset                  DifficultyPreset
	TargetKpsMultiplier     float64
	ComfortZoneRatio        float64
	MinTimeLimit            float64
	MissPenaltyEnabled      bool
	BasePenaltyPercent      float64
	PenaltyEscalationFactor float64
	MaxPenaltyPercent       float64
	MinTimeAfterPenalty     float64
}

// TimeLimitMode selects adaptive or fixed countdowns.
type TimeLimitMode string

// Time limit modes.
const (
	TimeAdaptive TimeLimitMode = "adaptive"
	TimeFixed    TimeLimitMode = "fixed"
)

// TimeLimitConfig bounds per-word countdowns, in seconds.
type TimeLimitConfig struct {
	Mode  TimeLimitMode
	Fixed float64
	Min   float64
	Max   float64
}

// Config defines practice settings.
type Config struct {
	Mode            PracticeMode
	Words           int
	SRSEnabled      bool
	WarmupEnabled   bool
	WeakKeys        int
	WeakTransitions int
	KpsWindow       int
	TimeLimit       TimeLimitConfig
	Difficulty      DifficultyParams
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Last        int
	CurveWindow int
	WeakKeys    int
}

// WordStats is the per-word learning state.
type WordStats struct {
	CorrectCount       int
	MissCount          int
	LastPlayedAt       *time.Time
	Accuracy           float64
	MasteryLevel       int
	NextReviewAt       *time.Time
	ConsecutiveCorrect int
}

// NewWordStats returns the stats of a word that was never played.
func NewWordStats() WordStats {
	return WordStats{Accuracy: 100}
}

// Attempts returns the number of finished plays.
func (s WordStats) Attempts() int {
	return s.CorrectCount + s.MissCount
}

// Played reports whether the word was finished at least once.
func (s WordStats) Played() bool {
	return s.LastPlayedAt != nil
}

// Word is a practice item.
type Word struct {
	ID        int64
	Text      string
	Reading   string
	Romaji    string
	Stats     WordStats
	CreatedAt time.Time
}

// KeyStats aggregates keystrokes for one expected character.
type KeyStats struct {
	Key          string
	TotalCount   int
	ErrorCount   int
	LatencySumMs int64
	ConfusedWith map[string]int
}

// Transition is an ordered pair of consecutive characters.
type Transition struct {
	From string
	To   string
}

func (t Transition) String() string {
	return t.From + t.To
}

// KeyTransitionStats aggregates keystrokes for one character pair.
type KeyTransitionStats struct {
	Transition   Transition
	TotalCount   int
	ErrorCount   int
	LatencySumMs int64
	ConfusedWith map[string]int
}

// WordOutcome records how one word play ended.
type WordOutcome struct {
	WordID   int64
	Success  bool
	PlayedAt time.Time
}

// GameScoreRecord summarizes a completed session.
type GameScoreRecord struct {
	ID              int64
	RunID           string
	Kps             float64
	TotalKeystrokes int
	Accuracy        float64
	CorrectWords    int
	MissedWords     int
	TotalWords      int
	DurationMs      int64
	PlayedAt        time.Time
}
