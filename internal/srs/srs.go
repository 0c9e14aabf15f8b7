// Package srs tracks per-word mastery with a spaced-repetition schedule.
package srs

import (
	"time"

	"github.com/verte-zerg/kanatype/internal/model"
)

// IntervalHours is the review schedule indexed by mastery level + 1.
var IntervalHours = []int{0, 1, 6, 24, 72, 168, 336}

// promoteStreak is the consecutive-correct count needed to promote past level 0.
const promoteStreak = 2

// demoteStep is how many levels a failure drops.
const demoteStep = 2

// Interval returns the review interval for a mastery level.
// Levels beyond the table use the last entry.
func Interval(level int) time.Duration {
	idx := ClampLevel(level) + 1
	if idx >= len(IntervalHours) {
		idx = len(IntervalHours) - 1
	}
	return time.Duration(IntervalHours[idx]) * time.Hour
}

// ClampLevel bounds a level to [0, MaxMasteryLevel].
func ClampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > model.MaxMasteryLevel {
		return model.MaxMasteryLevel
	}
	return level
}

// ApplyOutcome returns the word stats after one finished play at the given time.
func ApplyOutcome(st model.WordStats, correct bool, at time.Time) model.WordStats {
	next := st
	level := ClampLevel(st.MasteryLevel)
	if correct {
		next.CorrectCount++
		next.ConsecutiveCorrect++
		if level == 0 || next.ConsecutiveCorrect >= promoteStreak {
			level = ClampLevel(level + 1)
			next.ConsecutiveCorrect = 0
		}
	} else {
		next.MissCount++
		next.ConsecutiveCorrect = 0
		level = ClampLevel(level - demoteStep)
	}
	next.MasteryLevel = level

	attempts := next.Attempts()
	next.Accuracy = 100
	if attempts > 0 {
		next.Accuracy = float64(next.CorrectCount) / float64(attempts) * 100
	}

	played := at
	review := at.Add(Interval(level))
	next.LastPlayedAt = &played
	next.NextReviewAt = &review
	return next
}

// TimeDecayScore rates how due a word is for review, in [0, 1].
// Unplayed words score 1.
func TimeDecayScore(st model.WordStats, now time.Time) float64 {
	if st.LastPlayedAt == nil {
		return 1
	}
	interval := Interval(st.MasteryLevel)
	if interval <= 0 {
		return 1
	}
	elapsed := now.Sub(*st.LastPlayedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	ratio := float64(elapsed) / float64(interval)
	switch {
	case ratio < 0.5:
		return 0.1 + ratio*0.2
	case ratio < 1.0:
		return 0.3 + (ratio-0.5)*1.4
	case ratio < 2.0:
		return 1.0
	default:
		// Far overdue words pull back so the most neglected one does not
		// always resurface first.
		return 0.8
	}
}

// IsOverdue reports whether a played word has reached its review time.
func IsOverdue(st model.WordStats, now time.Time) bool {
	return st.LastPlayedAt != nil && st.NextReviewAt != nil && !st.NextReviewAt.After(now)
}
