// Package generator orders practice words for a session.
package generator

import (
	"math/rand"
	"sort"
	"time"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/scoring"
	"github.com/verte-zerg/kanatype/internal/srs"
)

const (
	priorityFraction = 0.3
	minPriorityWords = 5
)

// Generator selects practice words.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand returns a Generator using rnd for all randomness.
func NewWithRand(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Select returns count words for a session. Balanced mode scores every
// candidate per slot; the other modes repeat their ordering of the pool.
func (g *Generator) Select(words []model.Word, count int, ctx scoring.Context) []model.Word {
	if len(words) == 0 || count <= 0 {
		return nil
	}
	if ctx.Mode == model.ModeBalanced {
		return g.selectBalanced(words, count, ctx)
	}
	result := make([]model.Word, 0, count)
	for len(result) < count {
		ordered := g.Order(words, ctx.Mode, ctx.Now)
		need := count - len(result)
		if need > len(ordered) {
			need = len(ordered)
		}
		result = append(result, ordered[:need]...)
	}
	return result
}

// Order arranges the whole pool according to a single-criterion mode.
// The input slice is not modified.
func (g *Generator) Order(words []model.Word, mode model.PracticeMode, now time.Time) []model.Word {
	switch mode {
	case model.ModeWeakness:
		return g.orderWeakness(words)
	case model.ModeReview:
		return g.orderReview(words, now)
	default:
		out := append([]model.Word(nil), words...)
		g.shuffle(out)
		return out
	}
}

func (g *Generator) orderWeakness(words []model.Word) []model.Word {
	played := make([]model.Word, 0, len(words))
	unplayed := make([]model.Word, 0)
	for _, w := range words {
		if w.Stats.Played() {
			played = append(played, w)
		} else {
			unplayed = append(unplayed, w)
		}
	}
	sort.SliceStable(played, func(i, j int) bool {
		return played[i].Stats.Accuracy < played[j].Stats.Accuracy
	})
	g.shuffle(unplayed)
	sorted := append(played, unplayed...)

	priority := int(float64(len(sorted)) * priorityFraction)
	if priority < minPriorityWords {
		priority = minPriorityWords
	}
	if priority > len(sorted) {
		priority = len(sorted)
	}
	head := append([]model.Word(nil), sorted[:priority]...)
	tail := append([]model.Word(nil), sorted[priority:]...)
	g.shuffle(head)
	g.shuffle(tail)
	return append(head, tail...)
}

func (g *Generator) orderReview(words []model.Word, now time.Time) []model.Word {
	overdue := make([]model.Word, 0, len(words))
	rest := make([]model.Word, 0, len(words))
	for _, w := range words {
		if srs.IsOverdue(w.Stats, now) {
			overdue = append(overdue, w)
		} else {
			rest = append(rest, w)
		}
	}
	g.shuffle(overdue)
	g.shuffle(rest)
	return append(overdue, rest...)
}

func (g *Generator) selectBalanced(words []model.Word, count int, ctx scoring.Context) []model.Word {
	scorer := scoring.NewScorer(ctx, g.rnd)
	result := make([]model.Word, 0, count)
	history := make([]int64, 0, count)
	for slot := 0; slot < count; slot++ {
		best, fallback := -1, -1
		bestScore := 0.0
		for i, w := range words {
			score := scorer.Score(w, scoring.Slot{Index: slot, Length: count, History: history})
			if score.Excluded {
				if fallback < 0 || lastSeen(words[i].ID, history) < lastSeen(words[fallback].ID, history) {
					fallback = i
				}
				continue
			}
			if best < 0 || score.Total > bestScore {
				best, bestScore = i, score.Total
			}
		}
		if best < 0 {
			best = fallback
		}
		result = append(result, words[best])
		history = append(history, words[best].ID)
	}
	return result
}

// lastSeen returns the most recent history index of id, or -1.
func lastSeen(id int64, history []int64) int {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i] == id {
			return i
		}
	}
	return -1
}

func (g *Generator) shuffle(words []model.Word) {
	g.rnd.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
}
