package scoring

import (
	"math"
	"math/rand"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/srs"
)

const (
	warmupFraction       = 0.15
	warmupEasyThreshold  = 0.4
	warmupHardMultiplier = 0.3
	neutralMultiplier    = 0.5

	recentWindow         = 5
	repeatMultiplier     = 0.7
	accuracyWeight       = 3.0
	transitionKeyWeight  = 2.0
	lengthDifficultyCap  = 0.3
	lengthDifficultyUnit = 15.0
	weakRatioWeight      = 0.35
)

// Weights are the per-mode coefficients of the sub-scores.
type Weights struct {
	Weakness         float64
	TimeDecay        float64
	Novelty          float64
	DifficultyAdjust float64
	Random           float64
}

// WeightsFor returns the weights of a practice mode. Unknown modes are balanced.
func WeightsFor(mode model.PracticeMode) Weights {
	switch mode {
	case model.ModeWeakness:
		return Weights{Weakness: 0.85, Random: 0.15}
	case model.ModeReview:
		return Weights{TimeDecay: 0.90, Random: 0.10}
	case model.ModeRandom:
		return Weights{Random: 1.0}
	default:
		return Weights{Weakness: 0.30, TimeDecay: 0.25, Novelty: 0.15, DifficultyAdjust: 0.15, Random: 0.15}
	}
}

// WordScore is the priority of one word together with the parts it was built from.
type WordScore struct {
	Total            float64
	Weakness         float64
	TimeDecay        float64
	Novelty          float64
	DifficultyAdjust float64
	Random           float64
	// Excluded is set when the word was shown within the last few slots.
	Excluded bool
}

// Slot locates a score request inside a session.
type Slot struct {
	// Index is the zero-based position being filled.
	Index int
	// Length is the number of slots in the session.
	Length int
	// History holds the IDs already selected, oldest first.
	History []int64
}

// Scorer computes word priorities for one session.
type Scorer struct {
	ctx     Context
	weights Weights
	rnd     *rand.Rand
}

// NewScorer returns a scorer bound to a context. rnd supplies the noise term.
func NewScorer(ctx Context, rnd *rand.Rand) *Scorer {
	return &Scorer{ctx: ctx, weights: WeightsFor(ctx.Mode), rnd: rnd}
}

// Score rates a word for the given slot.
func (s *Scorer) Score(word model.Word, slot Slot) WordScore {
	keys := []rune(word.Romaji)
	difficulty := s.Difficulty(keys)
	score := WordScore{
		Weakness:         s.weakness(keys, word.Stats.Accuracy),
		TimeDecay:        0.5,
		Novelty:          Novelty(word.Stats.Attempts()),
		DifficultyAdjust: DifficultyAdjust(difficulty, s.ctx.RecentCorrectRate),
		Random:           s.rnd.Float64(),
	}
	if s.ctx.SRSEnabled {
		score.TimeDecay = srs.TimeDecayScore(word.Stats, s.ctx.Now)
	}
	w := s.weights
	total := score.Weakness*w.Weakness +
		score.TimeDecay*w.TimeDecay +
		score.Novelty*w.Novelty +
		score.DifficultyAdjust*w.DifficultyAdjust +
		score.Random*w.Random
	if s.ctx.WarmupEnabled {
		total *= WarmupMultiplier(difficulty, slot.Index, slot.Length)
	}
	dup := DuplicationMultiplier(word.ID, slot.History)
	score.Excluded = dup == 0
	score.Total = total * dup
	return score
}

func (s *Scorer) weakness(keys []rune, accuracy float64) float64 {
	n := len(keys)
	if n == 0 {
		return 0
	}
	var sum float64
	for i, r := range keys {
		sum += s.ctx.WeakKeys[string(r)]
		if i > 0 {
			tr := model.Transition{From: string(keys[i-1]), To: string(r)}
			sum += s.ctx.WeakTransitions[tr] * transitionKeyWeight
		}
	}
	sum += (1 - accuracy/100) * accuracyWeight
	normalizer := float64(n) + float64(n-1)*transitionKeyWeight + accuracyWeight
	return clamp01(sum / normalizer)
}

// Difficulty estimates how hard a romaji key sequence is for the learner.
func (s *Scorer) Difficulty(keys []rune) float64 {
	n := len(keys)
	if n == 0 {
		return 0
	}
	weakKeys := 0
	for _, r := range keys {
		if _, ok := s.ctx.WeakKeys[string(r)]; ok {
			weakKeys++
		}
	}
	weakTransitions := 0
	for i := 1; i < n; i++ {
		if _, ok := s.ctx.WeakTransitions[model.Transition{From: string(keys[i-1]), To: string(keys[i])}]; ok {
			weakTransitions++
		}
	}
	keyRatio := float64(weakKeys) / float64(n)
	transitionRatio := 0.0
	if n > 1 {
		transitionRatio = float64(weakTransitions) / float64(n-1)
	}
	d := math.Min(float64(n)/lengthDifficultyUnit, lengthDifficultyCap) +
		weakRatioWeight*keyRatio + weakRatioWeight*transitionRatio
	return math.Min(d, 1)
}

// Novelty favours words with few attempts.
func Novelty(attempts int) float64 {
	switch {
	case attempts <= 0:
		return 1
	case attempts <= 2:
		return 0.8 - float64(attempts)*0.15
	case attempts <= 9:
		return 0.4 - float64(attempts)*0.03
	default:
		return 0.1
	}
}

// DifficultyAdjust matches word difficulty to the recent correct rate.
func DifficultyAdjust(difficulty, correctRate float64) float64 {
	switch {
	case correctRate > 0.9:
		if difficulty > 0.5 {
			return 0.8
		}
		return 0.3
	case correctRate < 0.5:
		if difficulty < 0.4 {
			return 0.8
		}
		return 0.3
	default:
		return 0.5
	}
}

// WarmupWindow is the number of leading slots that get the warmup treatment.
func WarmupWindow(length int) int {
	if length <= 0 {
		return 0
	}
	return int(math.Ceil(warmupFraction * float64(length)))
}

// WarmupMultiplier favours easy words early in a session.
func WarmupMultiplier(difficulty float64, index, length int) float64 {
	window := WarmupWindow(length)
	if index >= window {
		return neutralMultiplier
	}
	if difficulty >= warmupEasyThreshold {
		return warmupHardMultiplier
	}
	progress := float64(index) / float64(window)
	return 1 - (1-neutralMultiplier)*progress
}

// DuplicationMultiplier suppresses words that were already selected.
// Words among the most recent picks are excluded outright.
func DuplicationMultiplier(id int64, history []int64) float64 {
	start := len(history) - recentWindow
	if start < 0 {
		start = 0
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i] != id {
			continue
		}
		if i >= start {
			return 0
		}
		return repeatMultiplier
	}
	return 1
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
