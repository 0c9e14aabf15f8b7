package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/kanatype/internal/model"
)

const (
	// MinSampleCount is the number of keystrokes a key or transition needs
	// before it can be ranked.
	MinSampleCount = 3
	// DefaultWeakKeys is how many keys the weak set keeps.
	DefaultWeakKeys = 15
	// DefaultWeakTransitions is how many transitions the weak set keeps.
	DefaultWeakTransitions = 20

	errorWeight   = 0.6
	latencyWeight = 0.4
	latencyCap    = 500 * time.Millisecond
)

// Keystroke is one key press as seen by the analyzer.
// Previous is empty for the first key of a word.
type Keystroke struct {
	Expected string
	Actual   string
	Correct  bool
	Latency  time.Duration
	Previous string
}

// Analyzer accumulates per-key and per-transition statistics.
type Analyzer struct {
	keys        map[string]*model.KeyStats
	transitions map[model.Transition]*model.KeyTransitionStats
}

// NewAnalyzer seeds an analyzer with previously aggregated stats.
// The inputs are copied.
func NewAnalyzer(keys []model.KeyStats, transitions []model.KeyTransitionStats) *Analyzer {
	a := &Analyzer{
		keys:        make(map[string]*model.KeyStats, len(keys)),
		transitions: make(map[model.Transition]*model.KeyTransitionStats, len(transitions)),
	}
	for _, ks := range keys {
		entry := ks
		entry.ConfusedWith = cloneCounts(ks.ConfusedWith)
		a.keys[ks.Key] = &entry
	}
	for _, ts := range transitions {
		entry := ts
		entry.ConfusedWith = cloneCounts(ts.ConfusedWith)
		a.transitions[ts.Transition] = &entry
	}
	return a
}

// Record adds one keystroke.
func (a *Analyzer) Record(k Keystroke) {
	if k.Expected == "" {
		return
	}
	latencyMs := k.Latency.Milliseconds()
	if latencyMs < 0 {
		latencyMs = 0
	}

	key, ok := a.keys[k.Expected]
	if !ok {
		key = &model.KeyStats{Key: k.Expected, ConfusedWith: map[string]int{}}
		a.keys[k.Expected] = key
	}
	key.TotalCount++
	key.LatencySumMs += latencyMs
	if !k.Correct {
		key.ErrorCount++
		key.ConfusedWith[k.Actual]++
	}

	if k.Previous == "" {
		return
	}
	tr := model.Transition{From: k.Previous, To: k.Expected}
	trStats, ok := a.transitions[tr]
	if !ok {
		trStats = &model.KeyTransitionStats{Transition: tr, ConfusedWith: map[string]int{}}
		a.transitions[tr] = trStats
	}
	trStats.TotalCount++
	trStats.LatencySumMs += latencyMs
	if !k.Correct {
		trStats.ErrorCount++
		trStats.ConfusedWith[k.Actual]++
	}
}

// KeyStats returns a copy of the key aggregates sorted by key.
func (a *Analyzer) KeyStats() []model.KeyStats {
	out := make([]model.KeyStats, 0, len(a.keys))
	for _, ks := range a.keys {
		entry := *ks
		entry.ConfusedWith = cloneCounts(ks.ConfusedWith)
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// TransitionStats returns a copy of the transition aggregates sorted by pair.
func (a *Analyzer) TransitionStats() []model.KeyTransitionStats {
	out := make([]model.KeyTransitionStats, 0, len(a.transitions))
	for _, ts := range a.transitions {
		entry := *ts
		entry.ConfusedWith = cloneCounts(ts.ConfusedWith)
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Transition.String() < out[j].Transition.String() })
	return out
}

// WeakKey is a ranked key.
type WeakKey struct {
	Key   string
	Score float64
}

// WeakTransition is a ranked transition.
type WeakTransition struct {
	Transition model.Transition
	Score      float64
}

// WeaknessScore combines error rate and average latency into [0, 1].
func WeaknessScore(total, errors int, latencySumMs int64) float64 {
	if total <= 0 {
		return 0
	}
	errorRate := float64(errors) / float64(total)
	avgLatency := float64(latencySumMs) / float64(total)
	latencyRatio := avgLatency / float64(latencyCap.Milliseconds())
	if latencyRatio > 1 {
		latencyRatio = 1
	}
	return errorRate*errorWeight + latencyRatio*latencyWeight
}

// SelectWeakKeys ranks keys with enough samples by weakness, highest first.
func SelectWeakKeys(keys []model.KeyStats, top int) []WeakKey {
	ranked := make([]WeakKey, 0, len(keys))
	for _, ks := range keys {
		if ks.TotalCount < MinSampleCount {
			continue
		}
		ranked = append(ranked, WeakKey{Key: ks.Key, Score: WeaknessScore(ks.TotalCount, ks.ErrorCount, ks.LatencySumMs)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score == ranked[j].Score {
			return ranked[i].Key < ranked[j].Key
		}
		return ranked[i].Score > ranked[j].Score
	})
	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}
	return ranked
}

// SelectWeakTransitions ranks transitions with enough samples by weakness.
func SelectWeakTransitions(transitions []model.KeyTransitionStats, top int) []WeakTransition {
	ranked := make([]WeakTransition, 0, len(transitions))
	for _, ts := range transitions {
		if ts.TotalCount < MinSampleCount {
			continue
		}
		ranked = append(ranked, WeakTransition{
			Transition: ts.Transition,
			Score:      WeaknessScore(ts.TotalCount, ts.ErrorCount, ts.LatencySumMs),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score == ranked[j].Score {
			return ranked[i].Transition.String() < ranked[j].Transition.String()
		}
		return ranked[i].Score > ranked[j].Score
	})
	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}
	return ranked
}

func cloneCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
