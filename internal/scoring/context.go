// Package scoring ranks candidate words for a practice session.
package scoring

import (
	"time"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/stats"
)

// RecentOutcomeWindow is how many word outcomes feed the rolling correct rate.
const RecentOutcomeWindow = 10

// neutralCorrectRate is used when there is no outcome history.
const neutralCorrectRate = 0.7

// Context is the per-session snapshot consulted by the scorer. It is built
// once when a session starts and never modified afterwards.
type Context struct {
	WeakKeys          map[string]float64
	WeakTransitions   map[model.Transition]float64
	RecentCorrectRate float64
	Mode              model.PracticeMode
	SRSEnabled        bool
	WarmupEnabled     bool
	Now               time.Time
}

// Options are the session toggles copied into a Context.
type Options struct {
	Mode          model.PracticeMode
	SRSEnabled    bool
	WarmupEnabled bool
	Now           time.Time
}

// NewContext builds a scoring context from ranked weak sets and recent
// outcomes, newest first.
func NewContext(weakKeys []stats.WeakKey, weakTransitions []stats.WeakTransition, outcomes []model.WordOutcome, opts Options) Context {
	ctx := Context{
		WeakKeys:          make(map[string]float64, len(weakKeys)),
		WeakTransitions:   make(map[model.Transition]float64, len(weakTransitions)),
		RecentCorrectRate: RecentCorrectRate(outcomes),
		Mode:              opts.Mode,
		SRSEnabled:        opts.SRSEnabled,
		WarmupEnabled:     opts.WarmupEnabled,
		Now:               opts.Now,
	}
	if ctx.Mode == "" {
		ctx.Mode = model.ModeBalanced
	}
	if ctx.Now.IsZero() {
		ctx.Now = time.Now()
	}
	for _, wk := range weakKeys {
		ctx.WeakKeys[wk.Key] = wk.Score
	}
	for _, wt := range weakTransitions {
		ctx.WeakTransitions[wt.Transition] = wt.Score
	}
	return ctx
}

// RecentCorrectRate is the success fraction over the newest outcomes.
func RecentCorrectRate(outcomes []model.WordOutcome) float64 {
	if len(outcomes) > RecentOutcomeWindow {
		outcomes = outcomes[:RecentOutcomeWindow]
	}
	if len(outcomes) == 0 {
		return neutralCorrectRate
	}
	correct := 0
	for _, o := range outcomes {
		if o.Success {
			correct++
		}
	}
	return float64(correct) / float64(len(outcomes))
}
