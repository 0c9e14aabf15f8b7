package stats

import (
	"context"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	// Scores are ordered oldest first.
	Scores          []model.GameScoreRecord
	Keys            []model.KeyStats
	Transitions     []model.KeyTransitionStats
	WeakKeys        []WeakKey
	WeakTransitions []WeakTransition
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	scores, err := st.ListRecentScores(ctx, cfg.Last)
	if err != nil {
		return Report{}, err
	}
	for i, j := 0, len(scores)-1; i < j; i, j = i+1, j-1 {
		scores[i], scores[j] = scores[j], scores[i]
	}

	keys, transitions, err := st.LoadKeyStats(ctx)
	if err != nil {
		return Report{}, err
	}
	top := cfg.WeakKeys
	if top <= 0 {
		top = DefaultWeakKeys
	}
	return Report{
		Scores:          scores,
		Keys:            keys,
		Transitions:     transitions,
		WeakKeys:        SelectWeakKeys(keys, top),
		WeakTransitions: SelectWeakTransitions(transitions, DefaultWeakTransitions),
	}, nil
}
