package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/kanatype/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "kanatype.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestWordRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	id, err := st.AddWord(ctx, model.Word{Text: "寿司", Reading: "すし", Romaji: "sushi", CreatedAt: created})
	if err != nil {
		t.Fatalf("add word: %v", err)
	}

	words, err := st.ListWords(ctx)
	if err != nil {
		t.Fatalf("list words: %v", err)
	}
	if len(words) != 1 {
		t.Fatalf("expected 1 word, got %d", len(words))
	}
	got := words[0]
	if got.ID != id || got.Romaji != "sushi" || got.Reading != "すし" {
		t.Fatalf("unexpected word: %+v", got)
	}
	if got.Stats.MasteryLevel != 0 || got.Stats.Accuracy != 100 || got.Stats.Played() {
		t.Fatalf("unexpected initial stats: %+v", got.Stats)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created at mismatch: %v", got.CreatedAt)
	}

	played := created.Add(time.Hour)
	next := played.Add(6 * time.Hour)
	stats := model.WordStats{
		CorrectCount:       3,
		MissCount:          1,
		LastPlayedAt:       &played,
		Accuracy:           75,
		MasteryLevel:       2,
		NextReviewAt:       &next,
		ConsecutiveCorrect: 2,
	}
	if err := st.SaveWordStats(ctx, id, stats); err != nil {
		t.Fatalf("save stats: %v", err)
	}
	words, err = st.ListWords(ctx)
	if err != nil {
		t.Fatalf("list words: %v", err)
	}
	gotStats := words[0].Stats
	if gotStats.CorrectCount != 3 || gotStats.MissCount != 1 || gotStats.MasteryLevel != 2 || gotStats.ConsecutiveCorrect != 2 {
		t.Fatalf("unexpected stats: %+v", gotStats)
	}
	if gotStats.LastPlayedAt == nil || !gotStats.LastPlayedAt.Equal(played) {
		t.Fatalf("last played mismatch: %v", gotStats.LastPlayedAt)
	}
	if gotStats.NextReviewAt == nil || !gotStats.NextReviewAt.Equal(next) {
		t.Fatalf("next review mismatch: %v", gotStats.NextReviewAt)
	}
}

func TestAddWordUpdatesExisting(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first, err := st.AddWord(ctx, model.Word{Text: "箸", Reading: "はし", Romaji: "hashi"})
	if err != nil {
		t.Fatalf("add word: %v", err)
	}
	second, err := st.AddWord(ctx, model.Word{Text: "箸", Reading: "はし", Romaji: "hasi"})
	if err != nil {
		t.Fatalf("add word again: %v", err)
	}
	if first != second {
		t.Fatalf("expected same id, got %d and %d", first, second)
	}
	words, err := st.ListWords(ctx)
	if err != nil {
		t.Fatalf("list words: %v", err)
	}
	if len(words) != 1 || words[0].Romaji != "hasi" {
		t.Fatalf("unexpected words: %+v", words)
	}
}

func TestDeleteWord(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.AddWord(ctx, model.Word{Text: "ねこ", Reading: "ねこ", Romaji: "neko"})
	if err != nil {
		t.Fatalf("add word: %v", err)
	}
	if err := st.AppendOutcome(ctx, model.WordOutcome{WordID: id, Success: true, PlayedAt: time.Now()}); err != nil {
		t.Fatalf("append outcome: %v", err)
	}
	if err := st.DeleteWord(ctx, id); err != nil {
		t.Fatalf("delete word: %v", err)
	}
	outcomes, err := st.RecentOutcomes(ctx, 10)
	if err != nil {
		t.Fatalf("recent outcomes: %v", err)
	}
	if len(outcomes) != 0 {
		t.Fatalf("expected outcomes removed, got %d", len(outcomes))
	}
	if err := st.DeleteWord(ctx, id); err == nil {
		t.Fatalf("expected error deleting missing word")
	}
}

func TestRecentOutcomesNewestFirst(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		outcome := model.WordOutcome{WordID: int64(i), Success: i%2 == 0, PlayedAt: base.Add(time.Duration(i) * time.Second)}
		if err := st.AppendOutcome(ctx, outcome); err != nil {
			t.Fatalf("append outcome: %v", err)
		}
	}
	outcomes, err := st.RecentOutcomes(ctx, 10)
	if err != nil {
		t.Fatalf("recent outcomes: %v", err)
	}
	if len(outcomes) != 10 {
		t.Fatalf("expected 10 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].WordID != 11 || outcomes[0].Success {
		t.Fatalf("unexpected newest outcome: %+v", outcomes[0])
	}
	if outcomes[9].WordID != 2 || !outcomes[9].Success {
		t.Fatalf("unexpected oldest outcome: %+v", outcomes[9])
	}
}

func TestListRecentScores(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := st.AppendScore(ctx, model.GameScoreRecord{
			RunID:           "run",
			Kps:             float64(i + 1),
			TotalKeystrokes: 10,
			Accuracy:        90,
			CorrectWords:    2,
			MissedWords:     1,
			TotalWords:      3,
			DurationMs:      5000,
			PlayedAt:        base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("append score: %v", err)
		}
	}
	all, err := st.ListRecentScores(ctx, 0)
	if err != nil {
		t.Fatalf("list scores: %v", err)
	}
	if len(all) != 3 || all[0].Kps != 3 {
		t.Fatalf("unexpected scores: %+v", all)
	}
	last, err := st.ListRecentScores(ctx, 1)
	if err != nil {
		t.Fatalf("list scores: %v", err)
	}
	if len(last) != 1 || last[0].Kps != 3 || last[0].MissedWords != 1 {
		t.Fatalf("unexpected last score: %+v", last)
	}
}

func TestListRecentTimedScoresSkipsUntimedRuns(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	records := []model.GameScoreRecord{
		{RunID: "a", Kps: 2, TotalKeystrokes: 10, DurationMs: 5000},
		{RunID: "b", Kps: 4, TotalKeystrokes: 20, DurationMs: 5000},
		// Only rejected keys.
		{RunID: "c", Kps: 0, TotalKeystrokes: 6, DurationMs: 3000},
	}
	for i, rec := range records {
		rec.PlayedAt = base.Add(time.Duration(i) * time.Minute)
		if _, err := st.AppendScore(ctx, rec); err != nil {
			t.Fatalf("append score: %v", err)
		}
	}
	got, err := st.ListRecentTimedScores(ctx, 2)
	if err != nil {
		t.Fatalf("list timed scores: %v", err)
	}
	if len(got) != 2 || got[0].RunID != "b" || got[1].RunID != "a" {
		t.Fatalf("unexpected timed scores: %+v", got)
	}
}

func TestSaveKeyStatsReplaces(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	keys := []model.KeyStats{
		{Key: "a", TotalCount: 5, ErrorCount: 1, LatencySumMs: 500, ConfusedWith: map[string]int{"s": 1}},
		{Key: "k", TotalCount: 3, LatencySumMs: 300},
	}
	transitions := []model.KeyTransitionStats{
		{Transition: model.Transition{From: "k", To: "a"}, TotalCount: 3, ErrorCount: 1, LatencySumMs: 450, ConfusedWith: map[string]int{"s": 1}},
	}
	if err := st.SaveKeyStats(ctx, keys, transitions); err != nil {
		t.Fatalf("save key stats: %v", err)
	}

	keys[0].TotalCount = 6
	keys = keys[:1]
	if err := st.SaveKeyStats(ctx, keys, transitions); err != nil {
		t.Fatalf("save key stats again: %v", err)
	}

	gotKeys, gotTransitions, err := st.LoadKeyStats(ctx)
	if err != nil {
		t.Fatalf("load key stats: %v", err)
	}
	if len(gotKeys) != 1 || gotKeys[0].TotalCount != 6 || gotKeys[0].ConfusedWith["s"] != 1 {
		t.Fatalf("unexpected keys: %+v", gotKeys)
	}
	if len(gotTransitions) != 1 {
		t.Fatalf("expected 1 transition, got %d", len(gotTransitions))
	}
	tr := gotTransitions[0]
	if tr.Transition.String() != "ka" || tr.ErrorCount != 1 || tr.ConfusedWith["s"] != 1 {
		t.Fatalf("unexpected transition: %+v", tr)
	}
}
