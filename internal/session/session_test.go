package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/stats"
	"github.com/verte-zerg/kanatype/internal/timing"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func testConfig(t *testing.T, romaji ...string) Config {
	t.Helper()
	p, err := timing.Preset(model.PresetNormal)
	require.NoError(t, err)
	words := make([]model.Word, 0, len(romaji))
	for i, r := range romaji {
		words = append(words, model.Word{ID: int64(i + 1), Text: r, Romaji: r, Stats: model.NewWordStats()})
	}
	return Config{
		Words:      words,
		Analyzer:   stats.NewAnalyzer(nil, nil),
		Kps:        timing.KpsStats{Average: 3},
		Limits:     timing.DefaultTimeLimits(),
		Difficulty: p,
		RunID:      "run-1",
	}
}

func typeString(s *Session, text string, start time.Time, step time.Duration) ([]Effect, time.Time) {
	var effects []Effect
	at := start
	for _, r := range text {
		at = at.Add(step)
		effects = append(effects, s.Reduce(KeyPressed{Key: string(r), At: at})...)
	}
	return effects, at
}

func findEffects[T Effect](effects []Effect) []T {
	var out []T
	for _, e := range effects {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func TestNewStartsFirstWord(t *testing.T) {
	s, effects := New(testConfig(t, "neko", "inu"), t0)
	require.Len(t, effects, 1)
	started, ok := effects[0].(WordStarted)
	require.True(t, ok)
	assert.Equal(t, "neko", started.Word.Romaji)
	assert.Equal(t, 0, started.Index)
	assert.Equal(t, 2.2, started.TimeLimit)
	assert.Equal(t, 2.2, s.Remaining())
	assert.False(t, s.Done())
}

func TestNewWithoutWordsFinishes(t *testing.T) {
	s, effects := New(testConfig(t), t0)
	require.Len(t, effects, 1)
	_, ok := effects[0].(SessionFinished)
	assert.True(t, ok)
	assert.True(t, s.Done())
	assert.Nil(t, s.Reduce(KeyPressed{Key: "a", At: t0}))
}

func TestAlternateSpellingCompletesWord(t *testing.T) {
	cfg := testConfig(t, "shika", "neko")
	s, _ := New(cfg, t0)

	effects, _ := typeString(s, "sika", t0, 100*time.Millisecond)
	finished := findEffects[WordFinished](effects)
	require.Len(t, finished, 1)
	assert.Equal(t, OutcomeCorrect, finished[0].Outcome)
	assert.Equal(t, 1, finished[0].Stats.MasteryLevel)
	assert.Equal(t, 1, finished[0].Stats.CorrectCount)

	started := findEffects[WordStarted](effects)
	require.Len(t, started, 1)
	assert.Equal(t, "neko", started[0].Word.Romaji)
	assert.Equal(t, "", s.Input())
}

func TestRejectedKeyAppliesPenalty(t *testing.T) {
	cfg := testConfig(t, "konnichiwa")
	s, _ := New(cfg, t0)
	require.Equal(t, 5.4, s.Remaining())

	s.Reduce(KeyPressed{Key: "k", At: t0.Add(100 * time.Millisecond)})
	effects := s.Reduce(KeyPressed{Key: "x", At: t0.Add(200 * time.Millisecond)})
	require.Len(t, effects, 1)
	rejected, ok := effects[0].(KeyRejected)
	require.True(t, ok)
	assert.Equal(t, "o", rejected.Expected)
	assert.Equal(t, "x", rejected.Actual)
	assert.InDelta(t, 0.27, rejected.Penalty, 1e-9)
	assert.InDelta(t, 5.13, s.Remaining(), 1e-9)
	assert.Equal(t, "k", s.Input())
	assert.Equal(t, 1, s.Misses())
	assert.Equal(t, "k", rejected.Keystroke.Previous)
	assert.False(t, rejected.Keystroke.Correct)

	// Escalates on the second miss.
	effects = s.Reduce(KeyPressed{Key: "z", At: t0.Add(300 * time.Millisecond)})
	rejected = effects[0].(KeyRejected)
	assert.InDelta(t, 0.38, rejected.Penalty, 1e-9)
}

func TestKeystrokesFeedAnalyzer(t *testing.T) {
	cfg := testConfig(t, "ka")
	s, _ := New(cfg, t0)
	s.Reduce(KeyPressed{Key: "k", At: t0.Add(150 * time.Millisecond)})
	s.Reduce(KeyPressed{Key: "e", At: t0.Add(250 * time.Millisecond)})
	s.Reduce(KeyPressed{Key: "a", At: t0.Add(300 * time.Millisecond)})

	keys := cfg.Analyzer.KeyStats()
	require.Len(t, keys, 2)
	assert.Equal(t, "a", keys[0].Key)
	assert.Equal(t, 2, keys[0].TotalCount)
	assert.Equal(t, 1, keys[0].ErrorCount)
	assert.Equal(t, map[string]int{"e": 1}, keys[0].ConfusedWith)
	assert.Equal(t, int64(150), keys[0].LatencySumMs)
	assert.Equal(t, int64(150), keys[1].LatencySumMs)

	transitions := cfg.Analyzer.TransitionStats()
	require.Len(t, transitions, 1)
	assert.Equal(t, model.Transition{From: "k", To: "a"}, transitions[0].Transition)
	assert.Equal(t, 2, transitions[0].TotalCount)
}

func TestTimeoutFailsWordAndEndsSession(t *testing.T) {
	cfg := testConfig(t, "neko", "inu")
	cfg.Words[0].Stats.MasteryLevel = 3
	s, _ := New(cfg, t0)

	var effects []Effect
	at := t0
	for i := 0; i < 30 && !s.Done(); i++ {
		at = at.Add(100 * time.Millisecond)
		effects = append(effects, s.Reduce(Tick{Elapsed: 100 * time.Millisecond, At: at})...)
	}
	require.True(t, s.Done())
	finished := findEffects[WordFinished](effects)
	require.Len(t, finished, 1)
	assert.Equal(t, OutcomeFailed, finished[0].Outcome)
	assert.Equal(t, 1, finished[0].Stats.MasteryLevel)
	assert.Equal(t, 1, finished[0].Stats.MissCount)

	summary := findEffects[SessionFinished](effects)
	require.Len(t, summary, 1)
	assert.Equal(t, 1, summary[0].Score.MissedWords)
	assert.Equal(t, 1, summary[0].Score.TotalWords)
	assert.Equal(t, 0.0, s.Remaining())
	assert.Nil(t, s.Reduce(Tick{Elapsed: time.Second}))
}

func TestExitMarksIncomplete(t *testing.T) {
	cfg := testConfig(t, "neko")
	s, _ := New(cfg, t0)
	s.Reduce(KeyPressed{Key: "n", At: t0.Add(time.Second)})
	effects := s.Reduce(Exit{At: t0.Add(2 * time.Second)})
	require.Len(t, effects, 2)
	finished := effects[0].(WordFinished)
	assert.Equal(t, OutcomeIncomplete, finished.Outcome)
	assert.Equal(t, cfg.Words[0].Stats, finished.Stats)
	assert.True(t, s.Done())
	assert.Nil(t, s.Reduce(KeyPressed{Key: "e", At: t0.Add(3 * time.Second)}))
}

func TestSessionScore(t *testing.T) {
	cfg := testConfig(t, "ne", "ko")
	s, _ := New(cfg, t0)

	var effects []Effect
	effects = append(effects, s.Reduce(KeyPressed{Key: "n", At: t0.Add(500 * time.Millisecond)})...)
	effects = append(effects, s.Reduce(KeyPressed{Key: "q", At: t0.Add(time.Second)})...)
	effects = append(effects, s.Reduce(KeyPressed{Key: "e", At: t0.Add(1500 * time.Millisecond)})...)
	more, _ := typeString(s, "ko", t0.Add(1500*time.Millisecond), 250*time.Millisecond)
	effects = append(effects, more...)

	summary := findEffects[SessionFinished](effects)
	require.Len(t, summary, 1)
	score := summary[0].Score
	assert.Equal(t, "run-1", score.RunID)
	assert.Equal(t, int64(2000), score.DurationMs)
	assert.InDelta(t, 2.0, score.Kps, 1e-9)
	assert.Equal(t, 5, score.TotalKeystrokes)
	assert.InDelta(t, 80.0, score.Accuracy, 1e-9)
	assert.Equal(t, 2, score.CorrectWords)
	assert.Equal(t, 2, score.TotalWords)
	assert.Equal(t, t0.Add(2*time.Second), score.PlayedAt)
	assert.Equal(t, score, s.Score())
}

func TestRepeatedWordSeesUpdatedStats(t *testing.T) {
	cfg := testConfig(t, "e")
	cfg.Words = append(cfg.Words, cfg.Words[0])
	s, _ := New(cfg, t0)
	s.Reduce(KeyPressed{Key: "e", At: t0.Add(time.Second)})
	effects := s.Reduce(KeyPressed{Key: "e", At: t0.Add(2 * time.Second)})
	finished := findEffects[WordFinished](effects)
	require.Len(t, finished, 1)
	assert.Equal(t, 2, finished[0].Stats.CorrectCount)
}

func TestGeneratedRunID(t *testing.T) {
	cfg := testConfig(t, "a")
	cfg.RunID = ""
	s, _ := New(cfg, t0)
	assert.Len(t, s.RunID(), 36)
}

func TestUpcoming(t *testing.T) {
	s, _ := New(testConfig(t, "a", "i", "u", "e"), t0)
	up := s.Upcoming(2)
	require.Len(t, up, 2)
	assert.Equal(t, "i", up[0].Romaji)
	assert.Equal(t, "u", up[1].Romaji)
	assert.Len(t, s.Upcoming(10), 3)

	s.Reduce(Exit{At: t0})
	assert.Nil(t, s.Upcoming(2))
}

func TestNasalBeforeYCompletesWithDoubledN(t *testing.T) {
	s, _ := New(testConfig(t, "kin'youbi", "a"), t0)
	assert.Equal(t, "kinnyoubi", s.Result().MatchedVariant)

	// The third "n" would spell きんにょうび and is rejected.
	effects, _ := typeString(s, "kinnnyoubi", t0, 100*time.Millisecond)
	rejected := findEffects[KeyRejected](effects)
	require.Len(t, rejected, 1)
	assert.Equal(t, "y", rejected[0].Expected)
	assert.Equal(t, "n", rejected[0].Actual)

	finished := findEffects[WordFinished](effects)
	require.Len(t, finished, 1)
	assert.Equal(t, OutcomeCorrect, finished[0].Outcome)
}
