// Package session runs one practice session as an event reducer.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/romaji"
	"github.com/verte-zerg/kanatype/internal/srs"
	"github.com/verte-zerg/kanatype/internal/stats"
	"github.com/verte-zerg/kanatype/internal/timing"
)

// Config holds everything a session needs up front.
type Config struct {
	Words      []model.Word
	Matcher    *romaji.Matcher
	Analyzer   *stats.Analyzer
	Kps        timing.KpsStats
	Limits     model.TimeLimitConfig
	Difficulty model.DifficultyParams
	RunID      string
}

// Session is the state of one practice run. It is not safe for
// concurrent use.
type Session struct {
	cfg   Config
	words []model.Word

	index     int
	input     string
	result    romaji.Result
	misses    int
	timeLimit float64
	remaining float64
	prevKey   string
	lastAt    time.Time

	startedAt time.Time
	accepted  int
	rejected  int
	correct   int
	missed    int
	finished  int
	done      bool
	score     model.GameScoreRecord
}

// New starts a session at the given time and returns the effects of
// presenting the first word.
func New(cfg Config, start time.Time) (*Session, []Effect) {
	if cfg.Matcher == nil {
		cfg.Matcher = romaji.NewMatcher(0)
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	s := &Session{
		cfg:       cfg,
		words:     append([]model.Word(nil), cfg.Words...),
		startedAt: start,
		lastAt:    start,
	}
	if len(s.words) == 0 {
		return s, s.finish(start)
	}
	return s, s.startWord(0)
}

// Reduce applies one event and returns the resulting effects.
func (s *Session) Reduce(ev Event) []Effect {
	if s.done {
		return nil
	}
	switch e := ev.(type) {
	case KeyPressed:
		return s.key(e)
	case Tick:
		return s.tick(e)
	case Exit:
		return s.exit(e)
	default:
		return nil
	}
}

func (s *Session) key(e KeyPressed) []Effect {
	key := romaji.Normalize(e.Key)
	if key == "" {
		return nil
	}
	word := s.words[s.index]
	latency := e.At.Sub(s.lastAt)
	s.lastAt = e.At

	res := s.cfg.Matcher.Validate(word.Romaji, s.input+key)
	if res.Progress == 0 {
		expected := s.cfg.Matcher.ExpectedNext(word.Romaji, s.input)
		ks := stats.Keystroke{Expected: expected, Actual: key, Latency: latency, Previous: s.prevKey}
		s.record(ks)
		s.rejected++
		s.misses++
		penalty := timing.Penalty(s.misses, s.remaining, s.cfg.Difficulty)
		s.remaining -= penalty
		return []Effect{KeyRejected{Keystroke: ks, Expected: expected, Actual: key, Penalty: penalty}}
	}

	ks := stats.Keystroke{Expected: key, Actual: key, Correct: true, Latency: latency, Previous: s.prevKey}
	s.record(ks)
	s.accepted++
	s.input += key
	s.result = res
	s.prevKey = key
	effects := []Effect{KeyAccepted{Keystroke: ks, Result: res}}
	if !res.IsCorrect {
		return effects
	}
	effects = append(effects, s.finishWord(OutcomeCorrect, e.At))
	if s.index+1 >= len(s.words) {
		return append(effects, s.finish(e.At)...)
	}
	return append(effects, s.startWord(s.index+1)...)
}

func (s *Session) tick(e Tick) []Effect {
	s.remaining -= e.Elapsed.Seconds()
	if s.remaining > 0 {
		return nil
	}
	s.remaining = 0
	at := e.At
	if at.IsZero() {
		at = s.lastAt
	}
	effects := []Effect{s.finishWord(OutcomeFailed, at)}
	return append(effects, s.finish(at)...)
}

func (s *Session) exit(e Exit) []Effect {
	effects := []Effect{s.finishWord(OutcomeIncomplete, e.At)}
	return append(effects, s.finish(e.At)...)
}

func (s *Session) record(ks stats.Keystroke) {
	if s.cfg.Analyzer != nil {
		s.cfg.Analyzer.Record(ks)
	}
}

func (s *Session) startWord(i int) []Effect {
	s.index = i
	s.input = ""
	s.misses = 0
	s.prevKey = ""
	word := s.words[i]
	s.result = romaji.Result{MatchedVariant: s.cfg.Matcher.Variants(word.Romaji)[0]}
	s.timeLimit = timing.WordTimeLimit(word.Romaji, s.cfg.Kps, s.cfg.Limits, s.cfg.Difficulty)
	s.remaining = s.timeLimit
	return []Effect{WordStarted{Word: word, Index: i, TimeLimit: s.timeLimit}}
}

func (s *Session) finishWord(outcome Outcome, at time.Time) Effect {
	word := s.words[s.index]
	next := word.Stats
	switch outcome {
	case OutcomeCorrect:
		next = srs.ApplyOutcome(word.Stats, true, at)
		s.correct++
	case OutcomeFailed:
		next = srs.ApplyOutcome(word.Stats, false, at)
		s.missed++
	}
	s.finished++
	s.words[s.index].Stats = next
	// Later slots may repeat the same word; they see the new stats.
	for i := s.index + 1; i < len(s.words); i++ {
		if s.words[i].ID == word.ID {
			s.words[i].Stats = next
		}
	}
	return WordFinished{Word: word, Outcome: outcome, Stats: next, At: at}
}

func (s *Session) finish(at time.Time) []Effect {
	s.done = true
	durationMs := at.Sub(s.startedAt).Milliseconds()
	if durationMs < 0 {
		durationMs = 0
	}
	kps, accuracy := stats.SessionMetrics(s.accepted, s.rejected, durationMs)
	s.score = model.GameScoreRecord{
		RunID:           s.cfg.RunID,
		Kps:             kps,
		TotalKeystrokes: s.accepted + s.rejected,
		Accuracy:        accuracy,
		CorrectWords:    s.correct,
		MissedWords:     s.missed,
		TotalWords:      s.finished,
		DurationMs:      durationMs,
		PlayedAt:        at,
	}
	return []Effect{SessionFinished{Score: s.score}}
}

// Done reports whether the session has ended.
func (s *Session) Done() bool { return s.done }

// Current returns the word being typed.
func (s *Session) Current() (model.Word, bool) {
	if s.done || len(s.words) == 0 {
		return model.Word{}, false
	}
	return s.words[s.index], true
}

// Index returns the position of the current word.
func (s *Session) Index() int { return s.index }

// Len returns the number of words in the session.
func (s *Session) Len() int { return len(s.words) }

// Input returns the accepted input for the current word.
func (s *Session) Input() string { return s.input }

// Result returns the last validation result for the current word. Before
// the first keystroke it carries only the leading spelling.
func (s *Session) Result() romaji.Result { return s.result }

// Misses returns the rejected keystrokes on the current word.
func (s *Session) Misses() int { return s.misses }

// Remaining returns the seconds left on the countdown.
func (s *Session) Remaining() float64 { return s.remaining }

// TimeLimit returns the countdown the current word started with.
func (s *Session) TimeLimit() float64 { return s.timeLimit }

// Score returns the summary once the session is done.
func (s *Session) Score() model.GameScoreRecord { return s.score }

// RunID identifies the session.
func (s *Session) RunID() string { return s.cfg.RunID }

// Upcoming returns up to n words after the current one.
func (s *Session) Upcoming(n int) []model.Word {
	if s.done || n <= 0 {
		return nil
	}
	start := s.index + 1
	end := start + n
	if end > len(s.words) {
		end = len(s.words)
	}
	if start >= end {
		return nil
	}
	return append([]model.Word(nil), s.words[start:end]...)
}
