package session

import (
	"time"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/romaji"
	"github.com/verte-zerg/kanatype/internal/stats"
)

// Event is an input to Reduce.
type Event interface {
	event()
}

// KeyPressed is one typed character.
type KeyPressed struct {
	Key string
	At  time.Time
}

// Tick advances the countdown.
type Tick struct {
	Elapsed time.Duration
	At      time.Time
}

// Exit ends the session early.
type Exit struct {
	At time.Time
}

func (KeyPressed) event() {}
func (Tick) event()       {}
func (Exit) event()       {}

// Effect is an output of Reduce for the caller to render or persist.
type Effect interface {
	effect()
}

// Outcome is how a word play ended.
type Outcome int

// Word outcomes.
const (
	OutcomeCorrect Outcome = iota
	OutcomeFailed
	OutcomeIncomplete
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeFailed:
		return "failed"
	default:
		return "incomplete"
	}
}

// WordStarted announces the next word and its countdown in seconds.
type WordStarted struct {
	Word      model.Word
	Index     int
	TimeLimit float64
}

// KeyAccepted reports a keystroke that extended the input.
type KeyAccepted struct {
	Keystroke stats.Keystroke
	Result    romaji.Result
}

// KeyRejected reports a keystroke that matched no spelling. Penalty is in
// seconds.
type KeyRejected struct {
	Keystroke stats.Keystroke
	Expected  string
	Actual    string
	Penalty   float64
}

// WordFinished carries the word's updated stats. Stats equal the previous
// value for incomplete words.
type WordFinished struct {
	Word    model.Word
	Outcome Outcome
	Stats   model.WordStats
	At      time.Time
}

// SessionFinished carries the session summary.
type SessionFinished struct {
	Score model.GameScoreRecord
}

func (WordStarted) effect()     {}
func (KeyAccepted) effect()     {}
func (KeyRejected) effect()     {}
func (WordFinished) effect()    {}
func (SessionFinished) effect() {}
