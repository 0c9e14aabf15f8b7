package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s     string
	width int
}

// styledWord is one romaji word rendered rune by rune.
type styledWord []styledRune

func (w styledWord) width() int {
	total := 0
	for _, r := range w {
		total += r.width
	}
	return total
}

// styleRomaji styles the spelling being typed followed by the upcoming
// words. The first typed runes of current are done and the cursor sits on
// the next one, flagged when missed is set.
func styleRomaji(current string, typed int, missed bool, upcoming []string) []styledWord {
	words := make([]styledWord, 0, len(upcoming)+1)
	cur := []rune(current)
	word := make(styledWord, 0, len(cur))
	for i, r := range cur {
		style := currentWordStyle
		switch {
		case i < typed:
			style = correctStyle
		case i == typed && missed:
			style = incorrectStyle.Underline(true)
		case i == typed:
			style = currentWordStyle.Underline(true)
		}
		word = append(word, styledRune{s: style.Render(string(r)), width: runewidth.RuneWidth(r)})
	}
	words = append(words, word)
	for _, next := range upcoming {
		word := make(styledWord, 0, len(next))
		for _, r := range next {
			word = append(word, styledRune{s: pendingStyle.Render(string(r)), width: runewidth.RuneWidth(r)})
		}
		words = append(words, word)
	}
	return words
}

// layoutWords joins words with single spaces and wraps them to width
// columns. A word wider than a line is split. A non-positive width
// disables wrapping.
func layoutWords(words []styledWord, width int) string {
	var out strings.Builder
	lineWidth := 0
	for i, word := range words {
		if i > 0 {
			if width > 0 && lineWidth > 0 && lineWidth+1+word.width() > width {
				out.WriteByte('\n')
				lineWidth = 0
			} else {
				out.WriteByte(' ')
				lineWidth++
			}
		}
		for _, r := range word {
			if width > 0 && lineWidth > 0 && lineWidth+r.width > width {
				out.WriteByte('\n')
				lineWidth = 0
			}
			out.WriteString(r.s)
			lineWidth += r.width
		}
	}
	return out.String()
}
