package wordlist

import (
	"fmt"

	"github.com/verte-zerg/kanatype/internal/kana"
	"github.com/verte-zerg/kanatype/internal/model"
)

// Transliterator returns the reading and romaji of Japanese text.
type Transliterator interface {
	Romaji(text string) (reading, romaji string, err error)
}

// ValidRomaji reports whether every character of s can be typed in
// practice: lowercase ASCII letters and the long vowel dash.
func ValidRomaji(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch < 'a' || ch > 'z') && ch != '-' && ch != '\'' {
			return false
		}
	}
	return true
}

// Complete fills in missing readings and romaji and returns the words that
// can be practiced. Rejected entries are reported as errors.
func Complete(entries []Entry, tr Transliterator) ([]model.Word, []error) {
	words := make([]model.Word, 0, len(entries))
	var errs []error
	for _, e := range entries {
		reading, romaji := e.Reading, e.Romaji
		switch {
		case romaji != "":
		case reading != "":
			romaji = kana.Romanize(reading)
		case tr != nil:
			var err error
			reading, romaji, err = tr.Romaji(e.Text)
			if err != nil {
				errs = append(errs, fmt.Errorf("line %d: %w", e.Line, err))
				continue
			}
		default:
			errs = append(errs, fmt.Errorf("line %d: no reading for %q", e.Line, e.Text))
			continue
		}
		if reading == "" && kana.IsKana(e.Text) {
			reading = kana.ToHiragana(e.Text)
		}
		if !ValidRomaji(romaji) {
			errs = append(errs, fmt.Errorf("line %d: romaji %q is not typeable", e.Line, romaji))
			continue
		}
		words = append(words, model.Word{
			Text:    e.Text,
			Reading: reading,
			Romaji:  romaji,
			Stats:   model.NewWordStats(),
		})
	}
	return words, errs
}
