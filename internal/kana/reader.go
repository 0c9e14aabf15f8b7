package kana

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// readingFeature is the index of the katakana reading in IPA features.
const readingFeature = 7

// Reader looks up readings of Japanese text.
type Reader struct {
	t *tokenizer.Tokenizer
}

// NewReader loads the IPA dictionary tokenizer.
func NewReader() (*Reader, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("failed to create tokenizer: %w", err)
	}
	return &Reader{t: t}, nil
}

// Reading returns the hiragana reading of text. Kana-only text is returned
// as hiragana without tokenizing.
func (r *Reader) Reading(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("text is empty")
	}
	if IsKana(text) {
		return ToHiragana(text), nil
	}
	var b strings.Builder
	for _, token := range r.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY || strings.TrimSpace(token.Surface) == "" {
			continue
		}
		features := token.Features()
		switch {
		case len(features) > readingFeature && features[readingFeature] != "*":
			b.WriteString(features[readingFeature])
		case IsKana(token.Surface):
			b.WriteString(token.Surface)
		default:
			return "", fmt.Errorf("no reading for %q", token.Surface)
		}
	}
	return ToHiragana(b.String()), nil
}

// Romaji returns the canonical romaji of text via its reading.
func (r *Reader) Romaji(text string) (reading, romaji string, err error) {
	reading, err = r.Reading(text)
	if err != nil {
		return "", "", err
	}
	return reading, Romanize(reading), nil
}
