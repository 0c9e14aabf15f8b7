package romaji

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// alternates maps canonical Hepburn spellings to the other spellings
// a romaji IME accepts for the same kana.
var alternates = map[string][]string{
	"shi": {"si", "ci"},
	"sha": {"sya"},
	"shu": {"syu"},
	"she": {"sye"},
	"sho": {"syo"},
	"chi": {"ti"},
	"cha": {"tya", "cya"},
	"chu": {"tyu", "cyu"},
	"che": {"tye", "cye"},
	"cho": {"tyo", "cyo"},
	"tsu": {"tu"},
	"fu":  {"hu"},
	"ji":  {"zi"},
	"ja":  {"zya", "jya"},
	"ju":  {"zyu", "jyu"},
	"je":  {"zye", "jye"},
	"jo":  {"zyo", "jyo"},
	"wo":  {"o"},
}

// nasalSpellings are the accepted spellings of a moraic nasal.
var nasalSpellings = []string{"n", "nn", "xn"}

// stopSpellings are the spellings of a moraic nasal followed by a vowel
// or "y", where the bare form would be ambiguous.
var stopSpellings = []string{"nn", "xn", "n'"}

// canonicalKeys holds the alternates keys, longest first.
var canonicalKeys = func() []string {
	keys := make([]string, 0, len(alternates))
	for k := range alternates {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) == len(keys[j]) {
			return keys[i] < keys[j]
		}
		return len(keys[i]) > len(keys[j])
	})
	return keys
}()

// Normalize lowercases s and strips all whitespace.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// splitHead returns the spellings accepted for the head of s, the length
// of the canonical head it consumed, and whether the head is a moraic nasal.
func splitHead(s string) ([]string, int, bool) {
	for _, key := range canonicalKeys {
		if strings.HasPrefix(s, key) {
			out := make([]string, 0, len(alternates[key])+1)
			out = append(out, key)
			out = append(out, alternates[key]...)
			return out, len(key), false
		}
	}
	if strings.HasPrefix(s, "n'") || strings.HasPrefix(s, "xn") {
		// Before a vowel or "y" a bare "n" would read as an onset.
		if beforeOnsetVowel(s[2:]) {
			return stopSpellings, 2, true
		}
		return nasalSpellings, 2, true
	}
	if isMoraicNasal(s) {
		return nasalSpellings, 1, true
	}
	_, size := utf8.DecodeRuneInString(s)
	return []string{s[:size]}, size, false
}

// beforeOnsetVowel reports whether s starts with a vowel or "y".
func beforeOnsetVowel(s string) bool {
	return s != "" && strings.IndexByte("aiueoy", s[0]) >= 0
}

// isMoraicNasal reports whether s starts with an "n" that is not the onset
// of a na/ni/nu/ne/no/nya syllable.
func isMoraicNasal(s string) bool {
	if s == "" || s[0] != 'n' {
		return false
	}
	if len(s) == 1 {
		return true
	}
	return !beforeOnsetVowel(s[1:])
}
