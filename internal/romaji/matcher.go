// Package romaji validates typed input against the accepted romanizations
// of a reading.
package romaji

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of memoized variant sets.
const DefaultCacheSize = 4096

// Result describes how far a partial input is along a target.
type Result struct {
	IsCorrect      bool
	Progress       float64
	MatchedVariant string
}

// Matcher expands targets into their accepted spellings and validates input.
// Variant sets are memoized per normalized target string.
type Matcher struct {
	cache *lru.Cache[string, []string]
}

// NewMatcher returns a Matcher that keeps up to size memoized variant sets.
// A non-positive size uses DefaultCacheSize.
func NewMatcher(size int) *Matcher {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []string](size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &Matcher{cache: cache}
}

// Reset drops all memoized variant sets.
func (m *Matcher) Reset() {
	m.cache.Purge()
}

// CacheLen returns the number of memoized variant sets.
func (m *Matcher) CacheLen() int {
	return m.cache.Len()
}

// Variants returns every accepted spelling of target. The canonical spelling
// comes first except for a nasal written "n'", which leads with "nn".
// The returned slice is shared and must not be modified.
func (m *Matcher) Variants(target string) []string {
	return m.expand(Normalize(target))
}

func (m *Matcher) expand(s string) []string {
	if s == "" {
		return []string{""}
	}
	if cached, ok := m.cache.Get(s); ok {
		return cached
	}
	heads, consumed, nasal := splitHead(s)
	tails := m.expand(s[consumed:])
	out := make([]string, 0, len(heads)*len(tails))
	for _, head := range heads {
		for _, tail := range tails {
			// A bare nasal "n" followed by a vowel or "y" spells a different
			// syllable, as with "wo" typed as "o".
			if nasal && head == "n" && beforeOnsetVowel(tail) {
				continue
			}
			out = append(out, head+tail)
		}
	}
	m.cache.Add(s, out)
	return out
}

// Validate checks input against the accepted spellings of target.
// A progress of zero with IsCorrect false means the input is rejected.
func (m *Matcher) Validate(target, input string) Result {
	in := Normalize(input)
	if in == "" {
		return Result{}
	}
	for _, variant := range m.expand(Normalize(target)) {
		if len(in) > len(variant) || variant[:len(in)] != in {
			continue
		}
		return Result{
			IsCorrect:      in == variant,
			Progress:       float64(len(in)) / float64(len(variant)),
			MatchedVariant: variant,
		}
	}
	return Result{}
}

// ExpectedNext returns the next character of the spelling that input is
// following, or "" when input matches nothing or is already complete.
func (m *Matcher) ExpectedNext(target, input string) string {
	in := Normalize(input)
	for _, variant := range m.expand(Normalize(target)) {
		if len(in) >= len(variant) || variant[:len(in)] != in {
			continue
		}
		rest := variant[len(in):]
		for _, r := range rest {
			return string(r)
		}
	}
	return ""
}
