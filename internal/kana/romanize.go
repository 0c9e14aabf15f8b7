// Package kana converts Japanese readings into the canonical romaji the
// matcher expects.
package kana

import (
	"strings"
	"unicode"
)

var monographs = map[rune]string{
	'あ': "a", 'い': "i", 'う': "u", 'え': "e", 'お': "o",
	'か': "ka", 'き': "ki", 'く': "ku", 'け': "ke", 'こ': "ko",
	'が': "ga", 'ぎ': "gi", 'ぐ': "gu", 'げ': "ge", 'ご': "go",
	'さ': "sa", 'し': "shi", 'す': "su", 'せ': "se", 'そ': "so",
	'ざ': "za", 'じ': "ji", 'ず': "zu", 'ぜ': "ze", 'ぞ': "zo",
	'た': "ta", 'ち': "chi", 'つ': "tsu", 'て': "te", 'と': "to",
	'だ': "da", 'ぢ': "ji", 'づ': "zu", 'で': "de", 'ど': "do",
	'な': "na", 'に': "ni", 'ぬ': "nu", 'ね': "ne", 'の': "no",
	'は': "ha", 'ひ': "hi", 'ふ': "fu", 'へ': "he", 'ほ': "ho",
	'ば': "ba", 'び': "bi", 'ぶ': "bu", 'べ': "be", 'ぼ': "bo",
	'ぱ': "pa", 'ぴ': "pi", 'ぷ': "pu", 'ぺ': "pe", 'ぽ': "po",
	'ま': "ma", 'み': "mi", 'む': "mu", 'め': "me", 'も': "mo",
	'や': "ya", 'ゆ': "yu", 'よ': "yo",
	'ら': "ra", 'り': "ri", 'る': "ru", 'れ': "re", 'ろ': "ro",
	'わ': "wa", 'を': "wo", 'ゔ': "vu",
	'ぁ': "xa", 'ぃ': "xi", 'ぅ': "xu", 'ぇ': "xe", 'ぉ': "xo",
	'ゃ': "xya", 'ゅ': "xyu", 'ょ': "xyo", 'ゎ': "xwa",
}

// digraphs covers a kana followed by a small ya/yu/yo.
var digraphs = map[string]string{
	"きゃ": "kya", "きゅ": "kyu", "きょ": "kyo",
	"ぎゃ": "gya", "ぎゅ": "gyu", "ぎょ": "gyo",
	"しゃ": "sha", "しゅ": "shu", "しぇ": "she", "しょ": "sho",
	"じゃ": "ja", "じゅ": "ju", "じぇ": "je", "じょ": "jo",
	"ちゃ": "cha", "ちゅ": "chu", "ちぇ": "che", "ちょ": "cho",
	"ぢゃ": "ja", "ぢゅ": "ju", "ぢょ": "jo",
	"にゃ": "nya", "にゅ": "nyu", "にょ": "nyo",
	"ひゃ": "hya", "ひゅ": "hyu", "ひょ": "hyo",
	"びゃ": "bya", "びゅ": "byu", "びょ": "byo",
	"ぴゃ": "pya", "ぴゅ": "pyu", "ぴょ": "pyo",
	"みゃ": "mya", "みゅ": "myu", "みょ": "myo",
	"りゃ": "rya", "りゅ": "ryu", "りょ": "ryo",
	"ふぁ": "fa", "ふぃ": "fi", "ふぇ": "fe", "ふぉ": "fo",
	"てぃ": "thi", "でぃ": "dhi", "うぃ": "wi", "うぇ": "we",
}

// Romanize converts hiragana or katakana to Hepburn romaji.
// Characters that are not kana are lowercased and kept.
func Romanize(s string) string {
	runes := []rune(ToHiragana(s))
	var b strings.Builder
	sokuon := false
	for i := 0; i < len(runes); i++ {
		syllable, width := syllableAt(runes, i)
		switch {
		case runes[i] == 'っ':
			sokuon = true
			continue
		case runes[i] == 'ん':
			syllable = "n"
			if next, _ := syllableAt(runes, i+1); next != "" && strings.ContainsRune("aiueoy", rune(next[0])) {
				syllable = "n'"
			}
		case runes[i] == 'ー':
			syllable = "-"
		case syllable == "":
			syllable = strings.ToLower(string(runes[i]))
		}
		if sokuon {
			syllable = geminate(syllable)
			sokuon = false
		}
		b.WriteString(syllable)
		i += width - 1
	}
	if sokuon {
		b.WriteString("xtsu")
	}
	return b.String()
}

func syllableAt(runes []rune, i int) (string, int) {
	if i >= len(runes) {
		return "", 0
	}
	if i+1 < len(runes) {
		if s, ok := digraphs[string(runes[i:i+2])]; ok {
			return s, 2
		}
	}
	if s, ok := monographs[runes[i]]; ok {
		return s, 1
	}
	return "", 1
}

func geminate(syllable string) string {
	if syllable == "" {
		return "xtsu"
	}
	first := syllable[0]
	switch {
	case strings.HasPrefix(syllable, "ch"):
		return "t" + syllable
	case strings.ContainsRune("aiueon-", rune(first)):
		return "xtsu" + syllable
	default:
		return string(first) + syllable
	}
}

// ToHiragana maps katakana to hiragana, leaving other runes unchanged.
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ァ' && r <= 'ヶ' {
			return r - 0x60
		}
		return r
	}, s)
}

// IsKana reports whether s consists only of kana and the long vowel mark.
func IsKana(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r == 'ー' || unicode.In(r, unicode.Hiragana, unicode.Katakana) {
			continue
		}
		return false
	}
	return true
}
