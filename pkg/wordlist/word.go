package wordlist

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// WordID identifies a Word within its length bucket. It is not
// meaningful across buckets — see GlobalWordID.
type WordID int

// GlobalWordID names a word uniquely across the whole store.
type GlobalWordID struct {
	Length int
	ID     WordID
}

// Word is a normalized entry in the word list: the lowercase letter
// sequence used for matching, the original display string, the glyph
// sequence over that normalized string, a quality score, a derived
// letter-score, and bookkeeping for hidden (auto-added) entries.
type Word struct {
	Normalized  string
	Canonical   string
	Glyphs      []Glyph
	Score       int
	LetterScore int
	Hidden      bool
	SourceIndex int
}

// letterScores is the fixed per-letter point table. Letters absent
// from the table score 3.
var letterScores = map[rune]int{
	'a': 1, 'e': 1, 'i': 1, 'l': 1, 'n': 1, 'o': 1, 'r': 1, 's': 1, 't': 1, 'u': 1,
	'd': 2, 'g': 2,
	'b': 3, 'c': 3, 'm': 3, 'p': 3,
	'f': 4, 'h': 4, 'v': 4, 'w': 4, 'y': 4,
	'k': 5,
	'j': 8, 'x': 8,
	'q': 10, 'z': 10,
}

func letterScore(r rune) int {
	if s, ok := letterScores[r]; ok {
		return s
	}
	return 3
}

// Normalize lowercases, applies canonical Unicode composition (NFC),
// and strips whitespace from raw. An empty result means raw carried no
// letters and callers must reject it rather than store it.
func Normalize(raw string) string {
	composed := norm.NFC.String(raw)
	var b strings.Builder
	b.Grow(len(composed))
	for _, r := range composed {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func sumLetterScores(normalized string) int {
	total := 0
	for _, r := range normalized {
		total += letterScore(r)
	}
	return total
}
