package grid

import (
	"regexp"

	"github.com/crossplay/xwordfill/pkg/wordlist"
)

// SlotOptions describes the inputs to candidate enumeration for one
// slot: the current per-cell pre-fill, a minimum score, and optional
// regex/allow-set overrides.
type SlotOptions struct {
	// PreFill[i] is the glyph pre-filled at cell i, or NoGlyph if open.
	PreFill  []wordlist.Glyph
	MinScore int
	Regex    *regexp.Regexp
	// Allow, if non-nil, exempts its members from the score/regex/hidden
	// checks entirely.
	Allow map[wordlist.WordID]bool
}

// Candidates enumerates every WordID in store eligible to fill a slot
// of the given length under opts, in the length bucket's natural
// (insertion) order. If every cell in opts.PreFill is filled, the
// result is the single word spelled out by those cells — an existing
// entry if one is registered, otherwise a newly created hidden entry.
func Candidates(store *wordlist.Store, length int, opts SlotOptions) ([]wordlist.WordID, error) {
	allFilled := true
	for _, g := range opts.PreFill {
		if g == NoGlyph {
			allFilled = false
			break
		}
	}

	if allFilled {
		normalized := spellOut(store, opts.PreFill)
		id, err := store.LookupOrAddHidden(normalized)
		if err != nil {
			return nil, err
		}
		return []wordlist.WordID{id.ID}, nil
	}

	bucket := store.Bucket(length)
	if bucket == nil {
		return nil, nil
	}

	out := make([]wordlist.WordID, 0, len(bucket.Words))
	for i := range bucket.Words {
		w := &bucket.Words[i]
		id := wordlist.WordID(i)

		if !matchesPreFill(w, opts.PreFill) {
			continue
		}

		if opts.Allow != nil && opts.Allow[id] {
			out = append(out, id)
			continue
		}

		if w.Hidden {
			continue
		}
		if w.Score < opts.MinScore {
			continue
		}
		if opts.Regex != nil && !opts.Regex.MatchString(w.Normalized) {
			continue
		}
		out = append(out, id)
	}

	return out, nil
}

func matchesPreFill(w *wordlist.Word, preFill []wordlist.Glyph) bool {
	for i, g := range preFill {
		if g == NoGlyph {
			continue
		}
		if i >= len(w.Glyphs) || w.Glyphs[i] != g {
			return false
		}
	}
	return true
}

func spellOut(store *wordlist.Store, glyphs []wordlist.Glyph) string {
	runes := make([]rune, len(glyphs))
	for i, g := range glyphs {
		runes[i] = store.Glyphs.Rune(g)
	}
	return string(runes)
}
