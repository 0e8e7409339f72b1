// Package output renders a solved grid.GridConfig (paired with the
// fill.Result that completed it) into the text round-trip format and
// three export formats (plain JSON, ipuz, AcrossLite .puz). None of
// them carry clue text: this system never generates clues, only
// answers, numbers, and positions.
package output

import (
	"errors"
	"strings"

	"github.com/crossplay/xwordfill/pkg/fill"
	"github.com/crossplay/xwordfill/pkg/grid"
	"github.com/crossplay/xwordfill/pkg/wordlist"
)

// ErrNotSuccess is returned by every renderer when result.Outcome is
// not fill.Success: there is nothing to render.
var ErrNotSuccess = errors.New("output: result outcome is not Success")

// Entry is one solved slot: its clue number, direction, grid position,
// and the answer the search settled on.
type Entry struct {
	Number    int
	Direction grid.Direction
	Row       int
	Col       int
	Length    int
	Answer    string
}

// answers resolves every Choice to its Word and returns the completed
// per-cell glyph grid plus one Entry per slot, sorted by clue number
// then Across-before-Down.
func answers(cfg *grid.GridConfig, result fill.Result) ([]wordlist.Glyph, []Entry, error) {
	if result.Outcome != fill.Success {
		return nil, nil, ErrNotSuccess
	}

	store := cfg.Words()
	letters := make([]wordlist.Glyph, len(cfg.Fill))
	copy(letters, cfg.Fill)

	bySlot := make(map[int]int, len(result.Choices))
	for _, c := range result.Choices {
		bySlot[c.SlotID] = c.WordID
	}

	entries := make([]Entry, 0, len(cfg.Slots))
	for _, slot := range cfg.Slots {
		wordID, ok := bySlot[slot.ID]
		if !ok {
			return nil, nil, errors.New("output: result has no choice for a slot in cfg")
		}
		word := store.Word(wordlist.GlobalWordID{Length: slot.Length, ID: wordlist.WordID(wordID)})

		for i, g := range word.Glyphs {
			row, col := cellPos(slot, i)
			letters[cfg.CellIndex(row, col)] = g
		}

		entries = append(entries, Entry{
			Number:    slot.Number,
			Direction: slot.Direction,
			Row:       slot.StartRow,
			Col:       slot.StartCol,
			Length:    slot.Length,
			Answer:    word.Canonical,
		})
	}

	sortEntries(entries)
	return letters, entries, nil
}

func cellPos(slot *grid.Slot, i int) (row, col int) {
	if slot.Direction == grid.Across {
		return slot.StartRow, slot.StartCol + i
	}
	return slot.StartRow + i, slot.StartCol
}

func sortEntries(entries []Entry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && lessEntry(entries[j], entries[j-1]); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

func lessEntry(a, b Entry) bool {
	if a.Number != b.Number {
		return a.Number < b.Number
	}
	return a.Direction == grid.Across && b.Direction == grid.Down
}

// RenderText overlays result.Choices onto cfg's fill array and renders
// it back to the same text format ParseTemplate accepts: one line per
// row, '#' for blocks, the solved letter everywhere else.
func RenderText(cfg *grid.GridConfig, result fill.Result) (string, error) {
	letters, _, err := answers(cfg, result)
	if err != nil {
		return "", err
	}

	glyphs := cfg.Words().Glyphs
	var b strings.Builder
	for row := 0; row < cfg.Height; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < cfg.Width; col++ {
			idx := cfg.CellIndex(row, col)
			if cfg.Blocked[idx] {
				b.WriteByte('#')
				continue
			}
			b.WriteRune(glyphs.Rune(letters[idx]))
		}
	}
	return b.String(), nil
}
