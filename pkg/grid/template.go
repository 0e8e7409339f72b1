package grid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/crossplay/xwordfill/pkg/wordlist"
)

// ErrInconsistentWidth is returned by ParseTemplate when a template's
// rows are not all the same width.
var ErrInconsistentWidth = errors.New("grid: inconsistent row width")

// ErrEmptyTemplate is returned by ParseTemplate for a template with no
// non-blank rows.
var ErrEmptyTemplate = errors.New("grid: empty template")

// Template is a parsed text grid, prior to slot/crossing extraction.
type Template struct {
	Width   int
	Height  int
	Blocked []bool
	// Letters[i] is the pre-filled rune at cell i, or 0 if unfilled.
	Letters []rune
}

// ParseTemplate reads a text grid: one line per row, '#' for a block
// cell, '.' for an empty cell, and any other single rune for a
// pre-filled letter. Leading and trailing blank lines are trimmed.
// Every remaining row must have the same width.
func ParseTemplate(text string) (*Template, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	lines = lines[start:end]

	if len(lines) == 0 {
		return nil, ErrEmptyTemplate
	}

	width := len([]rune(lines[0]))
	if width == 0 {
		return nil, ErrEmptyTemplate
	}

	t := &Template{Width: width, Height: len(lines)}
	t.Blocked = make([]bool, width*len(lines))
	t.Letters = make([]rune, width*len(lines))

	for row, line := range lines {
		runes := []rune(line)
		if len(runes) != width {
			return nil, fmt.Errorf("grid: row %d has width %d, want %d: %w", row, len(runes), width, ErrInconsistentWidth)
		}
		for col, r := range runes {
			idx := row*width + col
			switch r {
			case '#':
				t.Blocked[idx] = true
			case '.':
				// unfilled
			default:
				t.Letters[idx] = r
			}
		}
	}

	return t, nil
}

// NoGlyph marks a cell with no pre-filled letter. Glyph 0 is a valid
// interned glyph, so "unfilled" cannot be the zero value.
const NoGlyph wordlist.Glyph = -1

// glyph resolves the pre-filled rune at idx to a glyph via s, or
// NoGlyph if the cell is unfilled.
func (t *Template) glyph(s *wordlist.Store, idx int) wordlist.Glyph {
	if t.Letters[idx] == 0 {
		return NoGlyph
	}
	r := t.Letters[idx]
	if g, ok := s.Glyphs.Lookup(r); ok {
		return g
	}
	return s.Glyphs.Intern(r)
}
