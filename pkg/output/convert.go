package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/crossplay/xwordfill/pkg/grid"
)

// The functions in this file convert an already-rendered PuzzleJSON
// document into the other export formats, without needing the
// grid.GridConfig/fill.Result pair that produced it. They exist for
// the conversion path: a solve only ever runs once, but its result may
// need to be re-exported as text, ipuz, or .puz later from the JSON
// that was saved at solve time.

// RenderTextFromJSON renders a PuzzleJSON's grid back to the text
// template format: one line per row, '#' for the JSON grid's "." block
// cells.
func RenderTextFromJSON(pz *PuzzleJSON) string {
	lines := make([]string, pz.Height)
	for row, cells := range pz.Grid {
		b := make([]byte, 0, len(cells))
		for _, c := range cells {
			if c == "." {
				b = append(b, '#')
				continue
			}
			b = append(b, c...)
		}
		lines[row] = string(b)
	}
	return joinLines(lines)
}

func joinCells(cells []string) string {
	b := make([]byte, 0, len(cells))
	for _, c := range cells {
		if c == "." {
			b = append(b, '.')
			continue
		}
		b = append(b, c...)
	}
	return string(b)
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

// FormatIPuzFromJSON builds an IPuzPuzzle document directly from a
// PuzzleJSON, using "." cells as blocks and deriving clue numbers from
// the entries rather than cfg.Slots.
func FormatIPuzFromJSON(pz *PuzzleJSON) *IPuzPuzzle {
	numberAt := make(map[[2]int]int, len(pz.Entries))
	for _, e := range pz.Entries {
		numberAt[[2]int{e.Row, e.Col}] = e.Number
	}

	puzzleGrid := make([][]interface{}, pz.Height)
	solutionGrid := make([][]interface{}, pz.Height)
	for row := 0; row < pz.Height; row++ {
		puzzleGrid[row] = make([]interface{}, pz.Width)
		solutionGrid[row] = make([]interface{}, pz.Width)
		for col := 0; col < pz.Width; col++ {
			cell := pz.Grid[row][col]
			if cell == "." {
				puzzleGrid[row][col] = "#"
				solutionGrid[row][col] = "#"
				continue
			}
			if num, ok := numberAt[[2]int{row, col}]; ok {
				n := num
				puzzleGrid[row][col] = IPuzCell{Cell: &n}
			} else {
				puzzleGrid[row][col] = 0
			}
			solutionGrid[row][col] = cell
		}
	}

	var across, down []IPuzEntry
	for _, e := range pz.Entries {
		entry := IPuzEntry{e.Number, e.Answer}
		if e.Direction == grid.Across.String() {
			across = append(across, entry)
		} else {
			down = append(down, entry)
		}
	}

	return &IPuzPuzzle{
		Version:    "http://ipuz.org/v2",
		Kind:       []string{"http://ipuz.org/crossword#1"},
		Dimensions: IPuzDimensions{Width: pz.Width, Height: pz.Height},
		Puzzle:     puzzleGrid,
		Solution:   solutionGrid,
		Clues:      IPuzClues{Across: across, Down: down},
	}
}

// ToIPuzFromJSON renders a PuzzleJSON straight to ipuz JSON bytes.
func ToIPuzFromJSON(pz *PuzzleJSON) ([]byte, error) {
	return json.MarshalIndent(FormatIPuzFromJSON(pz), "", "  ")
}

// FormatPuzFromJSON builds a .puz byte stream directly from a
// PuzzleJSON, ordering clue strings the same way FormatPuz does:
// by clue number, Across before Down on a tie.
func FormatPuzFromJSON(pz *PuzzleJSON) ([]byte, error) {
	if pz.Width > 255 || pz.Height > 255 {
		return nil, fmt.Errorf("output: grid %dx%d too large for .puz (max 255x255)", pz.Width, pz.Height)
	}

	solution := ""
	for _, row := range pz.Grid {
		solution += joinCells(row)
	}
	state := ""
	for range solution {
		state += "-"
	}

	ordered := make([]EntryJSON, len(pz.Entries))
	copy(ordered, pz.Entries)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && lessEntryJSON(ordered[j], ordered[j-1]); j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	clues := make([]string, len(ordered))
	for i, e := range ordered {
		clues[i] = e.Answer
	}

	title := "xwordfill"
	author := "xwordfill"
	copyright := fmt.Sprintf("(c) %s", author)

	width := byte(pz.Width)
	height := byte(pz.Height)
	numClues := uint16(len(ordered))
	cib := computeCIB(width, height, numClues, 0x0001, 0x0000)

	buf := new(bytes.Buffer)
	if err := writeHeader(buf, width, height, numClues, cib, solution, state); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := writeStrings(buf, title, author, copyright, clues, ""); err != nil {
		return nil, fmt.Errorf("failed to write strings: %w", err)
	}
	return buf.Bytes(), nil
}

func lessEntryJSON(a, b EntryJSON) bool {
	if a.Number != b.Number {
		return a.Number < b.Number
	}
	return a.Direction == grid.Across.String() && b.Direction == grid.Down.String()
}
