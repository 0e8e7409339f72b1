package output

import (
	"encoding/json"
	"fmt"

	"github.com/crossplay/xwordfill/pkg/fill"
	"github.com/crossplay/xwordfill/pkg/grid"
)

// IPuzDimensions is the ipuz "dimensions" object.
type IPuzDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IPuzCell is a non-block, numbered cell in the ipuz "puzzle" grid.
type IPuzCell struct {
	Cell *int `json:"cell,omitempty"`
}

// IPuzEntry is one ipuz clue-list record: [number, answer]. This
// system never generates clue text, so the second element is the
// solved answer itself rather than prose, which keeps the format
// usable by solvers that only need the word list.
type IPuzEntry []interface{}

// IPuzClues is the ipuz "clues" section with Across and Down.
type IPuzClues struct {
	Across []IPuzEntry `json:"Across"`
	Down   []IPuzEntry `json:"Down"`
}

// IPuzPuzzle is the complete ipuz document, per http://ipuz.org/v2.
type IPuzPuzzle struct {
	Version    string          `json:"version"`
	Kind       []string        `json:"kind"`
	Dimensions IPuzDimensions  `json:"dimensions"`
	Puzzle     [][]interface{} `json:"puzzle"`
	Solution   [][]interface{} `json:"solution"`
	Clues      IPuzClues       `json:"clues"`
}

// FormatIPuz converts a completed solve into the ipuz document
// structure: blocked cells as "#", numbered cells as their clue
// number, everything else as 0, and a solution grid of letters.
func FormatIPuz(cfg *grid.GridConfig, result fill.Result) (*IPuzPuzzle, error) {
	letters, entries, err := answers(cfg, result)
	if err != nil {
		return nil, err
	}

	numberAt := make(map[int]int, len(entries))
	for _, e := range entries {
		numberAt[cfg.CellIndex(e.Row, e.Col)] = e.Number
	}

	glyphs := cfg.Words().Glyphs
	puzzleGrid := make([][]interface{}, cfg.Height)
	solutionGrid := make([][]interface{}, cfg.Height)
	for row := 0; row < cfg.Height; row++ {
		puzzleGrid[row] = make([]interface{}, cfg.Width)
		solutionGrid[row] = make([]interface{}, cfg.Width)
		for col := 0; col < cfg.Width; col++ {
			idx := cfg.CellIndex(row, col)
			if cfg.Blocked[idx] {
				puzzleGrid[row][col] = "#"
				solutionGrid[row][col] = "#"
				continue
			}

			if num, ok := numberAt[idx]; ok {
				n := num
				puzzleGrid[row][col] = IPuzCell{Cell: &n}
			} else {
				puzzleGrid[row][col] = 0
			}
			solutionGrid[row][col] = string(glyphs.Rune(letters[idx]))
		}
	}

	var across, down []IPuzEntry
	for _, e := range entries {
		entry := IPuzEntry{e.Number, e.Answer}
		if e.Direction == grid.Across {
			across = append(across, entry)
		} else {
			down = append(down, entry)
		}
	}

	return &IPuzPuzzle{
		Version:    "http://ipuz.org/v2",
		Kind:       []string{"http://ipuz.org/crossword#1"},
		Dimensions: IPuzDimensions{Width: cfg.Width, Height: cfg.Height},
		Puzzle:     puzzleGrid,
		Solution:   solutionGrid,
		Clues:      IPuzClues{Across: across, Down: down},
	}, nil
}

// ToIPuz renders a completed solve straight to ipuz JSON bytes.
func ToIPuz(cfg *grid.GridConfig, result fill.Result) ([]byte, error) {
	p, err := FormatIPuz(cfg, result)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(p, "", "  ")
}

// ValidateIPuz checks that an ipuz document has consistent dimensions
// before it is handed to a client, mirroring the shape checks a
// solver-side importer would run.
func ValidateIPuz(p *IPuzPuzzle) error {
	if p == nil {
		return fmt.Errorf("ipuz puzzle cannot be nil")
	}
	if p.Dimensions.Width <= 0 || p.Dimensions.Height <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", p.Dimensions.Width, p.Dimensions.Height)
	}
	if len(p.Puzzle) != p.Dimensions.Height || len(p.Solution) != p.Dimensions.Height {
		return fmt.Errorf("grid height mismatch: want %d", p.Dimensions.Height)
	}
	for y, row := range p.Puzzle {
		if len(row) != p.Dimensions.Width {
			return fmt.Errorf("puzzle grid width mismatch at row %d", y)
		}
	}
	return nil
}
