package output

import (
	"encoding/json"

	"github.com/crossplay/xwordfill/pkg/fill"
	"github.com/crossplay/xwordfill/pkg/grid"
)

// EntryJSON is the wire form of an Entry: direction spelled out for
// clients that don't want to decode grid.Direction's int encoding.
type EntryJSON struct {
	Number    int    `json:"number"`
	Direction string `json:"direction"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Length    int    `json:"length"`
	Answer    string `json:"answer"`
}

// PuzzleJSON is the plain JSON export: grid dimensions, the solved
// letter grid, and one record per slot. There is no clue text; this
// system only ever fills grids, never writes clues.
type PuzzleJSON struct {
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	Grid    [][]string  `json:"grid"`
	Entries []EntryJSON `json:"entries"`
}

// FormatJSON converts a completed solve into a PuzzleJSON struct.
func FormatJSON(cfg *grid.GridConfig, result fill.Result) (*PuzzleJSON, error) {
	letters, entries, err := answers(cfg, result)
	if err != nil {
		return nil, err
	}

	glyphs := cfg.Words().Glyphs
	rows := make([][]string, cfg.Height)
	for row := 0; row < cfg.Height; row++ {
		line := make([]string, cfg.Width)
		for col := 0; col < cfg.Width; col++ {
			idx := cfg.CellIndex(row, col)
			if cfg.Blocked[idx] {
				line[col] = "."
				continue
			}
			line[col] = string(glyphs.Rune(letters[idx]))
		}
		rows[row] = line
	}

	out := &PuzzleJSON{Width: cfg.Width, Height: cfg.Height, Grid: rows}
	for _, e := range entries {
		out.Entries = append(out.Entries, EntryJSON{
			Number:    e.Number,
			Direction: e.Direction.String(),
			Row:       e.Row,
			Col:       e.Col,
			Length:    e.Length,
			Answer:    e.Answer,
		})
	}
	return out, nil
}

// ToJSON renders a completed solve straight to its JSON bytes.
func ToJSON(cfg *grid.GridConfig, result fill.Result) ([]byte, error) {
	p, err := FormatJSON(cfg, result)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(p, "", "  ")
}
