package output

import (
	"encoding/json"
	"testing"
)

func TestFormatIPuz(t *testing.T) {
	cfg, result := buildSolvedFixture(t)

	out, err := FormatIPuz(cfg, result)
	if err != nil {
		t.Fatalf("FormatIPuz: %v", err)
	}

	if out.Version != "http://ipuz.org/v2" {
		t.Errorf("Version = %q", out.Version)
	}
	if len(out.Kind) != 1 || out.Kind[0] != "http://ipuz.org/crossword#1" {
		t.Errorf("Kind = %v", out.Kind)
	}
	if out.Dimensions.Width != 2 || out.Dimensions.Height != 2 {
		t.Fatalf("Dimensions = %+v, want 2x2", out.Dimensions)
	}

	firstCell, ok := out.Puzzle[0][0].(IPuzCell)
	if !ok {
		t.Fatalf("Puzzle[0][0] = %T, want IPuzCell", out.Puzzle[0][0])
	}
	if firstCell.Cell == nil || *firstCell.Cell != 1 {
		t.Errorf("Puzzle[0][0].Cell = %v, want 1", firstCell.Cell)
	}

	expectedSolution := [][]string{{"a", "t"}, {"t", "o"}}
	for y := range expectedSolution {
		for x := range expectedSolution[y] {
			if out.Solution[y][x] != expectedSolution[y][x] {
				t.Errorf("Solution[%d][%d] = %v, want %v", y, x, out.Solution[y][x], expectedSolution[y][x])
			}
		}
	}

	if len(out.Clues.Across) != 2 {
		t.Fatalf("len(Clues.Across) = %d, want 2", len(out.Clues.Across))
	}
	if len(out.Clues.Down) != 2 {
		t.Fatalf("len(Clues.Down) = %d, want 2", len(out.Clues.Down))
	}
	if out.Clues.Across[0][0] != 1 || out.Clues.Across[0][1] != "AT" {
		t.Errorf("Clues.Across[0] = %v, want [1 AT]", out.Clues.Across[0])
	}
}

func TestToIPuz(t *testing.T) {
	cfg, result := buildSolvedFixture(t)

	data, err := ToIPuz(cfg, result)
	if err != nil {
		t.Fatalf("ToIPuz: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if parsed["version"] != "http://ipuz.org/v2" {
		t.Errorf("version = %v", parsed["version"])
	}
	dims, ok := parsed["dimensions"].(map[string]interface{})
	if !ok {
		t.Fatal("dimensions missing")
	}
	if dims["width"] != float64(2) || dims["height"] != float64(2) {
		t.Errorf("dimensions = %v", dims)
	}
}

func TestFormatIPuz_AllBlackGrid(t *testing.T) {
	cfg, result := buildSolvedFixture(t)
	for i := range cfg.Blocked {
		cfg.Blocked[i] = true
	}
	cfg.Slots = nil
	result.Choices = nil

	out, err := FormatIPuz(cfg, result)
	if err != nil {
		t.Fatalf("FormatIPuz: %v", err)
	}
	for y := range out.Puzzle {
		for x := range out.Puzzle[y] {
			if out.Puzzle[y][x] != "#" {
				t.Errorf("Puzzle[%d][%d] = %v, want #", y, x, out.Puzzle[y][x])
			}
			if out.Solution[y][x] != "#" {
				t.Errorf("Solution[%d][%d] = %v, want #", y, x, out.Solution[y][x])
			}
		}
	}
}

func TestValidateIPuz(t *testing.T) {
	cfg, result := buildSolvedFixture(t)
	out, err := FormatIPuz(cfg, result)
	if err != nil {
		t.Fatalf("FormatIPuz: %v", err)
	}

	if err := ValidateIPuz(out); err != nil {
		t.Errorf("expected valid ipuz document, got %v", err)
	}
	if err := ValidateIPuz(nil); err == nil {
		t.Error("expected error for nil document")
	}

	bad := *out
	bad.Dimensions.Width = 0
	if err := ValidateIPuz(&bad); err == nil {
		t.Error("expected error for invalid dimensions")
	}
}
