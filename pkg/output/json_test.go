package output

import (
	"encoding/json"
	"testing"

	"github.com/crossplay/xwordfill/pkg/fill"
)

func TestFormatJSON(t *testing.T) {
	cfg, result := buildSolvedFixture(t)

	out, err := FormatJSON(cfg, result)
	if err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}

	if out.Width != 2 || out.Height != 2 {
		t.Fatalf("dimensions = %dx%d, want 2x2", out.Width, out.Height)
	}
	if len(out.Entries) != 4 {
		t.Fatalf("len(Entries) = %d, want 4", len(out.Entries))
	}

	expectedGrid := [][]string{{"a", "t"}, {"t", "o"}}
	for y := range expectedGrid {
		for x := range expectedGrid[y] {
			if out.Grid[y][x] != expectedGrid[y][x] {
				t.Errorf("grid[%d][%d] = %q, want %q", y, x, out.Grid[y][x], expectedGrid[y][x])
			}
		}
	}

	if out.Entries[0].Number != 1 || out.Entries[0].Answer != "AT" {
		t.Errorf("Entries[0] = %+v, want number 1 answer AT", out.Entries[0])
	}
}

func TestFormatJSON_NotSuccess(t *testing.T) {
	cfg, _ := buildSolvedFixture(t)

	_, err := FormatJSON(cfg, fill.Result{Outcome: fill.HardFailure})
	if err != ErrNotSuccess {
		t.Fatalf("err = %v, want ErrNotSuccess", err)
	}
}

func TestToJSON(t *testing.T) {
	cfg, result := buildSolvedFixture(t)

	data, err := ToJSON(cfg, result)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if parsed["width"] != float64(2) {
		t.Errorf("width = %v, want 2", parsed["width"])
	}
	entries, ok := parsed["entries"].([]interface{})
	if !ok || len(entries) != 4 {
		t.Fatalf("entries = %v, want 4 entries", parsed["entries"])
	}
}

func TestFormatJSON_AllBlackGrid(t *testing.T) {
	cfg, result := buildSolvedFixture(t)
	for i := range cfg.Blocked {
		cfg.Blocked[i] = true
	}
	cfg.Slots = nil
	result.Choices = nil

	out, err := FormatJSON(cfg, result)
	if err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	for _, row := range out.Grid {
		for _, cell := range row {
			if cell != "." {
				t.Errorf("expected blocked cell, got %q", cell)
			}
		}
	}
}
