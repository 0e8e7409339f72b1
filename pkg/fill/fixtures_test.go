package fill

import (
	"testing"

	"github.com/crossplay/xwordfill/pkg/grid"
	"github.com/crossplay/xwordfill/pkg/wordlist"
)

// mini1Template is the "Mini1" fixture named in the glossary: a 5x4 grid
// with a single block splitting row 1 into two length-2 runs. It
// extracts to 10 slots (5 across, 5 down).
const mini1Template = ".....\n..#..\n.....\n....."

// mini2Template is the "Mini2" fixture: a 4x4 grid with two staggered
// blocks. It extracts to 8 slots (4 across, 4 down) and 12 crossings.
const mini2Template = "#...\n.#..\n....\n...."

// TestMini1TenSlots checks that the Mini1 template yields 10 slots and succeeds under default search parameters with a
// permissive word list.
func TestMini1TenSlots(t *testing.T) {
	var words []string
	words = append(words, allStringsOver("ab", 2)...)
	words = append(words, allStringsOver("ab", 4)...)
	words = append(words, allStringsOver("ab", 5)...)
	s := buildStore(t, words)

	cfg, err := grid.Build(mini1Template, s, grid.BuildOptions{GlobalMinScore: 0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(cfg.Slots) != 10 {
		t.Fatalf("len(Slots) = %d, want 10", len(cfg.Slots))
	}

	res := Search(cfg, Config{})
	if res.Outcome != Success {
		t.Fatalf("Search outcome = %v, want Success", res.Outcome)
	}
	assertChoicesConsistent(t, cfg, res.Choices)
}

// TestMini2EightSlotsTwelveCrossings checks that the Mini2 template
// yields 8 slots and 12 distinct crossings.
func TestMini2EightSlotsTwelveCrossings(t *testing.T) {
	var words []string
	words = append(words, allStringsOver("ab", 2)...)
	words = append(words, allStringsOver("ab", 3)...)
	words = append(words, allStringsOver("ab", 4)...)
	s := buildStore(t, words)

	cfg, err := grid.Build(mini2Template, s, grid.BuildOptions{GlobalMinScore: 0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(cfg.Slots) != 8 {
		t.Fatalf("len(Slots) = %d, want 8", len(cfg.Slots))
	}
	if len(cfg.Crossings) != 12 {
		t.Fatalf("len(Crossings) = %d, want 12", len(cfg.Crossings))
	}

	res := Search(cfg, Config{})
	if res.Outcome != Success {
		t.Fatalf("Search outcome = %v, want Success", res.Outcome)
	}
	assertChoicesConsistent(t, cfg, res.Choices)
}

// TestParity1ThemeEntryCompletes fills a 15x15 grid carrying a single
// pre-placed theme entry, "cremebrulees", and checks the structural
// invariants every solve must satisfy (one choice per slot, no shared
// words, every crossing agreeing) against a word list sized exactly to
// the grid's needs, so the theme entry's placement and its crossings
// are exercised for real.
func TestParity1ThemeEntryCompletes(t *testing.T) {
	// Row 7 carries the theme entry across columns 0-11; three short
	// down slots (length 3) cross it at columns 1, 4, and 7, each
	// isolated by blocks everywhere else in their column.
	rows := make([]string, 15)
	blockRow := "###############"
	crossRow := "#.##.##.#######"
	for i := range rows {
		rows[i] = blockRow
	}
	rows[6] = crossRow
	rows[7] = "cremebrulees###"
	rows[8] = crossRow
	template := rows[0]
	for i := 1; i < len(rows); i++ {
		template += "\n" + rows[i]
	}

	s := wordlist.New(0)
	for _, w := range []string{"cremebrulees", "are", "bed", "bun"} {
		if _, err := s.AddWord(w, w, 80, 0, false); err != nil {
			t.Fatalf("AddWord(%q): %v", w, err)
		}
	}

	cfg, err := grid.Build(template, s, grid.BuildOptions{GlobalMinScore: 0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(cfg.Slots) != 4 {
		t.Fatalf("len(Slots) = %d, want 4 (1 theme across + 3 crossing downs)", len(cfg.Slots))
	}

	res := Search(cfg, Config{})
	if res.Outcome != Success {
		t.Fatalf("Search outcome = %v, want Success", res.Outcome)
	}
	assertChoicesConsistent(t, cfg, res.Choices)

	themeWordID, ok := s.Lookup("cremebrulees")
	if !ok {
		t.Fatal("lookup cremebrulees")
	}
	var sawTheme bool
	for _, c := range res.Choices {
		if cfg.SlotLength(c.SlotID) == themeWordID.Length && wordlist.WordID(c.WordID) == themeWordID.ID {
			sawTheme = true
		}
	}
	if !sawTheme {
		t.Fatal("expected the pre-placed theme entry to appear among the choices")
	}
}
