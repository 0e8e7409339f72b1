package output

import (
	"testing"

	"github.com/crossplay/xwordfill/pkg/fill"
	"github.com/crossplay/xwordfill/pkg/grid"
	"github.com/crossplay/xwordfill/pkg/wordlist"
)

// buildSolvedFixture assembles a tiny 2x2 square:
//
//	AT
//	TO
//
// and a fill.Result that assigns it directly, without running Search,
// so every output renderer can be tested against a known-good solve.
func buildSolvedFixture(t *testing.T) (*grid.GridConfig, fill.Result) {
	t.Helper()

	store := wordlist.New(0)
	if _, err := store.AddWord("at", "AT", 50, 0, false); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddWord("to", "TO", 50, 0, false); err != nil {
		t.Fatal(err)
	}

	cfg, err := grid.Build("..\n..", store, grid.BuildOptions{GlobalMinScore: 0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	atID, ok := store.Lookup("at")
	if !ok {
		t.Fatal("lookup at")
	}
	toID, ok := store.Lookup("to")
	if !ok {
		t.Fatal("lookup to")
	}

	var choices []fill.Choice
	for _, slot := range cfg.Slots {
		id := atID
		switch {
		case slot.Direction == grid.Across && slot.StartRow == 1:
			id = toID
		case slot.Direction == grid.Down && slot.StartCol == 1:
			id = toID
		}
		choices = append(choices, fill.Choice{SlotID: slot.ID, WordID: int(id.ID)})
	}

	return cfg, fill.Result{Outcome: fill.Success, Choices: choices}
}
