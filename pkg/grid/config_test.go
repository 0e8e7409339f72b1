package grid

import (
	"testing"

	"github.com/crossplay/xwordfill/pkg/wordlist"
)

func buildFillStore(t *testing.T) *wordlist.Store {
	t.Helper()
	s := wordlist.New(0)
	for _, w := range []string{"at", "it", "as", "is"} {
		if _, err := s.AddWord(w, w, 50, 0, false); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestBuildProducesSlotsAndOptions(t *testing.T) {
	s := buildFillStore(t)
	cfg, err := Build("..\n..", s, BuildOptions{GlobalMinScore: 0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(cfg.Slots) != 4 {
		t.Fatalf("len(Slots) = %d, want 4", len(cfg.Slots))
	}
	if len(cfg.Crossings) != 4 {
		t.Fatalf("len(Crossings) = %d, want 4", len(cfg.Crossings))
	}
	for _, s := range cfg.Slots {
		if len(cfg.InitialOptions[s.ID]) == 0 {
			t.Fatalf("slot %d has no initial options", s.ID)
		}
	}
}

func TestBuildRespectsPreFill(t *testing.T) {
	s := buildFillStore(t)
	cfg, err := Build("a.\n..", s, BuildOptions{GlobalMinScore: 0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// The across slot starting at (0,0) must be pre-filled with 'a' in
	// its first cell, so only "at" and "as" remain eligible.
	var acrossTop *Slot
	for _, sl := range cfg.Slots {
		if sl.Direction == Across && sl.StartRow == 0 {
			acrossTop = sl
		}
	}
	if acrossTop == nil {
		t.Fatal("expected an across slot starting at row 0")
	}
	if len(cfg.InitialOptions[acrossTop.ID]) != 2 {
		t.Fatalf("len(InitialOptions) = %d, want 2", len(cfg.InitialOptions[acrossTop.ID]))
	}
}

func TestBuildPropagatesConstructionError(t *testing.T) {
	s := buildFillStore(t)
	if _, err := Build("..\n...", s, BuildOptions{}); err == nil {
		t.Fatal("expected Build to surface a template parse error")
	}
}
