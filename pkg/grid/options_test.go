package grid

import (
	"regexp"
	"testing"

	"github.com/crossplay/xwordfill/pkg/wordlist"
)

func buildWordStore(t *testing.T) *wordlist.Store {
	t.Helper()
	s := wordlist.New(0)
	for _, w := range []struct {
		norm  string
		score int
	}{
		{"cat", 80}, {"cot", 20}, {"car", 90}, {"dog", 70},
	} {
		if _, err := s.AddWord(w.norm, w.norm, w.score, 0, false); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func openPreFill(n int) []wordlist.Glyph {
	pf := make([]wordlist.Glyph, n)
	for i := range pf {
		pf[i] = NoGlyph
	}
	return pf
}

func TestCandidatesFiltersByPreFillAndScore(t *testing.T) {
	s := buildWordStore(t)
	gC, _ := s.Glyphs.Lookup('c')

	preFill := openPreFill(3)
	preFill[0] = gC
	ids, err := Candidates(s, 3, SlotOptions{
		PreFill:  preFill,
		MinScore: 50,
	})
	if err != nil {
		t.Fatal(err)
	}
	// cat(80) and car(90) qualify; cot(20) is below MinScore.
	if len(ids) != 2 {
		t.Fatalf("len(ids) = %d, want 2: %v", len(ids), ids)
	}
}

func TestCandidatesRegexFilter(t *testing.T) {
	s := buildWordStore(t)
	rx := regexp.MustCompile("^ca")

	ids, err := Candidates(s, 3, SlotOptions{
		PreFill:  openPreFill(3),
		MinScore: 0,
		Regex:    rx,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 {
		t.Fatalf("len(ids) = %d, want 2 (cat, car)", len(ids))
	}
}

func TestCandidatesAllowSetBypassesFilters(t *testing.T) {
	s := buildWordStore(t)
	cotID, _ := s.Lookup("cot")

	ids, err := Candidates(s, 3, SlotOptions{
		PreFill:  openPreFill(3),
		MinScore: 50,
		Allow:    map[wordlist.WordID]bool{cotID.ID: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, id := range ids {
		if id == cotID.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("expected cot to be included via the allow-set despite low score")
	}
}

func TestCandidatesFullyFilledSpellsOutWord(t *testing.T) {
	s := buildWordStore(t)
	gC, _ := s.Glyphs.Lookup('c')
	gA, _ := s.Glyphs.Lookup('a')
	gT, _ := s.Glyphs.Lookup('t')

	ids, err := Candidates(s, 3, SlotOptions{PreFill: []wordlist.Glyph{gC, gA, gT}})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 {
		t.Fatalf("len(ids) = %d, want 1", len(ids))
	}
	catID, _ := s.Lookup("cat")
	if ids[0] != catID.ID {
		t.Fatalf("expected the existing cat entry, got id %d", ids[0])
	}
}

func TestCandidatesFullyFilledUnknownWordIsHidden(t *testing.T) {
	s := buildWordStore(t)
	gZ := s.Glyphs.Intern('z')

	ids, err := Candidates(s, 3, SlotOptions{PreFill: []wordlist.Glyph{gZ, gZ, gZ}})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 {
		t.Fatalf("len(ids) = %d, want 1", len(ids))
	}
	id, ok := s.Lookup("zzz")
	if !ok {
		t.Fatal("expected a hidden entry for zzz to be registered")
	}
	if !s.Word(id).Hidden {
		t.Fatal("expected the new entry to be hidden")
	}
	if ids[0] != id.ID {
		t.Fatalf("Candidates returned %d, want the hidden entry's id %d", ids[0], id.ID)
	}
}
