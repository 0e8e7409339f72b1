package wordlist

import (
	"strings"
	"testing"
)

func TestLoadBrodaBasic(t *testing.T) {
	s := New(0)
	input := strings.NewReader("CAT;90\nDOG\nBIRD;10\n\n  \n")

	errs := LoadBroda(s, input)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if s.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", s.Size())
	}

	id, ok := s.Lookup("cat")
	if !ok {
		t.Fatal("expected cat to be loaded")
	}
	if w := s.Word(id); w.Score != 90 || w.Canonical != "CAT" {
		t.Fatalf("unexpected word: %+v", w)
	}

	id, ok = s.Lookup("dog")
	if !ok {
		t.Fatal("expected dog to be loaded")
	}
	if w := s.Word(id); w.Score != DefaultScore {
		t.Fatalf("expected default score for dog, got %d", w.Score)
	}
}

func TestLoadBrodaSkipsDuplicatesAndBadScores(t *testing.T) {
	s := New(0)
	input := strings.NewReader("CAT;90\nCAT;10\nOWL;notanumber\n")

	errs := LoadBroda(s, input)
	if len(errs) != 1 {
		t.Fatalf("expected 1 parse error, got %d: %v", len(errs), errs)
	}
	if s.Size() != 1 {
		t.Fatalf("Size() = %d, want 1 (duplicate and bad line both skipped)", s.Size())
	}
}

func TestLoadBrodaStopsAtMaxParseErrors(t *testing.T) {
	s := New(0)
	var b strings.Builder
	for i := 0; i < MaxParseErrors+20; i++ {
		b.WriteString("X;bad\n")
	}

	errs := LoadBroda(s, strings.NewReader(b.String()))
	if len(errs) != MaxParseErrors {
		t.Fatalf("len(errs) = %d, want %d", len(errs), MaxParseErrors)
	}
}
