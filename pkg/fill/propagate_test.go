package fill

import (
	"testing"

	"github.com/crossplay/xwordfill/pkg/grid"
)

// newTestAttempt wires an attempt around a fresh searchState without
// going through Search, so propagation can be driven one call at a
// time.
func newTestAttempt(t *testing.T, cfg *grid.GridConfig) *attempt {
	t.Helper()
	return &attempt{cfg: cfg, s: newSearchState(cfg), lastChosenSlot: noFixed}
}

// TestPropagateInitialIdempotent covers the idempotence property:
// running propagation twice with no intervening state change must find
// nothing new the second time.
func TestPropagateInitialIdempotent(t *testing.T) {
	template := "a....\n.....\n.....\n.....\n....#"
	var words []string
	words = append(words, allStringsOver("ab", 4)...)
	words = append(words, allStringsOver("ab", 5)...)
	s := buildStore(t, words)
	cfg, err := grid.Build(template, s, grid.BuildOptions{GlobalMinScore: 0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	a := newTestAttempt(t, cfg)
	first := propagate(a.s, modeInitial, 0, 0)
	if !first.ok {
		t.Fatal("initial propagation failed on a satisfiable grid")
	}
	a.commitInitial(first)

	second := propagate(a.s, modeInitial, 0, 0)
	if !second.ok {
		t.Fatal("second propagation failed after committing the first")
	}
	if len(second.perSlot) != 0 {
		t.Fatalf("second propagation eliminated words from %d slots, want none", len(second.perSlot))
	}
}

// TestGlyphCountsMatchRemaining covers the universal invariant that for
// every live slot and every cell, the per-glyph counts sum to the
// slot's remaining option count, both after the initial propagation and
// after a committed choice.
func TestGlyphCountsMatchRemaining(t *testing.T) {
	template := "#....\n.....\n.....\n.....\n....#"
	var words []string
	words = append(words, allStringsOver("ab", 4)...)
	words = append(words, allStringsOver("ab", 5)...)
	s := buildStore(t, words)
	cfg, err := grid.Build(template, s, grid.BuildOptions{GlobalMinScore: 0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	a := newTestAttempt(t, cfg)
	res := propagate(a.s, modeInitial, 0, 0)
	if !res.ok {
		t.Fatal("initial propagation failed")
	}
	a.commitInitial(res)
	assertCountsMatchRemaining(t, a)

	// Fix the first live option of slot 0 and commit the consequences.
	pos := -1
	for i := range a.s.slots[0].options {
		if !a.s.slots[0].eliminated.contains(i) {
			pos = i
			break
		}
	}
	if pos < 0 {
		t.Fatal("slot 0 has no live options")
	}
	choiceRes := propagate(a.s, modeChoice, 0, pos)
	if !choiceRes.ok {
		t.Fatal("choice propagation failed on a permissive word list")
	}
	a.fix(0, pos)
	a.commitChoice(choiceRes, 0, pos)
	assertCountsMatchRemaining(t, a)

	// Backtracking must restore the counts exactly.
	a.pop()
	assertCountsMatchRemaining(t, a)
}

func assertCountsMatchRemaining(t *testing.T, a *attempt) {
	t.Helper()
	for slotID, ls := range a.s.slots {
		if ls.fixed != noFixed {
			continue
		}
		for c := range ls.glyphCounts {
			sum := 0
			for _, n := range ls.glyphCounts[c] {
				sum += n
			}
			if sum != ls.remaining {
				t.Fatalf("slot %d cell %d: glyph counts sum to %d, remaining = %d", slotID, c, sum, ls.remaining)
			}
		}
	}
}

// TestCrossingWeightsNeverBelowOne covers the invariant that learned
// crossing weights stay >= 1.0 through decay and increments.
func TestCrossingWeightsNeverBelowOne(t *testing.T) {
	template := "..\n.."
	s := buildStore(t, []string{"ab", "cd", "ac", "bd"})
	cfg, err := grid.Build(template, s, grid.BuildOptions{GlobalMinScore: 0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	a := newTestAttempt(t, cfg)
	a.applyWeightUpdates(&propagationResult{weightUpdates: map[int]float64{0: 0.5}})
	for i := 0; i < 100; i++ {
		a.applyWeightUpdates(&propagationResult{weightUpdates: map[int]float64{0: 0}})
	}
	for id, w := range a.s.crossingWeights {
		if w < 1.0 {
			t.Fatalf("crossingWeights[%d] = %v, want >= 1.0", id, w)
		}
	}
}
