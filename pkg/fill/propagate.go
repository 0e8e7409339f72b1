package fill

import "github.com/crossplay/xwordfill/pkg/wordlist"

// propagationResult is what one Propagate call produces: either a set
// of per-slot eliminations to commit, or a failure with per-crossing
// weight increments to fold into the learned weights.
type propagationResult struct {
	ok            bool
	perSlot       map[int]*eliminationSet // slotID -> eliminations made during this call
	weightUpdates map[int]float64         // crossingID -> increment, only set on failure
}

// callSlotState is one slot's scratch state for the duration of a
// single Propagate call, layered on top of the persistent
// liveSlotState.
type callSlotState struct {
	eliminated  *eliminationSet // call-scoped eliminations, on top of live
	blameCounts []int           // per cell
	// glyphCounts is nil until this slot's counts are first mutated
	// during the call, at which point it is cloned from the live
	// state (or, for a forced singleton, synthesized directly).
	glyphCounts [][]int
	forced      bool // true once this slot has been pinned to one option
	forcedPos   int
	queued      []bool
	queue       []int
}

func newCallSlotState(length, numOptions int) *callSlotState {
	return &callSlotState{
		eliminated:  newEliminationSet(numOptions),
		blameCounts: make([]int, length),
		queued:      make([]bool, length),
	}
}

func (c *callSlotState) enqueue(cell int) {
	if c.queued[cell] {
		return
	}
	c.queued[cell] = true
	c.queue = append(c.queue, cell)
}

// propagator holds the per-call state for one Propagate invocation.
type propagator struct {
	s                *searchState
	perSlot          map[int]*callSlotState
	singletonPending []int
}

func newPropagator(s *searchState) *propagator {
	return &propagator{s: s, perSlot: make(map[int]*callSlotState)}
}

func (p *propagator) slot(slotID int) *callSlotState {
	if c, ok := p.perSlot[slotID]; ok {
		return c
	}
	ls := p.s.slots[slotID]
	c := newCallSlotState(ls.length, len(ls.options))
	p.perSlot[slotID] = c
	return c
}

// optionCount returns slotID's live option count as seen mid-call:
// the persistent remaining count minus this call's own eliminations,
// or 1 if the slot has been forced to a single option.
func (p *propagator) optionCount(slotID int) int {
	ls := p.s.slots[slotID]
	if ls.fixed != noFixed {
		return 1
	}
	if c, ok := p.perSlot[slotID]; ok && c.forced {
		return 1
	}
	n := ls.remaining
	if c, ok := p.perSlot[slotID]; ok {
		n -= c.eliminated.len()
	}
	return n
}

// isLive reports whether position pos of slotID is still a candidate,
// counting the slot's live-fixed status, persistent eliminations, and
// this call's tentative eliminations.
func (p *propagator) isLive(slotID, pos int) bool {
	ls := p.s.slots[slotID]
	if ls.fixed != noFixed {
		return pos == ls.fixed
	}
	if ls.eliminated.contains(pos) {
		return false
	}
	if c, ok := p.perSlot[slotID]; ok {
		if c.forced {
			return pos == c.forcedPos
		}
		if c.eliminated.contains(pos) {
			return false
		}
	}
	return true
}

// glyphCountAt returns how many live options of slotID have glyph g at
// cell. Falls back to the live state's counts when this call hasn't
// touched the slot yet.
func (p *propagator) glyphCountAt(slotID, cell, g int) int {
	if c, ok := p.perSlot[slotID]; ok && c.glyphCounts != nil {
		return c.glyphCounts[cell][g]
	}
	return p.s.slots[slotID].glyphCounts[cell][g]
}

// ensureCloned lazily clones slotID's glyph counts from the live state
// into this call's scratch space, on first mutation.
func (p *propagator) ensureCloned(slotID int) [][]int {
	c := p.slot(slotID)
	if c.glyphCounts != nil {
		return c.glyphCounts
	}
	live := p.s.slots[slotID].glyphCounts
	cloned := make([][]int, len(live))
	for i, row := range live {
		cloned[i] = append([]int(nil), row...)
	}
	c.glyphCounts = cloned
	return cloned
}

// eliminate tentatively removes position pos from slotID during this
// call, updating glyph counts and returning the slot's new option
// count plus any cells (other than blamedCell) whose glyph count for
// the removed word's letter just reached zero. blamedCell, if >= 0,
// increments that cell's blame counter.
func (p *propagator) eliminate(slotID, pos, blamedCell int) (newCount int, zeroedCells []int) {
	c := p.slot(slotID)
	if !p.isLive(slotID, pos) {
		return p.optionCount(slotID), nil
	}

	counts := p.ensureCloned(slotID)
	ls := p.s.slots[slotID]
	w := p.s.store.Word(wordlist.GlobalWordID{Length: ls.length, ID: ls.options[pos]})
	for cell, g := range w.Glyphs {
		counts[cell][g]--
		if counts[cell][g] == 0 && cell != blamedCell {
			zeroedCells = append(zeroedCells, cell)
		}
	}

	c.eliminated.add(pos)
	if blamedCell >= 0 {
		c.blameCounts[blamedCell]++
	}
	return p.optionCount(slotID), zeroedCells
}

// force pins slotID to exactly position pos, synthesizing its glyph
// counts directly rather than eliminating every other option one at a
// time (cheap even when the slot started with many candidates).
func (p *propagator) force(slotID, pos int) {
	c := p.slot(slotID)
	c.forced = true
	c.forcedPos = pos

	ls := p.s.slots[slotID]
	w := p.s.store.Word(wordlist.GlobalWordID{Length: ls.length, ID: ls.options[pos]})
	counts := make([][]int, ls.length)
	for cell := range counts {
		counts[cell] = make([]int, len(ls.glyphCounts[cell]))
	}
	for cell, g := range w.Glyphs {
		counts[cell][g] = 1
	}
	c.glyphCounts = counts
}
