package fill

import (
	"sort"

	"github.com/crossplay/xwordfill/pkg/wordlist"
)

// isFixed reports whether slotID is fixed in the live state or has
// been tentatively forced during this call.
func (p *propagator) isFixed(slotID int) bool {
	if p.s.slots[slotID].fixed != noFixed {
		return true
	}
	if c, ok := p.perSlot[slotID]; ok && c.forced {
		return true
	}
	return false
}

// callSlotWeight is searchState.slotWeight, but using this call's
// tentative option counts to decide which peers are singletons.
func (p *propagator) callSlotWeight(slotID int) float64 {
	slot := p.s.cfg.Slots[slotID]
	total := 0.0
	for i := 0; i < slot.Length; i++ {
		other, _, crossingID, ok := slot.Crossing(i)
		if !ok {
			continue
		}
		if p.optionCount(other) <= 1 {
			continue
		}
		total += p.s.crossingWeights[crossingID]
	}
	return total
}

// pickQueuedSlot selects the queued slot minimizing optionCount/weight,
// breaking ties by lowest slot id for determinism.
func pickQueuedSlot(p *propagator) (int, bool) {
	candidates := make([]int, 0, len(p.perSlot))
	for id, c := range p.perSlot {
		if len(c.queue) > 0 {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	sort.Ints(candidates)

	best := candidates[0]
	bestRatio := ratio(p, best)
	for _, id := range candidates[1:] {
		r := ratio(p, id)
		if r < bestRatio {
			best, bestRatio = id, r
		}
	}
	return best, true
}

func ratio(p *propagator, slotID int) float64 {
	weight := p.callSlotWeight(slotID)
	if weight <= 0 {
		weight = 1e-9
	}
	return float64(p.optionCount(slotID)) / weight
}

// singletonPosition finds the live position of a slot known to have
// exactly one remaining option under this call's tentative state.
func (p *propagator) singletonPosition(slotID int) int {
	if c, ok := p.perSlot[slotID]; ok && c.forced {
		return c.forcedPos
	}
	ls := p.s.slots[slotID]
	for i := range ls.options {
		if p.isLive(slotID, i) {
			return i
		}
	}
	panic("fill: singletonPosition called on a non-singleton slot")
}

func (p *propagator) addSingletonPending(slotID int) {
	for _, id := range p.singletonPending {
		if id == slotID {
			return
		}
	}
	p.singletonPending = append(p.singletonPending, slotID)
}

// enqueueNeighborsOf re-queues slot X's cells (other than the one just
// processed) whose glyph counts reached zero, provided their crossing
// peer is not fixed.
func (p *propagator) enqueueNeighborsOf(x int, cells []int) {
	slot := p.s.cfg.Slots[x]
	for _, cell := range cells {
		other, _, _, ok := slot.Crossing(cell)
		if !ok {
			continue
		}
		if p.isFixed(other) {
			continue
		}
		p.slot(x).enqueue(cell)
	}
}

// failure builds a propagationResult for slot x hitting zero live
// options, attributing weight per the blame each of its crossings
// accumulated during this call.
func (p *propagator) failure(x int) *propagationResult {
	slot := p.s.cfg.Slots[x]
	c := p.slot(x)
	initial := len(p.s.slots[x].options)

	updates := make(map[int]float64)
	for i := 0; i < slot.Length; i++ {
		_, _, crossingID, ok := slot.Crossing(i)
		if !ok {
			continue
		}
		if c.blameCounts[i] == 0 {
			continue
		}
		updates[crossingID] += float64(c.blameCounts[i]) / float64(initial)
	}

	return &propagationResult{ok: false, weightUpdates: updates}
}

// run executes the arc-consistency main loop from whatever
// tentative seed state has already been applied to p, returning the
// call's outcome.
func (p *propagator) run() *propagationResult {
	for {
		for {
			slotID, found := pickQueuedSlot(p)
			if !found {
				break
			}
			if res := p.processSlot(slotID); res != nil {
				return res
			}
		}
		if len(p.singletonPending) == 0 {
			break
		}
		pending := p.singletonPending
		p.singletonPending = nil
		for _, slotID := range pending {
			if p.optionCount(slotID) != 1 {
				continue
			}
			if res := p.propagateSingleton(slotID); res != nil {
				return res
			}
		}
	}

	perSlot := make(map[int]*eliminationSet, len(p.perSlot))
	for id, c := range p.perSlot {
		if c.eliminated.len() > 0 {
			perSlot[id] = c.eliminated
		}
	}
	return &propagationResult{ok: true, perSlot: perSlot}
}

// processSlot drains slot S's queued cells: for each, every live word
// of the crossing peer is checked for support against S's current
// glyph counts at that cell, eliminating unsupported ones.
func (p *propagator) processSlot(s int) *propagationResult {
	slot := p.s.cfg.Slots[s]
	c := p.slot(s)

	cells := append([]int(nil), c.queue...)
	sort.Slice(cells, func(i, j int) bool {
		_, _, ci, oki := slot.Crossing(cells[i])
		_, _, cj, okj := slot.Crossing(cells[j])
		wi, wj := 0.0, 0.0
		if oki {
			wi = p.s.crossingWeights[ci]
		}
		if okj {
			wj = p.s.crossingWeights[cj]
		}
		return wi > wj
	})
	c.queue = c.queue[:0]
	for _, cell := range cells {
		c.queued[cell] = false
	}

	for _, cell := range cells {
		x, xCell, _, ok := slot.Crossing(cell)
		if !ok || p.isFixed(x) {
			continue
		}
		xState := p.s.slots[x]
		for pos := range xState.options {
			if !p.isLive(x, pos) {
				continue
			}
			w := p.s.store.Word(xState.globalID(pos))
			g := w.Glyphs[xCell]
			if p.glyphCountAt(s, cell, int(g)) > 0 {
				continue
			}

			newCount, zeroed := p.eliminate(x, pos, xCell)
			if newCount == 0 {
				return p.failure(x)
			}
			if newCount == 1 {
				p.addSingletonPending(x)
			}
			p.enqueueNeighborsOf(x, zeroed)
		}
	}

	return nil
}

// propagateSingleton eliminates every dupe of slotID's sole surviving
// word from any other non-fixed slot of the same length it appears in.
// Dupe buckets are walked in sorted order so identical seeds replay
// identical searches even when a dupe elimination wipes a slot out.
func (p *propagator) propagateSingleton(slotID int) *propagationResult {
	pos := p.singletonPosition(slotID)
	ls := p.s.slots[slotID]
	global := ls.globalID(pos)

	dupes := p.s.store.Dupes().GetDupes(p.s.store, global)
	lengths := make([]int, 0, len(dupes))
	for l := range dupes {
		lengths = append(lengths, l)
	}
	sort.Ints(lengths)

	for _, length := range lengths {
		ids := make([]int, 0, len(dupes[length]))
		for id := range dupes[length] {
			ids = append(ids, int(id))
		}
		sort.Ints(ids)

		for _, slot := range p.s.cfg.Slots {
			if slot.Length != length || slot.ID == slotID {
				continue
			}
			if p.isFixed(slot.ID) {
				continue
			}
			other := p.s.slots[slot.ID]
			for _, wordID := range ids {
				dPos, ok := other.posByWordID[wordlist.WordID(wordID)]
				if !ok || !p.isLive(slot.ID, dPos) {
					continue
				}
				newCount, zeroed := p.eliminate(slot.ID, dPos, -1)
				if newCount == 0 {
					return p.failure(slot.ID)
				}
				if newCount == 1 {
					p.addSingletonPending(slot.ID)
				}
				p.enqueueNeighborsOf(slot.ID, zeroed)
			}
		}
	}

	return nil
}
