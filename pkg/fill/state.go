package fill

import (
	"github.com/crossplay/xwordfill/pkg/grid"
	"github.com/crossplay/xwordfill/pkg/wordlist"
)

// noFixed marks a slot with no currently fixed word.
const noFixed = -1

// liveSlotState is a slot's search-wide state: it persists across
// propagation calls and is only ever mutated by the search loop
// committing a successful propagation's results (or undoing them on
// backtrack).
type liveSlotState struct {
	options     []wordlist.WordID // same order as GridConfig.InitialOptions[slotID]
	posByWordID map[wordlist.WordID]int
	eliminated  *eliminationSet // indexed by position in options, not WordID
	blamedSlot  []int           // blamedSlot[pos] = slot id blamed for eliminating options[pos]
	glyphCounts [][]int         // glyphCounts[cell][glyph] = count of live options with that glyph at cell
	remaining   int
	fixed       int // index into options, or noFixed
	length      int
}

func newLiveSlotState(slot *grid.Slot, options []wordlist.WordID, store *wordlist.Store, glyphAlphabet int) *liveSlotState {
	s := &liveSlotState{
		options:     options,
		posByWordID: make(map[wordlist.WordID]int, len(options)),
		eliminated:  newEliminationSet(len(options)),
		blamedSlot:  make([]int, len(options)),
		glyphCounts: make([][]int, slot.Length),
		remaining:   len(options),
		fixed:       noFixed,
		length:      slot.Length,
	}
	for c := 0; c < slot.Length; c++ {
		s.glyphCounts[c] = make([]int, glyphAlphabet)
	}
	for pos, id := range options {
		s.posByWordID[id] = pos
		w := store.Word(wordlist.GlobalWordID{Length: slot.Length, ID: id})
		for c, g := range w.Glyphs {
			s.glyphCounts[c][g]++
		}
	}
	for i := range s.blamedSlot {
		s.blamedSlot[i] = noFixed
	}
	return s
}

// globalID returns the GlobalWordID at position pos.
func (s *liveSlotState) globalID(pos int) wordlist.GlobalWordID {
	return wordlist.GlobalWordID{Length: s.length, ID: s.options[pos]}
}

// dropCounts removes w's letters from the live per-cell glyph counts;
// paired with restoreCounts so commits and backtracks keep the
// invariant that each cell's counts sum to the slot's remaining count.
func (s *liveSlotState) dropCounts(w *wordlist.Word) {
	for c, g := range w.Glyphs {
		s.glyphCounts[c][g]--
	}
}

func (s *liveSlotState) restoreCounts(w *wordlist.Word) {
	for c, g := range w.Glyphs {
		s.glyphCounts[c][g]++
	}
}

// searchState holds everything a single Search attempt needs: the
// grid config, the word store, per-slot live state, and the learned
// crossing weights carried across propagation calls within the
// attempt.
type searchState struct {
	cfg   *grid.GridConfig
	store *wordlist.Store
	slots []*liveSlotState
	// crossingWeights[crossingID] is initialized to 1.0; each failure
	// update decays it toward 1.0 and then adds that failure's increment,
	// so it never drops below 1.0. A fresh attempt starts fresh.
	crossingWeights []float64
}

func newSearchState(cfg *grid.GridConfig) *searchState {
	store := cfg.Words()
	alphabet := store.Glyphs.Len()

	s := &searchState{
		cfg:             cfg,
		store:           store,
		slots:           make([]*liveSlotState, len(cfg.Slots)),
		crossingWeights: make([]float64, len(cfg.Crossings)),
	}
	for i := range s.crossingWeights {
		s.crossingWeights[i] = 1.0
	}
	for _, slot := range cfg.Slots {
		s.slots[slot.ID] = newLiveSlotState(slot, cfg.InitialOptions[slot.ID], store, alphabet)
	}
	return s
}

// wordAt returns the live word at position pos of slot slotID.
func (s *searchState) wordAt(slotID, pos int) *wordlist.Word {
	ls := s.slots[slotID]
	return s.store.Word(wordlist.GlobalWordID{Length: ls.length, ID: ls.options[pos]})
}

// singletonPos returns the position of the sole surviving option in a
// singleton slot.
func (s *searchState) singletonPos(slotID int) int {
	ls := s.slots[slotID]
	for i := range ls.options {
		if !ls.eliminated.contains(i) {
			return i
		}
	}
	panic("fill: singletonPos called on a non-singleton slot")
}

// slotWeight sums crossingWeights over every crossing of slotID whose
// peer slot is not yet decided (fixed, or down to one option).
func (s *searchState) slotWeight(slotID int) float64 {
	slot := s.cfg.Slots[slotID]
	total := 0.0
	for i := 0; i < slot.Length; i++ {
		other, _, crossingID, ok := slot.Crossing(i)
		if !ok {
			continue
		}
		peer := s.slots[other]
		if peer.fixed != noFixed || peer.remaining <= 1 {
			continue
		}
		total += s.crossingWeights[crossingID]
	}
	return total
}
