package grid

import "github.com/crossplay/xwordfill/pkg/wordlist"

// Direction is the orientation of a Slot.
type Direction int

const (
	// Across is a horizontal slot (left-to-right).
	Across Direction = iota
	// Down is a vertical slot (top-to-bottom).
	Down
)

// String returns the direction's display name.
func (d Direction) String() string {
	switch d {
	case Across:
		return "across"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// MinSlotLength is the minimum run of unblocked cells that forms a slot.
// A single open cell between two blocks is not a slot.
const MinSlotLength = 2

// Crossing connects one cell of an across slot to one cell of a down
// slot. ID is dense, allocated in the order crossings are first
// encountered while walking slots in id order.
type Crossing struct {
	ID         int
	AcrossSlot int
	AcrossCell int
	DownSlot   int
	DownCell   int
}

// cellCrossing names, from one slot's point of view, the crossing at a
// given cell: the other slot and its cell index, plus the crossing id.
type cellCrossing struct {
	Present    bool
	CrossingID int
	OtherSlot  int
	OtherCell  int
}

// Slot is one word-length run of unblocked cells, across or down.
type Slot struct {
	ID        int
	Direction Direction
	StartRow  int
	StartCol  int
	Length    int
	Number    int // clue number of the slot's start cell

	crossings []cellCrossing
}

// Crossing returns the crossing at cell index i of the slot, if any.
func (s *Slot) Crossing(cellIdx int) (other int, otherCell int, crossingID int, ok bool) {
	c := s.crossings[cellIdx]
	return c.OtherSlot, c.OtherCell, c.CrossingID, c.Present
}

// GridConfig is a fully extracted, ready-to-fill grid: dimensions, the
// slot list with precomputed crossings, and per-slot initial candidate
// lists sourced from a word list.
type GridConfig struct {
	Width  int
	Height int

	// Fill is the flat, row-major pre-fill array, indexed by row*Width+col:
	// NoGlyph means unfilled, any other value is an interned glyph.
	Fill []wordlist.Glyph
	// Blocked marks block cells, row-major.
	Blocked []bool

	Slots []*Slot

	Crossings []Crossing

	// InitialOptions[slotID] is the slot's starting candidate list, in
	// bucket order, as produced by SlotOptions.
	InitialOptions [][]wordlist.WordID

	words *wordlist.Store
}

// Words returns the word store the config was built against.
func (g *GridConfig) Words() *wordlist.Store {
	return g.words
}

// CellIndex converts a (row, col) pair to an index into Fill/Blocked.
func (g *GridConfig) CellIndex(row, col int) int {
	return row*g.Width + col
}

// SlotLength returns the length of slot id.
func (g *GridConfig) SlotLength(slotID int) int {
	return g.Slots[slotID].Length
}
