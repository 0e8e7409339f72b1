package grid

// extractSlots scans a template for across and down slots: across
// slots get ids first in row-major order, then down slots in
// column-major order. A maximal run of unblocked cells shorter than MinSlotLength
// is not a slot.
func extractSlots(t *Template) []*Slot {
	slots := []*Slot{}

	number := 1
	numberAt := make([]int, t.Width*t.Height)

	// First pass: assign clue numbers to cells that start an across
	// or down run of length >= MinSlotLength.
	for row := 0; row < t.Height; row++ {
		for col := 0; col < t.Width; col++ {
			idx := row*t.Width + col
			if t.Blocked[idx] {
				continue
			}

			startsAcross := (col == 0 || t.Blocked[idx-1]) &&
				col+1 < t.Width && !t.Blocked[idx+1]
			startsDown := (row == 0 || t.Blocked[idx-t.Width]) &&
				row+1 < t.Height && !t.Blocked[idx+t.Width]

			if startsAcross || startsDown {
				numberAt[idx] = number
				number++
			}
		}
	}

	// Second pass: across slots, row-major.
	for row := 0; row < t.Height; row++ {
		for col := 0; col < t.Width; col++ {
			idx := row*t.Width + col
			if t.Blocked[idx] {
				continue
			}
			if col != 0 && !t.Blocked[idx-1] {
				continue
			}
			length := 0
			for c := col; c < t.Width && !t.Blocked[row*t.Width+c]; c++ {
				length++
			}
			if length < MinSlotLength {
				continue
			}
			slots = append(slots, &Slot{
				ID:        len(slots),
				Direction: Across,
				StartRow:  row,
				StartCol:  col,
				Length:    length,
				Number:    numberAt[idx],
			})
		}
	}

	// Third pass: down slots, column-major.
	for col := 0; col < t.Width; col++ {
		for row := 0; row < t.Height; row++ {
			idx := row*t.Width + col
			if t.Blocked[idx] {
				continue
			}
			if row != 0 && !t.Blocked[idx-t.Width] {
				continue
			}
			length := 0
			for r := row; r < t.Height && !t.Blocked[r*t.Width+col]; r++ {
				length++
			}
			if length < MinSlotLength {
				continue
			}
			slots = append(slots, &Slot{
				ID:        len(slots),
				Direction: Down,
				StartRow:  row,
				StartCol:  col,
				Length:    length,
				Number:    numberAt[idx],
			})
		}
	}

	return slots
}

// cellOf returns the flat cell index of cell i of slot s.
func cellOf(t *Template, s *Slot, i int) int {
	if s.Direction == Across {
		return s.StartRow*t.Width + s.StartCol + i
	}
	return (s.StartRow+i)*t.Width + s.StartCol
}

// buildCrossings walks slots in id order and allocates dense crossing
// ids the first time a (across-slot, down-slot) pair is encountered,
// the (min,max) slot-id pair acting as the cache key. It also fills in
// each slot's per-cell crossing table.
func buildCrossings(t *Template, slots []*Slot) []Crossing {
	// cellIndex -> slot id + cell-in-slot, one entry per direction.
	acrossAt := make(map[int]struct {
		slot, cell int
	})
	downAt := make(map[int]struct {
		slot, cell int
	})

	for _, s := range slots {
		for i := 0; i < s.Length; i++ {
			idx := cellOf(t, s, i)
			if s.Direction == Across {
				acrossAt[idx] = struct{ slot, cell int }{s.ID, i}
			} else {
				downAt[idx] = struct{ slot, cell int }{s.ID, i}
			}
		}
		s.crossings = make([]cellCrossing, s.Length)
	}

	crossings := []Crossing{}
	seen := make(map[[2]int]int) // (across slot, down slot) -> crossing id

	for _, s := range slots {
		for i := 0; i < s.Length; i++ {
			idx := cellOf(t, s, i)
			var acrossSlot, acrossCell, downSlot, downCell int
			var have bool

			if s.Direction == Across {
				a, ok := acrossAt[idx]
				if !ok {
					continue
				}
				d, ok := downAt[idx]
				if !ok {
					continue
				}
				acrossSlot, acrossCell = a.slot, a.cell
				downSlot, downCell = d.slot, d.cell
				have = true
			} else {
				d, ok := downAt[idx]
				if !ok {
					continue
				}
				a, ok := acrossAt[idx]
				if !ok {
					continue
				}
				acrossSlot, acrossCell = a.slot, a.cell
				downSlot, downCell = d.slot, d.cell
				have = true
			}
			if !have {
				continue
			}

			key := [2]int{acrossSlot, downSlot}
			id, ok := seen[key]
			if !ok {
				id = len(crossings)
				seen[key] = id
				crossings = append(crossings, Crossing{
					ID:         id,
					AcrossSlot: acrossSlot,
					AcrossCell: acrossCell,
					DownSlot:   downSlot,
					DownCell:   downCell,
				})
			}

			if s.Direction == Across {
				slots[s.ID].crossings[i] = cellCrossing{
					Present: true, CrossingID: id, OtherSlot: downSlot, OtherCell: downCell,
				}
			} else {
				slots[s.ID].crossings[i] = cellCrossing{
					Present: true, CrossingID: id, OtherSlot: acrossSlot, OtherCell: acrossCell,
				}
			}
		}
	}

	return crossings
}
