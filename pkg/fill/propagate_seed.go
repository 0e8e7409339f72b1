package fill

// propagate dispatches to the seeding routine matching m and runs the
// arc-consistency main loop to completion.
func propagate(s *searchState, m mode, slotID, pos int) *propagationResult {
	switch m {
	case modeInitial:
		return propagateInitial(s)
	case modeChoice:
		return propagateChoice(s, slotID, pos)
	case modeElimination:
		return propagateElimination(s, slotID, pos)
	default:
		panic("fill: unknown propagation mode")
	}
}

// propagateInitial seeds every non-fixed slot's cells whose crossing
// peer is not fixed, flags existing singletons, and fails immediately
// if any slot already has zero options.
func propagateInitial(s *searchState) *propagationResult {
	p := newPropagator(s)

	for _, slot := range s.cfg.Slots {
		if p.optionCount(slot.ID) == 0 {
			return &propagationResult{ok: false, weightUpdates: map[int]float64{}}
		}
	}

	for _, slot := range s.cfg.Slots {
		if p.isFixed(slot.ID) {
			continue
		}
		for i := 0; i < slot.Length; i++ {
			other, _, _, ok := slot.Crossing(i)
			if !ok || p.isFixed(other) {
				continue
			}
			p.slot(slot.ID).enqueue(i)
		}
		if p.optionCount(slot.ID) == 1 {
			p.addSingletonPending(slot.ID)
		}
	}

	return p.run()
}

// propagateChoice tentatively fixes slotID to pos and propagates the
// consequences.
func propagateChoice(s *searchState, slotID, pos int) *propagationResult {
	p := newPropagator(s)
	p.force(slotID, pos)
	slot := s.cfg.Slots[slotID]
	for i := 0; i < slot.Length; i++ {
		p.slot(slotID).enqueue(i)
	}
	p.addSingletonPending(slotID)
	return p.run()
}

// propagateElimination tentatively removes pos from slotID and
// propagates the consequences.
func propagateElimination(s *searchState, slotID, pos int) *propagationResult {
	p := newPropagator(s)
	newCount, zeroed := p.eliminate(slotID, pos, -1)
	if newCount == 0 {
		return p.failure(slotID)
	}

	slot := s.cfg.Slots[slotID]
	for i := 0; i < slot.Length; i++ {
		other, _, _, ok := slot.Crossing(i)
		if !ok || p.isFixed(other) {
			continue
		}
		p.slot(slotID).enqueue(i)
	}
	p.enqueueNeighborsOf(slotID, zeroed)
	if newCount == 1 {
		p.addSingletonPending(slotID)
	}

	return p.run()
}
