package fill

import (
	"math/rand"
	"time"

	"github.com/crossplay/xwordfill/pkg/grid"
)

// Search runs the weighted backtracking search to completion against
// cfg, honoring c's deadline/abort, restarting with a growing
// backtrack budget until it succeeds or hits a terminal failure.
func Search(cfg *grid.GridConfig, c Config) Result {
	if cfg == nil {
		return Result{Outcome: HardFailure}
	}
	c = c.withDefaults()

	start := time.Now()
	stats := Statistics{}
	maxBacktracks := c.InitialMaxBacktracks
	retry := 0

	for {
		a := &attempt{
			cfg:            cfg,
			s:              newSearchState(cfg),
			rng:            rand.New(rand.NewSource(c.Seed ^ int64(retry))),
			maxBacktracks:  maxBacktracks,
			deadline:       c.Deadline,
			abort:          c.Abort,
			lastChosenSlot: noFixed,
			progress:       c.Progress,
			baseStates:     stats.States,
			baseBacktracks: stats.Backtracks,
			retryNum:       retry,
		}

		outcome := a.run()
		stats.States += a.stats.States
		stats.Backtracks += a.stats.Backtracks
		stats.RestrictedBranches += a.stats.RestrictedBranches
		stats.InitialPropTime += a.stats.InitialPropTime
		stats.ChoicePropTime += a.stats.ChoicePropTime
		stats.EliminationPropTime += a.stats.EliminationPropTime

		switch outcome {
		case Success:
			stats.TotalTime = time.Since(start)
			return Result{Outcome: Success, Choices: a.collectChoices(), Statistics: stats}
		case Timeout, Abort, HardFailure:
			stats.TotalTime = time.Since(start)
			return Result{Outcome: outcome, Statistics: stats}
		default: // ExceededBacktrackLimit
			retry++
			stats.Retries++
			maxBacktracks = growBacktracks(maxBacktracks, c.BacktrackGrowthFactor)
		}
	}
}

// growBacktracks multiplies n by factor, rounding up, and always grows
// by at least 1 so a degenerate factor can't stall the restart policy.
func growBacktracks(n int, factor float64) int {
	grown := float64(n) * factor
	next := int(grown)
	if float64(next) < grown {
		next++
	}
	if next <= n {
		next = n + 1
	}
	return next
}

// candidate is one eligible slot's id and current priority
// (remaining/slotWeight — lower is better), used by variable ordering.
type candidate struct {
	id       int
	priority float64
}

// pendingChoice is one frame of the attempt's choice stack: the slot
// fixed, the position chosen, and every elimination (by slot) that
// choice's propagation committed, so backtracking can undo exactly
// those and no others.
type pendingChoice struct {
	slotID     int
	pos        int
	eliminated map[int][]int
}

// attempt is one restart's worth of search state: a fresh searchState,
// crossing weights reset to 1.0, and its own choice stack.
type attempt struct {
	cfg            *grid.GridConfig
	s              *searchState
	rng            *rand.Rand
	maxBacktracks  int
	deadline       time.Time
	abort          *bool
	progress       func(states, backtracks, retry int)
	baseStates     int
	baseBacktracks int
	retryNum       int

	statesSince    int
	stack          []pendingChoice
	stats          Statistics
	lastChosenSlot int
}

// run drives one attempt's initial propagation and choice/backtrack
// loop, returning a terminal Outcome.
func (a *attempt) run() Outcome {
	initStart := time.Now()
	res := propagate(a.s, modeInitial, 0, 0)
	a.stats.InitialPropTime += time.Since(initStart)
	if !res.ok {
		return HardFailure
	}
	a.commitInitial(res)

	for {
		a.stats.States++
		a.statesSince++
		if a.statesSince >= InterruptInterval {
			a.statesSince = 0
			if a.progress != nil {
				a.progress(a.baseStates+a.stats.States, a.baseBacktracks+a.stats.Backtracks, a.retryNum)
			}
			if out, stop := a.checkInterrupt(); stop {
				return out
			}
		}

		slotID, pos, ok := a.chooseNext()
		if !ok {
			return Success
		}

		choiceStart := time.Now()
		res := propagate(a.s, modeChoice, slotID, pos)
		a.stats.ChoicePropTime += time.Since(choiceStart)

		if res.ok {
			a.fix(slotID, pos)
			a.commitChoice(res, slotID, pos)
			continue
		}

		out, ok := a.retryAfterFailure(slotID, pos)
		if !ok {
			return out
		}
	}
}

// checkInterrupt polls the deadline and abort flag.
func (a *attempt) checkInterrupt() (Outcome, bool) {
	if a.abort != nil && *a.abort {
		return Abort, true
	}
	if !a.deadline.IsZero() && time.Now().After(a.deadline) {
		return Timeout, true
	}
	return Success, false
}

// retryAfterFailure handles a failed Choice propagation for (slotID,
// pos). It tries eliminating (slotID, pos) blamed on the current top
// of the choice stack (or noFixed if the stack is empty); if that
// elimination also fails to propagate, it backtracks the last choice
// and retries the elimination blamed on the new top of stack, looping
// until one succeeds, the stack empties (HardFailure), or the attempt's
// backtrack budget runs out (ExceededBacktrackLimit).
func (a *attempt) retryAfterFailure(slotID, pos int) (Outcome, bool) {
	for {
		blamedSlot := noFixed
		if len(a.stack) > 0 {
			blamedSlot = a.stack[len(a.stack)-1].slotID
		}

		elimStart := time.Now()
		res := propagate(a.s, modeElimination, slotID, pos)
		a.stats.EliminationPropTime += time.Since(elimStart)

		if res.ok {
			a.eliminate(slotID, pos, blamedSlot)
			if len(a.stack) > 0 && a.stack[len(a.stack)-1].slotID == blamedSlot {
				frame := &a.stack[len(a.stack)-1]
				frame.eliminated[slotID] = append(frame.eliminated[slotID], pos)
			}
			a.commitElimination(res, blamedSlot)
			return Success, true
		}

		a.applyWeightUpdates(res)

		if len(a.stack) == 0 {
			return HardFailure, false
		}
		if a.stats.Backtracks >= a.maxBacktracks {
			return ExceededBacktrackLimit, false
		}

		a.stats.Backtracks++
		popped := a.pop()
		slotID, pos = popped.slotID, popped.pos
	}
}

// chooseNext picks the next (slot, word-position) to fix via weighted
// dynamic variable/value ordering, or reports no slot is eligible
// (every slot is fixed or has exactly one surviving option).
func (a *attempt) chooseNext() (slotID, pos int, ok bool) {
	var eligible []candidate
	for _, slot := range a.cfg.Slots {
		ls := a.s.slots[slot.ID]
		if ls.fixed != noFixed || ls.remaining <= 1 {
			continue
		}
		weight := a.s.slotWeight(slot.ID)
		if weight <= 0 {
			weight = 1e-9
		}
		eligible = append(eligible, candidate{id: slot.ID, priority: float64(ls.remaining) / weight})
	}
	if len(eligible) == 0 {
		return 0, 0, false
	}

	best := eligible[0].priority
	for _, c := range eligible[1:] {
		if c.priority < best {
			best = c.priority
		}
	}

	if a.lastChosenSlot != noFixed {
		for _, c := range eligible {
			if c.id == a.lastChosenSlot && c.priority-best <= adaptiveBranchingThreshold {
				a.stats.RestrictedBranches++
				return c.id, a.chooseValue(c.id), true
			}
		}
	}

	sortByPriority(eligible)
	k := topK
	if k > len(eligible) {
		k = len(eligible)
	}
	idx := weightedPick(a.rng, sampleWeights[:k])
	chosen := eligible[idx]
	a.lastChosenSlot = chosen.id
	return chosen.id, a.chooseValue(chosen.id), true
}

// sortByPriority sorts candidates ascending by priority (lower is
// better); insertion sort is plenty for the handful of eligible slots
// typical of a crossword grid.
func sortByPriority(c []candidate) {
	for i := 1; i < len(c); i++ {
		j := i
		for j > 0 && c[j].priority < c[j-1].priority {
			c[j], c[j-1] = c[j-1], c[j]
			j--
		}
	}
}

// chooseValue picks a live word position within slotID's static option
// list, by the same top-K/PRNG scheme as variable ordering.
func (a *attempt) chooseValue(slotID int) int {
	ls := a.s.slots[slotID]
	var live []int
	for pos := range ls.options {
		if !ls.eliminated.contains(pos) {
			live = append(live, pos)
		}
	}
	k := topK
	if k > len(live) {
		k = len(live)
	}
	idx := weightedPick(a.rng, sampleWeights[:k])
	return live[idx]
}

// weightedPick samples an index in [0, len(weights)) proportional to
// weights, using r.
func weightedPick(r *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	n := r.Intn(total)
	for i, w := range weights {
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1
}

// fix marks slotID's live state as fixed to pos.
func (a *attempt) fix(slotID, pos int) {
	a.s.slots[slotID].fixed = pos
}

// eliminate marks position pos of slotID eliminated in the live state,
// blamed on blamedSlot, keeping the slot's glyph counts in step.
func (a *attempt) eliminate(slotID, pos, blamedSlot int) {
	ls := a.s.slots[slotID]
	ls.eliminated.add(pos)
	ls.blamedSlot[pos] = blamedSlot
	ls.remaining--
	ls.dropCounts(a.s.wordAt(slotID, pos))
}

// commitInitial applies the initial propagation's eliminations, blamed
// on no slot (noFixed) since they stem from seeding alone.
func (a *attempt) commitInitial(res *propagationResult) {
	for slotID, set := range res.perSlot {
		ls := a.s.slots[slotID]
		for _, pos := range set.added {
			if ls.eliminated.contains(pos) {
				continue
			}
			a.eliminate(slotID, pos, noFixed)
		}
	}
}

// commitChoice pushes a new choice frame and applies its propagation's
// eliminations, blamed on the slot just fixed.
func (a *attempt) commitChoice(res *propagationResult, slotID, pos int) {
	frame := pendingChoice{slotID: slotID, pos: pos, eliminated: make(map[int][]int)}
	for sid, set := range res.perSlot {
		ls := a.s.slots[sid]
		for _, p := range set.added {
			if ls.eliminated.contains(p) {
				continue
			}
			a.eliminate(sid, p, slotID)
			frame.eliminated[sid] = append(frame.eliminated[sid], p)
		}
	}
	a.stack = append(a.stack, frame)
}

// commitElimination applies a successful retry-elimination's further
// propagated eliminations, blamed on blamedSlot (the new top-of-stack
// slot, or noFixed if the stack is now empty), folding them into the
// current top frame so a later backtrack undoes them too.
func (a *attempt) commitElimination(res *propagationResult, blamedSlot int) {
	var frame *pendingChoice
	if len(a.stack) > 0 {
		frame = &a.stack[len(a.stack)-1]
	}
	for sid, set := range res.perSlot {
		ls := a.s.slots[sid]
		for _, pos := range set.added {
			if ls.eliminated.contains(pos) {
				continue
			}
			a.eliminate(sid, pos, blamedSlot)
			if frame != nil {
				frame.eliminated[sid] = append(frame.eliminated[sid], pos)
			}
		}
	}
}

// applyWeightUpdates folds a propagation failure's weight increments
// into the attempt's crossing weights with the aging decay:
// w' = 1 + (w-1)*alpha + delta.
func (a *attempt) applyWeightUpdates(res *propagationResult) {
	for crossingID, delta := range res.weightUpdates {
		w := a.s.crossingWeights[crossingID]
		a.s.crossingWeights[crossingID] = 1.0 + (w-1.0)*ageFactor + delta
	}
}

// pop undoes the most recent choice: un-fixes its slot and every
// elimination blamed on it, across every slot it touched.
func (a *attempt) pop() pendingChoice {
	frame := a.stack[len(a.stack)-1]
	a.stack = a.stack[:len(a.stack)-1]

	a.s.slots[frame.slotID].fixed = noFixed
	for sid, positions := range frame.eliminated {
		ls := a.s.slots[sid]
		for _, pos := range positions {
			ls.eliminated.removeOne(pos)
			ls.blamedSlot[pos] = noFixed
			ls.remaining++
			ls.restoreCounts(a.s.wordAt(sid, pos))
		}
	}

	if a.lastChosenSlot == frame.slotID {
		a.lastChosenSlot = noFixed
	}
	return frame
}

// collectChoices gathers, for every slot, either its fixed word or (if
// propagation narrowed it to one option without it ever being chosen)
// its sole surviving word.
func (a *attempt) collectChoices() []Choice {
	choices := make([]Choice, 0, len(a.s.slots))
	for slotID, ls := range a.s.slots {
		var pos int
		switch {
		case ls.fixed != noFixed:
			pos = ls.fixed
		case ls.remaining == 1:
			pos = a.s.singletonPos(slotID)
		default:
			continue
		}
		choices = append(choices, Choice{SlotID: slotID, WordID: int(ls.options[pos])})
	}
	return choices
}
