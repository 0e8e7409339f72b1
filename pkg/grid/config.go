package grid

import (
	"regexp"

	"github.com/crossplay/xwordfill/pkg/wordlist"
)

// SlotKey names a slot by its clue number and direction, for overrides
// supplied before slot ids are known.
type SlotKey struct {
	Number    int
	Direction Direction
}

// SlotOverride supplies a per-slot minimum score and/or regex that
// replaces the build's global minimum score.
type SlotOverride struct {
	MinScore *int
	Regex    *regexp.Regexp
}

// BuildOptions configures GridConfig construction.
type BuildOptions struct {
	GlobalMinScore int
	Overrides      map[SlotKey]SlotOverride
}

// Build parses a text template and constructs a fully extracted
// GridConfig: slots, crossings, and per-slot initial candidate lists.
// Returns an error if the template is malformed or if a fully
// pre-filled slot's word cannot be registered as a hidden entry. A
// slot with no matching word (including a length the word list lacks
// entirely) gets an empty initial option list rather than an error;
// the solver detects that unsatisfiability on its first propagation.
func Build(templateText string, store *wordlist.Store, opts BuildOptions) (*GridConfig, error) {
	t, err := ParseTemplate(templateText)
	if err != nil {
		return nil, err
	}

	slots := extractSlots(t)
	crossings := buildCrossings(t, slots)

	fill := make([]wordlist.Glyph, t.Width*t.Height)
	for i := range fill {
		fill[i] = t.glyph(store, i)
	}

	cfg := &GridConfig{
		Width:     t.Width,
		Height:    t.Height,
		Fill:      fill,
		Blocked:   t.Blocked,
		Slots:     slots,
		Crossings: crossings,
		words:     store,
	}

	cfg.InitialOptions = make([][]wordlist.WordID, len(slots))
	for _, s := range slots {
		preFill := make([]wordlist.Glyph, s.Length)
		for i := 0; i < s.Length; i++ {
			preFill[i] = fill[cellOf(t, s, i)]
		}

		minScore := opts.GlobalMinScore
		var rx *regexp.Regexp
		if ov, ok := opts.Overrides[SlotKey{Number: s.Number, Direction: s.Direction}]; ok {
			if ov.MinScore != nil {
				minScore = *ov.MinScore
			}
			rx = ov.Regex
		}

		ids, err := Candidates(store, s.Length, SlotOptions{PreFill: preFill, MinScore: minScore, Regex: rx})
		if err != nil {
			return nil, err
		}
		cfg.InitialOptions[s.ID] = ids
	}

	return cfg, nil
}
