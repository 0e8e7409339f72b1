package wordlist

import "fmt"

// Bucket holds every Word of one glyph length, in insertion order.
// WordID is the index into Words.
type Bucket struct {
	Words []Word
}

// Store is the glyph/word store: an interning table plus words bucketed
// by length, each retrievable by normalized string in O(1). Every
// normalized string appears in at most one bucket position across the
// store's lifetime.
type Store struct {
	Glyphs         *GlyphStore
	buckets        map[int]*Bucket
	wordIDByString map[string]GlobalWordID
	dupes          *DupeIndex
}

// New returns an empty Store. window is the Dupe Index's substring
// window size (0 disables substring duplicate detection).
func New(window int) *Store {
	return &Store{
		Glyphs:         NewGlyphStore(),
		buckets:        make(map[int]*Bucket),
		wordIDByString: make(map[string]GlobalWordID),
		dupes:          NewDupeIndex(window),
	}
}

// Bucket returns the bucket for length L, or nil if no words of that
// length have been added.
func (s *Store) Bucket(length int) *Bucket {
	return s.buckets[length]
}

// Word resolves a GlobalWordID to its Word. Panics if the id does not
// name a live entry in this store.
func (s *Store) Word(id GlobalWordID) *Word {
	return &s.buckets[id.Length].Words[id.ID]
}

// Lookup returns the GlobalWordID already registered for a normalized
// string, if any.
func (s *Store) Lookup(normalized string) (GlobalWordID, bool) {
	id, ok := s.wordIDByString[normalized]
	return id, ok
}

// AddWord interns normalized, grows the bucket for its length, appends
// a new entry, and indexes it by string. normalized must be non-empty
// and must not already be registered; callers (ReplaceList, file
// loaders) are responsible for skipping duplicates before calling.
func (s *Store) AddWord(normalized, canonical string, score, sourceIndex int, hidden bool) (GlobalWordID, error) {
	if normalized == "" {
		return GlobalWordID{}, fmt.Errorf("wordlist: empty normalized string")
	}
	if _, exists := s.wordIDByString[normalized]; exists {
		return GlobalWordID{}, fmt.Errorf("wordlist: %q already registered", normalized)
	}

	glyphs := s.Glyphs.internString(normalized)
	length := len(glyphs)

	b, ok := s.buckets[length]
	if !ok {
		b = &Bucket{}
		s.buckets[length] = b
	}

	id := WordID(len(b.Words))
	b.Words = append(b.Words, Word{
		Normalized:  normalized,
		Canonical:   canonical,
		Glyphs:      glyphs,
		Score:       score,
		LetterScore: sumLetterScores(normalized),
		Hidden:      hidden,
		SourceIndex: sourceIndex,
	})

	global := GlobalWordID{Length: length, ID: id}
	s.wordIDByString[normalized] = global
	s.dupes.addWord(s, global)

	return global, nil
}

// LookupOrAddHidden returns the existing entry for normalized if one
// exists, otherwise adds it as a hidden, zero-score entry. Hidden
// entries are append-only for the run: once added they are never
// removed, only ever invisible to SlotOptions enumeration.
func (s *Store) LookupOrAddHidden(normalized string) (GlobalWordID, error) {
	if id, ok := s.wordIDByString[normalized]; ok {
		return id, nil
	}
	return s.AddWord(normalized, normalized, 0, -1, true)
}

// WordSource is one ordered input to ReplaceList: a normalized/canonical
// pair plus score and hidden flag. Its source index is its position in
// the slice passed to ReplaceList, so the "first source wins" rule
// follows the caller's ordering.
type WordSource struct {
	Normalized string
	Canonical  string
	Score      int
	Hidden     bool
}

// ReplaceList clears the store and re-ingests sources in order. The
// first source where a normalized string appears owns it; later
// duplicates are skipped silently.
func (s *Store) ReplaceList(sources []WordSource) error {
	s.Glyphs = NewGlyphStore()
	s.buckets = make(map[int]*Bucket)
	s.wordIDByString = make(map[string]GlobalWordID)
	window := s.dupes.window
	s.dupes = NewDupeIndex(window)

	for i, src := range sources {
		if src.Normalized == "" {
			continue
		}
		if _, exists := s.wordIDByString[src.Normalized]; exists {
			continue
		}
		if _, err := s.AddWord(src.Normalized, src.Canonical, src.Score, i, src.Hidden); err != nil {
			return err
		}
	}
	return nil
}

// Dupes exposes the store's Dupe Index for callers (SlotOptions,
// propagation) that need duplicate lookups.
func (s *Store) Dupes() *DupeIndex {
	return s.dupes
}

// Size returns the total number of words across all buckets, including
// hidden entries.
func (s *Store) Size() int {
	n := 0
	for _, b := range s.buckets {
		n += len(b.Words)
	}
	return n
}
