// Package puzzle orchestrates a single solve: parse a template, build
// a GridConfig against a loaded word list, run the backtracking
// search, and hand the result to pkg/output. There is no grid or clue
// generation here; both are out of scope for this system.
package puzzle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/crossplay/xwordfill/pkg/fill"
	"github.com/crossplay/xwordfill/pkg/grid"
	"github.com/crossplay/xwordfill/pkg/wordlist"
)

// ErrInvalidConfig is returned when a Config cannot be used to run a solve.
var ErrInvalidConfig = errors.New("puzzle: invalid configuration")

// ErrNoWordlist is returned when a Generator was constructed without a
// word list to draw candidates from.
var ErrNoWordlist = errors.New("puzzle: generator has no word list loaded")

// Config tunes one Solve call: the grid-construction options plus the
// search tuning fill.Config exposes, gathered in one place so a CLI
// flag set or an HTTP request body maps onto it directly.
type Config struct {
	// WordListID names the word list backing the generator's Store, for
	// cache-key purposes only; it does not affect the solve itself.
	WordListID string

	GlobalMinScore int
	Overrides      map[grid.SlotKey]grid.SlotOverride

	Seed                  int64
	Deadline              time.Time
	Abort                 *bool
	InitialMaxBacktracks  int
	BacktrackGrowthFactor float64

	// Progress, if non-nil, is forwarded to fill.Config so callers can
	// stream search progress. It never fires on a cache hit.
	Progress func(states, backtracks, retry int)
}

// Generator runs solves against a fixed word list, optionally caching
// results in a local sqlite database keyed by template/config content.
type Generator struct {
	store *wordlist.Store
	cache *Cache
}

// NewGenerator returns a Generator drawing candidates from store. cache
// may be nil to disable result caching.
func NewGenerator(store *wordlist.Store, cache *Cache) *Generator {
	return &Generator{store: store, cache: cache}
}

// Solve parses templateText, builds a GridConfig against the
// generator's word list, and runs fill.Search. A cache hit (keyed on
// the template, word list id, and config) skips Search entirely.
func (g *Generator) Solve(ctx context.Context, templateText string, cfg Config) (*grid.GridConfig, fill.Result, error) {
	if g.store == nil {
		return nil, fill.Result{}, ErrNoWordlist
	}

	gridCfg, err := grid.Build(templateText, g.store, grid.BuildOptions{
		GlobalMinScore: cfg.GlobalMinScore,
		Overrides:      cfg.Overrides,
	})
	if err != nil {
		return nil, fill.Result{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	key := cacheKey(templateText, cfg)
	if g.cache != nil {
		if cached, ok := g.cache.Get(key); ok {
			return gridCfg, cached, nil
		}
	}

	result := fill.Search(gridCfg, fill.Config{
		Seed:                  cfg.Seed,
		Deadline:              cfg.Deadline,
		Abort:                 cfg.Abort,
		InitialMaxBacktracks:  cfg.InitialMaxBacktracks,
		BacktrackGrowthFactor: cfg.BacktrackGrowthFactor,
		Progress:              cfg.Progress,
	})

	if g.cache != nil {
		if err := g.cache.Save(key, result); err != nil {
			return gridCfg, result, fmt.Errorf("puzzle: caching result: %w", err)
		}
	}

	select {
	case <-ctx.Done():
		return gridCfg, result, ctx.Err()
	default:
	}

	return gridCfg, result, nil
}

// cacheKey hashes the template text together with every config field
// that can change the solve's outcome: the word list identity, the
// score/regex overrides, and the seed. Deadline/Abort/backtrack tuning
// affect only how hard Search tries, never what a Success looks like,
// so they are deliberately excluded.
func cacheKey(templateText string, cfg Config) string {
	h := sha256.New()
	h.Write([]byte(templateText))
	fmt.Fprintf(h, "\x00wordlist=%s\x00minscore=%d\x00seed=%d", cfg.WordListID, cfg.GlobalMinScore, cfg.Seed)

	type overrideEntry struct {
		key grid.SlotKey
		ov  grid.SlotOverride
	}
	entries := make([]overrideEntry, 0, len(cfg.Overrides))
	for k, ov := range cfg.Overrides {
		entries = append(entries, overrideEntry{k, ov})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].key.Number != entries[j].key.Number {
			return entries[i].key.Number < entries[j].key.Number
		}
		return entries[i].key.Direction < entries[j].key.Direction
	})

	for _, e := range entries {
		minScore := -1
		if e.ov.MinScore != nil {
			minScore = *e.ov.MinScore
		}
		pattern := ""
		if e.ov.Regex != nil {
			pattern = e.ov.Regex.String()
		}
		fmt.Fprintf(h, "\x00override=%d:%d:%d:%s", e.key.Number, e.key.Direction, minScore, pattern)
	}

	return hex.EncodeToString(h.Sum(nil))
}
