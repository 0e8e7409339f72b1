package puzzle

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/crossplay/xwordfill/pkg/fill"
)

// Cache is a local solve-result cache backed by sqlite, so repeat runs
// of the crossgen CLI against the same template/word list/config skip
// re-solving entirely.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if necessary) a sqlite-backed solve cache
// at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("puzzle: open cache: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS solve_cache (
		key        TEXT PRIMARY KEY,
		outcome    TEXT NOT NULL,
		choices    TEXT,
		states     INTEGER DEFAULT 0,
		backtracks INTEGER DEFAULT 0,
		retries    INTEGER DEFAULT 0
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("puzzle: init cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// cachedResult is the cache's on-disk record: enough of a fill.Result
// to reconstruct it without re-running Search.
type cachedResult struct {
	Outcome    fill.Outcome
	Choices    []fill.Choice
	States     int
	Backtracks int
	Retries    int
}

// Get retrieves a cached solve result for key. Any database error,
// including a miss, reports false; the caller just re-solves.
func (c *Cache) Get(key string) (fill.Result, bool) {
	if c.db == nil {
		return fill.Result{}, false
	}

	var outcome, choicesJSON string
	var states, backtracks, retries int
	err := c.db.QueryRow(`
		SELECT outcome, choices, states, backtracks, retries
		FROM solve_cache WHERE key = ?
	`, key).Scan(&outcome, &choicesJSON, &states, &backtracks, &retries)
	if err != nil {
		return fill.Result{}, false
	}

	cr := cachedResult{States: states, Backtracks: backtracks, Retries: retries}
	switch outcome {
	case fill.Success.String():
		cr.Outcome = fill.Success
	case fill.HardFailure.String():
		cr.Outcome = fill.HardFailure
	default:
		return fill.Result{}, false
	}

	if choicesJSON != "" {
		if err := json.Unmarshal([]byte(choicesJSON), &cr.Choices); err != nil {
			return fill.Result{}, false
		}
	}

	return fill.Result{
		Outcome: cr.Outcome,
		Choices: cr.Choices,
		Statistics: fill.Statistics{
			States:     cr.States,
			Backtracks: cr.Backtracks,
			Retries:    cr.Retries,
		},
	}, true
}

// Save stores a solve result under key. Only Success and HardFailure
// are worth caching: a Timeout or Abort says nothing about whether a
// future attempt (with more time) would succeed.
func (c *Cache) Save(key string, result fill.Result) error {
	if c.db == nil {
		return fmt.Errorf("puzzle: cache connection is nil")
	}
	if key == "" {
		return fmt.Errorf("puzzle: cache key cannot be empty")
	}
	if result.Outcome != fill.Success && result.Outcome != fill.HardFailure {
		return nil
	}

	choicesJSON, err := json.Marshal(result.Choices)
	if err != nil {
		return fmt.Errorf("puzzle: marshal choices: %w", err)
	}

	_, err = c.db.Exec(`
		INSERT OR REPLACE INTO solve_cache (key, outcome, choices, states, backtracks, retries)
		VALUES (?, ?, ?, ?, ?, ?)
	`, key, result.Outcome.String(), string(choicesJSON),
		result.Statistics.States, result.Statistics.Backtracks, result.Statistics.Retries)
	if err != nil {
		return fmt.Errorf("puzzle: save cache entry: %w", err)
	}
	return nil
}
