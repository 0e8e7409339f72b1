package cmd

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

var statsDB string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display solve cache statistics",
	Long: `Display statistics about the local solve result cache.

Shows information about:
  - Cached results by outcome (success, hard failure)
  - Average states/backtracks explored per cached solve
  - The costliest cached solves, by backtracks taken

Examples:
  # Show stats for the default cache location
  crossgen stats

  # Show stats for a custom cache database
  crossgen stats --db /path/to/solve_cache.db`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsDB, "db", "d", "", "path to solve cache database (default: ./solve_cache.db)")
}

func runStats(cmd *cobra.Command, args []string) error {
	dbPath := statsDB
	if dbPath == "" {
		dbPath = "./solve_cache.db"
	}

	if verbosity > 0 {
		fmt.Printf("Reading cache database: %s\n", dbPath)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("cache database not found at %s", dbPath)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	fmt.Printf("\nSolve Cache Statistics\n")
	fmt.Printf("======================\n")
	fmt.Printf("Database: %s\n\n", dbPath)

	if err := displayResultsByOutcome(db); err != nil {
		return err
	}
	if err := displayAverageEffort(db); err != nil {
		return err
	}
	if err := displayCostliestSolves(db); err != nil {
		return err
	}

	return nil
}

func displayResultsByOutcome(db *sql.DB) error {
	fmt.Println("Cached Results by Outcome:")
	fmt.Println("---------------------------")

	rows, err := db.Query(`
		SELECT outcome, COUNT(*) as count
		FROM solve_cache
		GROUP BY outcome
		ORDER BY count DESC
	`)
	if err != nil {
		return fmt.Errorf("failed to query results by outcome: %w", err)
	}
	defer rows.Close()

	total := 0
	hasRows := false
	for rows.Next() {
		hasRows = true
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		fmt.Printf("  %-15s: %d\n", outcome, count)
		total += count
	}

	if !hasRows {
		fmt.Println("  No cached results found")
	} else {
		fmt.Printf("  %-15s: %d\n", "TOTAL", total)
	}
	fmt.Println()

	return rows.Err()
}

func displayAverageEffort(db *sql.DB) error {
	fmt.Println("Average Search Effort:")
	fmt.Println("-----------------------")

	var avgStates, avgBacktracks, avgRetries float64
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*), AVG(states), AVG(backtracks), AVG(retries)
		FROM solve_cache
	`).Scan(&count, &avgStates, &avgBacktracks, &avgRetries)
	if err != nil {
		return fmt.Errorf("failed to query average effort: %w", err)
	}

	if count == 0 {
		fmt.Println("  No cached results found")
		fmt.Println()
		return nil
	}

	fmt.Printf("  States:     %.1f\n", avgStates)
	fmt.Printf("  Backtracks: %.1f\n", avgBacktracks)
	fmt.Printf("  Retries:    %.1f\n", avgRetries)
	fmt.Println()

	return nil
}

func displayCostliestSolves(db *sql.DB) error {
	fmt.Println("Costliest Cached Solves (by backtracks):")
	fmt.Println("------------------------------------------")

	rows, err := db.Query(`
		SELECT key, outcome, states, backtracks, retries
		FROM solve_cache
		ORDER BY backtracks DESC
		LIMIT 10
	`)
	if err != nil {
		return fmt.Errorf("failed to query costliest solves: %w", err)
	}
	defer rows.Close()

	hasRows := false
	for rows.Next() {
		hasRows = true
		var key, outcome string
		var states, backtracks, retries int
		if err := rows.Scan(&key, &outcome, &states, &backtracks, &retries); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		fmt.Printf("  %-16s... %-12s states=%-6d backtracks=%-6d retries=%d\n",
			key[:minInt(16, len(key))], outcome, states, backtracks, retries)
	}

	if !hasRows {
		fmt.Println("  No cached results found")
	}
	fmt.Println()

	return rows.Err()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
