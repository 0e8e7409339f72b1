package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/crossplay/xwordfill/pkg/grid"
	"github.com/crossplay/xwordfill/pkg/wordlist"
	"github.com/spf13/cobra"
)

var (
	validateInput    string
	validateWordlist string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate crossword grid templates",
	Long: `Validate one or more grid template files for structural correctness.

Checks include:
  - 180-degree rotational symmetry
  - every open cell belonging to at least one slot
  - every slot having a non-empty initial candidate list (when --wordlist is given)

Examples:
  # Validate a single template
  crossgen validate --input grid.txt

  # Validate every template in a directory, checking against a wordlist
  crossgen validate --input ./templates --wordlist broda.txt`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "template file or directory to validate (required)")
	validateCmd.Flags().StringVarP(&validateWordlist, "wordlist", "w", "", "path to a Peter Broda-format wordlist, to check slot satisfiability")
	validateCmd.MarkFlagRequired("input")
}

func runValidate(cmd *cobra.Command, args []string) error {
	info, err := os.Stat(validateInput)
	if err != nil {
		return fmt.Errorf("failed to access input path: %w", err)
	}

	var files []string
	if info.IsDir() {
		files, err = filepath.Glob(filepath.Join(validateInput, "*.txt"))
		if err != nil {
			return fmt.Errorf("failed to list directory: %w", err)
		}
		if len(files) == 0 {
			return fmt.Errorf("no .txt template files found in directory: %s", validateInput)
		}
	} else {
		files = []string{validateInput}
	}

	store := wordlist.New(0)
	if validateWordlist != "" {
		f, err := os.Open(validateWordlist)
		if err != nil {
			return fmt.Errorf("failed to open wordlist: %w", err)
		}
		parseErrs := wordlist.LoadBroda(store, f)
		f.Close()
		for i := range parseErrs {
			fmt.Fprintf(os.Stderr, "wordlist parse error: %v\n", &parseErrs[i])
		}
		if verbosity > 0 {
			fmt.Printf("Loaded %d words from %s\n", store.Size(), validateWordlist)
		}
	}

	invalid := 0
	for _, path := range files {
		errs, err := validateTemplateFile(path, store)
		if err != nil {
			fmt.Printf("x %s: ERROR - %v\n", filepath.Base(path), err)
			invalid++
			continue
		}
		if len(errs) > 0 {
			fmt.Printf("x %s: INVALID\n", filepath.Base(path))
			for _, e := range errs {
				fmt.Printf("   - %s\n", e)
			}
			invalid++
			continue
		}
		if verbosity > 0 {
			fmt.Printf("OK %s: valid\n", filepath.Base(path))
		}
	}

	fmt.Printf("\nValidation Summary:\n")
	fmt.Printf("  Total files: %d\n", len(files))
	fmt.Printf("  Valid:       %d\n", len(files)-invalid)
	fmt.Printf("  Invalid:     %d\n", invalid)

	if invalid > 0 {
		os.Exit(1)
	}
	return nil
}

// validateTemplateFile parses and structurally checks one template.
func validateTemplateFile(path string, store *wordlist.Store) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	cfg, err := grid.Build(string(data), store, grid.BuildOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	var errs []string
	if !isSymmetric(cfg) {
		errs = append(errs, "grid lacks 180-degree rotational symmetry")
	}
	if uncovered := uncoveredCells(cfg); len(uncovered) > 0 {
		errs = append(errs, fmt.Sprintf("%d open cell(s) belong to no slot (isolated, shorter than %d)", len(uncovered), grid.MinSlotLength))
	}
	if store.Size() > 0 {
		for _, slotID := range emptySlots(cfg) {
			s := cfg.Slots[slotID]
			errs = append(errs, fmt.Sprintf("%s slot %d (length %d) has no candidate words", s.Direction, s.Number, s.Length))
		}
	}

	return errs, nil
}

// isSymmetric reports whether the grid's block pattern has 180-degree
// rotational symmetry, the classic American-style crossword convention.
func isSymmetric(cfg *grid.GridConfig) bool {
	for row := 0; row < cfg.Height; row++ {
		for col := 0; col < cfg.Width; col++ {
			mirror := cfg.CellIndex(cfg.Height-1-row, cfg.Width-1-col)
			if cfg.Blocked[cfg.CellIndex(row, col)] != cfg.Blocked[mirror] {
				return false
			}
		}
	}
	return true
}

// uncoveredCells returns the index of every open cell that no slot
// covers: cells the solver will never assign a letter to.
func uncoveredCells(cfg *grid.GridConfig) []int {
	covered := make([]bool, cfg.Width*cfg.Height)
	for _, s := range cfg.Slots {
		row, col := s.StartRow, s.StartCol
		for i := 0; i < s.Length; i++ {
			covered[cfg.CellIndex(row, col)] = true
			if s.Direction == grid.Across {
				col++
			} else {
				row++
			}
		}
	}

	var uncovered []int
	for i, blocked := range cfg.Blocked {
		if !blocked && !covered[i] {
			uncovered = append(uncovered, i)
		}
	}
	return uncovered
}

// emptySlots returns the ids of every slot whose initial candidate
// list is empty, which foretells a HardFailure from Search before ever
// running it.
func emptySlots(cfg *grid.GridConfig) []int {
	var ids []int
	for _, s := range cfg.Slots {
		if len(cfg.InitialOptions[s.ID]) == 0 {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
