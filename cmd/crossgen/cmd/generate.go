package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/crossplay/xwordfill/pkg/fill"
	"github.com/crossplay/xwordfill/pkg/grid"
	"github.com/crossplay/xwordfill/pkg/output"
	"github.com/crossplay/xwordfill/pkg/puzzle"
	"github.com/crossplay/xwordfill/pkg/wordlist"
	"github.com/spf13/cobra"
)

var (
	genTemplate string
	genOutput   string
	genFormat   string
	genWordlist string
	genMinScore int
	genSeed     int64
	genTimeout  time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fill a crossword grid template",
	Long: `Fill a grid template with words from a word list using weighted
backtracking search with arc-consistency propagation.

Examples:
  # Fill a template and write JSON
  crossgen generate --template grid.txt --wordlist broda.txt --output puzzle.json

  # Write every supported format
  crossgen generate --template grid.txt --wordlist broda.txt --output puzzle --format all`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genTemplate, "template", "t", "", "grid template file (required)")
	generateCmd.Flags().StringVarP(&genWordlist, "wordlist", "w", "", "path to a Peter Broda-format wordlist (required)")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "puzzle", "output file path, or base path when --format is all")
	generateCmd.Flags().StringVarP(&genFormat, "format", "f", "json", "output format: json, puz, ipuz, text, or all")
	generateCmd.Flags().IntVar(&genMinScore, "min-score", 0, "minimum word score to consider a candidate")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "search seed (0 uses the default seed)")
	generateCmd.Flags().DurationVar(&genTimeout, "timeout", 30*time.Second, "maximum time to spend searching")

	generateCmd.MarkFlagRequired("template")
	generateCmd.MarkFlagRequired("wordlist")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	formats, err := parseFormats(genFormat)
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	templateData, err := os.ReadFile(genTemplate)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	if verbosity > 0 {
		fmt.Printf("Loading wordlist from: %s\n", genWordlist)
	}
	f, err := os.Open(genWordlist)
	if err != nil {
		return fmt.Errorf("failed to open wordlist: %w", err)
	}
	store := wordlist.New(0)
	parseErrs := wordlist.LoadBroda(store, f)
	f.Close()
	for i := range parseErrs {
		fmt.Fprintf(os.Stderr, "wordlist parse error: %v\n", &parseErrs[i])
	}
	if verbosity > 0 {
		fmt.Printf("Loaded %d words\n", store.Size())
	}

	generator := puzzle.NewGenerator(store, nil)

	ctx, cancel := context.WithTimeout(context.Background(), genTimeout)
	defer cancel()

	fmt.Printf("Solving %s... ", genTemplate)
	start := time.Now()
	cfg, result, err := generator.Solve(ctx, string(templateData), puzzle.Config{
		WordListID:     genWordlist,
		GlobalMinScore: genMinScore,
		Seed:           genSeed,
		Deadline:       time.Now().Add(genTimeout),
	})
	if err != nil {
		fmt.Println("ERROR")
		return fmt.Errorf("failed to solve template: %w", err)
	}
	elapsed := time.Since(start)

	if result.Outcome != fill.Success {
		fmt.Printf("%s\n", result.Outcome)
		return fmt.Errorf("solve did not succeed: %s (states=%d backtracks=%d)",
			result.Outcome, result.Statistics.States, result.Statistics.Backtracks)
	}
	fmt.Printf("OK (%.1fs, states=%d, backtracks=%d)\n", elapsed.Seconds(), result.Statistics.States, result.Statistics.Backtracks)

	return writeGeneratedOutput(cfg, result, genOutput, formats)
}

// parseFormats converts a format flag value into the list of formats
// to write, expanding "all" to every supported format.
func parseFormats(format string) ([]string, error) {
	format = strings.ToLower(format)
	if format == "all" {
		return []string{"json", "puz", "ipuz", "text"}, nil
	}

	switch format {
	case "json", "puz", "ipuz", "text":
		return []string{format}, nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be json, puz, ipuz, text, or all)", format)
	}
}

// writeGeneratedOutput renders a completed solve to every requested
// format. With a single format and an outputPath that has an
// extension, outputPath is used as given; otherwise each format is
// written to outputPath with its extension replaced by (or, for a
// path with no extension, appended with) the format name.
func writeGeneratedOutput(cfg *grid.GridConfig, result fill.Result, outputPath string, formats []string) error {
	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))

	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case "json":
			data, err = output.ToJSON(cfg, result)
		case "puz":
			data, err = output.FormatPuz(cfg, result)
		case "ipuz":
			data, err = output.ToIPuz(cfg, result)
		case "text":
			var text string
			text, err = output.RenderText(cfg, result)
			data = []byte(text)
		}
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", format, err)
		}

		path := base + "." + format
		if len(formats) == 1 && filepath.Ext(outputPath) != "" {
			path = outputPath
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", format, err)
		}
		fmt.Printf("wrote %s\n", path)
	}

	return nil
}
