package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/crossplay/xwordfill/pkg/output"
	"github.com/spf13/cobra"
)

var (
	convertInput  string
	convertOutput string
	convertFormat string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a solved puzzle between output formats",
	Long: `Convert a solved puzzle's JSON export into another output format.

Supported target formats:
  - json: re-serialize (useful for re-indenting or round-trip checks)
  - puz:  Across Lite .puz binary format
  - ipuz: ipuz JSON format (http://ipuz.org/v2)

The input must be the JSON document produced by "crossgen generate"
(or by the server's /solve endpoint); .puz and .ipuz are write-only
export formats in this system and cannot be read back in.

Examples:
  # Convert JSON to .puz format
  crossgen convert --input puzzle.json --output puzzle.puz --format puz

  # Convert JSON to ipuz format
  crossgen convert --input puzzle.json --output puzzle.ipuz --format ipuz`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "", "input puzzle JSON file (required)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file path (required)")
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "target format: json, puz, or ipuz (required)")

	convertCmd.MarkFlagRequired("input")
	convertCmd.MarkFlagRequired("output")
	convertCmd.MarkFlagRequired("format")
}

func runConvert(cmd *cobra.Command, args []string) error {
	if verbosity > 0 {
		fmt.Printf("Converting: %s -> %s\n", convertInput, convertOutput)
		fmt.Printf("Target format: %s\n", convertFormat)
	}

	targetFormat := strings.ToLower(convertFormat)
	if targetFormat != "json" && targetFormat != "puz" && targetFormat != "ipuz" {
		return fmt.Errorf("unsupported format '%s': must be json, puz, or ipuz", convertFormat)
	}

	inputData, err := os.ReadFile(convertInput)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	var pz output.PuzzleJSON
	if err := json.Unmarshal(inputData, &pz); err != nil {
		return fmt.Errorf("failed to parse input as puzzle JSON: %w", err)
	}
	if verbosity > 0 {
		fmt.Printf("Parsed %dx%d puzzle with %d entries\n", pz.Width, pz.Height, len(pz.Entries))
	}

	var outputData []byte
	switch targetFormat {
	case "json":
		outputData, err = json.MarshalIndent(&pz, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to convert to JSON: %w", err)
		}

	case "puz":
		outputData, err = output.FormatPuzFromJSON(&pz)
		if err != nil {
			return fmt.Errorf("failed to convert to .puz: %w", err)
		}

	case "ipuz":
		outputData, err = output.ToIPuzFromJSON(&pz)
		if err != nil {
			return fmt.Errorf("failed to convert to ipuz: %w", err)
		}
	}

	if err := os.WriteFile(convertOutput, outputData, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Printf("Successfully converted %s to %s format\n", convertInput, targetFormat)
	if verbosity > 0 {
		fmt.Printf("Output written to: %s\n", convertOutput)
	}

	return nil
}
