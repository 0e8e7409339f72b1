// Command crossgen fills crossword grid templates from the command
// line: solve a template against a word list, validate a template's
// structure, inspect the local solve cache's statistics, and convert between the
// supported output formats.
package main

import (
	"os"

	"github.com/crossplay/xwordfill/cmd/crossgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
