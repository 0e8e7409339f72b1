package output

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/crossplay/xwordfill/pkg/fill"
	"github.com/crossplay/xwordfill/pkg/grid"
	"github.com/crossplay/xwordfill/pkg/wordlist"
)

// FormatPuz renders a completed solve to the AcrossLite .puz binary
// format. There are no clues to embed; the "clue" strings section
// carries each entry's answer instead, which every .puz reader treats
// as opaque text regardless of content.
func FormatPuz(cfg *grid.GridConfig, result fill.Result) ([]byte, error) {
	if cfg.Width > 255 || cfg.Height > 255 {
		return nil, fmt.Errorf("output: grid %dx%d too large for .puz (max 255x255)", cfg.Width, cfg.Height)
	}

	letters, entries, err := answers(cfg, result)
	if err != nil {
		return nil, err
	}

	glyphs := cfg.Words().Glyphs
	solution := buildSolutionString(cfg, letters, glyphs)
	state := strings.Repeat("-", len(solution))

	title := "xwordfill"
	author := "xwordfill"
	copyright := fmt.Sprintf("© %s", author)
	clues := buildClueStrings(entries)
	notes := ""

	width := byte(cfg.Width)
	height := byte(cfg.Height)
	numClues := uint16(len(entries))

	cib := computeCIB(width, height, numClues, 0x0001, 0x0000)

	buf := new(bytes.Buffer)
	if err := writeHeader(buf, width, height, numClues, cib, solution, state); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := writeStrings(buf, title, author, copyright, clues, notes); err != nil {
		return nil, fmt.Errorf("failed to write strings: %w", err)
	}

	return buf.Bytes(), nil
}

// buildSolutionString renders the completed grid row-major, '.' for
// blocks, matching the AcrossLite convention.
func buildSolutionString(cfg *grid.GridConfig, letters []wordlist.Glyph, glyphs *wordlist.GlyphStore) string {
	var b strings.Builder
	for row := 0; row < cfg.Height; row++ {
		for col := 0; col < cfg.Width; col++ {
			idx := cfg.CellIndex(row, col)
			if cfg.Blocked[idx] {
				b.WriteByte('.')
				continue
			}
			b.WriteRune(glyphs.Rune(letters[idx]))
		}
	}
	return b.String()
}

// buildClueStrings orders entries by clue number, across before down
// on a tie, and returns each entry's answer as its "clue" string.
func buildClueStrings(entries []Entry) []string {
	ordered := make([]Entry, len(entries))
	copy(ordered, entries)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && lessEntry(ordered[j], ordered[j-1]); j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	texts := make([]string, len(ordered))
	for i, e := range ordered {
		texts[i] = e.Answer
	}
	return texts
}

// writeHeader writes the .puz file header.
func writeHeader(buf *bytes.Buffer, width, height byte, numClues uint16, cib uint16, solution, state string) error {
	globalCksum := uint16(0)

	buf.WriteString("ACROSS&DOWN\x00")
	binary.Write(buf, binary.LittleEndian, globalCksum)
	buf.WriteString("ICHEATED")
	binary.Write(buf, binary.LittleEndian, uint16(0))

	for i := 0; i < 4; i++ {
		binary.Write(buf, binary.LittleEndian, uint16(0))
	}

	buf.WriteString("1.3\x00")
	binary.Write(buf, binary.LittleEndian, uint16(0))
	binary.Write(buf, binary.LittleEndian, uint16(0))
	buf.Write(make([]byte, 4))

	buf.WriteByte(width)
	buf.WriteByte(height)
	binary.Write(buf, binary.LittleEndian, numClues)
	binary.Write(buf, binary.LittleEndian, uint16(0x0001))
	binary.Write(buf, binary.LittleEndian, uint16(0x0000))

	buf.WriteString(solution)
	buf.WriteString(state)

	return nil
}

// writeStrings writes the null-terminated strings section.
func writeStrings(buf *bytes.Buffer, title, author, copyright string, clues []string, notes string) error {
	buf.WriteString(title)
	buf.WriteByte(0)

	buf.WriteString(author)
	buf.WriteByte(0)

	buf.WriteString(copyright)
	buf.WriteByte(0)

	for _, clue := range clues {
		buf.WriteString(clue)
		buf.WriteByte(0)
	}

	if notes != "" {
		buf.WriteString(notes)
		buf.WriteByte(0)
	}

	return nil
}

// computeCIB computes the CIB checksum.
func computeCIB(width, height byte, numClues, puzzleType, scrambledState uint16) uint16 {
	cksum := uint16(0)
	cksum = checksumRegion(cksum, []byte{width, height})

	numCluesBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(numCluesBytes, numClues)
	cksum = checksumRegion(cksum, numCluesBytes)

	puzzleTypeBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(puzzleTypeBytes, puzzleType)
	cksum = checksumRegion(cksum, puzzleTypeBytes)

	scrambledStateBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(scrambledStateBytes, scrambledState)
	cksum = checksumRegion(cksum, scrambledStateBytes)

	return cksum
}

// checksumRegion computes a checksum over a byte region.
func checksumRegion(cksum uint16, data []byte) uint16 {
	for _, b := range data {
		if cksum&0x0001 != 0 {
			cksum = (cksum >> 1) + 0x8000
		} else {
			cksum = cksum >> 1
		}
		cksum = (cksum + uint16(b)) & 0xFFFF
	}
	return cksum
}
