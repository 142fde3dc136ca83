// Package pssm parses position-specific scoring matrices emitted by
// psiblast's ASCII checkpoint format and normalizes them into the 0..1
// probability space nnstruct's neural network expects, grounded on
// original_source/src/app/core/Parsers/PssmParser.cpp and
// original_source/src/app/core/util/PssmUtil.cpp.
package pssm

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/lukeulrich/alignshop/grammar"
)

// Width is the number of scored columns every PSSM row carries: one per
// canonical amino acid.
const Width = 20

// Row holds the raw integer scores for a single alignment position, indexed
// by the column order recorded in Pssm.Mapping.
type Row struct {
	Scores [Width]int32
}

// Pssm is a parsed PSSM file: the scaling factor used to recover log-odds
// scores, the column-to-residue mapping as it appeared in the source file,
// and one Row per alignment position in file order.
type Pssm struct {
	PositScaleFactor float64
	Mapping          [Width]byte
	Rows             []Row
}

// ScoreAt returns the raw score for amino acid aa at 1-based position
// (row), honoring whatever column order Mapping records. ok is false if aa
// is not one of the mapped columns or position is out of range.
func (p Pssm) ScoreAt(position int, aa byte) (int32, bool) {
	if position < 1 || position > len(p.Rows) {
		return 0, false
	}
	for i, m := range p.Mapping {
		if m == aa {
			return p.Rows[position-1].Scores[i], true
		}
	}
	return 0, false
}

// NormalizedRow holds the logistic-normalized probabilities for a single
// position, in the same column order as the source Pssm's Mapping.
type NormalizedRow struct {
	Scores [Width]float64
}

// NormalizedPssm is a Pssm with every score mapped into (0, 1) via the
// logistic function.
type NormalizedPssm struct {
	Mapping [Width]byte
	Rows    []NormalizedRow
}

// ScoreAt is the NormalizedPssm counterpart of Pssm.ScoreAt.
func (p NormalizedPssm) ScoreAt(position int, aa byte) (float64, bool) {
	if position < 1 || position > len(p.Rows) {
		return 0, false
	}
	for i, m := range p.Mapping {
		if m == aa {
			return p.Rows[position-1].Scores[i], true
		}
	}
	return 0, false
}

// Normalize scales every score in p by its posit scale factor and maps the
// result into (0, 1) via the logistic function
// 1 / (1 + exp(-0.5 * score/positScaleFactor)), exactly as the teacher's
// PssmUtil.cpp computed it in the original scoring tool.
func Normalize(p Pssm) NormalizedPssm {
	multFactor := 1.0 / p.PositScaleFactor
	n := NormalizedPssm{Mapping: p.Mapping, Rows: make([]NormalizedRow, len(p.Rows))}
	for i, row := range p.Rows {
		for j, score := range row.Scores {
			scaled := float64(score) * multFactor
			n.Rows[i].Scores[j] = 1.0 / (1.0 + math.Exp(-0.5*scaled))
		}
	}
	return n
}

// Parse reads a PSSM file from r. The file format is:
//
//	# AG-PSSM
//	# PSI_SCALE_FACTOR: <float>
//	<blank lines>
//	<header line: Width distinct residue letters, whitespace separated or run together>
//	<rows: position, ignored-residue-letter, Width integer scores>
//	<blank line terminates the row block>
//
// Parse is line-oriented rather than a direct port of the teacher's
// QTextStream-based scanner, but enforces every constraint that scanner
// did: the exact header strings, position Row count discipline (positions
// must run 1, 2, 3, ... with no gaps), duplicate-free header letters, and
// exactly Width+2 whitespace-separated fields per data row.
func Parse(r io.Reader) (Pssm, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line, ok := nextNonEmpty(scanner)
	if !ok {
		return Pssm{}, fmt.Errorf("pssm: empty pssm file")
	}
	if !strings.HasPrefix(line, "# AG-PSSM") {
		return Pssm{}, fmt.Errorf("pssm: missing AG-PSSM header line")
	}

	if !scanner.Scan() {
		return Pssm{}, fmt.Errorf("pssm: missing PSI_SCALE_FACTOR line")
	}
	line = scanner.Text()
	const prefix = "# PSI_SCALE_FACTOR:"
	if !strings.HasPrefix(line, prefix) {
		return Pssm{}, fmt.Errorf("pssm: missing PSI_SCALE_FACTOR line")
	}
	factor, err := strconv.ParseFloat(strings.TrimSpace(line[len(prefix):]), 64)
	if err != nil || factor <= 0 {
		return Pssm{}, fmt.Errorf("pssm: invalid PSI_SCALE_FACTOR (must be > 0)")
	}

	header, ok := nextNonEmpty(scanner)
	if !ok {
		return Pssm{}, fmt.Errorf("pssm: invalid PSSM table header")
	}
	mapping, err := splitPssmTableHeader(header)
	if err != nil {
		return Pssm{}, err
	}

	p := Pssm{PositScaleFactor: factor, Mapping: mapping}

	lastPosition := 0
	for scanner.Scan() {
		line = scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		words := strings.Fields(line)
		if len(words) != Width+2 {
			return Pssm{}, fmt.Errorf("pssm: invalid PSSM score line")
		}
		position, err := strconv.Atoi(words[0])
		if err != nil || position != lastPosition+1 {
			return Pssm{}, fmt.Errorf("pssm: invalid PSSM position")
		}
		lastPosition = position

		var row Row
		for i := 0; i < Width; i++ {
			score, err := strconv.Atoi(words[2+i])
			if err != nil {
				return Pssm{}, fmt.Errorf("pssm: invalid PSSM score")
			}
			row.Scores[i] = int32(score)
		}
		p.Rows = append(p.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return Pssm{}, fmt.Errorf("pssm: %w", err)
	}
	if len(p.Rows) == 0 {
		return Pssm{}, fmt.Errorf("pssm: no PSSM rows found")
	}
	return p, nil
}

func nextNonEmpty(scanner *bufio.Scanner) (string, bool) {
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			return line, true
		}
	}
	return "", false
}

func splitPssmTableHeader(line string) ([Width]byte, error) {
	var mapping [Width]byte
	seen := make(map[byte]bool, Width)
	n := 0
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			continue
		}
		if seen[c] {
			return mapping, fmt.Errorf("pssm: duplicate residue column label %q", c)
		}
		seen[c] = true
		if n >= Width {
			return mapping, fmt.Errorf("pssm: invalid PSSM table header")
		}
		mapping[n] = c
		n++
	}
	if n != Width {
		return mapping, fmt.Errorf("pssm: invalid PSSM table header")
	}
	return mapping, nil
}

// basicAminoAcids is used by tests and callers that want to validate a
// parsed header against the canonical alphabet rather than merely checking
// for duplicates.
var basicAminoAcids = grammar.BasicAminoAcidSet()

// IsCanonicalHeader reports whether every letter in mapping is one of the
// twenty basic amino acids.
func IsCanonicalHeader(mapping [Width]byte) bool {
	for _, c := range mapping {
		if !basicAminoAcids[c] {
			return false
		}
	}
	return true
}
