package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/lukeulrich/alignshop/biostring"
	"github.com/lukeulrich/alignshop/grammar"
)

// namedSequence pairs a FASTA header with its parsed, ungapped sequence.
type namedSequence struct {
	name     string
	sequence biostring.BioString
}

// fastaSequenceStore reads plain (non-aligned) FASTA query sequences, the
// input predictCmd hands to psiblast.Tool one record at a time.
type fastaSequenceStore struct{}

func newFastaSequenceStore() fastaSequenceStore { return fastaSequenceStore{} }

func (fastaSequenceStore) load(path string, g grammar.Grammar) ([]namedSequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fasta: %w", err)
	}
	defer f.Close()

	var out []namedSequence
	var curName string
	var curSeq strings.Builder
	flush := func() error {
		if curName == "" {
			return nil
		}
		bs, err := biostring.New([]byte(curSeq.String()), g)
		if err != nil {
			return fmt.Errorf("fasta: sequence %q: %w", curName, err)
		}
		out = append(out, namedSequence{name: curName, sequence: bs})
		curSeq.Reset()
		return nil
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			if err := flush(); err != nil {
				return nil, err
			}
			curName = strings.TrimSpace(line[1:])
			continue
		}
		curSeq.WriteString(strings.TrimSpace(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("fasta: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("fasta: %s: no sequences found", path)
	}
	return out, nil
}
