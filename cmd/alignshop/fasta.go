package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lukeulrich/alignshop/biostring"
	"github.com/lukeulrich/alignshop/contentstore"
	"github.com/lukeulrich/alignshop/grammar"
	"github.com/lukeulrich/alignshop/msa"
	"github.com/lukeulrich/alignshop/subseq"
)

// readFastaMsa reads a gapped FASTA alignment from path ("-" for stdin)
// into a new Msa backed by store, every row attached as a Subseq spanning
// its whole parent. There is no FASTA parser among the retrieved example
// repositories (goalign's own reader lives in a package this retrieval
// pack did not include), so this is a small hand-rolled scanner in the
// teacher's plain bufio.Scanner style seen elsewhere in the pack
// (pssm.Parse, nnstruct.LoadNet).
func readFastaMsa(path string, g grammar.Grammar, store *contentstore.Store) (*msa.Msa, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("fasta: %w", err)
		}
		defer f.Close()
		r = f
	}

	id := path
	m := msa.New(id)

	var curName string
	var curSeq strings.Builder
	flush := func() error {
		if curName == "" {
			return nil
		}
		row, err := newFastaRow(curSeq.String(), curName, g, store)
		if err != nil {
			return err
		}
		if err := m.Append(row); err != nil {
			return err
		}
		curSeq.Reset()
		return nil
	}

	scanner := bufio.NewScanner(r)
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
	if m.RowCount() == 0 {
		return nil, fmt.Errorf("fasta: %s: no sequences found", path)
	}
	return m, nil
}

func newFastaRow(gapped, name string, g grammar.Grammar, store *contentstore.Store) (*subseq.Subseq, error) {
	ungapped := strings.Map(func(r rune) rune {
		if grammar.IsGap(byte(r)) {
			return -1
		}
		return r
	}, gapped)

	parent, err := biostring.New([]byte(ungapped), g)
	if err != nil {
		return nil, fmt.Errorf("fasta: sequence %q: %w", name, err)
	}
	row, err := subseq.Attach(store, parent, name)
	if err != nil {
		return nil, fmt.Errorf("fasta: sequence %q: %w", name, err)
	}
	if ungapped != gapped {
		gappedBs, err := biostring.New([]byte(gapped), g)
		if err != nil {
			return nil, fmt.Errorf("fasta: sequence %q: %w", name, err)
		}
		if err := row.SetGapped(gappedBs); err != nil {
			return nil, fmt.Errorf("fasta: sequence %q: %w", name, err)
		}
	}
	return row, nil
}

// writeMsaOutput writes m as gapped FASTA to path, or to stdout when path
// is empty.
func writeMsaOutput(m *msa.Msa, path string) error {
	if path == "" {
		return writeFastaMsa(os.Stdout, m)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("fasta: %w", err)
	}
	defer f.Close()
	return writeFastaMsa(f, m)
}

// writeFastaMsa writes m's rows back out as gapped FASTA, 60 characters
// per line.
func writeFastaMsa(w io.Writer, m *msa.Msa) error {
	bw := bufio.NewWriter(w)
	for i := 1; i <= m.RowCount(); i++ {
		row, err := m.Row(i)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, ">%s\n", row.Label); err != nil {
			return err
		}
		seq := row.Gapped().String()
		for len(seq) > 0 {
			n := 60
			if n > len(seq) {
				n = len(seq)
			}
			if _, err := fmt.Fprintln(bw, seq[:n]); err != nil {
				return err
			}
			seq = seq[n:]
		}
	}
	return bw.Flush()
}
