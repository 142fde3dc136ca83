package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lukeulrich/alignshop/contentstore"
	"github.com/lukeulrich/alignshop/grammar"
)

func writeTempFasta(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.fasta")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFastaMsaParsesGappedRows(t *testing.T) {
	path := writeTempFasta(t, ">seq1\nAC-DE\n>seq2\nA-GDE\n")
	store := contentstore.New()
	m, err := readFastaMsa(path, grammar.Amino, store)
	if err != nil {
		t.Fatal(err)
	}
	if m.RowCount() != 2 {
		t.Fatalf("RowCount()=%d, want 2", m.RowCount())
	}
	if m.Length() != 5 {
		t.Fatalf("Length()=%d, want 5", m.Length())
	}
	row, err := m.Row(1)
	if err != nil {
		t.Fatal(err)
	}
	if row.Label != "seq1" {
		t.Fatalf("Label=%q, want seq1", row.Label)
	}
	if row.Gapped().String() != "AC-DE" {
		t.Fatalf("Gapped()=%q, want AC-DE", row.Gapped().String())
	}
}

func TestReadFastaMsaRejectsEmptyFile(t *testing.T) {
	path := writeTempFasta(t, "")
	store := contentstore.New()
	if _, err := readFastaMsa(path, grammar.Amino, store); err == nil {
		t.Fatal("expected an error for a file with no sequences")
	}
}

func TestReadFastaMsaRejectsUnequalRowLengths(t *testing.T) {
	path := writeTempFasta(t, ">seq1\nAC-DE\n>seq2\nACDEFG\n")
	store := contentstore.New()
	if _, err := readFastaMsa(path, grammar.Amino, store); err == nil {
		t.Fatal("expected an error for mismatched row lengths")
	}
}

func TestWriteFastaMsaRoundTrips(t *testing.T) {
	path := writeTempFasta(t, ">seq1\nAC-DE\n>seq2\nA-GDE\n")
	store := contentstore.New()
	m, err := readFastaMsa(path, grammar.Amino, store)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := writeFastaMsa(&buf, m); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, ">seq1\nAC-DE\n") {
		t.Fatalf("output missing seq1 record: %q", out)
	}
	if !strings.Contains(out, ">seq2\nA-GDE\n") {
		t.Fatalf("output missing seq2 record: %q", out)
	}
}

func TestFastaSequenceStoreLoadParsesUngappedRecords(t *testing.T) {
	path := writeTempFasta(t, ">query1\nACDEFGHIK\n>query2\nLMNPQRSTV\n")
	store := newFastaSequenceStore()
	seqs, err := store.load(path, grammar.Amino)
	if err != nil {
		t.Fatal(err)
	}
	if len(seqs) != 2 {
		t.Fatalf("len(seqs)=%d, want 2", len(seqs))
	}
	if seqs[0].name != "query1" || seqs[0].sequence.String() != "ACDEFGHIK" {
		t.Fatalf("seqs[0]=%+v", seqs[0])
	}
}

func TestResolveGrammar(t *testing.T) {
	cases := map[string]grammar.Grammar{
		"amino": grammar.Amino,
		"AA":    grammar.Amino,
		"dna":   grammar.Dna,
		"rna":   grammar.Rna,
	}
	for flag, want := range cases {
		grammarFlag = flag
		got, err := resolveGrammar()
		if err != nil {
			t.Fatalf("resolveGrammar(%q): %v", flag, err)
		}
		if got != want {
			t.Errorf("resolveGrammar(%q)=%v, want %v", flag, got, want)
		}
	}

	grammarFlag = "bogus"
	if _, err := resolveGrammar(); err == nil {
		t.Fatal("expected an error for an unrecognized grammar flag")
	}
}
