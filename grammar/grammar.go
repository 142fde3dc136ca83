// Package grammar defines the Grammar tag carried by BioString values and
// the per-grammar character tables (complement, mask, canonical amino acid
// order) that govern transcribe/complement semantics.
package grammar

import "strings"

// Grammar tags the alphabet a BioString is expected to hold.
type Grammar int

const (
	Unknown Grammar = iota
	Amino
	Dna
	Rna
)

func (g Grammar) String() string {
	switch g {
	case Amino:
		return "amino"
	case Dna:
		return "dna"
	case Rna:
		return "rna"
	default:
		return "unknown"
	}
}

// MaskCharacter returns the default character used to mask out a region of
// a sequence of the given grammar.
func MaskCharacter(g Grammar) byte {
	switch g {
	case Amino:
		return 'X'
	case Dna, Rna:
		return 'N'
	default:
		return '*'
	}
}

// complementPairs enumerates the IUPAC ambiguity-code complement pairing
// A<->T, B<->V, C<->G, D<->H, K<->M, W->W, S->S, N->N, adapted from the row
// ordering of the teacher's dna_to_matrix_pos / dnafull_subst_matrix tables
// (align/const.go), which already enumerate this ambiguity alphabet.
var complementPairs = [][2]byte{
	{'A', 'T'},
	{'B', 'V'},
	{'C', 'G'},
	{'D', 'H'},
	{'K', 'M'},
	{'W', 'W'},
	{'S', 'S'},
	{'N', 'N'},
}

var dnaComplement = buildComplement('T')
var rnaComplement = buildComplement('U')

func buildComplement(tChar byte) map[byte]byte {
	m := make(map[byte]byte, 32)
	for _, p := range complementPairs {
		a, b := p[0], p[1]
		if a == 'T' {
			a = tChar
		}
		if b == 'T' {
			b = tChar
		}
		m[a] = b
		m[b] = a
		m[lower(a)] = lower(b)
		m[lower(b)] = lower(a)
	}
	return m
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// ComplementOf returns the complement lookup table for g. Amino and Unknown
// grammars have no complement table and return nil.
func ComplementOf(g Grammar) map[byte]byte {
	switch g {
	case Dna:
		return dnaComplement
	case Rna:
		return rnaComplement
	default:
		return nil
	}
}

// CanonicalAminoAcids is the strict alphabetical ordering of the twenty
// basic amino acid one-letter codes, used by nnstruct to reorder PSSM
// columns regardless of the order they appeared in the source file.
var CanonicalAminoAcids = [20]byte{
	'A', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'K', 'L',
	'M', 'N', 'P', 'Q', 'R', 'S', 'T', 'V', 'W', 'Y',
}

// BasicAminoAcidSet is CanonicalAminoAcids as a lookup set, used by
// pssm.IsCanonicalHeader to check a parsed PSSM's column header.
func BasicAminoAcidSet() map[byte]bool {
	set := make(map[byte]bool, 20)
	for _, c := range CanonicalAminoAcids {
		set[c] = true
	}
	return set
}

// IsGap reports whether b is one of the two equivalent gap characters.
func IsGap(b byte) bool {
	return b == '-' || b == '.'
}

// StripWhitespace removes ASCII whitespace from b, used by BioString
// construction.
func StripWhitespace(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if strings.IndexByte(" \t\r\n\v\f", c) >= 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}
