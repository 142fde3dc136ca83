package main

import (
	"fmt"
	"strings"

	"github.com/lukeulrich/alignshop/grammar"
)

func resolveGrammar() (grammar.Grammar, error) {
	switch strings.ToLower(grammarFlag) {
	case "amino", "protein", "aa":
		return grammar.Amino, nil
	case "dna":
		return grammar.Dna, nil
	case "rna":
		return grammar.Rna, nil
	default:
		return grammar.Unknown, fmt.Errorf("unknown --grammar value %q (want amino, dna, or rna)", grammarFlag)
	}
}
