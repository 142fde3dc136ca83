// Package q3 defines the secondary structure prediction result type and its
// textual confidence encoding, grounded on
// original_source/src/app/core/PODs/Q3Prediction.h.
package q3

import (
	"fmt"
	"strconv"
	"strings"
)

// Helix, Strand, and Loop are the three secondary structure classes a
// Prediction can assign to a residue.
const (
	Helix  = 'H'
	Strand = 'E'
	Loop   = 'L'
)

// decimalPrecision matches the teacher's three-decimal-place confidence
// encoding.
const decimalPrecision = 3

// Prediction pairs a per-residue Q3 call (one of Helix, Strand, Loop) with
// the network's confidence in that call, one entry per residue.
type Prediction struct {
	Q3         []byte
	Confidence []float64
}

// IsEmpty reports whether p carries no residues.
func (p Prediction) IsEmpty() bool { return len(p.Q3) == 0 }

// EncodeConfidence renders Confidence as a comma-separated list of
// three-decimal fixed-point numbers, e.g. "0.123,0.345,0.567". An empty
// Confidence encodes to the empty string.
func (p Prediction) EncodeConfidence() string {
	if len(p.Confidence) == 0 {
		return ""
	}
	var b strings.Builder
	for i, v := range p.Confidence {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'f', decimalPrecision, 64))
	}
	return b.String()
}

// DecodeConfidence parses a comma-separated list of floats produced by
// EncodeConfidence (or any decimal text in the same shape) back into a
// slice of float64. An empty string decodes to a nil slice.
func DecodeConfidence(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("q3: unable to convert string to double: %q", part)
		}
		out = append(out, v)
	}
	return out, nil
}
