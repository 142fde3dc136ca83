// Package biostring implements BioString, an immutable-contract,
// printable-ASCII byte sequence tagged with a grammar.Grammar, together with
// its editing and slide/collapse algebra.
//
// Every mutating method returns a new BioString rather than mutating the
// receiver in place: the original C++ implementation (original_source/defunct
// /BioString.{h,cpp}) used implicit sharing / copy-on-write, which does not
// map cleanly onto Go; instead callers that want sharing wrap a BioString in
// their own reference-counted handle (contentstore.Store does exactly this
// for Subseq parents).
package biostring

import (
	"crypto/md5"
	"fmt"

	"github.com/lukeulrich/alignshop/grammar"
)

// BioString is a gapped biological sequence: printable ASCII bytes (32..126)
// tagged with a grammar.Grammar. Gap characters '-' and '.' are stored
// verbatim and are distinct under Equal but equivalent under EquivalentTo.
type BioString struct {
	bytes   []byte
	grammar grammar.Grammar
}

// New strips ASCII whitespace from b and constructs a BioString tagged with
// g. It returns an error if any remaining byte falls outside the printable
// ASCII range 32..126.
func New(b []byte, g grammar.Grammar) (BioString, error) {
	stripped := grammar.StripWhitespace(b)
	for _, c := range stripped {
		if c < 32 || c > 126 {
			return BioString{}, fmt.Errorf("biostring: byte %q (0x%02x) is outside printable ASCII range", c, c)
		}
	}
	cp := make([]byte, len(stripped))
	copy(cp, stripped)
	return BioString{bytes: cp, grammar: g}, nil
}

// MustNew is like New but panics on error. It is intended for tests and
// static fixture construction, never for parsing untrusted input.
func MustNew(s string, g grammar.Grammar) BioString {
	bs, err := New([]byte(s), g)
	if err != nil {
		panic(err)
	}
	return bs
}

// Grammar returns the BioString's grammar tag.
func (b BioString) Grammar() grammar.Grammar { return b.grammar }

// Length returns the number of stored bytes, gaps included.
func (b BioString) Length() int { return len(b.bytes) }

// IsEmpty reports whether the BioString holds zero bytes.
func (b BioString) IsEmpty() bool { return len(b.bytes) == 0 }

// String renders the BioString's raw bytes.
func (b BioString) String() string { return string(b.bytes) }

// Bytes returns a defensive copy of the underlying bytes.
func (b BioString) Bytes() []byte {
	cp := make([]byte, len(b.bytes))
	copy(cp, b.bytes)
	return cp
}

// ByteAt returns the 1-based position's byte.
func (b BioString) ByteAt(position int) byte { return b.bytes[position-1] }

// Equal is strict byte-for-byte equality including grammar; '-' and '.' are
// not interchangeable here.
func (b BioString) Equal(other BioString) bool {
	if b.grammar != other.grammar || len(b.bytes) != len(other.bytes) {
		return false
	}
	for i := range b.bytes {
		if b.bytes[i] != other.bytes[i] {
			return false
		}
	}
	return true
}

// EquivalentTo is the editing-level equality used by collapse/slide tests:
// true iff grammars match, lengths match, and at each position the
// characters are identical or both are gap characters.
func (b BioString) EquivalentTo(other BioString) bool {
	if b.grammar != other.grammar || len(b.bytes) != len(other.bytes) {
		return false
	}
	for i := range b.bytes {
		bc, oc := b.bytes[i], other.bytes[i]
		if bc == oc {
			continue
		}
		if grammar.IsGap(bc) && grammar.IsGap(oc) {
			continue
		}
		return false
	}
	return true
}

func (b BioString) clone() []byte {
	cp := make([]byte, len(b.bytes))
	copy(cp, b.bytes)
	return cp
}

func withBytes(b BioString, raw []byte) BioString {
	return BioString{bytes: raw, grammar: b.grammar}
}

// Append returns a new BioString with other's bytes appended.
func (b BioString) Append(other BioString) BioString {
	raw := append(b.clone(), other.bytes...)
	return withBytes(b, raw)
}

// Prepend returns a new BioString with other's bytes prepended.
func (b BioString) Prepend(other BioString) BioString {
	raw := make([]byte, 0, len(b.bytes)+len(other.bytes))
	raw = append(raw, other.bytes...)
	raw = append(raw, b.bytes...)
	return withBytes(b, raw)
}

// Insert returns a new BioString with bs inserted before the 1-based
// position. position may range from 1 to Length()+1 inclusive.
func (b BioString) Insert(position int, bs BioString) (BioString, error) {
	if position < 1 || position > b.Length()+1 {
		return BioString{}, fmt.Errorf("biostring: insert position %d out of range [1, %d]", position, b.Length()+1)
	}
	raw := make([]byte, 0, len(b.bytes)+len(bs.bytes))
	raw = append(raw, b.bytes[:position-1]...)
	raw = append(raw, bs.bytes...)
	raw = append(raw, b.bytes[position-1:]...)
	return withBytes(b, raw), nil
}

// InsertGaps returns a new BioString with n copies of gapChar inserted
// before the 1-based position.
func (b BioString) InsertGaps(position, n int, gapChar byte) (BioString, error) {
	gaps := make([]byte, n)
	for i := range gaps {
		gaps[i] = gapChar
	}
	return b.Insert(position, withBytes(b, gaps))
}

// Remove returns a new BioString with the n bytes starting at the 1-based
// position removed.
func (b BioString) Remove(position, n int) (BioString, error) {
	if position < 1 || n < 0 || position+n-1 > b.Length() {
		return BioString{}, fmt.Errorf("biostring: remove range [%d, %d) out of bounds", position, position+n)
	}
	raw := make([]byte, 0, len(b.bytes)-n)
	raw = append(raw, b.bytes[:position-1]...)
	raw = append(raw, b.bytes[position-1+n:]...)
	return withBytes(b, raw), nil
}

// RemoveRange removes the 1-based inclusive range [start, stop].
func (b BioString) RemoveRange(start, stop int) (BioString, error) {
	if start < 1 || stop < start || stop > b.Length() {
		return BioString{}, fmt.Errorf("biostring: remove range [%d, %d] out of bounds", start, stop)
	}
	return b.Remove(start, stop-start+1)
}

// RemoveGaps returns a new BioString with every gap character removed; it is
// equivalent to Ungapped.
func (b BioString) RemoveGaps() BioString {
	return b.Ungapped()
}

// RemoveGapsAt removes the n characters starting at the 1-based position,
// asserting (panicking) that all of them are gap characters, mirroring the
// original's assertion-guarded precondition.
func (b BioString) RemoveGapsAt(position, n int) (BioString, error) {
	if position < 1 || n < 0 || position+n-1 > b.Length() {
		return BioString{}, fmt.Errorf("biostring: removeGapsAt range [%d, %d) out of bounds", position, position+n)
	}
	for i := position; i < position+n; i++ {
		if !grammar.IsGap(b.ByteAt(i)) {
			panic(fmt.Sprintf("biostring: RemoveGapsAt position %d is not a gap character", i))
		}
	}
	return b.Remove(position, n)
}

// Replace returns a new BioString with the n bytes starting at the 1-based
// position replaced by replacement's bytes.
func (b BioString) Replace(position, n int, replacement BioString) (BioString, error) {
	if position < 1 || n < 0 || position+n-1 > b.Length() {
		return BioString{}, fmt.Errorf("biostring: replace range [%d, %d) out of bounds", position, position+n)
	}
	raw := make([]byte, 0, len(b.bytes)-n+len(replacement.bytes))
	raw = append(raw, b.bytes[:position-1]...)
	raw = append(raw, replacement.bytes...)
	raw = append(raw, b.bytes[position-1+n:]...)
	return withBytes(b, raw), nil
}

// Mid returns the 1-based inclusive subrange [start, stop] as a new
// BioString sharing this one's grammar.
func (b BioString) Mid(start, stop int) (BioString, error) {
	if start < 1 || stop < start || stop > b.Length() {
		return BioString{}, fmt.Errorf("biostring: mid range [%d, %d] out of bounds (length %d)", start, stop, b.Length())
	}
	raw := make([]byte, stop-start+1)
	copy(raw, b.bytes[start-1:stop])
	return withBytes(b, raw), nil
}

// Ungapped returns a new BioString with every gap character removed.
func (b BioString) Ungapped() BioString {
	raw := make([]byte, 0, len(b.bytes))
	for _, c := range b.bytes {
		if !grammar.IsGap(c) {
			raw = append(raw, c)
		}
	}
	return withBytes(b, raw)
}

// UngappedLength returns the count of non-gap characters.
func (b BioString) UngappedLength() int {
	n := 0
	for _, c := range b.bytes {
		if !grammar.IsGap(c) {
			n++
		}
	}
	return n
}

// HeadGaps returns the number of leading gap characters.
func (b BioString) HeadGaps() int {
	n := 0
	for _, c := range b.bytes {
		if !grammar.IsGap(c) {
			break
		}
		n++
	}
	return n
}

// TailGaps returns the number of trailing gap characters.
func (b BioString) TailGaps() int {
	n := 0
	for i := len(b.bytes) - 1; i >= 0; i-- {
		if !grammar.IsGap(b.bytes[i]) {
			break
		}
		n++
	}
	return n
}

// GapsBetween counts gap characters in the 1-based inclusive range.
func (b BioString) GapsBetween(start, stop int) int {
	n := 0
	for i := start; i <= stop; i++ {
		if grammar.IsGap(b.ByteAt(i)) {
			n++
		}
	}
	return n
}

// NonGapsBetween counts non-gap characters in the 1-based inclusive range.
func (b BioString) NonGapsBetween(start, stop int) int {
	return (stop - start + 1) - b.GapsBetween(start, stop)
}

// GapsLeftOf counts gap characters strictly left of the 1-based position
// (the character at position itself is not counted).
func (b BioString) GapsLeftOf(position int) int {
	n := 0
	for i := position - 1; i >= 1; i-- {
		if !grammar.IsGap(b.ByteAt(i)) {
			break
		}
		n++
	}
	return n
}

// GapsRightOf counts gap characters strictly right of the 1-based position.
func (b BioString) GapsRightOf(position int) int {
	n := 0
	for i := position + 1; i <= b.Length(); i++ {
		if !grammar.IsGap(b.ByteAt(i)) {
			break
		}
		n++
	}
	return n
}

// HasGaps reports whether the BioString contains at least one gap.
func (b BioString) HasGaps() bool {
	for _, c := range b.bytes {
		if grammar.IsGap(c) {
			return true
		}
	}
	return false
}

// HasNonGaps reports whether the BioString contains at least one non-gap.
func (b BioString) HasNonGaps() bool {
	for _, c := range b.bytes {
		if !grammar.IsGap(c) {
			return true
		}
	}
	return false
}

// HasGapAt reports whether the 1-based position holds a gap character.
func (b BioString) HasGapAt(position int) bool {
	return grammar.IsGap(b.ByteAt(position))
}

// Digest returns the MD5 digest of the BioString's raw bytes, used for
// content addressing by contentstore.
func (b BioString) Digest() [16]byte {
	return md5.Sum(b.bytes)
}

// TranslateGaps returns a new BioString with every gap character replaced by
// ch.
func (b BioString) TranslateGaps(ch byte) BioString {
	raw := b.clone()
	for i, c := range raw {
		if grammar.IsGap(c) {
			raw[i] = ch
		}
	}
	return withBytes(b, raw)
}

// Tr returns a new BioString with every occurrence of before replaced by
// after.
func (b BioString) Tr(before, after byte) BioString {
	raw := b.clone()
	for i, c := range raw {
		if c == before {
			raw[i] = after
		}
	}
	return withBytes(b, raw)
}

// TrMulti replaces each byte in query with the corresponding byte in
// replacement (first-wins on duplicate query characters).
func (b BioString) TrMulti(query, replacement []byte) (BioString, error) {
	if len(query) != len(replacement) {
		return BioString{}, fmt.Errorf("biostring: TrMulti query/replacement length mismatch (%d != %d)", len(query), len(replacement))
	}
	table := make(map[byte]byte, len(query))
	for i, q := range query {
		if _, ok := table[q]; ok {
			continue // first-wins on duplicates
		}
		table[q] = replacement[i]
	}
	raw := b.clone()
	for i, c := range raw {
		if r, ok := table[c]; ok {
			raw[i] = r
		}
	}
	return withBytes(b, raw), nil
}

// Reverse returns a new BioString with byte order reversed.
func (b BioString) Reverse() BioString {
	raw := b.clone()
	for i, j := 0, len(raw)-1; i < j; i, j = i+1, j-1 {
		raw[i], raw[j] = raw[j], raw[i]
	}
	return withBytes(b, raw)
}

// Complement returns a new BioString with every base substituted through its
// grammar's ambiguity-code complement table. It returns an error for Amino
// or Unknown grammars, which have no complement.
func (b BioString) Complement() (BioString, error) {
	table := grammar.ComplementOf(b.grammar)
	if table == nil {
		return BioString{}, fmt.Errorf("biostring: complement undefined for grammar %s", b.grammar)
	}
	raw := b.clone()
	for i, c := range raw {
		if grammar.IsGap(c) {
			continue
		}
		if r, ok := table[c]; ok {
			raw[i] = r
		}
	}
	return withBytes(b, raw), nil
}

// ReverseComplement is Complement().Reverse().
func (b BioString) ReverseComplement() (BioString, error) {
	c, err := b.Complement()
	if err != nil {
		return BioString{}, err
	}
	return c.Reverse(), nil
}

// Transcribe replaces T with U; valid only for Rna grammar (DNA-to-RNA
// sequences are expected to already be tagged Rna once transcribed, per the
// original's in-place transcribe-for-RNA-grammar semantics).
func (b BioString) Transcribe() (BioString, error) {
	if b.grammar != grammar.Rna {
		return BioString{}, fmt.Errorf("biostring: transcribe requires Rna grammar, got %s", b.grammar)
	}
	bs, err := b.TrMulti([]byte{'T', 't'}, []byte{'U', 'u'})
	return bs, err
}

// BackTranscribe replaces U with T; valid only for Rna grammar.
func (b BioString) BackTranscribe() (BioString, error) {
	if b.grammar != grammar.Rna {
		return BioString{}, fmt.Errorf("biostring: backTranscribe requires Rna grammar, got %s", b.grammar)
	}
	bs, err := b.TrMulti([]byte{'U', 'u'}, []byte{'T', 't'})
	return bs, err
}

// IsPalindrome reports whether the BioString is DNA, has a nonzero even
// length, contains no gaps, and equals its own reverse complement.
func (b BioString) IsPalindrome() bool {
	if b.grammar != grammar.Dna {
		return false
	}
	if b.Length() == 0 || b.Length()%2 != 0 {
		return false
	}
	if b.HasGaps() {
		return false
	}
	rc, err := b.ReverseComplement()
	if err != nil {
		return false
	}
	return b.Equal(rc)
}
