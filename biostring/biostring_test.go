package biostring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukeulrich/alignshop/grammar"
)

func TestNewStripsWhitespace(t *testing.T) {
	bs, err := New([]byte("AB C\tD\nE"), grammar.Amino)
	require.NoError(t, err)
	assert.Equal(t, "ABCDE", bs.String())
}

func TestNewRejectsNonPrintable(t *testing.T) {
	_, err := New([]byte{1, 2, 3}, grammar.Amino)
	assert.Error(t, err)
}

func TestEqualIsStrictAboutGapIdentity(t *testing.T) {
	a := MustNew("AB-C", grammar.Amino)
	b := MustNew("AB.C", grammar.Amino)
	assert.False(t, a.Equal(b), "Equal should distinguish '-' from '.'")
	assert.True(t, a.EquivalentTo(b), "EquivalentTo should treat '-' and '.' as equivalent")
}

func TestInsertAndRemoveRoundTrip(t *testing.T) {
	bs := MustNew("ABCDEF", grammar.Amino)
	gaps := MustNew("--", grammar.Amino)
	inserted, err := bs.Insert(3, gaps)
	require.NoError(t, err)
	assert.Equal(t, "AB--CDEF", inserted.String())

	removed, err := inserted.Remove(3, 2)
	require.NoError(t, err)
	assert.True(t, removed.Equal(bs))
}

func TestInsertGapsThenRemoveGapsAtIsIdentity(t *testing.T) {
	bs := MustNew("ABCDEF", grammar.Amino)
	withGaps, err := bs.InsertGaps(4, 3, '-')
	require.NoError(t, err)

	back, err := withGaps.RemoveGapsAt(4, 3)
	require.NoError(t, err)
	assert.True(t, back.Equal(bs))
}

func TestRemoveGapsAtPanicsOnNonGap(t *testing.T) {
	bs := MustNew("ABCDEF", grammar.Amino)
	assert.Panics(t, func() { bs.RemoveGapsAt(2, 2) })
}

func TestMidAndUngapped(t *testing.T) {
	bs := MustNew("AB--CD-EF", grammar.Amino)
	mid, err := bs.Mid(3, 7)
	require.NoError(t, err)
	assert.Equal(t, "--CD-", mid.String())
	assert.Equal(t, "ABCDEF", bs.Ungapped().String())
	assert.Equal(t, bs.Ungapped().Length(), bs.UngappedLength())
}

func TestHeadTailGaps(t *testing.T) {
	bs := MustNew("--AB-CD--", grammar.Amino)
	assert.Equal(t, 2, bs.HeadGaps())
	assert.Equal(t, 2, bs.TailGaps())
}

func TestGapsLeftRightOfExcludePositionItself(t *testing.T) {
	bs := MustNew("A--B--C", grammar.Amino)
	assert.Equal(t, 2, bs.GapsLeftOf(4))
	assert.Equal(t, 2, bs.GapsRightOf(4))
	assert.Equal(t, 0, bs.GapsLeftOf(2))
}

func TestTranslateGapsAndTr(t *testing.T) {
	bs := MustNew("AB-C.D", grammar.Amino)
	assert.Equal(t, "ABXCXD", bs.TranslateGaps('X').String())
	assert.Equal(t, "ZB-C.D", bs.Tr('A', 'Z').String())
}

func TestTrMultiFirstWinsOnDuplicateQuery(t *testing.T) {
	bs := MustNew("AAB", grammar.Amino)
	out, err := bs.TrMulti([]byte{'A', 'A'}, []byte{'X', 'Y'})
	require.NoError(t, err)
	assert.Equal(t, "XXB", out.String(), "first-wins on duplicate query characters")
}

func TestReverseComplementDna(t *testing.T) {
	bs := MustNew("ATCG", grammar.Dna)
	rc, err := bs.ReverseComplement()
	require.NoError(t, err)
	assert.Equal(t, "CGAT", rc.String())
}

func TestComplementUndefinedForAmino(t *testing.T) {
	_, err := MustNew("ABC", grammar.Amino).Complement()
	assert.Error(t, err)
}

func TestTranscribeRequiresRnaGrammar(t *testing.T) {
	dna := MustNew("ATCG", grammar.Dna)
	_, err := dna.Transcribe()
	assert.Error(t, err)

	rna := MustNew("ATCG", grammar.Rna)
	out, err := rna.Transcribe()
	require.NoError(t, err)
	assert.Equal(t, "AUCG", out.String())

	back, err := out.BackTranscribe()
	require.NoError(t, err)
	assert.True(t, back.Equal(rna))
}

func TestIsPalindrome(t *testing.T) {
	assert.True(t, MustNew("GAATTC", grammar.Dna).IsPalindrome())
	assert.False(t, MustNew("GAATTC", grammar.Dna+100).IsPalindrome(), "non-Dna grammar is never a palindrome")
	assert.False(t, MustNew("GAATT", grammar.Dna).IsPalindrome(), "odd length is never a palindrome")
	assert.False(t, MustNew("GA--TC", grammar.Dna).IsPalindrome(), "gapped sequence is never a palindrome")
}

func TestDigestIsStableAndContentAddressed(t *testing.T) {
	a := MustNew("ABCDEF", grammar.Amino)
	b := MustNew("ABCDEF", grammar.Amino)
	c := MustNew("ABCDEG", grammar.Amino)
	assert.Equal(t, a.Digest(), b.Digest())
	assert.NotEqual(t, a.Digest(), c.Digest())
}

func TestInsertOutOfRange(t *testing.T) {
	bs := MustNew("ABC", grammar.Amino)
	_, err := bs.Insert(5, MustNew("X", grammar.Amino))
	assert.Error(t, err)
	_, err = bs.Insert(0, MustNew("X", grammar.Amino))
	assert.Error(t, err)
}
