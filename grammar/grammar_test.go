package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringRendersKnownGrammars(t *testing.T) {
	cases := map[Grammar]string{
		Unknown: "unknown",
		Amino:   "amino",
		Dna:     "dna",
		Rna:     "rna",
	}
	for g, want := range cases {
		assert.Equal(t, want, g.String())
	}
}

func TestMaskCharacterPerGrammar(t *testing.T) {
	assert.Equal(t, byte('X'), MaskCharacter(Amino))
	assert.Equal(t, byte('N'), MaskCharacter(Dna))
	assert.Equal(t, byte('N'), MaskCharacter(Rna))
	assert.Equal(t, byte('*'), MaskCharacter(Unknown))
}

func TestIsGapAcceptsBothGapCharacters(t *testing.T) {
	assert.True(t, IsGap('-'))
	assert.True(t, IsGap('.'))
	assert.False(t, IsGap('A'))
}

func TestComplementOfIsNilForAminoAndUnknown(t *testing.T) {
	assert.Nil(t, ComplementOf(Amino))
	assert.Nil(t, ComplementOf(Unknown))
}

func TestComplementOfDnaTablePairing(t *testing.T) {
	table := ComplementOf(Dna)
	if assert.NotNil(t, table) {
		pairs := map[byte]byte{'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C'}
		for from, to := range pairs {
			assert.Equal(t, to, table[from])
		}
		assert.Equal(t, byte('W'), table['W'])
		assert.Equal(t, byte('S'), table['S'])
		assert.Equal(t, byte('N'), table['N'])
	}
}

func TestComplementOfRnaUsesU(t *testing.T) {
	table := ComplementOf(Rna)
	if assert.NotNil(t, table) {
		assert.Equal(t, byte('U'), table['A'])
		assert.Equal(t, byte('A'), table['U'])
	}
}

func TestStripWhitespaceRemovesAllWhitespaceRunes(t *testing.T) {
	got := StripWhitespace([]byte(" A\tB\nC\r D "))
	assert.Equal(t, "ABCD", string(got))
}
