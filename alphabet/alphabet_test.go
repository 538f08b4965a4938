package alphabet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trafficone/naf/alphabet"
)

func TestCodesOrder(t *testing.T) {
	want := "-TGKCYSBAWRDMHVN"
	for i, c := range want {
		assert.Equal(t, byte(c), alphabet.Codes[i], "index %d", i)
	}
}

func TestPairDecodesPackedBytes(t *testing.T) {
	// A=8,C=4 -> 0x84; G=2,T=1 -> 0x21; together the sequence ACGT.
	hi, lo := alphabet.Pair(0x84)
	assert.Equal(t, byte('A'), hi)
	assert.Equal(t, byte('C'), lo)

	hi, lo = alphabet.Pair(0x21)
	assert.Equal(t, byte('G'), hi)
	assert.Equal(t, byte('T'), lo)
}
