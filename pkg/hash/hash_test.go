package hash

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashDeterminism(t *testing.T) {
	mkDigest := func() []byte {
		h := New()
		require.NoError(t, h.WriteAny([]byte("hello"), big.NewInt(42)))
		return h.Sum()
	}
	assert.Equal(t, mkDigest(), mkDigest(), "equal inputs must produce equal digests")
}

func TestHashDomainSeparation(t *testing.T) {
	h1 := New()
	require.NoError(t, h1.WriteAny(BytesWithDomain{TheDomain: "A", Bytes: []byte("x")}))
	h2 := New()
	require.NoError(t, h2.WriteAny(BytesWithDomain{TheDomain: "B", Bytes: []byte("x")}))
	assert.NotEqual(t, h1.Sum(), h2.Sum(), "same bytes under different domains must differ")
}

func TestHashWriteOrderMatters(t *testing.T) {
	h1 := New()
	require.NoError(t, h1.WriteAny(big.NewInt(1), big.NewInt(2)))
	h2 := New()
	require.NoError(t, h2.WriteAny(big.NewInt(2), big.NewInt(1)))
	assert.NotEqual(t, h1.Sum(), h2.Sum())
}

func TestIntModN(t *testing.T) {
	n := new(big.Int).Lsh(big.NewInt(1), 100)
	for i := int64(0); i < 64; i++ {
		h := New()
		require.NoError(t, h.WriteAny(big.NewInt(i)))
		v := h.IntModN(n)
		require.True(t, v.Sign() >= 0)
		require.True(t, v.Cmp(n) < 0, "reduced value must be below n")
	}

	// determinism of the reduction
	h1 := New()
	require.NoError(t, h1.WriteAny(big.NewInt(7)))
	h2 := New()
	require.NoError(t, h2.WriteAny(big.NewInt(7)))
	assert.Equal(t, 0, h1.IntModN(n).Cmp(h2.IntModN(n)))
}

func TestClone(t *testing.T) {
	h := New()
	require.NoError(t, h.WriteAny([]byte("prefix")))
	c := h.Clone()
	require.NoError(t, c.WriteAny([]byte("suffix")))

	assert.NotEqual(t, h.Sum(), c.Sum())

	h2 := New()
	require.NoError(t, h2.WriteAny([]byte("prefix"), []byte("suffix")))
	assert.Equal(t, h2.Sum(), c.Sum())
}
