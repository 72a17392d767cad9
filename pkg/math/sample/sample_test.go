package sample

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verihouse/verihouse/pkg/math/arith"
	"github.com/verihouse/verihouse/pkg/pool"
)

func TestModN(t *testing.T) {
	n := big.NewInt(1 << 20)
	for i := 0; i < 64; i++ {
		u := ModN(rand.Reader, n)
		require.True(t, u.Sign() >= 0)
		require.True(t, u.Cmp(n) < 0)
	}
}

func TestUnitModN(t *testing.T) {
	n := new(big.Int).Mul(big.NewInt(1_000_003), big.NewInt(1_000_033))
	for i := 0; i < 32; i++ {
		u := UnitModN(rand.Reader, n)
		require.True(t, u.Sign() > 0)
		require.True(t, u.Cmp(n) < 0)
		require.True(t, arith.IsCoprime(u, n), "sampled value must be a unit")
	}
}

// A reader that always fails forces the fallback path: the safe default 1
// must come back rather than an error or a non-unit.
type zeroReader struct{}

func (zeroReader) Read(buf []byte) (int, error) {
	for i := range buf {
		buf[i] = 0
	}
	return len(buf), nil
}

func TestUnitModNFallback(t *testing.T) {
	n := big.NewInt(1 << 16)
	u := UnitModN(zeroReader{}, n)
	assert.Equal(t, int64(1), u.Int64(), "exhausted sampling must fall back to 1")
}

func TestBlumPrime(t *testing.T) {
	p := BlumPrime(rand.Reader, 128)
	assert.Equal(t, 128, p.BitLen())
	assert.True(t, p.ProbablyPrime(20))
	assert.Equal(t, uint64(3), new(big.Int).Mod(p, big.NewInt(4)).Uint64())
}

func TestPaillier(t *testing.T) {
	pl := pool.NewPool(0)
	p, q := Paillier(pl, 128)
	assert.True(t, p.ProbablyPrime(20))
	assert.True(t, q.ProbablyPrime(20))
	assert.NotEqual(t, 0, p.Cmp(q))
}
