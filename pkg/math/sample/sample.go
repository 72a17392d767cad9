// Package sample provides the random values consumed by the cryptosystem:
// uniform residues, encryption randomizers, and Blum primes.
package sample

import (
	"fmt"
	"io"
	"math/big"

	"github.com/verihouse/verihouse/pkg/math/arith"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// ModN samples an element of ℤₙ.
func ModN(rand io.Reader, n *big.Int) *big.Int {
	out := new(big.Int)
	buf := make([]byte, (n.BitLen()+7)/8)
	for {
		mustReadBits(rand, buf)
		out.SetBytes(buf)
		if out.Cmp(n) < 0 {
			return out
		}
	}
}

// UnitModN returns a u ∈ ℤₙˣ, i.e. gcd(u, n) = 1.
// Each candidate is checked for coprimality; after a bounded number of failed
// draws the safe default 1 (always a unit) is returned instead. The check and
// fallback, not just the happy path, are part of the protocol's observable
// contract.
func UnitModN(rand io.Reader, n *big.Int) *big.Int {
	for i := 0; i < maxIterations; i++ {
		u := ModN(rand, n)
		if u.Sign() != 0 && arith.IsCoprime(u, n) {
			return u
		}
	}
	return big.NewInt(1)
}
