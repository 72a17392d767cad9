package sample

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/verihouse/verihouse/pkg/pool"
)

// tryBlumPrime attempts to generate one prime p ≡ 3 (mod 4) of the given
// bit size, returning nil when the candidate does not qualify.
func tryBlumPrime(rand io.Reader, bits int) *big.Int {
	p, err := cryptoPrime(rand, bits)
	if err != nil {
		return nil
	}
	// bit 0 of a prime is always 1, so p ≡ 3 (mod 4) iff bit 1 is set
	if p.Bit(1) != 1 {
		return nil
	}
	return p
}

// BlumPrime generates a prime p ≡ 3 (mod 4) of the given bit size.
func BlumPrime(rand io.Reader, bits int) *big.Int {
	for {
		if p := tryBlumPrime(rand, bits); p != nil {
			return p
		}
	}
}

// Paillier generates the two distinct Blum primes of a Paillier key pair,
// searching in parallel over the pool.
func Paillier(pl *pool.Pool, bits int) (p, q *big.Int) {
	reader := pool.NewLockedReader(rand.Reader)
	for {
		results := pl.Search(2, func() interface{} {
			pr := tryBlumPrime(reader, bits)
			// this dance is necessary because of how Go handles a nil *big.Int
			if pr == nil {
				return nil
			}
			return pr
		})
		p, q = results[0].(*big.Int), results[1].(*big.Int)
		if p.Cmp(q) != 0 {
			return p, q
		}
	}
}

func cryptoPrime(r io.Reader, bits int) (*big.Int, error) {
	return rand.Prime(r, bits)
}
