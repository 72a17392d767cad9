package paillier

import (
	"github.com/verihouse/verihouse/pkg/math/sample"
	"github.com/verihouse/verihouse/pkg/pool"
)

// KeyGen generates a fresh key pair with two distinct Blum primes of the
// given bit size, searching in parallel over pl.
//
// The protocol itself never derives keys; the dealer's factors are supplied
// at reveal time. KeyGen exists for hosts and tests that play the dealer.
func KeyGen(pl *pool.Pool, bits int) (pk *PublicKey, sk *SecretKey) {
	for {
		p, q := sample.Paillier(pl, bits)
		sk, err := NewSecretKey(p, q)
		if err != nil {
			// gcd(n, lambda) ≠ 1 is possible for unlucky factors; resample
			continue
		}
		return sk.PublicKey, sk
	}
}
