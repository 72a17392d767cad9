// Package paillier implements the additively homomorphic Paillier
// cryptosystem over math/big integers: encryption, decryption from a known
// factorization, homomorphic addition of ciphertexts, and the deterministic
// hash binders used to commit to plaintexts.
package paillier

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/verihouse/verihouse/pkg/math/arith"
	"github.com/verihouse/verihouse/pkg/math/sample"
)

var (
	// ErrPlaintextTooLarge is returned by Enc when m ≥ n.
	ErrPlaintextTooLarge = errors.New("paillier: plaintext must be smaller than n")
	// ErrPlaintextNegative is returned by Enc when m < 0.
	ErrPlaintextNegative = errors.New("paillier: plaintext must be non-negative")
	// ErrWrongFactors is returned when a claimed factorization p⋅q ≠ n.
	ErrWrongFactors = errors.New("paillier: p·q does not equal n")
)

var one = big.NewInt(1)

// PublicKey holds the public modulus n, the generator g = n+1 and the cached
// square n². Immutable after construction.
type PublicKey struct {
	n, g, nSquared *big.Int

	n2Mod *arith.Modulus
}

// NewPublicKey constructs the public key for modulus n.
func NewPublicKey(n *big.Int) *PublicKey {
	nNew := new(big.Int).Set(n)
	nSquared := new(big.Int).Mul(nNew, nNew)
	return &PublicKey{
		n:        nNew,
		g:        new(big.Int).Add(nNew, one),
		nSquared: nSquared,
		n2Mod:    arith.ModulusFromN(nSquared),
	}
}

// Enc returns the encryption of m under pk.
// If nonce is nil, a fresh unit mod n² is sampled; the nonce used is always
// returned.
//
//	ct = gᵐ ⋅ rⁿ (mod n²)
//
// Correctness does not depend on the nonce: any unit r (including the
// sampler's fallback 1) decrypts back to m.
func (pk *PublicKey) Enc(m, nonce *big.Int) (*Ciphertext, *big.Int, error) {
	if m.Sign() < 0 {
		return nil, nil, ErrPlaintextNegative
	}
	if m.Cmp(pk.n) >= 0 {
		return nil, nil, ErrPlaintextTooLarge
	}
	if nonce == nil {
		nonce = pk.Nonce()
	}

	c := pk.n2Mod.ExpBig(pk.g, m)
	rn := pk.n2Mod.ExpBig(nonce, pk.n)
	c.Mul(c, rn)
	c.Mod(c, pk.nSquared)
	return &Ciphertext{c: c}, nonce, nil
}

// Nonce returns a suitable randomizer ρ ∈ ℤₙ²ˣ for encryption.
func (pk *PublicKey) Nonce() *big.Int {
	return sample.UnitModN(rand.Reader, pk.nSquared)
}

// ValidateCiphertext checks that ct is an integer in (0, n²).
func (pk *PublicKey) ValidateCiphertext(ct *Ciphertext) error {
	if ct == nil || ct.c == nil {
		return fmt.Errorf("paillier: nil ciphertext")
	}
	if ct.c.Sign() <= 0 || ct.c.Cmp(pk.nSquared) >= 0 {
		return fmt.Errorf("paillier: ciphertext out of range (0, n²)")
	}
	return nil
}

// ValidateFactors checks the PrivateKeyMaterial invariant p⋅q = n.
func (pk *PublicKey) ValidateFactors(p, q *big.Int) error {
	if p == nil || q == nil || p.Sign() <= 0 || q.Sign() <= 0 {
		return ErrWrongFactors
	}
	if new(big.Int).Mul(p, q).Cmp(pk.n) != 0 {
		return ErrWrongFactors
	}
	return nil
}

// Equal returns true if pk = other.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	return pk.n.Cmp(other.n) == 0
}

// N returns the modulus n of the public key.
// The returned value is shared; callers must not modify it.
func (pk *PublicKey) N() *big.Int {
	return pk.n
}

// N2 returns n².
// The returned value is shared; callers must not modify it.
func (pk *PublicKey) N2() *big.Int {
	return pk.nSquared
}
