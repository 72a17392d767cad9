package paillier

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/verihouse/verihouse/pkg/math/arith"
)

// SecretKey holds the factorization of n and the derived decryption values
//
//	lambda = lcm(p-1, q-1)
//	mu     = L(g^lambda mod n²)⁻¹ (mod n)
//
// where L(x) = (x-1)/n over the integers.
type SecretKey struct {
	*PublicKey

	p, q       *big.Int
	lambda, mu *big.Int

	// n² with known factorization p²⋅q², for fast decryption exponents.
	n2Fast *arith.Modulus
}

// NewSecretKey derives the secret key from the factors p and q.
func NewSecretKey(p, q *big.Int) (*SecretKey, error) {
	if p.Sign() <= 0 || q.Sign() <= 0 {
		return nil, errors.New("paillier: factors must be positive")
	}
	n := new(big.Int).Mul(p, q)
	pk := NewPublicKey(n)

	pMinus := new(big.Int).Sub(p, one)
	qMinus := new(big.Int).Sub(q, one)
	lambda := arith.LCM(pMinus, qMinus)

	p2 := new(big.Int).Mul(p, p)
	q2 := new(big.Int).Mul(q, q)
	n2Fast := arith.ModulusFromFactors(p2, q2)

	// mu = L(g^lambda mod n²)⁻¹ (mod n)
	gLambda := n2Fast.ExpBig(pk.g, lambda)
	mu, err := arith.ModInverse(l(gLambda, n), n)
	if err != nil {
		return nil, fmt.Errorf("paillier: deriving mu: %w", err)
	}

	return &SecretKey{
		PublicKey: pk,
		p:         new(big.Int).Set(p),
		q:         new(big.Int).Set(q),
		lambda:    lambda,
		mu:        mu,
		n2Fast:    n2Fast,
	}, nil
}

// Dec returns the plaintext m < n encrypted in ct.
//
//	m = L(ct^lambda mod n²) ⋅ mu (mod n)
func (sk *SecretKey) Dec(ct *Ciphertext) (*big.Int, error) {
	if err := sk.ValidateCiphertext(ct); err != nil {
		return nil, err
	}
	cLambda := sk.n2Fast.ExpBig(ct.c, sk.lambda)
	m := l(cLambda, sk.n)
	m.Mul(m, sk.mu)
	m.Mod(m, sk.n)
	return m, nil
}

// P returns the prime factor p.
// The returned value is shared; callers must not modify it.
func (sk *SecretKey) P() *big.Int { return sk.p }

// Q returns the prime factor q.
// The returned value is shared; callers must not modify it.
func (sk *SecretKey) Q() *big.Int { return sk.q }

// l computes L(x) = (x-1)/n using integer division.
func l(x, n *big.Int) *big.Int {
	r := new(big.Int).Sub(x, one)
	return r.Div(r, n)
}
