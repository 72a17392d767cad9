package arith

import (
	"math/big"

	"github.com/cronokirby/saferith"
)

// Modulus wraps a saferith.Modulus and enables faster modular exponentiation
// when the factorization is known.
// When n = p⋅q, xᵉ (mod n) can be computed with two half-size exponentiations
// mod p and mod q, recombined by CRT.
type Modulus struct {
	*saferith.Modulus
	nBig *big.Int
	// p, q are set only when the factorization of n is known.
	p, q *saferith.Modulus
	// pInv = p⁻¹ (mod q)
	pNat, pInv *saferith.Nat
}

// ModulusFromN wraps n without factorization hints.
func ModulusFromN(n *big.Int) *Modulus {
	return &Modulus{
		Modulus: saferith.ModulusFromBytes(n.Bytes()),
		nBig:    new(big.Int).Set(n),
	}
}

// ModulusFromFactors caches the values needed to accelerate exponentiation
// mod p⋅q.
func ModulusFromFactors(p, q *big.Int) *Modulus {
	pNat := new(saferith.Nat).SetBytes(p.Bytes())
	qNat := new(saferith.Nat).SetBytes(q.Bytes())
	nNat := new(saferith.Nat).Mul(pNat, qNat, -1)
	qMod := saferith.ModulusFromNat(qNat)
	return &Modulus{
		Modulus: saferith.ModulusFromNat(nNat),
		nBig:    new(big.Int).Mul(p, q),
		p:       saferith.ModulusFromNat(pNat),
		q:       qMod,
		pNat:    pNat,
		pInv:    new(saferith.Nat).ModInverse(pNat, qMod),
	}
}

// Exp returns xᵉ (mod n).
func (n *Modulus) Exp(x, e *saferith.Nat) *saferith.Nat {
	if n.hasFactorization() {
		var xp, xq saferith.Nat
		xp.Exp(x, e, n.p)
		xq.Exp(x, e, n.q)
		// r = xₚ + p ⋅ [p⁻¹ (mod q)] ⋅ [x_q - xₚ] (mod n)
		r := xq.ModSub(&xq, &xp, n.Modulus)
		r.ModMul(r, n.pInv, n.Modulus)
		r.ModMul(r, n.pNat, n.Modulus)
		r.ModAdd(r, &xp, n.Modulus)
		return r
	}
	return new(saferith.Nat).Exp(x, e, n.Modulus)
}

// ExpBig is Exp over math/big operands, converting in and out of saferith.
func (n *Modulus) ExpBig(x, e *big.Int) *big.Int {
	xRed := new(big.Int).Mod(x, n.nBig)
	xNat := new(saferith.Nat).SetBig(xRed, xRed.BitLen())
	eNat := new(saferith.Nat).SetBig(e, e.BitLen())
	return n.Exp(xNat, eNat).Big()
}

// BigInt returns the modulus as a big.Int.
// The returned value is shared; callers must not modify it.
func (n *Modulus) BigInt() *big.Int {
	return n.nBig
}

func (n Modulus) hasFactorization() bool {
	return n.p != nil && n.q != nil && n.pNat != nil && n.pInv != nil
}
