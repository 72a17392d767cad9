package arith

import (
	"errors"
	"math/big"
)

var (
	// ErrZeroModulus is returned by ModExp and ModInverse when the modulus is 0.
	ErrZeroModulus = errors.New("arith: modulus is zero")
	// ErrNoInverse is returned by ModInverse when gcd(a, m) ≠ 1.
	ErrNoInverse = errors.New("arith: no inverse exists")
)

var one = big.NewInt(1)

// ModExp returns baseᵉˣᵖ (mod modulus) by square-and-multiply.
// exponent must be non-negative; exponent = 0 yields 1 (mod modulus).
func ModExp(base, exponent, modulus *big.Int) (*big.Int, error) {
	if modulus.Sign() == 0 {
		return nil, ErrZeroModulus
	}
	if exponent.Sign() < 0 {
		return nil, errors.New("arith: negative exponent")
	}
	return new(big.Int).Exp(base, exponent, modulus), nil
}

// ExtendedGCD returns (g, x, y) such that a⋅x + b⋅y = g = gcd(a, b).
// The iterative form keeps the sign conventions required by ModInverse:
// for a, b > 0 the returned g is non-negative.
func ExtendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		q.Div(oldR, r)

		tmp.Mul(q, r)
		oldR.Sub(oldR, tmp)
		oldR, r = r, oldR

		tmp.Mul(q, s)
		oldS.Sub(oldS, tmp)
		oldS, s = s, oldS

		tmp.Mul(q, t)
		oldT.Sub(oldT, tmp)
		oldT, t = t, oldT
	}
	if oldR.Sign() < 0 {
		oldR.Neg(oldR)
		oldS.Neg(oldS)
		oldT.Neg(oldT)
	}
	return oldR, oldS, oldT
}

// ModInverse returns a⁻¹ (mod m).
// It fails with ErrNoInverse when gcd(a, m) ≠ 1.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	if m.Sign() == 0 {
		return nil, ErrZeroModulus
	}
	g, x, _ := ExtendedGCD(new(big.Int).Mod(a, m), m)
	if g.Cmp(one) != 0 {
		return nil, ErrNoInverse
	}
	return x.Mod(x, m), nil
}

// GCD returns gcd(a, b).
func GCD(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, a, b)
}

// LCM returns lcm(a, b) = a⋅b / gcd(a, b).
func LCM(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	l := new(big.Int).Mul(a, b)
	l.Abs(l)
	return l.Div(l, GCD(a, b))
}

// IsCoprime returns true if gcd(a, b) = 1.
func IsCoprime(a, b *big.Int) bool {
	var gcd big.Int
	return gcd.GCD(nil, nil, a, b).Cmp(one) == 0
}
