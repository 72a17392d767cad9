package paillier

import (
	"math/big"

	"github.com/verihouse/verihouse/pkg/hash"
)

// Domain tags for the two commitment binders.
const (
	seedBinderDomain    = "verihouse/v1/seed-binder"
	outcomeBinderDomain = "verihouse/v1/outcome-binder"
)

// SeedBinder deterministically binds the shared seed sum to an integer
// below n. The dealer commits to this value, encrypted, before any bet is
// placed; at reveal time the disclosed sum is checked against it.
func (pk *PublicKey) SeedBinder(seedSum *big.Int) *big.Int {
	h := hash.New(hash.BytesWithDomain{TheDomain: seedBinderDomain})
	_ = h.WriteAny(seedSum)
	return h.IntModN(pk.n)
}

// OutcomeBinder binds an order's (choice, seed, timestamp) triple to an
// integer below n: the digest of choice + seedSum + timestamp. The parity of
// this value decides the order's outcome, and the dealer's uploaded proof
// ciphertext must decrypt to exactly this value.
func (pk *PublicKey) OutcomeBinder(choice, seedSum *big.Int, timestamp int64) *big.Int {
	sum := new(big.Int).Add(choice, seedSum)
	sum.Add(sum, big.NewInt(timestamp))

	h := hash.New(hash.BytesWithDomain{TheDomain: outcomeBinderDomain})
	_ = h.WriteAny(sum)
	return h.IntModN(pk.n)
}
