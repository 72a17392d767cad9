package house

import (
	"math/big"

	"github.com/verihouse/verihouse/pkg/paillier"
	"github.com/verihouse/verihouse/pkg/party"
)

// Outcome is the settlement status of an order.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeLost
	OutcomeWon
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeLost:
		return "lost"
	case OutcomeWon:
		return "won"
	default:
		return "unknown"
	}
}

// Order is the auditable record of one bet. Orders are never deleted; they
// are mutated once by the dealer's settlement and at most once by a
// compensation claim.
type Order struct {
	ID     uint64
	Player party.ID
	// Choice is the player's plaintext choice k.
	Choice *big.Int
	Stake  uint64
	// Timestamp is the unix time of placement, an input to the outcome binder.
	Timestamp int64

	// LinkedCommitment = Enc(Choice) ⊕ dealer seed commitment. Disclosed, so
	// the dealer can later prove consistent outcome derivation.
	LinkedCommitment *paillier.Ciphertext

	// Proof is the dealer's encrypted outcome binder, set by settlement.
	Proof   *paillier.Ciphertext
	Outcome Outcome
	Settled bool

	Compensated bool
}

// BetInfo is the player-facing view of an order.
type BetInfo struct {
	Choice *big.Int
	Stake  uint64
}
