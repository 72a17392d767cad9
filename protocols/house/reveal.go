package house

import (
	"fmt"
	"math/big"

	"github.com/verihouse/verihouse/pkg/paillier"
	"github.com/verihouse/verihouse/pkg/party"
)

// Reveal consumes the dealer's disclosed private factors, the plaintext seed
// sum and the plaintext r of its earlier seed commitment. Two independent
// checks run against the recorded ciphertexts; a failure of either sets the
// durable cheat flag, but the game still advances to Revealed and the
// dispute deadline starts either way.
//
// Mismatched factors (p·q ≠ n) are rejected as invalid input with no state
// change: the private key material invariant must hold before any
// decryption-based check is meaningful.
func (g *Game) Reveal(caller party.ID, p, q, seedSum, r *big.Int) error {
	if err := g.lock(); err != nil {
		return err
	}
	defer g.mu.Unlock()

	if caller != g.cfg.Dealer {
		return ErrUnauthorized
	}
	if g.state != InProgress {
		return fmt.Errorf("%w: reveal is only possible while the game is in progress", ErrProtocolViolation)
	}
	if err := g.pk.ValidateFactors(p, q); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if seedSum == nil || r == nil {
		return fmt.Errorf("%w: nil reveal values", ErrInvalidInput)
	}
	sk, err := paillier.NewSecretKey(p, q)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// the disclosed sum must match what the committed ciphertexts encrypt
	accumulated, err := sk.Dec(g.commitment.Accumulated())
	if err != nil || accumulated.Cmp(seedSum) != 0 {
		g.cheat = true
	}

	// the dealer's opaque commitment must really have been a hash binding of
	// the seed sum, not a value chosen after the fact
	committed, err := sk.Dec(g.dealerCommitment)
	if err != nil || committed.Cmp(r) != 0 || r.Cmp(g.pk.SeedBinder(seedSum)) != 0 {
		g.cheat = true
	}

	g.sk = sk
	g.revealedSeedSum = new(big.Int).Set(seedSum)
	g.state = Revealed
	g.revealDeadline = g.clock().Add(g.cfg.DisputeWindow)
	return nil
}

// Verify recomputes every settled order's outcome from first principles and
// returns the cheat flag. For each order the proof ciphertext must decrypt
// to the outcome binder of (choice, revealed seed, timestamp), and the
// binder's parity must match the claimed result (even wins, odd loses).
// Checking short-circuits on the first inconsistency.
//
// Callable only while Revealed and before the deadline.
func (g *Game) Verify() (bool, error) {
	if err := g.lock(); err != nil {
		return false, err
	}
	defer g.mu.Unlock()

	if err := g.requireDisputeWindow(); err != nil {
		return g.cheat, err
	}
	g.verifyOrders()
	return g.cheat, nil
}

// Report triggers a verification on behalf of a suspicious player. If the
// cheat flag is already set the verification is skipped; the flag can never
// be unset, so re-checking proves nothing.
func (g *Game) Report() (bool, error) {
	if err := g.lock(); err != nil {
		return false, err
	}
	defer g.mu.Unlock()

	if err := g.requireDisputeWindow(); err != nil {
		return g.cheat, err
	}
	if !g.cheat {
		g.verifyOrders()
	}
	return g.cheat, nil
}

// ClaimCompensation pays a wronged bettor double the stake for each of its
// not yet compensated orders. Requires a proven cheat and an open dispute
// window. Compensation is write-once per order.
func (g *Game) ClaimCompensation(player party.ID) (uint64, error) {
	if err := g.lock(); err != nil {
		return 0, err
	}
	defer g.mu.Unlock()

	if err := g.requireDisputeWindow(); err != nil {
		return 0, err
	}
	if !g.cheat {
		return 0, fmt.Errorf("%w: no cheat was established", ErrProtocolViolation)
	}

	var claimed []*Order
	owned := false
	for _, order := range g.orders {
		if order.Player != player {
			continue
		}
		owned = true
		if !order.Compensated {
			claimed = append(claimed, order)
		}
	}
	if !owned {
		return 0, fmt.Errorf("%w: %s has no orders", ErrNotFound, player)
	}
	if len(claimed) == 0 {
		return 0, ErrAlreadyCompensated
	}

	amount := uint64(0)
	for _, order := range claimed {
		order.Compensated = true
		amount += coverageFactor * order.Stake
	}
	if g.reserve < amount {
		for _, order := range claimed {
			order.Compensated = false
		}
		return 0, fmt.Errorf("%w: reserve %d cannot cover %d", ErrInsufficientReserve, g.reserve, amount)
	}
	g.reserve -= amount

	if err := g.transfer(g.cfg.HouseAccount, player, amount); err != nil {
		for _, order := range claimed {
			order.Compensated = false
		}
		g.reserve += amount
		return 0, err
	}
	return amount, nil
}

// OwnerWithdraw drains the reserve back to the dealer. The house may only
// recover its funds once the dispute window has closed without a cheat
// being established.
func (g *Game) OwnerWithdraw(caller party.ID) (uint64, error) {
	if err := g.lock(); err != nil {
		return 0, err
	}
	defer g.mu.Unlock()

	if caller != g.cfg.Dealer {
		return 0, ErrUnauthorized
	}
	if g.state != Revealed {
		return 0, fmt.Errorf("%w: withdraw is only possible after reveal", ErrProtocolViolation)
	}
	if g.clock().Before(g.revealDeadline) {
		return 0, fmt.Errorf("%w: dispute window still open", ErrDeadlineExpired)
	}
	if g.cheat {
		return 0, fmt.Errorf("%w: cheat was established", ErrProtocolViolation)
	}

	amount := g.reserve
	if amount == 0 {
		return 0, fmt.Errorf("%w: reserve is empty", ErrNotFound)
	}
	g.reserve = 0
	if err := g.transfer(g.cfg.HouseAccount, g.cfg.Dealer, amount); err != nil {
		g.reserve = amount
		return 0, err
	}
	return amount, nil
}

// RevealedSeed returns the disclosed seed sum, or nil before reveal.
func (g *Game) RevealedSeed() *big.Int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.revealedSeedSum == nil {
		return nil
	}
	return new(big.Int).Set(g.revealedSeedSum)
}

// requireDisputeWindow checks Revealed state and an unexpired deadline.
func (g *Game) requireDisputeWindow() error {
	if g.state != Revealed {
		return fmt.Errorf("%w: game was not revealed", ErrProtocolViolation)
	}
	if !g.clock().Before(g.revealDeadline) {
		return ErrDeadlineExpired
	}
	return nil
}

// verifyOrders re-derives every settled order's outcome, setting the cheat
// flag and stopping at the first mismatch. Unsettled orders carry no claim
// by the dealer and are skipped.
func (g *Game) verifyOrders() {
	for _, order := range g.orders {
		if !order.Settled {
			continue
		}
		x, err := g.sk.Dec(order.Proof)
		if err != nil {
			g.cheat = true
			return
		}
		binder := g.pk.OutcomeBinder(order.Choice, g.revealedSeedSum, order.Timestamp)
		if x.Cmp(binder) != 0 {
			g.cheat = true
			return
		}
		want := OutcomeLost
		if x.Bit(0) == 0 {
			want = OutcomeWon
		}
		if order.Outcome != want {
			g.cheat = true
			return
		}
	}
}
