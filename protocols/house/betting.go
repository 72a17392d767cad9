package house

import (
	"fmt"
	"math/big"

	"github.com/verihouse/verihouse/pkg/paillier"
	"github.com/verihouse/verihouse/pkg/party"
)

// PlaceBet accepts a bet while the game is in progress and returns the new
// order's identifier. The stake must equal the configured amount, and the
// reserve must exceed coverageFactor times the stake for every order
// including this one, so the house can cover the worst case of all
// outstanding bets winning.
//
// The stored order links the player's choice to the dealer's seed
// commitment: linked = Enc(choice) ⊕ dealerCommitment. The linked value is
// disclosed, not secret; it lets the dealer later prove consistent outcome
// derivation without revealing the seed.
func (g *Game) PlaceBet(player party.ID, choice *big.Int, stake uint64) (uint64, error) {
	if err := g.lock(); err != nil {
		return 0, err
	}
	defer g.mu.Unlock()

	if g.state != InProgress {
		return 0, fmt.Errorf("%w: bets are only accepted while the game is in progress", ErrProtocolViolation)
	}
	if stake != g.cfg.Stake {
		return 0, fmt.Errorf("%w: stake must be exactly %d", ErrInvalidInput, g.cfg.Stake)
	}
	if choice == nil || choice.Sign() < 0 || choice.Cmp(g.pk.N()) >= 0 {
		return 0, fmt.Errorf("%w: choice must be in [0, n)", ErrInvalidInput)
	}

	required := uint64(coverageFactor) * g.cfg.Stake * uint64(len(g.orders)+1)
	if g.reserve <= required {
		return 0, fmt.Errorf("%w: reserve %d must exceed %d", ErrInsufficientReserve, g.reserve, required)
	}

	encChoice, _, err := g.pk.Enc(choice, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	linked := encChoice.Add(g.pk, g.dealerCommitment)

	// collect the stake before recording anything; a failed debit aborts the
	// whole bet
	if err := g.transfer(player, g.cfg.HouseAccount, stake); err != nil {
		return 0, err
	}
	g.reserve += stake

	order := &Order{
		ID:               g.nextOrderID,
		Player:           player,
		Choice:           new(big.Int).Set(choice),
		Stake:            stake,
		Timestamp:        g.clock().Unix(),
		LinkedCommitment: linked,
		Outcome:          OutcomePending,
	}
	g.nextOrderID++
	g.orders = append(g.orders, order)
	return order.ID, nil
}

// UploadOutcome is the dealer's settlement of one order: the encrypted
// outcome binder and the claimed result. Settlement is write-once; a second
// upload for the same order fails. A won order credits the player's pending
// balance with double the stake.
func (g *Game) UploadOutcome(caller party.ID, orderID uint64, proof *paillier.Ciphertext, outcome Outcome) error {
	if err := g.lock(); err != nil {
		return err
	}
	defer g.mu.Unlock()

	if caller != g.cfg.Dealer {
		return ErrUnauthorized
	}
	if outcome != OutcomeLost && outcome != OutcomeWon {
		return fmt.Errorf("%w: outcome must be lost or won", ErrInvalidInput)
	}
	order := g.findOrder(orderID)
	if order == nil {
		return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	if order.Settled {
		return fmt.Errorf("%w: order %d", ErrAlreadySettled, orderID)
	}
	if err := g.pk.ValidateCiphertext(proof); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	order.Proof = proof.Clone()
	order.Outcome = outcome
	order.Settled = true
	if outcome == OutcomeWon {
		g.pending[order.Player] += coverageFactor * order.Stake
	}
	return nil
}

// ClaimWinnings pays out the caller's pending balance. The balance is
// zeroed and the reserve debited before the external transfer is invoked;
// a failed transfer restores both, so the operation is atomic.
func (g *Game) ClaimWinnings(player party.ID) (uint64, error) {
	if err := g.lock(); err != nil {
		return 0, err
	}
	defer g.mu.Unlock()

	amount := g.pending[player]
	if amount == 0 {
		return 0, fmt.Errorf("%w: no pending winnings for %s", ErrNotFound, player)
	}
	if g.reserve < amount {
		return 0, fmt.Errorf("%w: reserve %d cannot cover %d", ErrInsufficientReserve, g.reserve, amount)
	}

	g.pending[player] = 0
	g.reserve -= amount
	if err := g.transfer(g.cfg.HouseAccount, player, amount); err != nil {
		g.pending[player] = amount
		g.reserve += amount
		return 0, err
	}
	return amount, nil
}

// ListBets returns the caller's bets in placement order.
func (g *Game) ListBets(player party.ID) []BetInfo {
	g.mu.Lock()
	defer g.mu.Unlock()

	var bets []BetInfo
	for _, order := range g.orders {
		if order.Player == player {
			bets = append(bets, BetInfo{
				Choice: new(big.Int).Set(order.Choice),
				Stake:  order.Stake,
			})
		}
	}
	return bets
}

// findOrder returns the order with the given ID, or nil.
// IDs are dense and start at 1, so the lookup is an index.
func (g *Game) findOrder(id uint64) *Order {
	if id == 0 || id > uint64(len(g.orders)) {
		return nil
	}
	return g.orders[id-1]
}
