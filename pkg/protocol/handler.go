// Package protocol exposes the game aggregate behind a thin handler that
// logs every boundary operation. Hosts embed the handler instead of the raw
// aggregate so that protocol activity, including rejected calls, leaves a
// structured trace.
package protocol

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/verihouse/verihouse/pkg/paillier"
	"github.com/verihouse/verihouse/pkg/party"
	"github.com/verihouse/verihouse/protocols/house"
	"github.com/verihouse/verihouse/protocols/seed"
)

// Handler wraps one game and a logger. All methods delegate to the
// aggregate; the handler adds no semantics of its own.
type Handler struct {
	game *house.Game
	log  *zap.Logger
}

// NewHandler wraps the game. A nil logger disables logging.
func NewHandler(game *house.Game, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{game: game, log: log.Named("game")}
}

// SubmitSeed forwards one encrypted seed contribution.
func (h *Handler) SubmitSeed(from party.ID, ct *paillier.Ciphertext) (seed.Result, error) {
	res, err := h.game.SubmitSeed(from, ct)
	if err != nil {
		h.log.Warn("seed contribution rejected",
			zap.String("from", string(from)),
			zap.Error(err))
		return 0, err
	}
	h.log.Info("seed contribution accepted",
		zap.String("from", string(from)),
		zap.Bool("seed_ready", res == seed.SeedReady))
	return res, nil
}

// SetSeedCommitment forwards the dealer's commitment to the seed sum.
func (h *Handler) SetSeedCommitment(caller party.ID, ct *paillier.Ciphertext) error {
	if err := h.game.SetSeedCommitment(caller, ct); err != nil {
		h.log.Warn("seed commitment rejected",
			zap.String("caller", string(caller)),
			zap.Error(err))
		return err
	}
	h.log.Info("seed commitment set, betting open",
		zap.String("caller", string(caller)))
	return nil
}

// FundReserve forwards a reserve deposit.
func (h *Handler) FundReserve(caller party.ID, amount uint64) error {
	if err := h.game.FundReserve(caller, amount); err != nil {
		h.log.Warn("reserve funding rejected",
			zap.String("caller", string(caller)),
			zap.Uint64("amount", amount),
			zap.Error(err))
		return err
	}
	h.log.Info("reserve funded",
		zap.Uint64("amount", amount),
		zap.Uint64("reserve", h.game.Reserve()))
	return nil
}

// PlaceBet forwards a bet.
func (h *Handler) PlaceBet(player party.ID, choice *big.Int, stake uint64) (uint64, error) {
	id, err := h.game.PlaceBet(player, choice, stake)
	if err != nil {
		h.log.Warn("bet rejected",
			zap.String("player", string(player)),
			zap.Uint64("stake", stake),
			zap.Error(err))
		return 0, err
	}
	h.log.Info("bet placed",
		zap.String("player", string(player)),
		zap.Uint64("order", id),
		zap.Uint64("stake", stake))
	return id, nil
}

// UploadOutcome forwards the dealer's settlement of one order.
func (h *Handler) UploadOutcome(caller party.ID, orderID uint64, proof *paillier.Ciphertext, outcome house.Outcome) error {
	if err := h.game.UploadOutcome(caller, orderID, proof, outcome); err != nil {
		h.log.Warn("settlement rejected",
			zap.Uint64("order", orderID),
			zap.Error(err))
		return err
	}
	h.log.Info("order settled",
		zap.Uint64("order", orderID),
		zap.Stringer("outcome", outcome))
	return nil
}

// ClaimWinnings forwards a payout claim.
func (h *Handler) ClaimWinnings(player party.ID) (uint64, error) {
	amount, err := h.game.ClaimWinnings(player)
	if err != nil {
		h.log.Warn("winnings claim rejected",
			zap.String("player", string(player)),
			zap.Error(err))
		return 0, err
	}
	h.log.Info("winnings paid",
		zap.String("player", string(player)),
		zap.Uint64("amount", amount))
	return amount, nil
}

// Reveal forwards the dealer's key disclosure.
func (h *Handler) Reveal(caller party.ID, p, q, seedSum, r *big.Int) error {
	if err := h.game.Reveal(caller, p, q, seedSum, r); err != nil {
		h.log.Warn("reveal rejected",
			zap.String("caller", string(caller)),
			zap.Error(err))
		return err
	}
	h.log.Info("game revealed",
		zap.Bool("cheat", h.game.CheatFlag()),
		zap.Time("deadline", h.game.Deadline()))
	return nil
}

// Verify forwards a verification run.
func (h *Handler) Verify() (bool, error) {
	cheat, err := h.game.Verify()
	if err != nil {
		h.log.Warn("verification rejected", zap.Error(err))
		return cheat, err
	}
	h.log.Info("verification finished", zap.Bool("cheat", cheat))
	return cheat, nil
}

// Report forwards a player-triggered verification.
func (h *Handler) Report() (bool, error) {
	cheat, err := h.game.Report()
	if err != nil {
		h.log.Warn("report rejected", zap.Error(err))
		return cheat, err
	}
	h.log.Info("report processed", zap.Bool("cheat", cheat))
	return cheat, nil
}

// ClaimCompensation forwards a compensation claim.
func (h *Handler) ClaimCompensation(player party.ID) (uint64, error) {
	amount, err := h.game.ClaimCompensation(player)
	if err != nil {
		h.log.Warn("compensation claim rejected",
			zap.String("player", string(player)),
			zap.Error(err))
		return 0, err
	}
	h.log.Info("compensation paid",
		zap.String("player", string(player)),
		zap.Uint64("amount", amount))
	return amount, nil
}

// OwnerWithdraw forwards the house withdrawal.
func (h *Handler) OwnerWithdraw(caller party.ID) (uint64, error) {
	amount, err := h.game.OwnerWithdraw(caller)
	if err != nil {
		h.log.Warn("withdrawal rejected",
			zap.String("caller", string(caller)),
			zap.Error(err))
		return 0, err
	}
	h.log.Info("reserve withdrawn", zap.Uint64("amount", amount))
	return amount, nil
}

// Game returns the wrapped aggregate, for read-only inspection.
func (h *Handler) Game() *house.Game {
	return h.game
}
