// Package house implements the game aggregate of the fairness-verifiable
// betting protocol: the commitment phase, the betting ledger, the
// reveal/verify recomputation and the dispute/compensation window, all
// behind a single serialized state machine.
//
// The aggregate is a linear, one-directional state machine
//
//	NotStarted → InProgress → Revealed
//
// with the commitment sub-protocol interleaved inside NotStarted. The cheat
// flag, once set by a failed reveal or verification, is never cleared.
package house

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/verihouse/verihouse/pkg/paillier"
	"github.com/verihouse/verihouse/pkg/party"
	"github.com/verihouse/verihouse/protocols/seed"
)

// GameState is the coarse phase of the aggregate.
type GameState int

const (
	NotStarted GameState = iota
	InProgress
	Revealed
)

func (s GameState) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case InProgress:
		return "in-progress"
	case Revealed:
		return "revealed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// coverageFactor is the solvency multiplier per outstanding order: every
// order can at worst cost the house double its stake.
const coverageFactor = 2

// Config carries the immutable parameters of one game instance.
type Config struct {
	// Dealer is the house operator, the only identity allowed to run
	// dealer-only operations.
	Dealer party.ID
	// Controlled is the dealer's trusted participant set, including the
	// dealer itself. Its size is the commitment threshold (≥ 2).
	Controlled []party.ID
	// HouseAccount is the ledger account holding the reserve.
	HouseAccount party.ID
	// Stake is the fixed bet amount in minor units.
	Stake uint64
	// DisputeWindow is the time between reveal and the reveal deadline.
	DisputeWindow time.Duration
}

// Validate checks the config invariants.
func (c *Config) Validate() error {
	if c.Dealer == "" {
		return fmt.Errorf("%w: empty dealer ID", ErrInvalidInput)
	}
	if c.HouseAccount == "" || c.HouseAccount == c.Dealer {
		return fmt.Errorf("%w: house account must be a dedicated identity", ErrInvalidInput)
	}
	if c.Stake == 0 {
		return fmt.Errorf("%w: zero stake", ErrInvalidInput)
	}
	if c.DisputeWindow <= 0 {
		return fmt.Errorf("%w: dispute window must be positive", ErrInvalidInput)
	}
	return nil
}

// Game is the protocol aggregate. All mutating operations are serialized by
// a single lock; finer-grained locking is unsafe because nearly every
// operation touches several shared aggregates together.
type Game struct {
	mu sync.Mutex
	// transferring is set for the duration of an external value transfer;
	// mutating calls arriving in that window are rejected, not queued, so a
	// ledger callback can never re-enter the aggregate.
	transferring int32

	cfg    Config
	pk     *paillier.PublicKey
	ledger Ledger
	clock  func() time.Time

	state GameState

	commitment       *seed.Protocol
	dealerCommitment *paillier.Ciphertext

	nextOrderID uint64
	orders      []*Order
	// pending holds claimable winnings per player, credited on won
	// settlements and zeroed before payout.
	pending map[party.ID]uint64
	reserve uint64

	sk              *paillier.SecretKey
	revealedSeedSum *big.Int
	revealDeadline  time.Time
	cheat           bool
}

// Option configures a Game beyond its Config.
type Option func(*Game)

// WithClock replaces the time source, for deadline tests.
func WithClock(clock func() time.Time) Option {
	return func(g *Game) { g.clock = clock }
}

// NewGame creates a game instance in NotStarted with an empty order book.
func NewGame(pk *paillier.PublicKey, cfg Config, ledger Ledger, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ledger == nil {
		return nil, fmt.Errorf("%w: nil ledger", ErrInvalidInput)
	}
	commitment, err := seed.New(pk, cfg.Dealer, cfg.Controlled)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	g := &Game{
		cfg:         cfg,
		pk:          pk,
		ledger:      ledger,
		clock:       time.Now,
		state:       NotStarted,
		commitment:  commitment,
		nextOrderID: 1,
		pending:     make(map[party.ID]uint64),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// lock serializes a mutating operation, rejecting calls that arrive while a
// value transfer is in flight.
func (g *Game) lock() error {
	if atomic.LoadInt32(&g.transferring) == 1 {
		return ErrReentrantCall
	}
	g.mu.Lock()
	return nil
}

// transfer runs the external value transfer portion of an operation. The
// caller must hold the lock and must have finished all of its own state
// mutation; on error the caller undoes its recorded deltas so the operation
// fails atomically.
func (g *Game) transfer(from, to party.ID, amount uint64) error {
	atomic.StoreInt32(&g.transferring, 1)
	err := g.ledger.Transfer(from, to, amount)
	atomic.StoreInt32(&g.transferring, 0)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPayoutFailed, err)
	}
	return nil
}

// SubmitSeed accepts one encrypted seed contribution during the commitment
// phase. The result reports whether the contribution completed the
// threshold.
func (g *Game) SubmitSeed(from party.ID, ct *paillier.Ciphertext) (seed.Result, error) {
	if err := g.lock(); err != nil {
		return 0, err
	}
	defer g.mu.Unlock()

	if g.state != NotStarted {
		return 0, fmt.Errorf("%w: commitment phase is over", ErrProtocolViolation)
	}
	res, err := g.commitment.Submit(from, ct)
	if err != nil {
		switch {
		case errors.Is(err, seed.ErrWrongSubmitter),
			errors.Is(err, seed.ErrAlreadySubmitted),
			errors.Is(err, seed.ErrComplete),
			errors.Is(err, seed.ErrPublicQuotaReached):
			return 0, fmt.Errorf("%w: %v", ErrProtocolViolation, err)
		default:
			return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	return res, nil
}

// SetSeedCommitment records the dealer's encrypted binding of the seed sum
// and opens betting. Requires the commitment protocol to be complete.
func (g *Game) SetSeedCommitment(caller party.ID, ct *paillier.Ciphertext) error {
	if err := g.lock(); err != nil {
		return err
	}
	defer g.mu.Unlock()

	if caller != g.cfg.Dealer {
		return ErrUnauthorized
	}
	if g.state != NotStarted {
		return fmt.Errorf("%w: commitment can only be set before the game starts", ErrProtocolViolation)
	}
	if g.commitment.State() != seed.Complete {
		return fmt.Errorf("%w: seed accumulation not complete", ErrProtocolViolation)
	}
	if err := g.pk.ValidateCiphertext(ct); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	g.dealerCommitment = ct.Clone()
	g.state = InProgress
	return nil
}

// FundReserve moves dealer capital into the house account, raising the
// solvency reserve.
func (g *Game) FundReserve(caller party.ID, amount uint64) error {
	if err := g.lock(); err != nil {
		return err
	}
	defer g.mu.Unlock()

	if caller != g.cfg.Dealer {
		return ErrUnauthorized
	}
	if amount == 0 {
		return fmt.Errorf("%w: zero amount", ErrInvalidInput)
	}
	if err := g.transfer(g.cfg.Dealer, g.cfg.HouseAccount, amount); err != nil {
		return err
	}
	g.reserve += amount
	return nil
}

// State returns the current phase.
func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// CheatFlag reports whether a reveal or verification check has ever failed.
// The flag is durable: once true it stays true.
func (g *Game) CheatFlag() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cheat
}

// Reserve returns the current solvency reserve.
func (g *Game) Reserve() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reserve
}

// Deadline returns the reveal deadline; zero before reveal.
func (g *Game) Deadline() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.revealDeadline
}

// PendingWinnings returns the claimable balance of a player.
func (g *Game) PendingWinnings(id party.ID) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending[id]
}

// SeedState returns the phase of the commitment sub-protocol.
func (g *Game) SeedState() seed.State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.commitment.State()
}

// AccumulatedSeed returns a copy of the homomorphic seed sum, or nil before
// the first contribution.
func (g *Game) AccumulatedSeed() *paillier.Ciphertext {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.commitment.Accumulated()
}
