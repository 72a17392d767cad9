package house

import (
	"math/big"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/verihouse/verihouse/pkg/paillier"
	"github.com/verihouse/verihouse/pkg/party"
)

// Transcript is an auditable snapshot of one game: everything a third party
// needs to replay the verification checks after reveal. It is a value copy;
// mutating it never touches the live aggregate.
type Transcript struct {
	Dealer       party.ID
	HouseAccount party.ID
	Stake        uint64

	State GameState
	Cheat bool

	AccumulatedSeed  *paillier.Ciphertext
	DealerCommitment *paillier.Ciphertext
	RevealedSeedSum  *big.Int
	RevealDeadline   time.Time

	Orders []OrderRecord
}

// OrderRecord is the transcript form of an order.
type OrderRecord struct {
	ID               uint64
	Player           party.ID
	Choice           *big.Int
	Stake            uint64
	Timestamp        int64
	LinkedCommitment *paillier.Ciphertext
	Proof            *paillier.Ciphertext
	Outcome          Outcome
	Settled          bool
	Compensated      bool
}

// Transcript captures the current game as a Transcript snapshot.
func (g *Game) Transcript() *Transcript {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := &Transcript{
		Dealer:          g.cfg.Dealer,
		HouseAccount:    g.cfg.HouseAccount,
		Stake:           g.cfg.Stake,
		State:           g.state,
		Cheat:           g.cheat,
		AccumulatedSeed: g.commitment.Accumulated(),
		RevealDeadline:  g.revealDeadline,
	}
	if g.dealerCommitment != nil {
		t.DealerCommitment = g.dealerCommitment.Clone()
	}
	if g.revealedSeedSum != nil {
		t.RevealedSeedSum = new(big.Int).Set(g.revealedSeedSum)
	}
	t.Orders = make([]OrderRecord, 0, len(g.orders))
	for _, order := range g.orders {
		rec := OrderRecord{
			ID:          order.ID,
			Player:      order.Player,
			Choice:      new(big.Int).Set(order.Choice),
			Stake:       order.Stake,
			Timestamp:   order.Timestamp,
			Outcome:     order.Outcome,
			Settled:     order.Settled,
			Compensated: order.Compensated,
		}
		if order.LinkedCommitment != nil {
			rec.LinkedCommitment = order.LinkedCommitment.Clone()
		}
		if order.Proof != nil {
			rec.Proof = order.Proof.Clone()
		}
		t.Orders = append(t.Orders, rec)
	}
	return t
}

type transcriptMarshal struct {
	Dealer       party.ID
	HouseAccount party.ID
	Stake        uint64

	State int
	Cheat bool

	AccumulatedSeed  *paillier.Ciphertext
	DealerCommitment *paillier.Ciphertext
	RevealedSeedSum  []byte
	RevealDeadline   int64

	Orders []orderMarshal
}

type orderMarshal struct {
	ID               uint64
	Player           party.ID
	Choice           []byte
	Stake            uint64
	Timestamp        int64
	LinkedCommitment *paillier.Ciphertext
	Proof            *paillier.Ciphertext
	Outcome          int
	Settled          bool
	Compensated      bool
}

func (t *Transcript) MarshalBinary() ([]byte, error) {
	tm := &transcriptMarshal{
		Dealer:           t.Dealer,
		HouseAccount:     t.HouseAccount,
		Stake:            t.Stake,
		State:            int(t.State),
		Cheat:            t.Cheat,
		AccumulatedSeed:  t.AccumulatedSeed,
		DealerCommitment: t.DealerCommitment,
		RevealDeadline:   t.RevealDeadline.Unix(),
	}
	if t.RevealedSeedSum != nil {
		tm.RevealedSeedSum = t.RevealedSeedSum.Bytes()
	}
	tm.Orders = make([]orderMarshal, 0, len(t.Orders))
	for _, rec := range t.Orders {
		om := orderMarshal{
			ID:               rec.ID,
			Player:           rec.Player,
			Choice:           rec.Choice.Bytes(),
			Stake:            rec.Stake,
			Timestamp:        rec.Timestamp,
			LinkedCommitment: rec.LinkedCommitment,
			Proof:            rec.Proof,
			Outcome:          int(rec.Outcome),
			Settled:          rec.Settled,
			Compensated:      rec.Compensated,
		}
		tm.Orders = append(tm.Orders, om)
	}
	return cbor.Marshal(tm)
}

func (t *Transcript) UnmarshalBinary(data []byte) error {
	tm := &transcriptMarshal{}
	if err := cbor.Unmarshal(data, tm); err != nil {
		return err
	}
	t.Dealer = tm.Dealer
	t.HouseAccount = tm.HouseAccount
	t.Stake = tm.Stake
	t.State = GameState(tm.State)
	t.Cheat = tm.Cheat
	t.AccumulatedSeed = tm.AccumulatedSeed
	t.DealerCommitment = tm.DealerCommitment
	t.RevealDeadline = time.Unix(tm.RevealDeadline, 0)
	if len(tm.RevealedSeedSum) > 0 {
		t.RevealedSeedSum = new(big.Int).SetBytes(tm.RevealedSeedSum)
	} else {
		t.RevealedSeedSum = nil
	}
	t.Orders = make([]OrderRecord, 0, len(tm.Orders))
	for _, om := range tm.Orders {
		t.Orders = append(t.Orders, OrderRecord{
			ID:               om.ID,
			Player:           om.Player,
			Choice:           new(big.Int).SetBytes(om.Choice),
			Stake:            om.Stake,
			Timestamp:        om.Timestamp,
			LinkedCommitment: om.LinkedCommitment,
			Proof:            om.Proof,
			Outcome:          Outcome(om.Outcome),
			Settled:          om.Settled,
			Compensated:      om.Compensated,
		})
	}
	return nil
}
