// Package seed implements the threshold-gated commitment protocol that
// accumulates the shared random seed: an ordered sequence of encrypted
// contributions from the dealer's controlled participants and the public,
// folded into a single homomorphic sum.
//
// The ordering enforces the sandwich invariant: the dealer itself opens the
// protocol, and the slot that completes the controlled threshold is reserved
// for controlled participants. A public participant can therefore never be
// first or last mover, which bounds its ability to bias the final sum.
//
// The protocol is not safe for concurrent use; the owning aggregate
// serializes access.
package seed

import (
	"errors"
	"fmt"

	"github.com/verihouse/verihouse/pkg/paillier"
	"github.com/verihouse/verihouse/pkg/party"
)

var (
	// ErrWrongSubmitter is returned when the sender's class is not allowed
	// to occupy the current slot.
	ErrWrongSubmitter = errors.New("seed: submitter not allowed at this position")
	// ErrAlreadySubmitted is returned on a second submission from the same identity.
	ErrAlreadySubmitted = errors.New("seed: identity already submitted")
	// ErrComplete is returned for submissions after the threshold was reached.
	ErrComplete = errors.New("seed: protocol already complete")
	// ErrPublicQuotaReached is returned when no public slot remains.
	ErrPublicQuotaReached = errors.New("seed: public contribution quota reached")
)

// State is the phase of the commitment protocol.
type State int

const (
	// AwaitingFirst: nothing submitted yet; only the dealer may open.
	AwaitingFirst State = iota
	// Collecting: contributions are being accumulated.
	Collecting
	// Complete: the controlled threshold was reached; the seed is fixed.
	Complete
)

func (s State) String() string {
	switch s {
	case AwaitingFirst:
		return "awaiting-first"
	case Collecting:
		return "collecting"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result reports what an accepted submission achieved.
type Result int

const (
	// Accepted: the contribution was folded in; more are expected.
	Accepted Result = iota + 1
	// SeedReady: this contribution completed the threshold.
	SeedReady
)

// Protocol is the commitment protocol state machine.
type Protocol struct {
	pk         *paillier.PublicKey
	dealer     party.ID
	controlled party.IDSlice

	state State

	// accumulated is the homomorphic running sum; nil until the first
	// accepted submission.
	accumulated *paillier.Ciphertext
	// submitted tracks contributions write-once by explicit presence,
	// so a legitimate ciphertext can never be confused with "unset".
	submitted map[party.ID]*paillier.Ciphertext

	controlledSubmitted int
	publicSubmitted     int
}

// New creates the protocol for the given dealer and controlled participant
// set. The controlled set must contain the dealer and at least one other
// identity (threshold ≥ 2).
func New(pk *paillier.PublicKey, dealer party.ID, controlled []party.ID) (*Protocol, error) {
	ids := party.NewIDSlice(controlled)
	if !ids.Valid() {
		return nil, errors.New("seed: controlled set contains duplicates or empty IDs")
	}
	if !ids.Contains(dealer) {
		return nil, errors.New("seed: controlled set must contain the dealer")
	}
	if len(ids) < 2 {
		return nil, errors.New("seed: controlled threshold must be at least 2")
	}
	return &Protocol{
		pk:         pk,
		dealer:     dealer,
		controlled: ids,
		state:      AwaitingFirst,
		submitted:  make(map[party.ID]*paillier.Ciphertext, len(ids)),
	}, nil
}

// Submit processes one encrypted contribution. A rejected submission leaves
// the protocol state untouched.
func (p *Protocol) Submit(from party.ID, ct *paillier.Ciphertext) (Result, error) {
	if err := p.verifySubmission(from, ct); err != nil {
		return 0, err
	}
	return p.storeSubmission(from, ct), nil
}

// verifySubmission validates without mutating.
func (p *Protocol) verifySubmission(from party.ID, ct *paillier.Ciphertext) error {
	if p.state == Complete {
		return ErrComplete
	}
	if _, ok := p.submitted[from]; ok {
		return ErrAlreadySubmitted
	}
	if err := p.pk.ValidateCiphertext(ct); err != nil {
		return err
	}

	if p.state == AwaitingFirst {
		if from != p.dealer {
			return fmt.Errorf("%w: first contribution must come from the dealer", ErrWrongSubmitter)
		}
		return nil
	}

	if p.controlled.Contains(from) {
		return nil
	}

	// public participant
	threshold := p.Threshold()
	if threshold-p.controlledSubmitted == 1 {
		// the slot completing the threshold is a controlled anchor
		return fmt.Errorf("%w: final controlled slot is reserved", ErrWrongSubmitter)
	}
	if p.publicSubmitted > threshold-2 {
		return ErrPublicQuotaReached
	}
	return nil
}

// storeSubmission folds an already verified contribution into the sum.
func (p *Protocol) storeSubmission(from party.ID, ct *paillier.Ciphertext) Result {
	p.submitted[from] = ct.Clone()

	if p.accumulated == nil {
		p.accumulated = ct.Clone()
	} else {
		p.accumulated.Add(p.pk, ct)
	}

	if p.controlled.Contains(from) {
		p.controlledSubmitted++
	} else {
		p.publicSubmitted++
	}

	if p.state == AwaitingFirst {
		p.state = Collecting
	}
	if p.controlledSubmitted == p.Threshold() {
		p.state = Complete
		return SeedReady
	}
	return Accepted
}

// State returns the current phase.
func (p *Protocol) State() State {
	return p.state
}

// Threshold is the size of the controlled participant set.
func (p *Protocol) Threshold() int {
	return len(p.controlled)
}

// Accumulated returns the homomorphic running sum, or nil before the first
// accepted contribution. The returned ciphertext is a copy.
func (p *Protocol) Accumulated() *paillier.Ciphertext {
	if p.accumulated == nil {
		return nil
	}
	return p.accumulated.Clone()
}

// HasSubmitted reports whether the identity contributed already.
func (p *Protocol) HasSubmitted(id party.ID) bool {
	_, ok := p.submitted[id]
	return ok
}

// Contributions returns the number of accepted submissions, split by class.
func (p *Protocol) Contributions() (controlled, public int) {
	return p.controlledSubmitted, p.publicSubmitted
}
