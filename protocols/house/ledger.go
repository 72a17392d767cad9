package house

import (
	"errors"
	"fmt"
	"sync"

	"github.com/verihouse/verihouse/pkg/party"
)

// Ledger is the external value-transfer collaborator. Transfer must be
// atomic with pay-or-fail semantics: either the full amount moves from one
// account to the other, or an error is returned and no balance changed.
type Ledger interface {
	Transfer(from, to party.ID, amount uint64) error
}

// ErrInsufficientFunds is returned by MemoryLedger when the source account
// cannot cover the transfer.
var ErrInsufficientFunds = errors.New("ledger: insufficient funds")

// MemoryLedger is an in-memory Ledger for hosts and tests.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[party.ID]uint64
}

// NewMemoryLedger creates a ledger with the given opening balances.
func NewMemoryLedger(opening map[party.ID]uint64) *MemoryLedger {
	balances := make(map[party.ID]uint64, len(opening))
	for id, amount := range opening {
		balances[id] = amount
	}
	return &MemoryLedger{balances: balances}
}

// Transfer implements Ledger.
func (l *MemoryLedger) Transfer(from, to party.ID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[from] < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientFunds, from, l.balances[from], amount)
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

// Balance returns the current balance of an account.
func (l *MemoryLedger) Balance(id party.ID) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[id]
}
