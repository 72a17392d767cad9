package test

import (
	"fmt"
	"math/big"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/verihouse/verihouse/pkg/party"
	"github.com/verihouse/verihouse/protocols/house"
)

// ConcurrentBets places one bet per player from concurrent goroutines and
// returns the assigned order IDs keyed by player. The aggregate serializes
// the calls; the driver only checks that every accepted bet got a distinct
// identifier.
func ConcurrentBets(g *house.Game, players []party.ID, choice *big.Int, stake uint64) (map[party.ID]uint64, error) {
	var mu sync.Mutex
	ids := make(map[party.ID]uint64, len(players))

	var group errgroup.Group
	for _, p := range players {
		p := p
		group.Go(func() error {
			id, err := g.PlaceBet(p, choice, stake)
			if err != nil {
				return fmt.Errorf("bet by %s: %w", p, err)
			}
			mu.Lock()
			ids[p] = id
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[uint64]party.ID, len(ids))
	for p, id := range ids {
		if other, ok := seen[id]; ok {
			return nil, fmt.Errorf("order ID %d assigned to both %s and %s", id, other, p)
		}
		seen[id] = p
	}
	return ids, nil
}
