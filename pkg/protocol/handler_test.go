package protocol_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/verihouse/verihouse/internal/test"
	"github.com/verihouse/verihouse/pkg/party"
	"github.com/verihouse/verihouse/pkg/protocol"
	"github.com/verihouse/verihouse/protocols/house"
	"github.com/verihouse/verihouse/protocols/seed"
)

func newHandler(t *testing.T) (*protocol.Handler, *observer.ObservedLogs) {
	t.Helper()
	pk, _ := test.PaillierKey()
	ledger := house.NewMemoryLedger(map[party.ID]uint64{"dealer": 10_000, "alice": 1_000})
	game, err := house.NewGame(pk, house.Config{
		Dealer:        "dealer",
		Controlled:    []party.ID{"dealer", "anchor"},
		HouseAccount:  "house",
		Stake:         100,
		DisputeWindow: time.Hour,
	}, ledger)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	return protocol.NewHandler(game, zap.New(core)), logs
}

func TestHandlerLogsAcceptedOperations(t *testing.T) {
	h, logs := newHandler(t)
	pk, _ := test.PaillierKey()

	ct, _, err := pk.Enc(big.NewInt(5), nil)
	require.NoError(t, err)
	res, err := h.SubmitSeed("dealer", ct)
	require.NoError(t, err)
	assert.Equal(t, seed.Accepted, res)

	entries := logs.TakeAll()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "seed contribution accepted", entries[0].Message)
	assert.Equal(t, "dealer", entries[0].ContextMap()["from"])
}

func TestHandlerLogsRejections(t *testing.T) {
	h, logs := newHandler(t)
	pk, _ := test.PaillierKey()

	// the first contribution must come from the dealer
	ct, _, err := pk.Enc(big.NewInt(5), nil)
	require.NoError(t, err)
	_, err = h.SubmitSeed("alice", ct)
	require.ErrorIs(t, err, house.ErrProtocolViolation)

	entries := logs.TakeAll()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "seed contribution rejected", entries[0].Message)
}

func TestHandlerErrorPassThrough(t *testing.T) {
	h, _ := newHandler(t)

	_, err := h.PlaceBet("alice", big.NewInt(1), 100)
	require.ErrorIs(t, err, house.ErrProtocolViolation)

	_, err = h.OwnerWithdraw("alice")
	require.ErrorIs(t, err, house.ErrUnauthorized)

	_, err = h.ClaimWinnings("alice")
	require.ErrorIs(t, err, house.ErrNotFound)
}

func TestHandlerNilLogger(t *testing.T) {
	pk, _ := test.PaillierKey()
	ledger := house.NewMemoryLedger(nil)
	game, err := house.NewGame(pk, house.Config{
		Dealer:        "dealer",
		Controlled:    []party.ID{"dealer", "anchor"},
		HouseAccount:  "house",
		Stake:         100,
		DisputeWindow: time.Hour,
	}, ledger)
	require.NoError(t, err)

	h := protocol.NewHandler(game, nil)
	assert.Equal(t, house.NotStarted, h.Game().State())
}
