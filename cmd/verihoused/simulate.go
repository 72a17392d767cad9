package main

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/verihouse/verihouse/pkg/math/sample"
	"github.com/verihouse/verihouse/pkg/paillier"
	"github.com/verihouse/verihouse/pkg/party"
	"github.com/verihouse/verihouse/pkg/pool"
	"github.com/verihouse/verihouse/pkg/protocol"
	"github.com/verihouse/verihouse/protocols/house"
)

const (
	dealerID = party.ID("dealer")
	anchorID = party.ID("anchor")
	houseID  = party.ID("house")
)

func runSimulate(cmd *cobra.Command, _ []string) error {
	level, err := cmd.Root().PersistentFlags().GetString("log-level")
	if err != nil {
		return err
	}
	log, err := newLogger(level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	stake := viper.GetUint64("stake")
	window := viper.GetDuration("window")
	if window == 0 {
		window = time.Hour
	}
	playerCount := viper.GetInt("players")
	bits := viper.GetInt("bits")
	cheat := viper.GetBool("cheat")

	log.Info("generating key pair", zap.Int("bits", bits))
	start := time.Now()
	pk, sk := paillier.KeyGen(pool.NewPool(0), bits)
	log.Info("key pair ready", zap.Duration("took", time.Since(start)))

	players := make([]party.ID, playerCount)
	balances := map[party.ID]uint64{dealerID: 1_000_000}
	for i := range players {
		players[i] = party.ID(fmt.Sprintf("player-%d", i+1))
		balances[players[i]] = 10 * stake
	}
	ledger := house.NewMemoryLedger(balances)

	game, err := house.NewGame(pk, house.Config{
		Dealer:        dealerID,
		Controlled:    []party.ID{dealerID, anchorID},
		HouseAccount:  houseID,
		Stake:         stake,
		DisputeWindow: window,
	}, ledger)
	if err != nil {
		return err
	}
	h := protocol.NewHandler(game, log)

	// commitment phase: dealer and anchor each contribute an encrypted seed
	seedSum := new(big.Int)
	for _, id := range []party.ID{dealerID, anchorID} {
		contribution := sample.ModN(rand.Reader, pk.N())
		ct, _, err := pk.Enc(contribution, nil)
		if err != nil {
			return err
		}
		if _, err := h.SubmitSeed(id, ct); err != nil {
			return err
		}
		seedSum.Add(seedSum, contribution)
	}
	seedSum.Mod(seedSum, pk.N())

	binder := pk.SeedBinder(seedSum)
	binderCt, _, err := pk.Enc(binder, nil)
	if err != nil {
		return err
	}
	if err := h.SetSeedCommitment(dealerID, binderCt); err != nil {
		return err
	}
	reserve := 2 * stake * uint64(playerCount+1)
	if err := h.FundReserve(dealerID, reserve); err != nil {
		return err
	}

	// betting and honest settlement
	type placed struct {
		player party.ID
		choice *big.Int
		ts     int64
	}
	orders := make(map[uint64]placed, playerCount)
	for _, p := range players {
		choice := sample.ModN(rand.Reader, pk.N())
		ts := time.Now().Unix()
		id, err := h.PlaceBet(p, choice, stake)
		if err != nil {
			return err
		}
		orders[id] = placed{player: p, choice: choice, ts: ts}

		outcomeBinder := pk.OutcomeBinder(choice, seedSum, ts)
		proof, _, err := pk.Enc(outcomeBinder, nil)
		if err != nil {
			return err
		}
		outcome := house.OutcomeLost
		if outcomeBinder.Bit(0) == 0 {
			outcome = house.OutcomeWon
		}
		if err := h.UploadOutcome(dealerID, id, proof, outcome); err != nil {
			return err
		}
	}

	// reveal, optionally lying about the seed sum
	disclosed := seedSum
	if cheat {
		disclosed = new(big.Int).Add(seedSum, big.NewInt(1))
		log.Warn("dealer will disclose a false seed sum")
	}
	if err := h.Reveal(dealerID, sk.P(), sk.Q(), disclosed, binder); err != nil {
		return err
	}

	caught, err := h.Verify()
	if err != nil {
		return err
	}

	if caught {
		for _, p := range players {
			if amount, err := h.ClaimCompensation(p); err == nil {
				log.Info("player compensated",
					zap.String("player", string(p)),
					zap.Uint64("amount", amount))
			}
		}
	} else {
		for _, p := range players {
			if amount, err := h.ClaimWinnings(p); err == nil {
				log.Info("player paid",
					zap.String("player", string(p)),
					zap.Uint64("amount", amount))
			}
		}
	}

	snap := game.Transcript()
	data, err := snap.MarshalBinary()
	if err != nil {
		return err
	}
	log.Info("game finished",
		zap.Bool("cheat", caught),
		zap.Uint64("reserve", game.Reserve()),
		zap.Int("transcript_bytes", len(data)))
	return nil
}
