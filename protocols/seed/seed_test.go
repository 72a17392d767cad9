package seed_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verihouse/verihouse/internal/test"
	"github.com/verihouse/verihouse/pkg/paillier"
	"github.com/verihouse/verihouse/pkg/party"
	"github.com/verihouse/verihouse/protocols/seed"
)

const (
	dealer party.ID = "dealer"
	anchor party.ID = "anchor"
	helper party.ID = "helper"
	pub1   party.ID = "zz-public-1"
	pub2   party.ID = "zz-public-2"
	pub3   party.ID = "zz-public-3"
)

func enc(t *testing.T, pk *paillier.PublicKey, m int64) *paillier.Ciphertext {
	t.Helper()
	ct, _, err := pk.Enc(big.NewInt(m), nil)
	require.NoError(t, err)
	return ct
}

func newProtocol(t *testing.T, controlled ...party.ID) (*seed.Protocol, *paillier.PublicKey) {
	t.Helper()
	pk, _ := test.PaillierKey()
	p, err := seed.New(pk, dealer, controlled)
	require.NoError(t, err)
	return p, pk
}

func TestNewValidation(t *testing.T) {
	pk, _ := test.PaillierKey()

	_, err := seed.New(pk, dealer, []party.ID{dealer})
	assert.Error(t, err, "threshold below 2 must be rejected")

	_, err = seed.New(pk, dealer, []party.ID{anchor, helper})
	assert.Error(t, err, "controlled set must contain the dealer")

	_, err = seed.New(pk, dealer, []party.ID{dealer, anchor, anchor})
	assert.Error(t, err, "duplicate controlled IDs must be rejected")
}

func TestFirstMustBeDealer(t *testing.T) {
	p, pk := newProtocol(t, dealer, anchor)

	_, err := p.Submit(anchor, enc(t, pk, 1))
	assert.ErrorIs(t, err, seed.ErrWrongSubmitter)
	assert.Equal(t, seed.AwaitingFirst, p.State())

	res, err := p.Submit(dealer, enc(t, pk, 1))
	require.NoError(t, err)
	assert.Equal(t, seed.Accepted, res)
	assert.Equal(t, seed.Collecting, p.State())
}

func TestThresholdCompletion(t *testing.T) {
	p, pk := newProtocol(t, dealer, anchor)

	_, err := p.Submit(dealer, enc(t, pk, 10))
	require.NoError(t, err)

	res, err := p.Submit(anchor, enc(t, pk, 20))
	require.NoError(t, err)
	assert.Equal(t, seed.SeedReady, res)
	assert.Equal(t, seed.Complete, p.State())

	// no contributions accepted once complete
	_, err = p.Submit(pub1, enc(t, pk, 30))
	assert.ErrorIs(t, err, seed.ErrComplete)
}

func TestAccumulatedSum(t *testing.T) {
	p, pk := newProtocol(t, dealer, anchor, helper)
	_, sk := test.PaillierKey()

	require.Nil(t, p.Accumulated())

	_, err := p.Submit(dealer, enc(t, pk, 11))
	require.NoError(t, err)
	_, err = p.Submit(pub1, enc(t, pk, 22))
	require.NoError(t, err)
	_, err = p.Submit(anchor, enc(t, pk, 33))
	require.NoError(t, err)
	res, err := p.Submit(helper, enc(t, pk, 44))
	require.NoError(t, err)
	require.Equal(t, seed.SeedReady, res)

	sum, err := sk.Dec(p.Accumulated())
	require.NoError(t, err)
	assert.Equal(t, int64(11+22+33+44), sum.Int64(), "accumulator must decrypt to the plaintext sum")
}

func TestDoubleSubmission(t *testing.T) {
	p, pk := newProtocol(t, dealer, anchor)

	_, err := p.Submit(dealer, enc(t, pk, 1))
	require.NoError(t, err)

	_, err = p.Submit(dealer, enc(t, pk, 2))
	assert.ErrorIs(t, err, seed.ErrAlreadySubmitted)

	controlled, public := p.Contributions()
	assert.Equal(t, 1, controlled)
	assert.Equal(t, 0, public)
}

func TestSandwichLastSlot(t *testing.T) {
	// threshold 3: dealer opens, anchor fills the middle; the remaining
	// controlled slot is the anchor position and must reject the public
	p, pk := newProtocol(t, dealer, anchor, helper)

	_, err := p.Submit(dealer, enc(t, pk, 1))
	require.NoError(t, err)
	_, err = p.Submit(anchor, enc(t, pk, 2))
	require.NoError(t, err)

	_, err = p.Submit(pub1, enc(t, pk, 3))
	assert.ErrorIs(t, err, seed.ErrWrongSubmitter, "public may not occupy the final controlled slot")

	res, err := p.Submit(helper, enc(t, pk, 4))
	require.NoError(t, err)
	assert.Equal(t, seed.SeedReady, res)
}

func TestPublicQuota(t *testing.T) {
	// threshold 3: a public submission is allowed only while the public
	// count is still ≤ threshold-2, so the third public one trips the quota
	p, pk := newProtocol(t, dealer, anchor, helper)

	_, err := p.Submit(dealer, enc(t, pk, 1))
	require.NoError(t, err)

	_, err = p.Submit(pub1, enc(t, pk, 2))
	require.NoError(t, err)
	_, err = p.Submit(pub2, enc(t, pk, 3))
	require.NoError(t, err)

	_, err = p.Submit(pub3, enc(t, pk, 4))
	assert.ErrorIs(t, err, seed.ErrPublicQuotaReached)
}

func TestRejectedSubmissionDoesNotMutate(t *testing.T) {
	p, pk := newProtocol(t, dealer, anchor)
	_, sk := test.PaillierKey()

	_, err := p.Submit(dealer, enc(t, pk, 5))
	require.NoError(t, err)
	before, err := sk.Dec(p.Accumulated())
	require.NoError(t, err)

	// public blocked at the sandwich slot; accumulator must be untouched
	_, err = p.Submit(pub1, enc(t, pk, 100))
	require.Error(t, err)

	after, err := sk.Dec(p.Accumulated())
	require.NoError(t, err)
	assert.Equal(t, 0, before.Cmp(after))
	assert.False(t, p.HasSubmitted(pub1))
}

func TestCiphertextRange(t *testing.T) {
	p, pk := newProtocol(t, dealer, anchor)

	_, err := p.Submit(dealer, paillier.CiphertextFromBig(big.NewInt(0)))
	assert.Error(t, err, "zero ciphertext is out of range")

	_, err = p.Submit(dealer, paillier.CiphertextFromBig(pk.N2()))
	assert.Error(t, err, "n² is out of range")

	assert.Equal(t, seed.AwaitingFirst, p.State())
}
