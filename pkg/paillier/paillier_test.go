package paillier_test

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verihouse/verihouse/internal/test"
	"github.com/verihouse/verihouse/pkg/paillier"
)

func TestEncDecRoundTrip(t *testing.T) {
	pk, sk := test.PaillierKey()

	for i := 0; i < 10; i++ {
		m, err := rand.Int(rand.Reader, pk.N())
		require.NoError(t, err)

		ct, nonce, err := pk.Enc(m, nil)
		require.NoError(t, err)
		require.NotNil(t, nonce)

		dec, err := sk.Dec(ct)
		require.NoError(t, err)
		require.Equal(t, 0, dec.Cmp(m), "Dec(Enc(m)) must equal m")
	}
}

// Correctness must hold for any unit nonce, including the degenerate
// fallback value 1 that the sampler returns when coprimality keeps failing.
func TestEncDecNonceIndependence(t *testing.T) {
	pk, sk := test.PaillierKey()
	m := big.NewInt(123456789)

	for _, nonce := range []*big.Int{
		big.NewInt(1),
		big.NewInt(987654321),
		new(big.Int).Sub(pk.N(), big.NewInt(2)),
	} {
		ct, used, err := pk.Enc(m, nonce)
		require.NoError(t, err)
		require.Equal(t, 0, used.Cmp(nonce))

		dec, err := sk.Dec(ct)
		require.NoError(t, err)
		require.Equal(t, 0, dec.Cmp(m), "decryption must not depend on the nonce")
	}
}

func TestHomomorphicAdd(t *testing.T) {
	pk, sk := test.PaillierKey()

	for i := 0; i < 10; i++ {
		m1, err := rand.Int(rand.Reader, pk.N())
		require.NoError(t, err)
		m2, err := rand.Int(rand.Reader, pk.N())
		require.NoError(t, err)

		ct1, _, err := pk.Enc(m1, nil)
		require.NoError(t, err)
		ct2, _, err := pk.Enc(m2, nil)
		require.NoError(t, err)

		sum := ct1.Clone().Add(pk, ct2)
		dec, err := sk.Dec(sum)
		require.NoError(t, err)

		want := new(big.Int).Add(m1, m2)
		want.Mod(want, pk.N())
		require.Equal(t, 0, dec.Cmp(want), "Dec(c1⊕c2) must equal m1+m2 mod n")
	}
}

func TestEncRejectsBadPlaintext(t *testing.T) {
	pk, _ := test.PaillierKey()

	_, _, err := pk.Enc(pk.N(), nil)
	assert.ErrorIs(t, err, paillier.ErrPlaintextTooLarge)

	_, _, err = pk.Enc(new(big.Int).Add(pk.N(), big.NewInt(1)), nil)
	assert.ErrorIs(t, err, paillier.ErrPlaintextTooLarge)

	_, _, err = pk.Enc(big.NewInt(-1), nil)
	assert.ErrorIs(t, err, paillier.ErrPlaintextNegative)
}

func TestValidateCiphertext(t *testing.T) {
	pk, _ := test.PaillierKey()

	assert.Error(t, pk.ValidateCiphertext(nil))
	assert.Error(t, pk.ValidateCiphertext(paillier.CiphertextFromBig(big.NewInt(0))))
	assert.Error(t, pk.ValidateCiphertext(paillier.CiphertextFromBig(pk.N2())))

	ok := paillier.CiphertextFromBig(big.NewInt(1234))
	assert.NoError(t, pk.ValidateCiphertext(ok))
}

func TestValidateFactors(t *testing.T) {
	pk, sk := test.PaillierKey()

	assert.NoError(t, pk.ValidateFactors(sk.P(), sk.Q()))
	assert.ErrorIs(t, pk.ValidateFactors(sk.P(), new(big.Int).Add(sk.Q(), big.NewInt(2))), paillier.ErrWrongFactors)
	assert.ErrorIs(t, pk.ValidateFactors(big.NewInt(0), sk.Q()), paillier.ErrWrongFactors)
}

func TestSecretKeyRejectsNonFactors(t *testing.T) {
	_, sk1 := test.PaillierKey()
	_, sk2 := test.OtherPaillierKey()

	// mixing factors of two different moduli still yields a well-formed key,
	// but against the wrong public key the factor check must fail
	pk := sk1.PublicKey
	assert.Error(t, pk.ValidateFactors(sk2.P(), sk2.Q()))
}

func TestBinders(t *testing.T) {
	pk, _ := test.PaillierKey()
	seed := big.NewInt(424242)

	b1 := pk.SeedBinder(seed)
	b2 := pk.SeedBinder(new(big.Int).Set(seed))
	assert.Equal(t, 0, b1.Cmp(b2), "seed binder must be deterministic")
	assert.True(t, b1.Cmp(pk.N()) < 0)

	o1 := pk.OutcomeBinder(big.NewInt(7), seed, 1700000000)
	o2 := pk.OutcomeBinder(big.NewInt(7), seed, 1700000000)
	assert.Equal(t, 0, o1.Cmp(o2), "outcome binder must be deterministic")
	assert.True(t, o1.Cmp(pk.N()) < 0)

	// different domains: equal pre-images must not collide across binders
	assert.NotEqual(t, 0, pk.SeedBinder(big.NewInt(10)).Cmp(pk.OutcomeBinder(big.NewInt(10), big.NewInt(0), 0)))

	o3 := pk.OutcomeBinder(big.NewInt(8), seed, 1700000000)
	assert.NotEqual(t, 0, o1.Cmp(o3), "different choices must bind differently")
}

func TestKeyMarshalling(t *testing.T) {
	pk, sk := test.PaillierKey()

	data, err := pk.MarshalBinary()
	require.NoError(t, err)
	var pk2 paillier.PublicKey
	require.NoError(t, pk2.UnmarshalBinary(data))
	assert.True(t, pk.Equal(&pk2))

	skData, err := sk.MarshalBinary()
	require.NoError(t, err)
	var sk2 paillier.SecretKey
	require.NoError(t, sk2.UnmarshalBinary(skData))

	m := big.NewInt(99)
	ct, _, err := pk.Enc(m, nil)
	require.NoError(t, err)
	dec, err := sk2.Dec(ct)
	require.NoError(t, err)
	assert.Equal(t, 0, dec.Cmp(m))
}
