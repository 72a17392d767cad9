package paillier

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

type publicKeyMarshal struct {
	N []byte
}

type secretKeyMarshal struct {
	P, Q []byte
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&publicKeyMarshal{N: pk.n.Bytes()})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	var m publicKeyMarshal
	if err := cbor.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("paillier: unmarshal public key: %w", err)
	}
	if len(m.N) == 0 {
		return errors.New("paillier: unmarshal public key: empty modulus")
	}
	*pk = *NewPublicKey(new(big.Int).SetBytes(m.N))
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
// Only the factors are serialized; the derived values are recomputed on
// unmarshalling.
func (sk *SecretKey) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&secretKeyMarshal{P: sk.p.Bytes(), Q: sk.q.Bytes()})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (sk *SecretKey) UnmarshalBinary(data []byte) error {
	var m secretKeyMarshal
	if err := cbor.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("paillier: unmarshal secret key: %w", err)
	}
	fresh, err := NewSecretKey(new(big.Int).SetBytes(m.P), new(big.Int).SetBytes(m.Q))
	if err != nil {
		return fmt.Errorf("paillier: unmarshal secret key: %w", err)
	}
	*sk = *fresh
	return nil
}
