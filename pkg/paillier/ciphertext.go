package paillier

import (
	"errors"
	"io"
	"math/big"
)

// Ciphertext is an integer in [0, n²). Its semantic meaning is defined only
// relative to the key material it was produced under.
type Ciphertext struct {
	c *big.Int
}

// CiphertextFromBig wraps an integer received from the outside.
// Range validation against a key is done by PublicKey.ValidateCiphertext.
func CiphertextFromBig(c *big.Int) *Ciphertext {
	return &Ciphertext{c: new(big.Int).Set(c)}
}

// Add sets ct to the homomorphic sum ct ⊕ other and returns ct.
//
//	ct = ct ⋅ other (mod n²)
//
// This is the sole homomorphic operation of the protocol: the result
// decrypts to the sum of the two plaintexts mod n.
func (ct *Ciphertext) Add(pk *PublicKey, other *Ciphertext) *Ciphertext {
	if other == nil {
		return ct
	}
	ct.c.Mul(ct.c, other.c)
	ct.c.Mod(ct.c, pk.nSquared)
	return ct
}

// Equal checks whether ct = other.
func (ct *Ciphertext) Equal(other *Ciphertext) bool {
	if ct == nil || other == nil {
		return ct == other
	}
	return ct.c.Cmp(other.c) == 0
}

// Clone returns a deep copy of ct.
func (ct *Ciphertext) Clone() *Ciphertext {
	return &Ciphertext{c: new(big.Int).Set(ct.c)}
}

// BigInt returns the ciphertext value.
// The returned value is shared; callers must not modify it.
func (ct *Ciphertext) BigInt() *big.Int {
	return ct.c
}

// WriteTo implements io.WriterTo, for use inside hash.Hash.
func (ct *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	if ct == nil || ct.c == nil {
		return 0, io.ErrUnexpectedEOF
	}
	n, err := w.Write(ct.c.Bytes())
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (*Ciphertext) Domain() string {
	return "Paillier Ciphertext"
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (ct *Ciphertext) MarshalBinary() ([]byte, error) {
	if ct.c == nil {
		return nil, errors.New("paillier: marshalling empty ciphertext")
	}
	return ct.c.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (ct *Ciphertext) UnmarshalBinary(data []byte) error {
	ct.c = new(big.Int).SetBytes(data)
	return nil
}
