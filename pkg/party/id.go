package party

import (
	"encoding/hex"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/sha3"
)

// ID is the unique identifier of a protocol participant.
type ID string

// addressBytes is the length of the truncated public key digest used for
// derived IDs.
const addressBytes = 20

// FromPublicKey derives an address-style ID from a secp256k1 public key:
// the hex encoding of the first 20 bytes of SHA3-256 over the compressed
// point. Derivation only identifies a participant; authenticating that a
// caller controls the key is the host's concern.
func FromPublicKey(pk *secp256k1.PublicKey) ID {
	digest := sha3.Sum256(pk.SerializeCompressed())
	return ID(hex.EncodeToString(digest[:addressBytes]))
}

// WriteTo implements io.WriterTo interface.
func (id ID) WriteTo(w io.Writer) (int64, error) {
	if id == "" {
		return 0, io.ErrUnexpectedEOF
	}
	n, err := w.Write([]byte(id))
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (ID) Domain() string {
	return "Party ID"
}

func (id ID) String() string {
	return string(id)
}
