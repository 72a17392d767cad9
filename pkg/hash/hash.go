// Package hash provides the deterministic hashing used to bind commitments:
// a domain-separated incremental hash over BLAKE3 whose digest stream can be
// reduced to an integer below a modulus.
package hash

import (
	"fmt"
	"io"
	"math/big"

	"github.com/zeebo/blake3"

	"github.com/verihouse/verihouse/internal/params"
)

const DigestLengthBytes = params.SecBytes * 2 // 64

// Hash is the hash function we use for generating commitment binders and
// consuming protocol types.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash, initialized with the given initial data.
func New(initialData ...WriterToWithDomain) *Hash {
	hash := &Hash{h: blake3.New()}
	for _, d := range initialData {
		_ = hash.WriteAny(d)
	}
	return hash
}

// Digest returns a reader for the current output of the function.
//
// This finalizes the current state of the hash, and returns what's
// essentially a stream of random bytes.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current
// hash state. If a different length is required, use io.ReadFull(hash.Digest(), out).
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// IntModN finalizes the current state and reduces the digest to an integer
// in [0, n). The reduction is deterministic: equal inputs always map to the
// same residue.
func (hash *Hash) IntModN(n *big.Int) *big.Int {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.IntModN: internal hash failure: %v", err))
	}
	res := new(big.Int).SetBytes(out)
	return res.Mod(res, n)
}

// WriteAny takes many different data types and writes them to the hash state.
//
// Currently supported types:
//
//   - []byte
//   - *big.Int
//   - hash.WriterToWithDomain
//
// This function applies its own domain separation for the first two types.
func (hash *Hash) WriteAny(data ...interface{}) error {
	for _, d := range data {
		var err error
		switch t := d.(type) {
		case []byte:
			err = writeWithDomain(hash.h, BytesWithDomain{
				TheDomain: "[]byte",
				Bytes:     t,
			})
			if err != nil {
				return fmt.Errorf("hash.Hash: write []byte: %w", err)
			}
		case *big.Int:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *big.Int: nil")
			}
			var bytes []byte
			if t.Sign() >= 0 {
				bytes = t.Bytes()
			} else {
				bytes, err = t.GobEncode()
				if err != nil {
					return fmt.Errorf("hash.Hash: GobEncode: %w", err)
				}
			}
			err = writeWithDomain(hash.h, BytesWithDomain{
				TheDomain: "big.Int",
				Bytes:     bytes,
			})
			if err != nil {
				return fmt.Errorf("hash.Hash: write *big.Int: %w", err)
			}
		case WriterToWithDomain:
			if err = writeWithDomain(hash.h, t); err != nil {
				return fmt.Errorf("hash.Hash: write WriterToWithDomain: %w", err)
			}
		default:
			panic("hash.Hash: unsupported type")
		}
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}
