// Package mac implements the keyed-hash message authentication code
// construction of RFC 2104 / FIPS 198-1 over a pluggable hash function.
package mac

import (
	"crypto/sha1"
	"hash"
)

const (
	ipad = 0x36
	opad = 0x5c
)

// MAC binds the construction to one hash function with block size B and
// output length L (FIPS 198-1 notation).
type MAC struct {
	newHash   func() hash.Hash
	blockSize int
	size      int
}

func New(newHash func() hash.Hash, blockSize int) *MAC {
	return &MAC{
		newHash:   newHash,
		blockSize: blockSize,
		size:      newHash().Size(),
	}
}

// NewSHA1 returns the construction used on the air: HMAC-SHA1 (B=64, L=20).
func NewSHA1() *MAC {
	return New(sha1.New, 64)
}

func (m *MAC) Size() int {
	return m.size
}

// Sum computes H((K0 xor ipad) || message) hashed once more under
// (K0 xor opad). Keys equal to the block size pass through, longer keys
// are reduced by hashing, shorter keys are zero padded.
func (m *MAC) Sum(key, message []byte) []byte {
	k0 := make([]byte, m.blockSize)
	if len(key) > m.blockSize {
		h := m.newHash()
		h.Write(key)
		copy(k0, h.Sum(nil))
	} else {
		copy(k0, key)
	}

	inner := m.newHash()
	inner.Write(xorPad(k0, ipad))
	inner.Write(message)

	outer := m.newHash()
	outer.Write(xorPad(k0, opad))
	outer.Write(inner.Sum(nil))
	return outer.Sum(nil)
}

func xorPad(k0 []byte, pad byte) []byte {
	out := make([]byte, len(k0))
	for i, b := range k0 {
		out[i] = b ^ pad
	}
	return out
}
