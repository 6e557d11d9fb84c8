package chain

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Digest is the fixed width output of a Hasher
type Digest uint64

const (
	// MaxDigest is the largest value a Hasher can produce
	MaxDigest Digest = math.MaxUint64

	headerSize = 5 * 8
)

func (d Digest) String() string {
	return fmt.Sprintf("%016x", uint64(d))
}

// Header is the metadata of a single block. Headers are treated as
// immutable values; mining always produces a new Header.
type Header struct {
	Parent    Digest `msgpack:"p" yaml:"parent"`
	Height    uint64 `msgpack:"h" yaml:"height"`
	Extrinsic uint64 `msgpack:"x" yaml:"extrinsic"`
	State     uint64 `msgpack:"s" yaml:"state"`
	Nonce     uint64 `msgpack:"n" yaml:"nonce"`
}

// Genesis returns the fixed genesis header. Genesis is exempt from
// proof of work so every field is zero.
func Genesis() Header {
	return Header{}
}

// IsGenesis reports whether h is the genesis header
func (h Header) IsGenesis() bool {
	return h == Genesis()
}

// Child returns the unmined child template of h carrying extrinsic.
// The nonce of the template is 0.
func (h Header) Child(hasher Hasher, extrinsic uint64) Header {
	return Header{
		Parent:    hasher.Digest(h),
		Height:    h.Height + 1,
		Extrinsic: extrinsic,
		State:     h.State + extrinsic,
	}
}

// WithNonce returns a copy of h with the nonce replaced
func (h Header) WithNonce(n uint64) Header {
	h.Nonce = n
	return h
}

// Bytes returns the canonical encoding hashed by a Hasher
func (h Header) Bytes() []byte {
	b := make([]byte, headerSize)
	binary.BigEndian.PutUint64(b[0:], uint64(h.Parent))
	binary.BigEndian.PutUint64(b[8:], h.Height)
	binary.BigEndian.PutUint64(b[16:], h.Extrinsic)
	binary.BigEndian.PutUint64(b[24:], h.State)
	binary.BigEndian.PutUint64(b[32:], h.Nonce)
	return b
}

func (h Header) String() string {
	return fmt.Sprintf("#%d parent=%s extrinsic=%d state=%d nonce=%d", h.Height, h.Parent, h.Extrinsic, h.State, h.Nonce)
}
