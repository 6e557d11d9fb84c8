package chain

import (
	"encoding/binary"

	ethCrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	HasherSHA3    = "sha3-256"
	HasherBlake2b = "blake2b-256"
	HasherKeccak  = "keccak256"
)

// Hasher maps a header to a fixed width digest. Implementations must be
// deterministic and pure.
type Hasher interface {
	Digest(Header) Digest
}

var (
	_ Hasher = SHA3Hasher{}
	_ Hasher = Blake2bHasher{}
	_ Hasher = KeccakHasher{}
)

// SHA3Hasher digests headers with a SHA3-256 multihash
type SHA3Hasher struct{}

func (SHA3Hasher) Digest(h Header) Digest {
	mh, err := multihash.Sum(h.Bytes(), multihash.SHA3_256, multihash.DefaultLengths[multihash.SHA3_256])
	if err != nil {
		//sha3-256 is always registered
		panic(errors.Wrap(err, "sha3 multihash"))
	}

	dmh, err := multihash.Decode(mh)
	if err != nil {
		panic(errors.Wrap(err, "decoding multihash"))
	}

	return truncate(dmh.Digest)
}

// Blake2bHasher digests headers with BLAKE2b-256
type Blake2bHasher struct{}

func (Blake2bHasher) Digest(h Header) Digest {
	sum := blake2b.Sum256(h.Bytes())
	return truncate(sum[:])
}

// KeccakHasher digests headers with legacy Keccak-256 as used by ethereum
type KeccakHasher struct{}

func (KeccakHasher) Digest(h Header) Digest {
	return truncate(ethCrypto.Keccak256(h.Bytes()))
}

func truncate(b []byte) Digest {
	return Digest(binary.BigEndian.Uint64(b[:8]))
}

// DefaultHasher returns the hasher used when none is configured
func DefaultHasher() Hasher {
	return SHA3Hasher{}
}

// HasherByName resolves a configured hasher name
func HasherByName(name string) (Hasher, error) {
	switch name {
	case "", HasherSHA3:
		return SHA3Hasher{}, nil
	case HasherBlake2b:
		return Blake2bHasher{}, nil
	case HasherKeccak:
		return KeccakHasher{}, nil
	default:
		return nil, errors.Errorf("unknown hasher %q", name)
	}
}
