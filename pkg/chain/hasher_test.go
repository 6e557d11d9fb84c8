package chain

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

func TestHashersDeterministic(t *testing.T) {
	h := Header{Parent: 9, Height: 3, Extrinsic: 4, State: 11, Nonce: 77}

	for _, hasher := range []Hasher{SHA3Hasher{}, Blake2bHasher{}, KeccakHasher{}} {
		assert.Equal(t, hasher.Digest(h), hasher.Digest(h))
	}
}

func TestHashersFieldSensitive(t *testing.T) {
	base := Header{Parent: 9, Height: 3, Extrinsic: 4, State: 11, Nonce: 77}

	mutations := map[string]Header{
		"parent":    {Parent: 10, Height: 3, Extrinsic: 4, State: 11, Nonce: 77},
		"height":    {Parent: 9, Height: 4, Extrinsic: 4, State: 11, Nonce: 77},
		"extrinsic": {Parent: 9, Height: 3, Extrinsic: 5, State: 11, Nonce: 77},
		"state":     {Parent: 9, Height: 3, Extrinsic: 4, State: 12, Nonce: 77},
		"nonce":     {Parent: 9, Height: 3, Extrinsic: 4, State: 11, Nonce: 78},
	}

	for _, hasher := range []Hasher{SHA3Hasher{}, Blake2bHasher{}, KeccakHasher{}} {
		for field, m := range mutations {
			assert.NotEqual(t, hasher.Digest(base), hasher.Digest(m), "%T %s", hasher, field)
		}
	}
}

func TestHashersDiffer(t *testing.T) {
	g := Genesis()
	assert.NotEqual(t, SHA3Hasher{}.Digest(g), Blake2bHasher{}.Digest(g))
	assert.NotEqual(t, SHA3Hasher{}.Digest(g), KeccakHasher{}.Digest(g))
	assert.NotEqual(t, Blake2bHasher{}.Digest(g), KeccakHasher{}.Digest(g))
}

func TestKeccakHasherTruncatesKeccak256(t *testing.T) {
	h := Header{Parent: 1, Height: 2, Extrinsic: 3, State: 4, Nonce: 5}

	//keccak256 of the 40 byte encoding, first 8 bytes big endian
	sum := sha3.NewLegacyKeccak256()
	sum.Write(h.Bytes())
	want := Digest(binary.BigEndian.Uint64(sum.Sum(nil)[:8]))

	assert.Equal(t, want, KeccakHasher{}.Digest(h))
}

func TestHasherByName(t *testing.T) {
	h, err := HasherByName("")
	require.NoError(t, err)
	assert.IsType(t, SHA3Hasher{}, h)

	h, err = HasherByName(HasherBlake2b)
	require.NoError(t, err)
	assert.IsType(t, Blake2bHasher{}, h)

	h, err = HasherByName(HasherKeccak)
	require.NoError(t, err)
	assert.IsType(t, KeccakHasher{}, h)

	_, err = HasherByName("md5")
	assert.Error(t, err)
}
