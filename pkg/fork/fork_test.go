package fork

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/forkchain/pkg/chain"
	"github.com/tcfw/forkchain/pkg/consensus"
)

type fixedSource []int

func (s *fixedSource) Intn(n int) int {
	v := (*s)[0] % n
	*s = (*s)[1:]
	return v
}

func newValidator(t *testing.T) *consensus.Validator {
	v, err := consensus.NewValidator()
	require.NoError(t, err)
	return v
}

func TestVerifyForkedChain(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	f := b.Build()
	v := newValidator(t)

	g := f.Genesis()
	evenChain := f.EvenChain()
	oddChain := f.OddChain()

	// Both chains are valid under the structural rules alone
	assert.True(t, v.VerifyFrom(g, evenChain, consensus.Unconditional{}))
	assert.True(t, v.VerifyFrom(g, oddChain, consensus.Unconditional{}))

	// Only the even chain is valid under the even rule
	assert.True(t, v.VerifyFrom(g, evenChain, consensus.EvenAfter{Height: 2}))
	assert.False(t, v.VerifyFrom(g, oddChain, consensus.EvenAfter{Height: 2}))

	// Only the odd chain is valid under the odd rule
	assert.False(t, v.VerifyFrom(g, evenChain, consensus.OddAfter{Height: 2}))
	assert.True(t, v.VerifyFrom(g, oddChain, consensus.OddAfter{Height: 2}))
}

func TestForkShape(t *testing.T) {
	b, err := NewBuilder(WithSeed(7))
	require.NoError(t, err)

	f := b.Build()

	require.Len(t, f.Prefix, 3)
	require.Len(t, f.Even, 2)
	require.Len(t, f.Odd, 2)
	assert.Equal(t, chain.Genesis(), f.Genesis())

	tipDigest := chain.DefaultHasher().Digest(f.Prefix[2])
	assert.Equal(t, tipDigest, f.Even[0].Parent)
	assert.Equal(t, tipDigest, f.Odd[0].Parent)
	assert.NotEqual(t, f.Even[0], f.Odd[0])

	for _, h := range f.Even {
		assert.Zero(t, h.State%2, "even branch state %d", h.State)
	}
	for _, h := range f.Odd {
		assert.Equal(t, uint64(1), h.State%2, "odd branch state %d", h.State)
	}

	assert.Len(t, f.EvenChain(), 4)
	assert.Len(t, f.OddChain(), 4)
	assert.Equal(t, f.Prefix[1:], f.EvenChain()[:2])
}

func TestParityBump(t *testing.T) {
	//prefix 4 + 5 = 9, even branch draws 4 (bumped to 5) and odd draws 4
	src := fixedSource{4, 5, 4, 2, 4, 2}

	b, err := NewBuilder(WithSource(&src))
	require.NoError(t, err)

	f := b.Build()

	assert.Equal(t, uint64(9), f.Prefix[2].State)
	assert.Equal(t, uint64(5), f.Even[0].Extrinsic)
	assert.Equal(t, uint64(14), f.Even[0].State)
	assert.Equal(t, uint64(2), f.Even[1].Extrinsic)
	assert.Equal(t, uint64(16), f.Even[1].State)
	assert.Equal(t, uint64(4), f.Odd[0].Extrinsic)
	assert.Equal(t, uint64(13), f.Odd[0].State)
	assert.Equal(t, uint64(2), f.Odd[1].Extrinsic)
	assert.Equal(t, uint64(15), f.Odd[1].State)
}

func TestLongerForkWithLaterActivation(t *testing.T) {
	b, err := NewBuilder(
		WithSeed(42),
		WithPrefixLength(3),
		WithSuffixLength(4),
		WithActivationHeight(5),
	)
	require.NoError(t, err)

	f := b.Build()
	v := newValidator(t)
	g := f.Genesis()

	assert.Equal(t, uint64(5), f.ActivationHeight)
	assert.True(t, v.VerifyFrom(g, f.EvenChain(), f.EvenPolicy()))
	assert.False(t, v.VerifyFrom(g, f.OddChain(), f.EvenPolicy()))
	assert.True(t, v.VerifyFrom(g, f.OddChain(), f.OddPolicy()))
	assert.False(t, v.VerifyFrom(g, f.EvenChain(), f.OddPolicy()))
}

func TestBuilderValidation(t *testing.T) {
	tests := map[string][]Option{
		"activation inside prefix": {WithPrefixLength(3), WithActivationHeight(2)},
		"activation beyond tip":    {WithActivationHeight(4)},
		"empty suffix":             {WithSuffixLength(0)},
		"no extrinsic range":       {WithMaxExtrinsic(0)},
	}

	for name, opts := range tests {
		_, err := NewBuilder(opts...)
		assert.Error(t, err, name)
	}
}

func TestBuilderUsesMiner(t *testing.T) {
	m, err := consensus.NewMiner(consensus.WithMinerHasher(chain.Blake2bHasher{}))
	require.NoError(t, err)

	b, err := NewBuilder(WithMiner(m), WithSeed(1))
	require.NoError(t, err)

	f := b.Build()

	v, err := consensus.NewValidator(consensus.WithHasher(chain.Blake2bHasher{}))
	require.NoError(t, err)
	assert.True(t, v.VerifyFrom(f.Genesis(), f.EvenChain(), f.EvenPolicy()))
}
