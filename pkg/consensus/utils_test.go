package consensus

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/forkchain/pkg/chain"
)

type mockPolicy struct {
	mock.Mock
}

func (m *mockPolicy) Accepts(h, p chain.Header) bool {
	args := m.Called(h, p)
	return args.Bool(0)
}

func newTestMiner(t *testing.T, opts ...MinerOption) *Miner {
	m, err := NewMiner(opts...)
	require.NoError(t, err)
	return m
}

func newTestValidator(t *testing.T, opts ...ValidatorOption) *Validator {
	v, err := NewValidator(opts...)
	require.NoError(t, err)
	return v
}

// mineStates mines a chain from genesis with the given extrinsics
func mineStates(t *testing.T, extrinsics ...uint64) (chain.Header, []chain.Header) {
	g := chain.Genesis()
	return g, newTestMiner(t).MineChain(g, extrinsics...)
}
