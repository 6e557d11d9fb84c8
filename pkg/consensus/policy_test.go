package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/forkchain/pkg/chain"
)

func TestPolicies(t *testing.T) {
	tests := []struct {
		policy Policy
		height uint64
		state  uint64
		accept bool
	}{
		{Unconditional{}, 10, 3, true},
		{EvenAfter{Height: 2}, 2, 3, true},
		{EvenAfter{Height: 2}, 3, 3, false},
		{EvenAfter{Height: 2}, 3, 4, true},
		{OddAfter{Height: 2}, 2, 4, true},
		{OddAfter{Height: 2}, 3, 4, false},
		{OddAfter{Height: 2}, 3, 5, true},
		{EvenAfter{Height: 0}, 1, 1, false},
		{OddAfter{Height: 0}, 1, 0, false},
	}

	for _, tc := range tests {
		h := chain.Header{Height: tc.height, State: tc.state}
		assert.Equal(t, tc.accept, tc.policy.Accepts(h, chain.Genesis()), "%s h=%d s=%d", PolicyName(tc.policy), tc.height, tc.state)
	}
}

func TestAll(t *testing.T) {
	h := chain.Header{Height: 3, State: 4}

	assert.True(t, All().Accepts(h, chain.Genesis()))
	assert.True(t, All(Unconditional{}, EvenAfter{Height: 2}).Accepts(h, chain.Genesis()))
	assert.False(t, All(EvenAfter{Height: 2}, OddAfter{Height: 2}).Accepts(h, chain.Genesis()))
}

func TestPolicyFunc(t *testing.T) {
	maxState := PolicyFunc(func(h, _ chain.Header) bool { return h.State < 10 })

	assert.True(t, maxState.Accepts(chain.Header{State: 9}, chain.Genesis()))
	assert.False(t, maxState.Accepts(chain.Header{State: 10}, chain.Genesis()))
}

func TestParsePolicy(t *testing.T) {
	tests := map[string]Policy{
		"":                            Unconditional{},
		"unconditional":               Unconditional{},
		"even-after:2":                EvenAfter{Height: 2},
		"Odd-After: 7":                OddAfter{Height: 7},
		"odd-after:0":                 OddAfter{Height: 0},
		"even-after:3, unconditional": All(EvenAfter{Height: 3}, Unconditional{}),
	}

	for in, want := range tests {
		got, err := ParsePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"even-after", "odd-after:x", "unconditional:1", "majority", "even-after:2,bogus"} {
		_, err := ParsePolicy(bad)
		assert.Error(t, err, bad)
	}
}

func TestPolicyNameRoundTrip(t *testing.T) {
	for _, p := range []Policy{Unconditional{}, EvenAfter{Height: 4}, OddAfter{Height: 9}, All(EvenAfter{Height: 1}, OddAfter{Height: 2})} {
		parsed, err := ParsePolicy(PolicyName(p))
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
}
