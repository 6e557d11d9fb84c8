package storage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/tcfw/forkchain/pkg/chain"
	"github.com/tcfw/forkchain/pkg/consensus"
)

var hasherSamples = []chain.Header{
	chain.Genesis(),
	{Parent: 1, Height: 1, Extrinsic: 1, State: 1, Nonce: 1},
}

// TipValidator checks stored branches against a policy
type TipValidator struct {
	s Store
	v *consensus.Validator
}

// NewTipValidator pairs a store with a validator. Both must digest headers
// the same way or stored parents can not be found.
func NewTipValidator(s Store, v *consensus.Validator) (*TipValidator, error) {
	sh, vh := s.Hasher(), v.Hasher()
	for _, h := range hasherSamples {
		if sh.Digest(h) != vh.Digest(h) {
			return nil, ErrHasherMismatch
		}
	}

	return &TipValidator{s, v}, nil
}

// IsTipValid checks the whole branch ending at tip, from genesis up
func (tv *TipValidator) IsTipValid(ctx context.Context, tip chain.Digest, policy consensus.Policy) error {
	branch, err := tv.s.Ancestry(ctx, tip)
	if err != nil {
		return errors.Wrap(err, "getting ancestry")
	}

	if !branch[0].IsGenesis() {
		return ErrUnknownGenesis
	}

	return tv.v.CheckFrom(branch[0], branch[1:], policy)
}

// AcceptedTips returns the tips whose branch is valid under policy. Tips
// of orphaned branches are never accepted.
func (tv *TipValidator) AcceptedTips(ctx context.Context, policy consensus.Policy) ([]chain.Header, error) {
	tips, err := tv.s.Tips(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting tips")
	}

	accepted := make([]chain.Header, 0, len(tips))
	for _, tip := range tips {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if tv.IsTipValid(ctx, tv.s.Hasher().Digest(tip), policy) == nil {
			accepted = append(accepted, tip)
		}
	}

	return accepted, nil
}
