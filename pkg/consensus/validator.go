package consensus

import (
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/forkchain/pkg/chain"
)

const logModule = "consensus"

// Validator checks that headers extend a known ancestor. The validity
// result depends only on its arguments and the validator's hasher and
// proof of work params.
type Validator struct {
	hasher chain.Hasher
	params Params
	logger *logrus.Logger
}

// ValidatorOption configures a Validator
type ValidatorOption func(*Validator) error

// WithHasher sets the hasher parent and proof of work digests are checked with
func WithHasher(h chain.Hasher) ValidatorOption {
	return func(v *Validator) error {
		v.hasher = h
		return nil
	}
}

// WithParams sets the proof of work threshold. A zero threshold is rejected.
func WithParams(p Params) ValidatorOption {
	return func(v *Validator) error {
		if p.Threshold == 0 {
			return errors.New("zero threshold")
		}
		v.params = p
		return nil
	}
}

func WithLogger(l *logrus.Logger) ValidatorOption {
	return func(v *Validator) error {
		v.logger = l
		return nil
	}
}

// NewValidator returns a validator using the default hasher and params
func NewValidator(opts ...ValidatorOption) (*Validator, error) {
	v := &Validator{
		hasher: chain.DefaultHasher(),
		params: DefaultParams(),
		logger: logrus.StandardLogger(),
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, errors.Wrap(err, "applying validator option")
		}
	}

	return v, nil
}

func (v *Validator) Hasher() chain.Hasher {
	return v.hasher
}

func (v *Validator) Params() Params {
	return v.params
}

// CheckChild returns the first rule child breaks as a child of parent, or
// nil if child is valid under policy.
func (v *Validator) CheckChild(parent, child chain.Header, policy Policy) error {
	if policy == nil {
		policy = Unconditional{}
	}

	if pd := v.hasher.Digest(parent); child.Parent != pd {
		return errors.Wrapf(ErrParentMismatch, "parent digest %s, header wants %s", pd, child.Parent)
	}

	if child.Height != parent.Height+1 {
		return errors.Wrapf(ErrHeightMismatch, "parent height %d, header height %d", parent.Height, child.Height)
	}

	if child.Extrinsic > math.MaxUint64-parent.State {
		return errors.Wrapf(ErrStateMismatch, "state %d overflows with extrinsic %d", parent.State, child.Extrinsic)
	}
	if child.State != parent.State+child.Extrinsic {
		return errors.Wrapf(ErrStateMismatch, "parent state %d + extrinsic %d != %d", parent.State, child.Extrinsic, child.State)
	}

	if d := v.hasher.Digest(child); d >= v.params.Threshold {
		return errors.Wrapf(ErrInsufficientWork, "digest %s, threshold %s", d, v.params.Threshold)
	}

	if !policy.Accepts(child, parent) {
		return errors.Wrapf(ErrPolicyRejected, "%s at height %d with state %d", PolicyName(policy), child.Height, child.State)
	}

	return nil
}

// VerifyChild reports whether child is a valid child of parent under policy
func (v *Validator) VerifyChild(parent, child chain.Header, policy Policy) bool {
	return v.logRejection(v.CheckChild(parent, child, policy), child) == nil
}

// CheckFrom checks every header in turn as the child of the one before it,
// starting from ancestor. An empty list is always valid.
func (v *Validator) CheckFrom(ancestor chain.Header, headers []chain.Header, policy Policy) error {
	parent := ancestor
	for i, h := range headers {
		if err := v.CheckChild(parent, h, policy); err != nil {
			return errors.Wrapf(err, "header %d of %d", i, len(headers))
		}
		parent = h
	}

	return nil
}

// VerifyFrom reports whether headers form a valid chain extending ancestor
// under policy.
func (v *Validator) VerifyFrom(ancestor chain.Header, headers []chain.Header, policy Policy) bool {
	err := v.CheckFrom(ancestor, headers, policy)
	if err != nil {
		v.logger.WithFields(logrus.Fields{
			"module": logModule,
			"policy": PolicyName(policy),
			"reason": err.Error(),
		}).Debug("rejected chain")
	}

	return err == nil
}

func (v *Validator) logRejection(err error, h chain.Header) error {
	if err != nil {
		v.logger.WithFields(logrus.Fields{
			"module": logModule,
			"height": h.Height,
			"reason": err.Error(),
		}).Debug("rejected header")
	}
	return err
}
