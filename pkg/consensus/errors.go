package consensus

import "github.com/pkg/errors"

var (
	ErrParentMismatch   = errors.New("parent digest mismatch")
	ErrHeightMismatch   = errors.New("misordered header height")
	ErrStateMismatch    = errors.New("state does not follow extrinsic")
	ErrInsufficientWork = errors.New("digest not below threshold")
	ErrPolicyRejected   = errors.New("rejected by policy")

	ErrZeroDifficulty = errors.New("difficulty must be greater than zero")
)
