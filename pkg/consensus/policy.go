package consensus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tcfw/forkchain/pkg/chain"
)

const (
	policyUnconditional = "unconditional"
	policyEvenAfter     = "even-after"
	policyOddAfter      = "odd-after"
)

// Policy is an acceptance rule applied on top of the structural checks.
// A policy can only reject headers that are otherwise valid, it can never
// accept a header failing linkage or proof of work.
type Policy interface {
	Accepts(header, parent chain.Header) bool
}

var (
	_ Policy = Unconditional{}
	_ Policy = EvenAfter{}
	_ Policy = OddAfter{}
	_ Policy = PolicyFunc(nil)
	_ Policy = all(nil)
)

// Unconditional accepts every header
type Unconditional struct{}

func (Unconditional) Accepts(_, _ chain.Header) bool { return true }

func (Unconditional) String() string { return policyUnconditional }

// EvenAfter requires an even state for every header above Height
type EvenAfter struct {
	Height uint64
}

func (p EvenAfter) Accepts(h, _ chain.Header) bool {
	return !(h.Height > p.Height && h.State%2 != 0)
}

func (p EvenAfter) String() string {
	return fmt.Sprintf("%s:%d", policyEvenAfter, p.Height)
}

// OddAfter requires an odd state for every header above Height
type OddAfter struct {
	Height uint64
}

func (p OddAfter) Accepts(h, _ chain.Header) bool {
	return !(h.Height > p.Height && h.State%2 == 0)
}

func (p OddAfter) String() string {
	return fmt.Sprintf("%s:%d", policyOddAfter, p.Height)
}

// PolicyFunc adapts a plain function into a Policy
type PolicyFunc func(header, parent chain.Header) bool

func (f PolicyFunc) Accepts(h, p chain.Header) bool {
	return f(h, p)
}

type all []Policy

// All accepts a header only when every given policy accepts it
func All(policies ...Policy) Policy {
	return all(policies)
}

func (a all) Accepts(h, p chain.Header) bool {
	for _, policy := range a {
		if !policy.Accepts(h, p) {
			return false
		}
	}
	return true
}

func (a all) String() string {
	names := make([]string, 0, len(a))
	for _, p := range a {
		names = append(names, PolicyName(p))
	}
	return strings.Join(names, ",")
}

// PolicyName returns the configuration name of p where it has one
func PolicyName(p Policy) string {
	if s, ok := p.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", p)
}

// ParsePolicy parses "unconditional", "even-after:<height>" or
// "odd-after:<height>". A comma separated list combines policies with All.
func ParsePolicy(s string) (Policy, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		policies := make([]Policy, 0, len(parts))
		for _, part := range parts {
			p, err := ParsePolicy(part)
			if err != nil {
				return nil, err
			}
			policies = append(policies, p)
		}
		return All(policies...), nil
	}

	name, arg, hasArg := strings.Cut(s, ":")
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", policyUnconditional:
		if hasArg {
			return nil, errors.Errorf("policy %q takes no activation height", name)
		}
		return Unconditional{}, nil
	case policyEvenAfter, policyOddAfter:
		if !hasArg {
			return nil, errors.Errorf("policy %q requires an activation height", name)
		}
		height, err := strconv.ParseUint(strings.TrimSpace(arg), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing activation height of %q", s)
		}
		if name == policyEvenAfter {
			return EvenAfter{Height: height}, nil
		}
		return OddAfter{Height: height}, nil
	default:
		return nil, errors.Errorf("unknown policy %q", s)
	}
}
