package fork

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/tcfw/forkchain/pkg/chain"
	"github.com/tcfw/forkchain/pkg/consensus"
)

const (
	defaultPrefixLength = 2
	defaultSuffixLength = 2
	defaultMaxExtrinsic = 100
)

// Source draws uniformly distributed integers in [0, n)
type Source interface {
	Intn(n int) int
}

type parity uint8

const (
	even parity = iota
	odd
)

// Fork is a pair of chains sharing a genesis rooted prefix. Prefix
// includes genesis; Even and Odd do not overlap with Prefix.
type Fork struct {
	Prefix []chain.Header
	Even   []chain.Header
	Odd    []chain.Header

	ActivationHeight uint64
}

func (f *Fork) Genesis() chain.Header {
	return f.Prefix[0]
}

// EvenChain is every header after genesis on the even branch
func (f *Fork) EvenChain() []chain.Header {
	return f.branch(f.Even)
}

// OddChain is every header after genesis on the odd branch
func (f *Fork) OddChain() []chain.Header {
	return f.branch(f.Odd)
}

func (f *Fork) branch(suffix []chain.Header) []chain.Header {
	out := make([]chain.Header, 0, len(f.Prefix)-1+len(suffix))
	out = append(out, f.Prefix[1:]...)
	return append(out, suffix...)
}

func (f *Fork) EvenPolicy() consensus.Policy {
	return consensus.EvenAfter{Height: f.ActivationHeight}
}

func (f *Fork) OddPolicy() consensus.Policy {
	return consensus.OddAfter{Height: f.ActivationHeight}
}

// Builder mines contentious forks: a common prefix valid under every rule
// followed by one branch only the even rule accepts and one only the odd
// rule accepts.
type Builder struct {
	miner  *consensus.Miner
	source Source

	prefixLength uint64
	suffixLength uint64
	activation   uint64
	maxExtrinsic int
}

type Option func(*Builder) error

func WithMiner(m *consensus.Miner) Option {
	return func(b *Builder) error {
		b.miner = m
		return nil
	}
}

func WithSource(s Source) Option {
	return func(b *Builder) error {
		b.source = s
		return nil
	}
}

// WithSeed uses a deterministic math/rand source
func WithSeed(seed int64) Option {
	return WithSource(rand.New(rand.NewSource(seed)))
}

// WithPrefixLength sets the number of headers after genesis in the prefix.
// The activation height follows unless set explicitly afterwards.
func WithPrefixLength(n uint64) Option {
	return func(b *Builder) error {
		b.prefixLength = n
		b.activation = n
		return nil
	}
}

func WithSuffixLength(n uint64) Option {
	return func(b *Builder) error {
		b.suffixLength = n
		return nil
	}
}

func WithActivationHeight(h uint64) Option {
	return func(b *Builder) error {
		b.activation = h
		return nil
	}
}

// WithMaxExtrinsic bounds random extrinsics to [0, n)
func WithMaxExtrinsic(n int) Option {
	return func(b *Builder) error {
		b.maxExtrinsic = n
		return nil
	}
}

func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		prefixLength: defaultPrefixLength,
		suffixLength: defaultSuffixLength,
		activation:   defaultPrefixLength,
		maxExtrinsic: defaultMaxExtrinsic,
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, errors.Wrap(err, "applying fork option")
		}
	}

	if b.miner == nil {
		m, err := consensus.NewMiner()
		if err != nil {
			return nil, errors.Wrap(err, "creating default miner")
		}
		b.miner = m
	}

	if b.source == nil {
		b.source = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if err := b.validate(); err != nil {
		return nil, err
	}

	return b, nil
}

func (b *Builder) validate() error {
	if b.suffixLength == 0 {
		return errors.New("suffix length must be greater than zero")
	}
	if b.maxExtrinsic <= 0 {
		return errors.Errorf("max extrinsic out of range: %d", b.maxExtrinsic)
	}
	if b.activation < b.prefixLength {
		return errors.Errorf("activation height %d is inside the prefix of length %d", b.activation, b.prefixLength)
	}
	if b.activation >= b.prefixLength+b.suffixLength {
		return errors.Errorf("activation height %d is beyond the fork tip at %d", b.activation, b.prefixLength+b.suffixLength)
	}
	return nil
}

// Build mines a new contentious fork
func (b *Builder) Build() *Fork {
	prefix := make([]chain.Header, 0, b.prefixLength+1)
	prefix = append(prefix, chain.Genesis())

	tip := prefix[0]
	for i := uint64(0); i < b.prefixLength; i++ {
		tip = b.miner.MineChild(tip, b.extrinsic())
		prefix = append(prefix, tip)
	}

	return &Fork{
		Prefix:           prefix,
		Even:             b.suffix(tip, even),
		Odd:              b.suffix(tip, odd),
		ActivationHeight: b.activation,
	}
}

func (b *Builder) suffix(tip chain.Header, want parity) []chain.Header {
	headers := make([]chain.Header, 0, b.suffixLength)

	for i := uint64(0); i < b.suffixLength; i++ {
		x := b.extrinsic()
		if parity((tip.State+x)%2) != want {
			//flips the parity of the resulting state
			x++
		}

		tip = b.miner.MineChild(tip, x)
		headers = append(headers, tip)
	}

	return headers
}

func (b *Builder) extrinsic() uint64 {
	return uint64(b.source.Intn(b.maxExtrinsic))
}
