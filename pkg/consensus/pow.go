package consensus

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/forkchain/pkg/chain"
	"golang.org/x/sync/errgroup"
)

const (
	defaultDifficulty = 100
	maxWorkers        = 256
)

// Params holds the proof of work configuration. A header satisfies proof
// of work when its digest is strictly below Threshold. A zero Threshold
// never terminates mining and must not be supplied.
type Params struct {
	Threshold chain.Digest
}

// DefaultParams accepts roughly 1 in 100 digests
func DefaultParams() Params {
	return Params{Threshold: chain.MaxDigest / defaultDifficulty}
}

// ParamsFromDifficulty returns params accepting roughly 1 in d digests
func ParamsFromDifficulty(d uint64) (Params, error) {
	if d == 0 {
		return Params{}, ErrZeroDifficulty
	}

	return Params{Threshold: chain.MaxDigest / chain.Digest(d)}, nil
}

// VerifyPoW reports whether the digest of h is below the threshold
func VerifyPoW(hasher chain.Hasher, p Params, h chain.Header) bool {
	return hasher.Digest(h) < p.Threshold
}

// Miner searches nonces for children satisfying proof of work
type Miner struct {
	hasher  chain.Hasher
	params  Params
	workers int
	logger  *logrus.Logger
}

// MinerOption configures a Miner
type MinerOption func(*Miner) error

// WithMinerHasher sets the hasher digests are computed with
func WithMinerHasher(h chain.Hasher) MinerOption {
	return func(m *Miner) error {
		m.hasher = h
		return nil
	}
}

// WithMinerParams sets the proof of work threshold. A zero threshold is rejected.
func WithMinerParams(p Params) MinerOption {
	return func(m *Miner) error {
		if p.Threshold == 0 {
			return errors.New("zero threshold")
		}
		m.params = p
		return nil
	}
}

// WithWorkers sets the goroutines used by MineChildContext
func WithWorkers(n int) MinerOption {
	return func(m *Miner) error {
		if n <= 0 || n > maxWorkers {
			return errors.Errorf("workers out of range: %d", n)
		}
		m.workers = n
		return nil
	}
}

// WithMinerLogger sets the logger
func WithMinerLogger(l *logrus.Logger) MinerOption {
	return func(m *Miner) error {
		m.logger = l
		return nil
	}
}

// NewMiner returns a single worker miner using the default hasher and params
func NewMiner(opts ...MinerOption) (*Miner, error) {
	m := &Miner{
		hasher:  chain.DefaultHasher(),
		params:  DefaultParams(),
		workers: 1,
		logger:  logrus.StandardLogger(),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, errors.Wrap(err, "applying miner option")
		}
	}

	return m, nil
}

func (m *Miner) Hasher() chain.Hasher {
	return m.hasher
}

func (m *Miner) Params() Params {
	return m.params
}

// MineChild searches nonces 1, 2, ... for the first child of parent
// whose digest is below the threshold. The search is unbounded.
func (m *Miner) MineChild(parent chain.Header, extrinsic uint64) chain.Header {
	tmpl := parent.Child(m.hasher, extrinsic)

	for nonce := uint64(1); ; nonce++ {
		candidate := tmpl.WithNonce(nonce)
		if m.hasher.Digest(candidate) < m.params.Threshold {
			m.logger.WithFields(logrus.Fields{
				"module": logModule,
				"height": candidate.Height,
				"nonce":  nonce,
			}).Debug("mined header")
			return candidate
		}
	}
}

// MineChain mines one child per extrinsic, each on top of the last
func (m *Miner) MineChain(parent chain.Header, extrinsics ...uint64) []chain.Header {
	headers := make([]chain.Header, 0, len(extrinsics))
	for _, x := range extrinsics {
		parent = m.MineChild(parent, x)
		headers = append(headers, parent)
	}

	return headers
}

// MineChildContext runs the nonce search across the configured number of
// workers. Worker i tries nonces i+1, i+1+w, i+1+2w, ... and the first
// worker to succeed wins. Any winner is an equally valid header.
func (m *Miner) MineChildContext(ctx context.Context, parent chain.Header, extrinsic uint64) (chain.Header, error) {
	tmpl := parent.Child(m.hasher, extrinsic)
	found := make(chan chain.Header, m.workers)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < m.workers; i++ {
		start, step := uint64(i+1), uint64(m.workers)
		g.Go(func() error {
			return m.search(gctx, tmpl, start, step, found)
		})
	}

	go func() {
		g.Wait()
		close(found)
	}()

	h, ok := <-found
	if !ok {
		if err := g.Wait(); err != nil {
			return chain.Header{}, err
		}
		return chain.Header{}, ctx.Err()
	}
	cancel()

	return h, nil
}

func (m *Miner) search(ctx context.Context, tmpl chain.Header, start, step uint64, found chan<- chain.Header) error {
	for i, nonce := 0, start; ; i, nonce = i+1, nonce+step {
		if i%256 == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		candidate := tmpl.WithNonce(nonce)
		if m.hasher.Digest(candidate) < m.params.Threshold {
			found <- candidate
			return nil
		}
	}
}
