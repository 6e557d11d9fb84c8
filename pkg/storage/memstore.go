package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/forkchain/pkg/chain"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ Store = (*MemStore)(nil)
)

// MemStore keeps headers in memory. Digests are indexed with the hasher
// the headers were mined with; several headers may share a digest.
type MemStore struct {
	mu sync.RWMutex

	hasher chain.Hasher
	logger *logrus.Logger

	objects  map[cid.Cid][]byte
	digests  map[chain.Digest][]cid.Cid
	children map[chain.Digest]int

	seen *bloom.BloomFilter
}

type MemStoreOption func(*MemStore)

// WithStoreLogger sets the logger used for digest collision warnings
func WithStoreLogger(l *logrus.Logger) MemStoreOption {
	return func(m *MemStore) {
		m.logger = l
	}
}

// NewMemStore creates a store indexing digests with hasher. A nil hasher
// falls back to chain.DefaultHasher and logs a warning.
func NewMemStore(hasher chain.Hasher, opts ...MemStoreOption) *MemStore {
	m := &MemStore{
		hasher:   hasher,
		logger:   logrus.StandardLogger(),
		objects:  make(map[cid.Cid][]byte),
		digests:  make(map[chain.Digest][]cid.Cid),
		children: make(map[chain.Digest]int),
		seen:     newBloom(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.hasher == nil {
		m.hasher = chain.DefaultHasher()
		m.logger.WithField("module", logModule).Warn("no hasher given, indexing digests with the default hasher")
	}

	return m
}

// Hasher returns the hasher digests are indexed with
func (m *MemStore) Hasher() chain.Hasher {
	return m.hasher
}

func (m *MemStore) PutHeader(_ context.Context, h chain.Header) (cid.Cid, error) {
	d, err := msgpack.Marshal(&h)
	if err != nil {
		return cid.Undef, errors.Wrap(err, "marshaling header")
	}

	mh, err := multihash.Sum(d, multihash.SHA3_256, multihash.DefaultLengths[multihash.SHA3_256])
	if err != nil {
		return cid.Undef, errors.Wrap(err, "hashing header")
	}
	id := cid.NewCidV1(cid.Raw, mh)
	digest := m.hasher.Digest(h)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[id]; ok {
		return id, nil
	}

	m.objects[id] = d
	m.digests[digest] = append(m.digests[digest], id)
	if n := len(m.digests[digest]); n > 1 {
		m.logger.WithFields(logrus.Fields{
			"module":  logModule,
			"digest":  digest,
			"height":  h.Height,
			"headers": n,
		}).Warn("digest collision")
	}
	m.seen.Add(digestKey(digest))
	if !h.IsGenesis() {
		m.children[h.Parent]++
	}

	return id, nil
}

func (m *MemStore) GetHeader(_ context.Context, id cid.Cid) (*chain.Header, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.getHeader(id)
}

func (m *MemStore) getHeader(id cid.Cid) (*chain.Header, error) {
	d, ok := m.objects[id]
	if !ok {
		return nil, ErrNotFound
	}

	h := &chain.Header{}
	if err := msgpack.Unmarshal(d, h); err != nil {
		return nil, errors.Wrap(err, "unmarshalling header")
	}

	return h, nil
}

func (m *MemStore) Lookup(_ context.Context, d chain.Digest) (*chain.Header, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.lookup(d)
}

func (m *MemStore) lookup(d chain.Digest) (*chain.Header, error) {
	if !m.seen.Test(digestKey(d)) {
		return nil, ErrNotFound
	}

	//first stored header wins on a collision
	ids := m.digests[d]
	if len(ids) == 0 {
		return nil, ErrNotFound
	}

	return m.getHeader(ids[0])
}

// Has reports whether a header with digest d has been stored
func (m *MemStore) Has(_ context.Context, d chain.Digest) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.seen.Test(digestKey(d)) {
		return false
	}

	return len(m.digests[d]) > 0
}

// Tips returns every stored header without a stored child, ordered by
// height then digest.
func (m *MemStore) Tips(_ context.Context) ([]chain.Header, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tips := []chain.Header{}
	for d, ids := range m.digests {
		if m.children[d] > 0 {
			continue
		}

		for _, id := range ids {
			h, err := m.getHeader(id)
			if err != nil {
				return nil, errors.Wrap(err, "getting tip")
			}
			tips = append(tips, *h)
		}
	}

	sort.Slice(tips, func(i, j int) bool {
		if tips[i].Height != tips[j].Height {
			return tips[i].Height < tips[j].Height
		}
		if di, dj := m.hasher.Digest(tips[i]), m.hasher.Digest(tips[j]); di != dj {
			return di < dj
		}
		return tips[i].State < tips[j].State
	})

	return tips, nil
}

// Ancestry returns the headers from the root of tip's branch up to and
// including tip.
func (m *MemStore) Ancestry(_ context.Context, tip chain.Digest) ([]chain.Header, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, err := m.lookup(tip)
	if err != nil {
		return nil, errors.Wrapf(err, "looking up tip %s", tip)
	}

	branch := []chain.Header{*h}
	for h.Height > 0 {
		//bounded in case of a digest loop
		if len(branch) > len(m.objects) {
			return nil, errors.New("ancestry loop")
		}

		parent, err := m.lookup(h.Parent)
		if err != nil {
			return nil, errors.Wrapf(err, "looking up parent %s of height %d", h.Parent, h.Height)
		}

		branch = append(branch, *parent)
		h = parent
	}

	for i, j := 0, len(branch)-1; i < j; i, j = i+1, j-1 {
		branch[i], branch[j] = branch[j], branch[i]
	}

	return branch, nil
}

// Len returns the number of stored headers
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.objects)
}
