package storage

import (
	"context"

	"github.com/ipfs/go-cid"
	"github.com/tcfw/forkchain/pkg/chain"
)

const logModule = "storage"

// Store keeps headers of every branch seen so far. Headers are content
// addressed by CID and indexed by their chain digest.
type Store interface {
	PutHeader(context.Context, chain.Header) (cid.Cid, error)
	GetHeader(context.Context, cid.Cid) (*chain.Header, error)

	Lookup(context.Context, chain.Digest) (*chain.Header, error)
	Has(context.Context, chain.Digest) bool

	Tips(context.Context) ([]chain.Header, error)
	Ancestry(context.Context, chain.Digest) ([]chain.Header, error)

	//Hasher returns the hasher digests are indexed with
	Hasher() chain.Hasher
}
