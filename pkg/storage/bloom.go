package storage

import (
	"encoding/binary"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/tcfw/forkchain/pkg/chain"
)

const (
	expectedHeaders = 10000
	falsePositive   = 0.01
)

func newBloom() *bloom.BloomFilter {
	return bloom.NewWithEstimates(expectedHeaders, falsePositive)
}

func digestKey(d chain.Digest) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(d))
	return b
}
