// Package memory provides the in-memory tx-hash index used by tests and
// ephemeral deployments.
package memory

import (
	"context"
	"sync"

	"provencore/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.TxHashIndex = (*Index)(nil)

// Index maps batch ids to creation transaction hashes.
type Index struct {
	mu     sync.RWMutex
	hashes map[uint64]string
}

// NewIndex constructs an empty index.
func NewIndex() *Index {
	return &Index{hashes: make(map[uint64]string)}
}

// Put records the creation transaction hash for a batch.
func (i *Index) Put(id uint64, hash string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.hashes[id] = hash
}

// TxHashForBatch implements domain.TxHashIndex.
func (i *Index) TxHashForBatch(_ context.Context, id uint64) (string, bool, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	h, ok := i.hashes[id]
	return h, ok, nil
}
