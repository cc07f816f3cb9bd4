package cache

import (
	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// Default capacities. These are small relative to a real mail store
// (thousands of blocks/streams/tables) but keep the common case - opening
// a file and walking a handful of folders - entirely cache-resident; the
// public facade (pkg/pff) lets callers override them (internal/config ties
// that into the CLI).
const (
	DefaultBlockCacheCapacity  = 512
	DefaultStreamCacheCapacity = 256
	DefaultTableCacheCapacity  = 256
)

// Sizes bundles the three cache capacities named in spec.md §4.11, read
// from internal/config for the CLI and defaulted for library callers that
// don't care.
type Sizes struct {
	Blocks  int
	Streams int
	Tables  int
}

// DefaultSizes returns the package defaults.
func DefaultSizes() Sizes {
	return Sizes{Blocks: DefaultBlockCacheCapacity, Streams: DefaultStreamCacheCapacity, Tables: DefaultTableCacheCapacity}
}

// BlockReader wraps an interfaces.BlockReader with the block cache named in
// spec.md §4.11 ("Block cache (L2): key = data_identifier, value =
// decrypted bytes").
type BlockReader struct {
	next  interfaces.BlockReader
	cache *Cache[uint64, []byte]
}

var _ interfaces.BlockReader = (*BlockReader)(nil)

// NewBlockReader wraps next with an LRU cache of the given capacity.
func NewBlockReader(next interfaces.BlockReader, capacity int) *BlockReader {
	return &BlockReader{next: next, cache: New[uint64, []byte](capacity)}
}

// ReadBlock implements interfaces.BlockReader.
func (r *BlockReader) ReadBlock(dataIdentifier uint64) ([]byte, error) {
	return r.cache.GetOrInsert(dataIdentifier, func() ([]byte, error) {
		return r.next.ReadBlock(dataIdentifier)
	})
}

// Stats exposes the underlying cache's hit/miss/eviction counters.
func (r *BlockReader) Stats() Stats { return r.cache.Stats() }

// StreamAssembler wraps an interfaces.StreamAssembler with the stream cache
// named in spec.md §4.11 ("Stream cache (L4): key = data_identifier of
// stream root, value = assembled BlockTree").
type StreamAssembler struct {
	next  interfaces.StreamAssembler
	cache *Cache[uint64, *types.BlockTree]
}

var _ interfaces.StreamAssembler = (*StreamAssembler)(nil)

// NewStreamAssembler wraps next with an LRU cache of the given capacity.
func NewStreamAssembler(next interfaces.StreamAssembler, capacity int) *StreamAssembler {
	return &StreamAssembler{next: next, cache: New[uint64, *types.BlockTree](capacity)}
}

// Assemble implements interfaces.StreamAssembler.
func (a *StreamAssembler) Assemble(dataIdentifier uint64) (*types.BlockTree, error) {
	return a.cache.GetOrInsert(dataIdentifier, func() (*types.BlockTree, error) {
		return a.next.Assemble(dataIdentifier)
	})
}

// Stats exposes the underlying cache's hit/miss/eviction counters.
func (a *StreamAssembler) Stats() Stats { return a.cache.Stats() }
