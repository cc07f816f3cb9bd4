// File: internal/interfaces/btrees.go
package interfaces

import "github.com/vound-software/libpff-20120802-sub001/internal/types"

// BTreePageReader decodes a single B-tree page (spec.md §4.3). Both the
// Node-BTree and the Block-BTree share this page layout; only the key/value
// widths and semantics differ, which live in the page's entries.
type BTreePageReader interface {
	Header() types.BTreePageHeader
	IsLeaf() bool
	// EntryCount is the declared number of entries on this page.
	EntryCount() int
}

// NodeBTreeIndex resolves descriptor identifiers to their Node-BTree leaf
// value (spec.md §3 Descriptor, §4.3).
type NodeBTreeIndex interface {
	// Lookup finds the descriptor with the given id. Returns
	// types.ErrDescriptorNotFound if absent.
	Lookup(descriptorID uint32) (types.Descriptor, error)
	// Range returns every descriptor whose id is in [low, high], in
	// ascending key order. Used by the recovery scanner and by full-tree
	// enumeration (spec.md §4.9).
	Range(low, high uint32) ([]types.Descriptor, error)
	// All returns every descriptor in ascending key order.
	All() ([]types.Descriptor, error)
}

// BlockBTreeIndex resolves data identifiers to their Block-BTree leaf value
// (spec.md §3 BlockEntry, §4.3).
type BlockBTreeIndex interface {
	Lookup(dataIdentifier uint64) (types.BlockEntry, error)
	Range(low, high uint64) ([]types.BlockEntry, error)
	All() ([]types.BlockEntry, error)
}
