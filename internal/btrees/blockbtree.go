package btrees

import (
	"encoding/binary"
	"fmt"

	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// BlockBTreeIndex resolves data identifiers via the file's Block-BTree
// (spec.md §4.3), the index L2's block reader looks entries up in.
type BlockBTreeIndex struct {
	src             interfaces.ByteSource
	profile         types.FormatProfile
	rootOffset      uint64
	rootBackPointer uint64
}

var _ interfaces.BlockBTreeIndex = (*BlockBTreeIndex)(nil)

// NewBlockBTreeIndex binds an index to the root page coordinates taken from
// the file header (spec.md §4.1 RootBlockBTreeOffset).
func NewBlockBTreeIndex(src interfaces.ByteSource, rootOffset, rootBackPointer uint64, profile types.FormatProfile) *BlockBTreeIndex {
	return &BlockBTreeIndex{src: src, profile: profile, rootOffset: rootOffset, rootBackPointer: rootBackPointer}
}

func (idx *BlockBTreeIndex) fetch(offset, backPointer uint64) (page, error) {
	return fetchPage(idx.src, offset, backPointer, idx.profile, idx.profile.BlockBTreeLeafEntrySize, idx.profile.BlockBTreeBranchEntrySize)
}

func decodeBlockLeaf(buf []byte, entrySize int) types.BlockBTreeLeafEntry {
	var e types.BlockBTreeLeafEntry
	if entrySize >= 24 {
		e.DataIdentifier = binary.LittleEndian.Uint64(buf[0:8])
		e.FileOffset = binary.LittleEndian.Uint64(buf[8:16])
		e.Size = binary.LittleEndian.Uint32(buf[16:20])
	} else {
		e.DataIdentifier = uint64(binary.LittleEndian.Uint32(buf[0:4]))
		e.FileOffset = uint64(binary.LittleEndian.Uint32(buf[4:8]))
		e.Size = binary.LittleEndian.Uint32(buf[8:12])
	}
	// BackPointer is never stored: the format invariant requires it equal
	// DataIdentifier (spec.md §3 BlockEntry invariant 1).
	e.BackPointer = e.DataIdentifier
	return e
}

func decodeBlockBranch(buf []byte, entrySize int) types.BlockBTreeBranchEntry {
	var e types.BlockBTreeBranchEntry
	if entrySize >= 24 {
		e.SeparatorKey = binary.LittleEndian.Uint64(buf[0:8])
		e.ChildPageOffset = binary.LittleEndian.Uint64(buf[8:16])
		e.ChildBackPointer = binary.LittleEndian.Uint64(buf[16:24])
	} else {
		e.SeparatorKey = uint64(binary.LittleEndian.Uint32(buf[0:4]))
		e.ChildPageOffset = uint64(binary.LittleEndian.Uint32(buf[4:8]))
		e.ChildBackPointer = e.ChildPageOffset
	}
	return e
}

// Lookup implements interfaces.BlockBTreeIndex.
func (idx *BlockBTreeIndex) Lookup(dataIdentifier uint64) (types.BlockEntry, error) {
	offset, backPointer := idx.rootOffset, idx.rootBackPointer
	for {
		p, err := idx.fetch(offset, backPointer)
		if err != nil {
			return types.BlockEntry{}, err
		}
		if p.header.IsLeaf() {
			for i := 0; i < p.count(); i++ {
				e := decodeBlockLeaf(p.entryAt(i, idx.profile.BlockBTreeLeafEntrySize), idx.profile.BlockBTreeLeafEntrySize)
				if e.DataIdentifier == dataIdentifier {
					return types.BlockEntry{
						DataIdentifier: e.DataIdentifier,
						FileOffset:     e.FileOffset,
						Size:           e.Size,
						BackPointer:    e.BackPointer,
					}, nil
				}
			}
			return types.BlockEntry{}, fmt.Errorf("btrees: data identifier %d: %w", dataIdentifier, types.ErrBlockNotFound)
		}

		child, ok := chooseChild(p, idx.profile.BlockBTreeBranchEntrySize, func(i int) (uint64, types.BlockBTreeBranchEntry) {
			e := decodeBlockBranch(p.entryAt(i, idx.profile.BlockBTreeBranchEntrySize), idx.profile.BlockBTreeBranchEntrySize)
			return e.SeparatorKey, e
		}, dataIdentifier)
		if !ok {
			return types.BlockEntry{}, fmt.Errorf("btrees: data identifier %d: %w", dataIdentifier, types.ErrBlockNotFound)
		}
		offset, backPointer = child.ChildPageOffset, child.ChildBackPointer
	}
}

// Range implements interfaces.BlockBTreeIndex.
func (idx *BlockBTreeIndex) Range(low, high uint64) ([]types.BlockEntry, error) {
	all, err := idx.All()
	if err != nil {
		return nil, err
	}
	var out []types.BlockEntry
	for _, e := range all {
		if e.DataIdentifier >= low && e.DataIdentifier <= high {
			out = append(out, e)
		}
	}
	return out, nil
}

// All implements interfaces.BlockBTreeIndex.
func (idx *BlockBTreeIndex) All() ([]types.BlockEntry, error) {
	var out []types.BlockEntry
	err := idx.walk(idx.rootOffset, idx.rootBackPointer, func(e types.BlockBTreeLeafEntry) {
		out = append(out, types.BlockEntry{
			DataIdentifier: e.DataIdentifier,
			FileOffset:     e.FileOffset,
			Size:           e.Size,
			BackPointer:    e.BackPointer,
		})
	})
	return out, err
}

func (idx *BlockBTreeIndex) walk(offset, backPointer uint64, visit func(types.BlockBTreeLeafEntry)) error {
	p, err := idx.fetch(offset, backPointer)
	if err != nil {
		return err
	}
	if p.header.IsLeaf() {
		for i := 0; i < p.count(); i++ {
			visit(decodeBlockLeaf(p.entryAt(i, idx.profile.BlockBTreeLeafEntrySize), idx.profile.BlockBTreeLeafEntrySize))
		}
		return nil
	}
	for i := 0; i < p.count(); i++ {
		e := decodeBlockBranch(p.entryAt(i, idx.profile.BlockBTreeBranchEntrySize), idx.profile.BlockBTreeBranchEntrySize)
		if err := idx.walk(e.ChildPageOffset, e.ChildBackPointer, visit); err != nil {
			return err
		}
	}
	return nil
}
