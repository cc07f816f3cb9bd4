package btrees

import (
	"encoding/binary"
	"fmt"

	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// NodeBTreeIndex resolves descriptor identifiers via the file's Node-BTree
// (spec.md §4.3). It holds no decoded state beyond the root page's
// coordinates; every Lookup/Range/All call re-walks the tree and reads each
// page from the ByteSource again (page fetches are not cached).
type NodeBTreeIndex struct {
	src             interfaces.ByteSource
	profile         types.FormatProfile
	rootOffset      uint64
	rootBackPointer uint64
}

var _ interfaces.NodeBTreeIndex = (*NodeBTreeIndex)(nil)

// NewNodeBTreeIndex binds an index to the root page coordinates taken from
// the file header (spec.md §4.1 RootNodeBTreeOffset).
func NewNodeBTreeIndex(src interfaces.ByteSource, rootOffset, rootBackPointer uint64, profile types.FormatProfile) *NodeBTreeIndex {
	return &NodeBTreeIndex{src: src, profile: profile, rootOffset: rootOffset, rootBackPointer: rootBackPointer}
}

func (idx *NodeBTreeIndex) fetch(offset, backPointer uint64) (page, error) {
	return fetchPage(idx.src, offset, backPointer, idx.profile, idx.profile.NodeBTreeLeafEntrySize, idx.profile.NodeBTreeBranchEntrySize)
}

func decodeNodeLeaf(buf []byte, entrySize int) types.NodeBTreeLeafEntry {
	var e types.NodeBTreeLeafEntry
	e.DescriptorID = binary.LittleEndian.Uint32(buf[0:4])
	if entrySize >= 32 {
		// 64-bit layout: id(4) pad(4) data_id(8) local_desc_id(8) parent(4) pad(4).
		e.DataIdentifier = binary.LittleEndian.Uint64(buf[8:16])
		e.LocalDescriptorsID = binary.LittleEndian.Uint64(buf[16:24])
		e.ParentID = binary.LittleEndian.Uint32(buf[24:28])
	} else {
		// 32-bit layout packs every field into 4 bytes, no padding.
		e.DataIdentifier = uint64(binary.LittleEndian.Uint32(buf[4:8]))
		e.LocalDescriptorsID = uint64(binary.LittleEndian.Uint32(buf[8:12]))
		e.ParentID = binary.LittleEndian.Uint32(buf[12:16])
	}
	return e
}

func decodeNodeBranch(buf []byte, entrySize int) types.NodeBTreeBranchEntry {
	var e types.NodeBTreeBranchEntry
	e.SeparatorKey = binary.LittleEndian.Uint32(buf[0:4])
	if entrySize >= 24 {
		e.ChildPageOffset = binary.LittleEndian.Uint64(buf[8:16])
		e.ChildBackPointer = binary.LittleEndian.Uint64(buf[16:24])
	} else {
		// 32-bit branch entries have no room for a separate back-pointer
		// field; the child offset doubles as the expected back-pointer.
		e.ChildPageOffset = uint64(binary.LittleEndian.Uint32(buf[4:8]))
		e.ChildBackPointer = e.ChildPageOffset
	}
	return e
}

// Lookup implements interfaces.NodeBTreeIndex.
func (idx *NodeBTreeIndex) Lookup(descriptorID uint32) (types.Descriptor, error) {
	offset, backPointer := idx.rootOffset, idx.rootBackPointer
	for {
		p, err := idx.fetch(offset, backPointer)
		if err != nil {
			return types.Descriptor{}, err
		}
		if p.header.IsLeaf() {
			for i := 0; i < p.count(); i++ {
				e := decodeNodeLeaf(p.entryAt(i, idx.profile.NodeBTreeLeafEntrySize), idx.profile.NodeBTreeLeafEntrySize)
				if e.DescriptorID == descriptorID {
					return types.Descriptor{
						ID:                 e.DescriptorID,
						DataIdentifier:     e.DataIdentifier,
						LocalDescriptorsID: e.LocalDescriptorsID,
						ParentID:           e.ParentID,
					}, nil
				}
			}
			return types.Descriptor{}, fmt.Errorf("btrees: descriptor %d: %w", descriptorID, types.ErrDescriptorNotFound)
		}

		child, ok := chooseChild(p, idx.profile.NodeBTreeBranchEntrySize, func(i int) (uint32, types.NodeBTreeBranchEntry) {
			e := decodeNodeBranch(p.entryAt(i, idx.profile.NodeBTreeBranchEntrySize), idx.profile.NodeBTreeBranchEntrySize)
			return e.SeparatorKey, e
		}, descriptorID)
		if !ok {
			return types.Descriptor{}, fmt.Errorf("btrees: descriptor %d: %w", descriptorID, types.ErrDescriptorNotFound)
		}
		offset, backPointer = child.ChildPageOffset, child.ChildBackPointer
	}
}

// chooseChild picks the branch entry to descend into for key: the entry
// with the largest separator key <= key, matching the convention that a
// branch's separator is the smallest key reachable through its child
// (spec.md §4.3). Returns ok=false only for an empty branch page, which is
// itself a structural error the caller reports as "not found".
func chooseChild[K ~uint32 | ~uint64, E any](p page, entrySize int, decode func(i int) (K, E), key K) (E, bool) {
	var best E
	found := false
	for i := 0; i < p.count(); i++ {
		sep, e := decode(i)
		if sep <= key {
			best = e
			found = true
			continue
		}
		break
	}
	if !found && p.count() > 0 {
		_, best = decode(0)
		found = true
	}
	return best, found
}

// ScanCandidateLeafPage attempts to interpret payload (already footer-
// verified and decrypted by the caller) as a Node-BTree leaf page and
// reports the descriptors it contains, or ok=false if its structural
// invariants don't hold (spec.md §4.10 step 2: "plausible entry count,
// monotone keys"). Used by the recovery scanner; ordinary traversal never
// calls this since it already knows a page is one from its parent link.
func ScanCandidateLeafPage(payload []byte, profile types.FormatProfile) ([]types.Descriptor, bool) {
	p, err := decodePage(payload, profile.NodeBTreeLeafEntrySize, profile.NodeBTreeBranchEntrySize)
	if err != nil || !p.header.IsLeaf() {
		return nil, false
	}

	out := make([]types.Descriptor, 0, p.count())
	var prev uint32
	for i := 0; i < p.count(); i++ {
		e := decodeNodeLeaf(p.entryAt(i, profile.NodeBTreeLeafEntrySize), profile.NodeBTreeLeafEntrySize)
		if i > 0 && e.DescriptorID <= prev {
			return nil, false
		}
		prev = e.DescriptorID
		out = append(out, types.Descriptor{
			ID:                 e.DescriptorID,
			DataIdentifier:     e.DataIdentifier,
			LocalDescriptorsID: e.LocalDescriptorsID,
			ParentID:           e.ParentID,
		})
	}
	return out, true
}

// Range implements interfaces.NodeBTreeIndex.
func (idx *NodeBTreeIndex) Range(low, high uint32) ([]types.Descriptor, error) {
	all, err := idx.All()
	if err != nil {
		return nil, err
	}
	var out []types.Descriptor
	for _, d := range all {
		if d.ID >= low && d.ID <= high {
			out = append(out, d)
		}
	}
	return out, nil
}

// All implements interfaces.NodeBTreeIndex.
func (idx *NodeBTreeIndex) All() ([]types.Descriptor, error) {
	var out []types.Descriptor
	err := idx.walk(idx.rootOffset, idx.rootBackPointer, func(e types.NodeBTreeLeafEntry) {
		out = append(out, types.Descriptor{
			ID:                 e.DescriptorID,
			DataIdentifier:     e.DataIdentifier,
			LocalDescriptorsID: e.LocalDescriptorsID,
			ParentID:           e.ParentID,
		})
	})
	return out, err
}

func (idx *NodeBTreeIndex) walk(offset, backPointer uint64, visit func(types.NodeBTreeLeafEntry)) error {
	p, err := idx.fetch(offset, backPointer)
	if err != nil {
		return err
	}
	if p.header.IsLeaf() {
		for i := 0; i < p.count(); i++ {
			visit(decodeNodeLeaf(p.entryAt(i, idx.profile.NodeBTreeLeafEntrySize), idx.profile.NodeBTreeLeafEntrySize))
		}
		return nil
	}
	for i := 0; i < p.count(); i++ {
		e := decodeNodeBranch(p.entryAt(i, idx.profile.NodeBTreeBranchEntrySize), idx.profile.NodeBTreeBranchEntrySize)
		if err := idx.walk(e.ChildPageOffset, e.ChildBackPointer, visit); err != nil {
			return err
		}
	}
	return nil
}
