package types

// Descriptor is an entry of the Node-BTree (spec.md §3 Descriptor).
type Descriptor struct {
	ID                  uint32
	DataIdentifier       uint64
	LocalDescriptorsID   uint64
	ParentID             uint32
}

// NodeType reports the node type encoded in the descriptor's low 5 bits.
func (d Descriptor) NodeType() NodeType {
	return NodeTypeOf(d.ID)
}

// HasLocalDescriptors reports whether the descriptor has an attached
// local-descriptor tree (spec.md §3 LocalDescriptorTree).
func (d Descriptor) HasLocalDescriptors() bool {
	return d.LocalDescriptorsID != 0
}

// BlockEntry is an entry of the Block-BTree (spec.md §3 BlockEntry).
type BlockEntry struct {
	DataIdentifier uint64
	FileOffset     uint64
	Size           uint32
	BackPointer    uint64
}

// IsInternal reports whether the data identifier's low bit marks this as an
// "internal" block-tree node (a list of child identifiers) rather than an
// external payload block (spec.md §3, §4.4).
func (b BlockEntry) IsInternal() bool {
	return b.DataIdentifier&BlockIDInternalFlag == 0
}

// Verify checks the back-pointer integrity invariant (spec.md §3 invariant 1).
func (b BlockEntry) Verify() bool {
	return b.BackPointer == b.DataIdentifier
}

// LocalDescriptorEntry is a leaf of a per-descriptor LocalDescriptorTree
// (spec.md §3 LocalDescriptorTree, §4.5).
type LocalDescriptorEntry struct {
	SubDescriptorID          uint32
	SubDataIdentifier         uint64
	NestedLocalDescriptorsID  uint64
}
