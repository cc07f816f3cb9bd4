package types

// FormatProfile carries the field widths and layout offsets that differ
// between the 32-bit and 64-bit header/B-tree/block variants. L1 produces
// one of these and every downstream layer (L2-L10) reads it instead of
// branching on FormatVariant directly.
type FormatProfile struct {
	Variant FormatVariant

	// DataIdentifierSize is 4 for 32-bit variants, 8 for 64-bit.
	DataIdentifierSize int
	// BTreePagePointerSize mirrors DataIdentifierSize for page references.
	BTreePagePointerSize int
	// BlockFooterSize is 16 bytes (32-bit) or 24 bytes (64-bit), spec.md §4.2.
	BlockFooterSize int
	// The four *EntrySize fields give the fixed per-entry size of a B-tree
	// page for this variant (differs between Node-BTree and Block-BTree and
	// between leaf and branch pages; callers pick the field that applies).
	NodeBTreeLeafEntrySize int
	NodeBTreeBranchEntrySize int
	BlockBTreeLeafEntrySize int
	BlockBTreeBranchEntrySize int

	// PageSize is the fixed physical size (payload + footer) of a
	// Node-BTree/Block-BTree index page for this variant.
	PageSize int
}

// NewFormatProfile derives the field widths implied by a variant.
func NewFormatProfile(variant FormatVariant) FormatProfile {
	if variant.Is64Bit() {
		return FormatProfile{
			Variant:                   variant,
			DataIdentifierSize:        8,
			BTreePagePointerSize:      8,
			BlockFooterSize:           24,
			NodeBTreeLeafEntrySize:    32,
			NodeBTreeBranchEntrySize:  24,
			BlockBTreeLeafEntrySize:   24,
			BlockBTreeBranchEntrySize: 24,
			PageSize:                  4096,
		}
	}
	return FormatProfile{
		Variant:                   variant,
		DataIdentifierSize:        4,
		BTreePagePointerSize:      4,
		BlockFooterSize:           16,
		NodeBTreeLeafEntrySize:    16,
		NodeBTreeBranchEntrySize:  8,
		BlockBTreeLeafEntrySize:   12,
		BlockBTreeBranchEntrySize: 8,
		PageSize:                  512,
	}
}

// Header is the decoded fixed-size file header read at offset 0 (spec.md §4.1).
type Header struct {
	Variant          FormatVariant
	ContentType      ContentType
	Encryption       EncryptionType
	AsciiCodepage    int32
	RootNodeBTreeOffset uint64
	RootBlockBTreeOffset uint64
	Profile          FormatProfile
}
