// Package types holds the on-disk wire structures and format constants for
// the Personal Folder File (PFF) family: PST, OST and PAB. Nothing in this
// package performs I/O; it only describes layout.
package types

// FormatVariant identifies which on-disk flavor a file header declared.
type FormatVariant int

const (
	FormatUnknown FormatVariant = iota
	FormatPST32
	FormatPST64
	FormatOST32
	FormatOST64
	FormatPAB32
	FormatPAB64
)

func (f FormatVariant) String() string {
	switch f {
	case FormatPST32:
		return "PST32"
	case FormatPST64:
		return "PST64"
	case FormatOST32:
		return "OST32"
	case FormatOST64:
		return "OST64"
	case FormatPAB32:
		return "PAB32"
	case FormatPAB64:
		return "PAB64"
	default:
		return "Unknown"
	}
}

// Is64Bit reports whether the variant uses 64-bit B-tree pointers and block
// identifiers.
func (f FormatVariant) Is64Bit() bool {
	switch f {
	case FormatPST64, FormatOST64, FormatPAB64:
		return true
	default:
		return false
	}
}

// ContentType classifies the overall store, independent of bitness.
type ContentType int

const (
	ContentUnknown ContentType = iota
	ContentPAB
	ContentPST
	ContentOST
)

func (c ContentType) String() string {
	switch c {
	case ContentPAB:
		return "PAB"
	case ContentPST:
		return "PST"
	case ContentOST:
		return "OST"
	default:
		return "Unknown"
	}
}

// EncryptionType selects the payload obfuscation applied to on-disk blocks.
type EncryptionType int

const (
	EncryptionNone EncryptionType = iota
	EncryptionPermute
	EncryptionCyclic
)

func (e EncryptionType) String() string {
	switch e {
	case EncryptionPermute:
		return "Permute"
	case EncryptionCyclic:
		return "Cyclic"
	default:
		return "None"
	}
}

// File magic and format-byte values recognized at offset 0 of the header.
const (
	FileMagicBE = 0x2142444e // "!BDN" read big-endian as a sanity constant
	FileMagic0  = '!'
	FileMagic1  = 'B'
	FileMagic2  = 'D'
	FileMagic3  = 'N'

	// Following the magic, two further signature bytes and a format byte
	// distinguish PAB/PST/OST and 32/64-bit variants.
	FileSignatureByte4 = 0x53
	FileSignatureByte5 = 0x4d
	FileSignatureByte6 = 0x0e

	FormatByteOffset = 10

	FormatByteANSI    = 0x0e
	FormatByteUnicode = 0x17
)

// Overall header sizes. Exact field offsets within the header are an
// internal/header concern (they never cross the package boundary).
const (
	HeaderSizeANSI    = 512
	HeaderSizeUnicode = 564
)

// NodeType is encoded in the low 5 bits of a 32-bit descriptor identifier.
type NodeType uint8

const (
	NodeTypeHierarchyTable        NodeType = 0x01
	NodeTypeContentsTable         NodeType = 0x02
	NodeTypeAssociatedContents    NodeType = 0x03
	NodeTypeSearchContentsTable   NodeType = 0x04
	NodeTypeAttachmentsTable      NodeType = 0x05
	NodeTypeRecipientsTable       NodeType = 0x06
	NodeTypeSearchTable           NodeType = 0x07
	NodeTypeFolder                NodeType = 0x08
	NodeTypeMessage               NodeType = 0x09
	NodeTypeAttachment            NodeType = 0x0A
	NodeTypeSearchFolder          NodeType = 0x0B
	NodeTypeMessageStore          NodeType = 0x0C
	NodeTypeLocalDescriptorsTable NodeType = 0x0D
	NodeTypeNameToIDMap           NodeType = 0x0E
)

const nodeTypeMask = 0x1f

// NodeTypeOf extracts the node type from a descriptor identifier.
func NodeTypeOf(descriptorID uint32) NodeType {
	return NodeType(descriptorID & nodeTypeMask)
}

func (n NodeType) String() string {
	switch n {
	case NodeTypeHierarchyTable:
		return "HierarchyTable"
	case NodeTypeContentsTable:
		return "ContentsTable"
	case NodeTypeAssociatedContents:
		return "AssociatedContentsTable"
	case NodeTypeSearchContentsTable:
		return "SearchContentsTable"
	case NodeTypeAttachmentsTable:
		return "AttachmentsTable"
	case NodeTypeRecipientsTable:
		return "RecipientsTable"
	case NodeTypeSearchTable:
		return "SearchTable"
	case NodeTypeFolder:
		return "Folder"
	case NodeTypeMessage:
		return "Message"
	case NodeTypeAttachment:
		return "Attachment"
	case NodeTypeSearchFolder:
		return "SearchFolder"
	case NodeTypeMessageStore:
		return "MessageStore"
	case NodeTypeLocalDescriptorsTable:
		return "LocalDescriptorsTable"
	case NodeTypeNameToIDMap:
		return "NameToIDMap"
	default:
		return "Unknown"
	}
}

// Well-known descriptor identifiers (spec.md §4.9).
const (
	DescriptorIDMessageStore  uint32 = 0x21
	DescriptorIDRootFolder    uint32 = 0x122
	DescriptorIDNameToIDMap   uint32 = 0x61
)

// Fixed offsets added to a folder's descriptor id to find its sub-tables
// (spec.md §4.9).
const (
	SubFolderTableOffset            uint32 = 11
	SubMessageTableOffset           uint32 = 12
	SubAssociatedContentTableOffset uint32 = 13
)

// Local-descriptor well-known sub-ids (spec.md §4.5).
const (
	LocalDescriptorIDAttachments uint32 = 0x671
	LocalDescriptorIDRecipients  uint32 = 0x692
	LocalDescriptorIDUnknown1718 uint32 = 0x1718

	// NameToIdMap sub-streams, hung off the name-id-map descriptor's own
	// local-descriptor tree (spec.md §3 NameToIdMap, §4.8 step 1). The
	// entry stream carries one fixed record per mapped property; the GUID
	// and string streams hold the variable-length payloads entries in the
	// GUID/string-keyed namespaces point into.
	LocalDescriptorIDNameToIdGUIDStream   uint32 = 0x0002
	LocalDescriptorIDNameToIdEntryStream  uint32 = 0x0003
	LocalDescriptorIDNameToIdStringStream uint32 = 0x0004
)

// Block identifier conventions (spec.md §3 BlockEntry / §4.4).
const (
	// BlockIDInternalFlag: low bit clear marks an "internal" block tree node
	// whose payload is a list of child identifiers rather than data.
	BlockIDInternalFlag uint64 = 0x1

	MaxPhysicalBlockSize = 8 * 1024 * 1024 // 8 MiB cap, spec.md §4.2
	MaxStreamSize        = 2 * 1024 * 1024 * 1024 // 2 GiB cap, spec.md §9
	MaxBlockTreeDepth     = 4
)

// Table variant signature bytes (spec.md §4.7, §6).
const (
	TableSignature6c byte = 0x6c
	TableSignature7c byte = 0x7c
	TableSignature9c byte = 0x9c
	TableSignatureAc byte = 0xac
	TableSignatureBc byte = 0xbc
)

// Heap-on-Node signature (spec.md §4.6, §6).
const HeapSignature byte = 0xec

// Value type identifiers for MAPI property tags (low 16 bits of a 32-bit
// property tag).
type ValueType uint16

const (
	ValueTypeUnspecified ValueType = 0x0000
	ValueTypeBoolean     ValueType = 0x000B
	ValueTypeInteger16   ValueType = 0x0002
	ValueTypeInteger32   ValueType = 0x0003
	ValueTypeFloat32     ValueType = 0x0004
	ValueTypeFloat64     ValueType = 0x0005
	ValueTypeCurrency    ValueType = 0x0006
	ValueTypeFloatTime   ValueType = 0x0007
	ValueTypeErrorCode   ValueType = 0x000A
	ValueTypeObject      ValueType = 0x000D
	ValueTypeInteger64   ValueType = 0x0014
	ValueTypeStringASCII ValueType = 0x001E
	ValueTypeStringUnicode ValueType = 0x001F
	ValueTypeFiletime    ValueType = 0x0040
	ValueTypeGUID        ValueType = 0x0048
	ValueTypeServerID    ValueType = 0x00FB
	ValueTypeRestriction ValueType = 0x00FD
	ValueTypeRuleAction  ValueType = 0x00FE
	ValueTypeBinary      ValueType = 0x0102

	// MultiValueFlag marks a value_type as a multi-valued array of the base
	// type obtained by clearing this bit.
	MultiValueFlag ValueType = 0x1000
)

// IsMultiValue reports whether the flag bit for multi-valued properties is set.
func (v ValueType) IsMultiValue() bool {
	return v&MultiValueFlag != 0
}

// BaseType strips the multi-value flag.
func (v ValueType) BaseType() ValueType {
	return v &^ MultiValueFlag
}

// Well-known MAPI property ids referenced by the item tree builder and body
// accessors (spec.md §4.9, §9 supplements).
const (
	PidTagDisplayName           uint16 = 0x3001
	PidTagContainerClass        uint16 = 0x3613
	PidTagContentCount          uint16 = 0x3602
	PidTagContentUnreadCount    uint16 = 0x3603
	PidTagSubfolders            uint16 = 0x360A
	PidTagMessageCodepage       uint16 = 0x3FFD
	PidTagInternetCodepage      uint16 = 0x3FDE
	PidTagBody                  uint16 = 0x1000
	PidTagRtfCompressed         uint16 = 0x1009
	PidTagHtml                  uint16 = 0x1013
	PidTagAttachMethod          uint16 = 0x3705
	PidTagRecipientType         uint16 = 0x0C15
	PidTagEmailAddress          uint16 = 0x3003
	PidTagSendRichInfo          uint16 = 0x3A40
	PidTagSubject               uint16 = 0x0037
	PidTagSenderName            uint16 = 0x0C1A
	PidTagClientSubmitTime      uint16 = 0x0039
	PidTagMessageDeliveryTime   uint16 = 0x0E06
	PidTagAttachFilename        uint16 = 0x3704
	PidTagAttachLongFilename    uint16 = 0x3707
	PidTagAttachSize            uint16 = 0x0E20
	PidTagAttachDataBinary      uint16 = 0x3701
)

// AttachMethod values for PidTagAttachMethod (spec.md §9 supplement #1).
const (
	AttachMethodNone           uint32 = 0
	AttachMethodByValue        uint32 = 1
	AttachMethodByReference    uint32 = 2
	AttachMethodByReferenceOnly uint32 = 4
	AttachMethodEmbeddedMessage uint32 = 5
	AttachMethodOLE            uint32 = 6
)
