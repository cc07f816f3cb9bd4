// File: internal/interfaces/header.go
package interfaces

import "github.com/vound-software/libpff-20120802-sub001/internal/types"

// HeaderReader provides access to the decoded fixed-size file header (L1,
// spec.md §4.1).
type HeaderReader interface {
	Variant() types.FormatVariant
	ContentType() types.ContentType
	Encryption() types.EncryptionType
	AsciiCodepage() int32
	RootNodeBTreeOffset() uint64
	RootBlockBTreeOffset() uint64
	Profile() types.FormatProfile
}
