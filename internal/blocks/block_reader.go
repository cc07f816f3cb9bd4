package blocks

import (
	"fmt"

	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// Reader implements interfaces.BlockReader by looking a data identifier up
// in the Block-BTree and fetching the physical block it names (spec.md
// §4.2). It holds no cache of its own; internal/cache wraps a Reader to
// supply the block cache named in spec.md §4.11.
type Reader struct {
	src        interfaces.ByteSource
	index      interfaces.BlockBTreeIndex
	encryption types.EncryptionType
	profile    types.FormatProfile
}

var _ interfaces.BlockReader = (*Reader)(nil)

// NewReader builds a block reader bound to a single file's block index,
// encryption scheme and format profile.
func NewReader(src interfaces.ByteSource, index interfaces.BlockBTreeIndex, encryption types.EncryptionType, profile types.FormatProfile) *Reader {
	return &Reader{src: src, index: index, encryption: encryption, profile: profile}
}

// ReadBlock resolves dataIdentifier through the Block-BTree and returns the
// block's verified, decrypted payload.
func (r *Reader) ReadBlock(dataIdentifier uint64) ([]byte, error) {
	entry, err := r.index.Lookup(dataIdentifier)
	if err != nil {
		return nil, fmt.Errorf("blocks: lookup %d: %w", dataIdentifier, err)
	}
	if !entry.Verify() {
		return nil, fmt.Errorf("blocks: block entry %d back-pointer does not match its own identifier: %w", dataIdentifier, types.ErrBlockBackpointer)
	}

	unencrypted := entry.IsInternal()
	return ReadPhysicalBlock(r.src, int64(entry.FileOffset), entry.Size, entry.BackPointer, r.encryption, r.profile, unencrypted)
}
