package btrees

import (
	"fmt"

	"github.com/vound-software/libpff-20120802-sub001/internal/blocks"
	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// fetchPage reads the page physically located at offset, verifying it
// against expectedBackPointer, and decodes it (spec.md §4.3). It is the one
// place L3 touches L2: every other traversal step works from an
// already-decoded page's branch entries.
func fetchPage(src interfaces.ByteSource, offset, expectedBackPointer uint64, profile types.FormatProfile, leafEntrySize, branchEntrySize int) (page, error) {
	declaredSize := uint32(profile.PageSize - profile.BlockFooterSize)
	raw, err := blocks.ReadPhysicalBlock(src, int64(offset), declaredSize, expectedBackPointer, types.EncryptionNone, profile, true)
	if err != nil {
		return page{}, fmt.Errorf("btrees: fetch page at %d: %w", offset, err)
	}
	return decodePage(raw, leafEntrySize, branchEntrySize)
}
