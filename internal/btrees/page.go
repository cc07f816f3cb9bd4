// Package btrees implements L3 (spec.md §4.3): the Node-BTree and
// Block-BTree page format shared by both indexes, and the two index
// implementations built on top of it.
//
// A page is read as an ordinary physical block (L2), with the page's own
// small header and entry array standing in for the block's "payload" and no
// decryption applied - B-tree pages are never encrypted (spec.md §4.3,
// resolving the apparent L2/L3 circularity: the root page's offset and
// back-pointer come from the file header, a child page's from its parent's
// branch entry, so page fetches never need a Block-BTree lookup at all).
package btrees

import (
	"encoding/binary"
	"fmt"

	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

const pageMiniHeaderSize = 8

// page is the decoded form of one B-tree page: its header plus the raw
// bytes of its entry array (exactly header.EntryCount * header.EntrySize
// bytes, already bounds-checked).
type page struct {
	header  types.BTreePageHeader
	entries []byte
}

// decodePage parses a page payload (as returned by L2 for the page's
// physical block) and validates its structural invariants (spec.md §4.3:
// signature, level/entry-count consistency, entry size matching the
// variant's expected width for a leaf or a branch page).
func decodePage(payload []byte, leafEntrySize, branchEntrySize int) (page, error) {
	if len(payload) < pageMiniHeaderSize {
		return page{}, fmt.Errorf("btrees: page payload truncated: %w", types.ErrIndexCorrupt)
	}

	signature := payload[0]
	if signature != types.BTreePageSignature {
		return page{}, fmt.Errorf("btrees: page signature 0x%x != 0x%x: %w", signature, types.BTreePageSignature, types.ErrIndexCorrupt)
	}

	hdr := types.BTreePageHeader{
		Signature:  signature,
		Level:      payload[1],
		EntryCount: binary.LittleEndian.Uint16(payload[2:4]),
		EntrySize:  binary.LittleEndian.Uint16(payload[4:6]),
		MaxEntries: binary.LittleEndian.Uint16(payload[6:8]),
	}

	wantEntrySize := leafEntrySize
	if !hdr.IsLeaf() {
		wantEntrySize = branchEntrySize
	}
	if int(hdr.EntrySize) != wantEntrySize {
		return page{}, fmt.Errorf("btrees: entry size %d != expected %d for level %d: %w", hdr.EntrySize, wantEntrySize, hdr.Level, types.ErrIndexCorrupt)
	}
	if hdr.EntryCount > hdr.MaxEntries {
		return page{}, fmt.Errorf("btrees: entry count %d exceeds max %d: %w", hdr.EntryCount, hdr.MaxEntries, types.ErrIndexCorrupt)
	}

	entriesEnd := pageMiniHeaderSize + int(hdr.EntryCount)*int(hdr.EntrySize)
	if entriesEnd > len(payload) {
		return page{}, fmt.Errorf("btrees: entry array overruns page payload (%d > %d): %w", entriesEnd, len(payload), types.ErrIndexCorrupt)
	}

	return page{header: hdr, entries: payload[pageMiniHeaderSize:entriesEnd]}, nil
}

func (p page) entryAt(i int, entrySize int) []byte {
	return p.entries[i*entrySize : (i+1)*entrySize]
}

func (p page) count() int {
	return int(p.header.EntryCount)
}
