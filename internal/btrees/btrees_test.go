package btrees

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"testing"

	"github.com/vound-software/libpff-20120802-sub001/internal/bytesource"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// weakChecksum16Exported and crc32Exported mirror internal/blocks' unexported
// footer checks so fixtures built here verify the same way ReadPhysicalBlock
// will check them.
func weakChecksum16Exported(data []byte) uint16 {
	var sum uint16
	for _, b := range data {
		sum = (sum << 1) | (sum >> 15)
		sum += uint16(b)
	}
	return sum
}

func crc32Exported(data []byte) uint32 {
	return crc32.Checksum(data, crc32.MakeTable(crc32.Castagnoli))
}

// buildPage lays out a full physical page: mini-header + entries, padded to
// the variant's payload size, followed by a BlockFooter-style trailer. It
// mirrors buildBlock in internal/blocks but stays local so this package's
// tests don't need to depend on internal/blocks internals.
func buildPage(profile types.FormatProfile, level uint8, entrySize int, maxEntries int, entries [][]byte, backPointer uint64) []byte {
	payloadSize := profile.PageSize - profile.BlockFooterSize
	payload := make([]byte, payloadSize)
	payload[0] = types.BTreePageSignature
	payload[1] = level
	binary.LittleEndian.PutUint16(payload[2:4], uint16(len(entries)))
	binary.LittleEndian.PutUint16(payload[4:6], uint16(entrySize))
	binary.LittleEndian.PutUint16(payload[6:8], uint16(maxEntries))
	off := pageMiniHeaderSize
	for _, e := range entries {
		copy(payload[off:off+len(e)], e)
		off += len(e)
	}

	footer := make([]byte, profile.BlockFooterSize)
	binary.LittleEndian.PutUint16(footer[0:2], uint16(payloadSize))
	sig := weakChecksum16Exported(payload)
	binary.LittleEndian.PutUint16(footer[2:4], sig)
	if profile.BlockFooterSize == 24 {
		binary.LittleEndian.PutUint64(footer[4:12], backPointer)
		binary.LittleEndian.PutUint32(footer[12:16], crc32Exported(payload))
	} else {
		binary.LittleEndian.PutUint32(footer[4:8], uint32(backPointer))
		binary.LittleEndian.PutUint32(footer[8:12], crc32Exported(payload))
	}

	return append(payload, footer...)
}

func nodeLeafBytes64(descID uint32, dataID, localDescID uint64, parentID uint32) []byte {
	b := make([]byte, 32)
	binary.LittleEndian.PutUint32(b[0:4], descID)
	binary.LittleEndian.PutUint64(b[8:16], dataID)
	binary.LittleEndian.PutUint64(b[16:24], localDescID)
	binary.LittleEndian.PutUint32(b[24:28], parentID)
	return b
}

func nodeBranchBytes64(sep uint32, childOffset, childBackPointer uint64) []byte {
	b := make([]byte, 24)
	binary.LittleEndian.PutUint32(b[0:4], sep)
	binary.LittleEndian.PutUint64(b[8:16], childOffset)
	binary.LittleEndian.PutUint64(b[16:24], childBackPointer)
	return b
}

func TestNodeBTreeIndex_Lookup_LeafRoot(t *testing.T) {
	profile := types.NewFormatProfile(types.FormatPST64)
	entries := [][]byte{
		nodeLeafBytes64(0x21, 0x100, 0, 0),
		nodeLeafBytes64(0x122, 0x200, 0x300, 0x21),
	}
	buf := buildPage(profile, 0, 32, 4, entries, 0)
	src := bytesource.NewMemoryByteSource(buf)

	idx := NewNodeBTreeIndex(src, 0, 0, profile)
	d, err := idx.Lookup(0x122)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.DataIdentifier != 0x200 || d.LocalDescriptorsID != 0x300 || d.ParentID != 0x21 {
		t.Fatalf("unexpected descriptor: %+v", d)
	}
}

func TestNodeBTreeIndex_Lookup_NotFound(t *testing.T) {
	profile := types.NewFormatProfile(types.FormatPST64)
	entries := [][]byte{nodeLeafBytes64(0x21, 0x100, 0, 0)}
	buf := buildPage(profile, 0, 32, 4, entries, 0)
	idx := NewNodeBTreeIndex(bytesource.NewMemoryByteSource(buf), 0, 0, profile)

	_, err := idx.Lookup(0x999)
	if !errors.Is(err, types.ErrDescriptorNotFound) {
		t.Fatalf("expected ErrDescriptorNotFound, got %v", err)
	}
}

func TestNodeBTreeIndex_Lookup_TwoLevel(t *testing.T) {
	profile := types.NewFormatProfile(types.FormatPST64)
	pageSize := profile.PageSize

	leafA := buildPage(profile, 0, 32, 4, [][]byte{nodeLeafBytes64(0x10, 0xA, 0, 0)}, 0xAAAA)
	leafB := buildPage(profile, 0, 32, 4, [][]byte{nodeLeafBytes64(0x50, 0xB, 0, 0)}, 0xBBBB)

	rootOffset := int64(2 * pageSize)
	root := buildPage(profile, 1, 24, 4, [][]byte{
		nodeBranchBytes64(0x0, 0, 0xAAAA),
		nodeBranchBytes64(0x30, uint64(pageSize), 0xBBBB),
	}, 0)

	buf := make([]byte, 3*pageSize)
	copy(buf[0:], leafA)
	copy(buf[pageSize:], leafB)
	copy(buf[rootOffset:], root)

	idx := NewNodeBTreeIndex(bytesource.NewMemoryByteSource(buf), uint64(rootOffset), 0, profile)

	d, err := idx.Lookup(0x10)
	if err != nil {
		t.Fatalf("lookup 0x10: %v", err)
	}
	if d.DataIdentifier != 0xA {
		t.Fatalf("expected data id 0xA, got %x", d.DataIdentifier)
	}

	d, err = idx.Lookup(0x50)
	if err != nil {
		t.Fatalf("lookup 0x50: %v", err)
	}
	if d.DataIdentifier != 0xB {
		t.Fatalf("expected data id 0xB, got %x", d.DataIdentifier)
	}
}

func TestNodeBTreeIndex_All(t *testing.T) {
	profile := types.NewFormatProfile(types.FormatPST64)
	entries := [][]byte{
		nodeLeafBytes64(0x21, 0x1, 0, 0),
		nodeLeafBytes64(0x22, 0x2, 0, 0),
		nodeLeafBytes64(0x23, 0x3, 0, 0),
	}
	buf := buildPage(profile, 0, 32, 8, entries, 0)
	idx := NewNodeBTreeIndex(bytesource.NewMemoryByteSource(buf), 0, 0, profile)

	all, err := idx.All()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 descriptors, got %d", len(all))
	}
}

func TestDecodePage_BadSignature(t *testing.T) {
	payload := make([]byte, 64)
	payload[0] = 0x00 // not types.BTreePageSignature
	_, err := decodePage(payload, 32, 24)
	if !errors.Is(err, types.ErrIndexCorrupt) {
		t.Fatalf("expected ErrIndexCorrupt, got %v", err)
	}
}

func TestDecodePage_EntrySizeMismatch(t *testing.T) {
	payload := make([]byte, 64)
	payload[0] = types.BTreePageSignature
	payload[1] = 0 // leaf
	binary.LittleEndian.PutUint16(payload[4:6], 16)
	_, err := decodePage(payload, 32, 24)
	if !errors.Is(err, types.ErrIndexCorrupt) {
		t.Fatalf("expected ErrIndexCorrupt, got %v", err)
	}
}

func TestDecodePage_EntryCountExceedsMax(t *testing.T) {
	payload := make([]byte, 64)
	payload[0] = types.BTreePageSignature
	binary.LittleEndian.PutUint16(payload[2:4], 5)
	binary.LittleEndian.PutUint16(payload[4:6], 32)
	binary.LittleEndian.PutUint16(payload[6:8], 2)
	_, err := decodePage(payload, 32, 24)
	if !errors.Is(err, types.ErrIndexCorrupt) {
		t.Fatalf("expected ErrIndexCorrupt, got %v", err)
	}
}
