// Package blocks implements the physical block layer (L2, spec.md §4.2):
// reading a fixed-size region of the file, verifying its footer, and
// decrypting its payload. Both the Block-BTree-indexed data blocks and the
// raw B-tree index pages (L3) are read through the same routine here, since
// they share one on-disk block shape (spec.md §4.3 "each B-tree page lives
// in a block read via L2").
package blocks

import (
	"encoding/binary"
	"fmt"

	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// ReadPhysicalBlock fetches declaredSize bytes at offset plus a trailing
// footer, verifies the footer's back-pointer/checksum/CRC, and returns the
// decrypted payload (spec.md §4.2). unencrypted lets a caller (the B-tree
// page reader, and Reader.ReadBlock for internal block-tree nodes) skip
// decryption for blocks the format never encrypts.
func ReadPhysicalBlock(src interfaces.ByteSource, offset int64, declaredSize uint32, backPointer uint64, encryption types.EncryptionType, profile types.FormatProfile, unencrypted bool) ([]byte, error) {
	if declaredSize > types.MaxPhysicalBlockSize {
		return nil, fmt.Errorf("blocks: declared size %d exceeds cap %d: %w", declaredSize, types.MaxPhysicalBlockSize, types.ErrBlockTooLarge)
	}

	total := int(declaredSize) + profile.BlockFooterSize
	raw, err := src.ReadAt(offset, total)
	if err != nil {
		return nil, fmt.Errorf("blocks: read %d bytes at %d: %w", total, offset, err)
	}

	footer, err := parseFooter(raw[declaredSize:], profile)
	if err != nil {
		return nil, err
	}

	if footer.BackPointer != backPointer {
		return nil, fmt.Errorf("blocks: back-pointer mismatch (footer 0x%x, expected 0x%x): %w", footer.BackPointer, backPointer, types.ErrBlockBackpointer)
	}

	if int(footer.PayloadSize) > len(raw) || int(footer.PayloadSize) > int(declaredSize) {
		return nil, fmt.Errorf("blocks: payload size %d exceeds declared block size %d: %w", footer.PayloadSize, declaredSize, types.ErrBlockCorrupt)
	}
	payload := raw[:footer.PayloadSize]

	if weakChecksum16(payload) != footer.Signature {
		return nil, fmt.Errorf("blocks: weak checksum mismatch for back-pointer 0x%x: %w", backPointer, types.ErrBlockChecksum)
	}
	if blockCRC32(payload) != footer.CRC {
		return nil, fmt.Errorf("blocks: CRC mismatch for back-pointer 0x%x: %w", backPointer, types.ErrBlockChecksum)
	}

	if unencrypted {
		out := make([]byte, len(payload))
		copy(out, payload)
		return out, nil
	}

	switch encryption {
	case types.EncryptionNone:
		out := make([]byte, len(payload))
		copy(out, payload)
		return out, nil
	case types.EncryptionPermute:
		return PermuteDecrypt(payload), nil
	case types.EncryptionCyclic:
		return CyclicDecrypt(payload, backPointer), nil
	default:
		return nil, fmt.Errorf("blocks: unknown encryption type %v: %w", encryption, types.ErrBlockCorrupt)
	}
}

// TryReadBlockAt attempts to read and validate a block at offset without
// knowing its expected back-pointer in advance (spec.md §4.10 step 2: "scan
// on aligned boundaries ... validate back-pointers" against the footer's own
// encoded checksum/CRC rather than a caller-supplied expectation). It is the
// recovery scanner's one touch-point into L2: ordinary reads always know
// their back-pointer ahead of time and use ReadPhysicalBlock instead.
// Returns ok=false for anything that fails a structural or checksum check,
// never an error - a scan candidate that doesn't hold up is simply not a
// block, not a fault.
func TryReadBlockAt(src interfaces.ByteSource, offset int64, declaredSize uint32, encryption types.EncryptionType, profile types.FormatProfile, unencrypted bool) (payload []byte, backPointer uint64, ok bool) {
	if declaredSize == 0 || declaredSize > types.MaxPhysicalBlockSize {
		return nil, 0, false
	}
	total := int(declaredSize) + profile.BlockFooterSize
	raw, err := src.ReadAt(offset, total)
	if err != nil {
		return nil, 0, false
	}

	footer, err := parseFooter(raw[declaredSize:], profile)
	if err != nil {
		return nil, 0, false
	}
	if int(footer.PayloadSize) > len(raw) {
		return nil, 0, false
	}

	candidate := raw[:footer.PayloadSize]
	if weakChecksum16(candidate) != footer.Signature || blockCRC32(candidate) != footer.CRC {
		return nil, 0, false
	}

	if unencrypted {
		out := make([]byte, len(candidate))
		copy(out, candidate)
		return out, footer.BackPointer, true
	}

	switch encryption {
	case types.EncryptionNone:
		out := make([]byte, len(candidate))
		copy(out, candidate)
		return out, footer.BackPointer, true
	case types.EncryptionPermute:
		return PermuteDecrypt(candidate), footer.BackPointer, true
	case types.EncryptionCyclic:
		return CyclicDecrypt(candidate, footer.BackPointer), footer.BackPointer, true
	default:
		return nil, 0, false
	}
}

// parseFooter decodes the trailing BlockFooter, whose width depends on the
// format variant (16 bytes for 32-bit, 24 for 64-bit; spec.md §4.2, §6).
func parseFooter(footerBytes []byte, profile types.FormatProfile) (types.BlockFooter, error) {
	if len(footerBytes) < profile.BlockFooterSize {
		return types.BlockFooter{}, fmt.Errorf("blocks: footer truncated: %w", types.ErrBlockCorrupt)
	}

	var f types.BlockFooter
	f.PayloadSize = binary.LittleEndian.Uint16(footerBytes[0:2])
	f.Signature = binary.LittleEndian.Uint16(footerBytes[2:4])

	if profile.BlockFooterSize == 24 {
		f.BackPointer = binary.LittleEndian.Uint64(footerBytes[4:12])
		f.CRC = binary.LittleEndian.Uint32(footerBytes[12:16])
	} else {
		f.BackPointer = uint64(binary.LittleEndian.Uint32(footerBytes[4:8]))
		f.CRC = binary.LittleEndian.Uint32(footerBytes[8:12])
	}
	return f, nil
}
