package blocks

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/vound-software/libpff-20120802-sub001/internal/bytesource"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// buildBlock lays out payload followed by a 64-bit-variant footer
// (payload_size, signature, back_pointer, crc) and returns the full buffer.
func buildBlock(payload []byte, backPointer uint64, corruptCRC, corruptChecksum, corruptBackPointer bool) []byte {
	footer := make([]byte, 24)
	binary.LittleEndian.PutUint16(footer[0:2], uint16(len(payload)))

	sig := weakChecksum16(payload)
	if corruptChecksum {
		sig ^= 0xFFFF
	}
	binary.LittleEndian.PutUint16(footer[2:4], sig)

	bp := backPointer
	if corruptBackPointer {
		bp++
	}
	binary.LittleEndian.PutUint64(footer[4:12], bp)

	crc := blockCRC32(payload)
	if corruptCRC {
		crc ^= 0xFFFFFFFF
	}
	binary.LittleEndian.PutUint32(footer[12:16], crc)

	buf := make([]byte, 0, len(payload)+len(footer))
	buf = append(buf, payload...)
	buf = append(buf, footer...)
	return buf
}

func TestReadPhysicalBlock_RoundTrip(t *testing.T) {
	profile := types.NewFormatProfile(types.FormatPST64)
	plain := []byte("the quick brown fox jumps over the lazy dog, 0123456789")
	cipher := PermuteEncrypt(plain)

	buf := buildBlock(cipher, 0x10, false, false, false)
	src := bytesource.NewMemoryByteSource(buf)

	got, err := ReadPhysicalBlock(src, 0, uint32(len(cipher)), 0x10, types.EncryptionPermute, profile, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(plain) {
		t.Fatalf("round trip mismatch: got %q want %q", got, plain)
	}
}

func TestReadPhysicalBlock_CyclicRoundTrip(t *testing.T) {
	profile := types.NewFormatProfile(types.FormatPST64)
	plain := make([]byte, 600)
	for i := range plain {
		plain[i] = byte(i)
	}
	cipher := CyclicEncrypt(plain, 0x55)

	buf := buildBlock(cipher, 0x55, false, false, false)
	src := bytesource.NewMemoryByteSource(buf)

	got, err := ReadPhysicalBlock(src, 0, uint32(len(cipher)), 0x55, types.EncryptionCyclic, profile, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(plain) {
		t.Fatalf("round trip mismatch over %d bytes", len(plain))
	}
}

func TestReadPhysicalBlock_UnencryptedSkipsDecryption(t *testing.T) {
	profile := types.NewFormatProfile(types.FormatPST64)
	plain := []byte("raw attachment bytes stored unencrypted")
	buf := buildBlock(plain, 0x7, false, false, false)
	src := bytesource.NewMemoryByteSource(buf)

	got, err := ReadPhysicalBlock(src, 0, uint32(len(plain)), 0x7, types.EncryptionPermute, profile, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(plain) {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestReadPhysicalBlock_BackPointerMismatch(t *testing.T) {
	profile := types.NewFormatProfile(types.FormatPST64)
	payload := PermuteEncrypt([]byte("payload"))
	buf := buildBlock(payload, 0x10, false, false, true)
	src := bytesource.NewMemoryByteSource(buf)

	_, err := ReadPhysicalBlock(src, 0, uint32(len(payload)), 0x10, types.EncryptionPermute, profile, false)
	if !errors.Is(err, types.ErrBlockBackpointer) {
		t.Fatalf("expected ErrBlockBackpointer, got %v", err)
	}
}

func TestReadPhysicalBlock_ChecksumMismatch(t *testing.T) {
	profile := types.NewFormatProfile(types.FormatPST64)
	payload := PermuteEncrypt([]byte("payload"))
	buf := buildBlock(payload, 0x10, false, true, false)
	src := bytesource.NewMemoryByteSource(buf)

	_, err := ReadPhysicalBlock(src, 0, uint32(len(payload)), 0x10, types.EncryptionPermute, profile, false)
	if !errors.Is(err, types.ErrBlockChecksum) {
		t.Fatalf("expected ErrBlockChecksum, got %v", err)
	}
}

func TestReadPhysicalBlock_CRCMismatch(t *testing.T) {
	profile := types.NewFormatProfile(types.FormatPST64)
	payload := PermuteEncrypt([]byte("payload"))
	buf := buildBlock(payload, 0x10, true, false, false)
	src := bytesource.NewMemoryByteSource(buf)

	_, err := ReadPhysicalBlock(src, 0, uint32(len(payload)), 0x10, types.EncryptionPermute, profile, false)
	if !errors.Is(err, types.ErrBlockChecksum) {
		t.Fatalf("expected ErrBlockChecksum, got %v", err)
	}
}

func TestReadPhysicalBlock_TooLarge(t *testing.T) {
	profile := types.NewFormatProfile(types.FormatPST64)
	src := bytesource.NewMemoryByteSource(make([]byte, 16))

	_, err := ReadPhysicalBlock(src, 0, types.MaxPhysicalBlockSize+1, 0, types.EncryptionNone, profile, false)
	if !errors.Is(err, types.ErrBlockTooLarge) {
		t.Fatalf("expected ErrBlockTooLarge, got %v", err)
	}
}

func TestReadPhysicalBlock_PayloadSizeOverflowIsCorrupt(t *testing.T) {
	profile := types.NewFormatProfile(types.FormatPST64)
	payload := PermuteEncrypt([]byte("payload"))
	buf := buildBlock(payload, 0x10, false, false, false)
	// Claim a payload size larger than the declared block holds.
	binary.LittleEndian.PutUint16(buf[len(payload):len(payload)+2], uint16(len(payload)+4096))
	src := bytesource.NewMemoryByteSource(buf)

	_, err := ReadPhysicalBlock(src, 0, uint32(len(payload)), 0x10, types.EncryptionPermute, profile, false)
	if !errors.Is(err, types.ErrBlockCorrupt) {
		t.Fatalf("expected ErrBlockCorrupt, got %v", err)
	}
}

func Test32BitFooterLayout(t *testing.T) {
	profile := types.NewFormatProfile(types.FormatPST32)
	plain := []byte("ansi store payload")
	cipher := PermuteEncrypt(plain)

	footer := make([]byte, 16)
	binary.LittleEndian.PutUint16(footer[0:2], uint16(len(cipher)))
	binary.LittleEndian.PutUint16(footer[2:4], weakChecksum16(cipher))
	binary.LittleEndian.PutUint32(footer[4:8], 0x99)
	binary.LittleEndian.PutUint32(footer[8:12], blockCRC32(cipher))

	buf := append(append([]byte{}, cipher...), footer...)
	src := bytesource.NewMemoryByteSource(buf)

	got, err := ReadPhysicalBlock(src, 0, uint32(len(cipher)), 0x99, types.EncryptionPermute, profile, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(plain) {
		t.Fatalf("round trip mismatch: got %q want %q", got, plain)
	}
}
