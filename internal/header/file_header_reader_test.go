package header

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"testing"

	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// buildHeader constructs a syntactically valid header of the requested
// bitness, content type and encryption, with a correct trailing CRC.
func buildHeader(t *testing.T, contentSig [2]byte, is64 bool, encByte byte, asciiCP int32, rootNBT, rootBBT uint64) []byte {
	t.Helper()

	size := types.HeaderSizeANSI
	if is64 {
		size = types.HeaderSizeUnicode
	}
	buf := make([]byte, size)
	copy(buf[0:4], "!BDN")
	buf[offsetContentSignature] = contentSig[0]
	buf[offsetContentSignature+1] = contentSig[1]
	copy(buf[offsetReservedSig:offsetReservedSig+3], reservedSignature[:])

	if is64 {
		buf[offsetFormatByte] = types.FormatByteUnicode
		binary.LittleEndian.PutUint32(buf[offsetAsciiCP64:], uint32(asciiCP))
		binary.LittleEndian.PutUint64(buf[offsetRootNBT64:], rootNBT)
		binary.LittleEndian.PutUint64(buf[offsetRootBBT64:], rootBBT)
		buf[offsetEncryption64] = encByte
	} else {
		buf[offsetFormatByte] = types.FormatByteANSI
		binary.LittleEndian.PutUint32(buf[offsetAsciiCP32:], uint32(asciiCP))
		binary.LittleEndian.PutUint32(buf[offsetRootNBT32:], uint32(rootNBT))
		binary.LittleEndian.PutUint32(buf[offsetRootBBT32:], uint32(rootBBT))
		buf[offsetEncryption32] = encByte
	}

	crc := crc32.Checksum(buf[offsetBodyStart:], crc32.MakeTable(crc32.Castagnoli))
	binary.LittleEndian.PutUint32(buf[offsetHeaderCRC:], crc)
	return buf
}

func TestNewFileHeaderReader_PST64Permute(t *testing.T) {
	buf := buildHeader(t, contentSignaturePST, true, 1, 1252, 0x4000, 0x4400)

	r, err := NewFileHeaderReader(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Variant() != types.FormatPST64 {
		t.Errorf("Variant() = %v, want PST64", r.Variant())
	}
	if r.Encryption() != types.EncryptionPermute {
		t.Errorf("Encryption() = %v, want Permute", r.Encryption())
	}
	if r.AsciiCodepage() != 1252 {
		t.Errorf("AsciiCodepage() = %d, want 1252", r.AsciiCodepage())
	}
	if r.RootNodeBTreeOffset() != 0x4000 {
		t.Errorf("RootNodeBTreeOffset() = 0x%x, want 0x4000", r.RootNodeBTreeOffset())
	}
	if r.RootBlockBTreeOffset() != 0x4400 {
		t.Errorf("RootBlockBTreeOffset() = 0x%x, want 0x4400", r.RootBlockBTreeOffset())
	}
	if !r.Profile().Variant.Is64Bit() {
		t.Errorf("Profile().Variant should be 64-bit")
	}
}

func TestNewFileHeaderReader_Variants(t *testing.T) {
	tests := []struct {
		name    string
		sig     [2]byte
		is64    bool
		want    types.FormatVariant
	}{
		{"PST32", contentSignaturePST, false, types.FormatPST32},
		{"OST64", contentSignatureOST, true, types.FormatOST64},
		{"PAB32", contentSignaturePAB, false, types.FormatPAB32},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := buildHeader(t, tc.sig, tc.is64, 0, 1252, 1, 2)
			r, err := NewFileHeaderReader(buf)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Variant() != tc.want {
				t.Errorf("Variant() = %v, want %v", r.Variant(), tc.want)
			}
			if r.Encryption() != types.EncryptionNone {
				t.Errorf("Encryption() = %v, want None", r.Encryption())
			}
		})
	}
}

func TestNewFileHeaderReader_InvalidMagic(t *testing.T) {
	buf := buildHeader(t, contentSignaturePST, true, 0, 1252, 1, 2)
	buf[0] = 'X'
	// Recompute nothing: the magic check happens before the CRC check.
	_, err := NewFileHeaderReader(buf)
	if err == nil {
		t.Fatal("expected error for invalid magic")
	}
	if !errors.Is(err, types.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestNewFileHeaderReader_UnsupportedVersion(t *testing.T) {
	buf := buildHeader(t, contentSignaturePST, true, 0, 1252, 1, 2)
	buf[offsetFormatByte] = 0xAA
	_, err := NewFileHeaderReader(buf)
	if err == nil {
		t.Fatal("expected error for unsupported format byte")
	}
	if !errors.Is(err, types.ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestNewFileHeaderReader_CRCMismatch(t *testing.T) {
	buf := buildHeader(t, contentSignaturePST, true, 0, 1252, 1, 2)
	buf[offsetBodyStart] ^= 0xFF // flip a body byte, invalidating the CRC
	_, err := NewFileHeaderReader(buf)
	if err == nil {
		t.Fatal("expected error for CRC mismatch")
	}
	if !errors.Is(err, types.ErrHeaderCorrupt) {
		t.Errorf("expected ErrHeaderCorrupt, got %v", err)
	}
}

