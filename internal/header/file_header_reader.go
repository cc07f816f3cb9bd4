// Package header decodes the fixed-size PFF file header (L1, spec.md §4.1).
package header

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// Field byte offsets within the header. Everything before offset 6 is a
// fixed signature; the format byte at offset 10 selects bitness and the
// Unicode/ANSI split; the content-signature bytes at 4-5 select PST vs OST
// vs PAB. The CRC at offset 16 covers every byte of the header from offset
// 20 onward (the header body), mirroring the "validates a CRC over the
// header body" requirement of spec.md §4.1.
const (
	offsetMagic            = 0
	offsetContentSignature = 4
	offsetReservedSig      = 6
	offsetHeaderCRC        = 16
	offsetFormatByte       = 10
	offsetBodyStart        = 20

	offsetEncryption32 = 461
	offsetAsciiCP32    = 216
	offsetRootNBT32    = 196
	offsetRootBBT32    = 200

	offsetEncryption64 = 513
	offsetAsciiCP64    = 224
	offsetRootNBT64    = 232
	offsetRootBBT64    = 240
)

var (
	contentSignaturePST = [2]byte{0x53, 0x4d} // "SM"
	contentSignatureOST = [2]byte{0x4f, 0x53} // "OS"
	contentSignaturePAB = [2]byte{0x41, 0x42} // "AB"
	reservedSignature   = [3]byte{0x0e, 0x00, 0x00}
)

// fileHeaderReader implements interfaces.HeaderReader over raw header bytes.
type fileHeaderReader struct {
	variant       types.FormatVariant
	contentType   types.ContentType
	encryption    types.EncryptionType
	asciiCodepage int32
	rootNBTOffset uint64
	rootBBTOffset uint64
	profile       types.FormatProfile
}

var _ interfaces.HeaderReader = (*fileHeaderReader)(nil)

// NewFileHeaderReader parses a buffer holding the first HeaderSizeUnicode
// bytes of a PFF file and validates its magic, format byte and header CRC.
func NewFileHeaderReader(data []byte) (interfaces.HeaderReader, error) {
	if len(data) < types.HeaderSizeANSI {
		return nil, fmt.Errorf("header: only %d bytes available, need at least %d: %w", len(data), types.HeaderSizeANSI, types.ErrHeaderCorrupt)
	}

	if data[0] != types.FileMagic0 || data[1] != types.FileMagic1 || data[2] != types.FileMagic2 || data[3] != types.FileMagic3 {
		return nil, fmt.Errorf("header: magic %q: %w", data[0:4], types.ErrUnsupportedFormat)
	}
	if data[offsetReservedSig] != reservedSignature[0] {
		return nil, fmt.Errorf("header: unexpected reserved signature byte 0x%02x: %w", data[offsetReservedSig], types.ErrUnsupportedFormat)
	}

	contentType, err := contentTypeOf(data[offsetContentSignature], data[offsetContentSignature+1])
	if err != nil {
		return nil, err
	}

	formatByte := data[offsetFormatByte]
	is64 := false
	switch formatByte {
	case types.FormatByteANSI:
		is64 = false
	case types.FormatByteUnicode:
		is64 = true
	default:
		return nil, fmt.Errorf("header: format byte 0x%02x: %w", formatByte, types.ErrUnsupportedVersion)
	}

	variant := variantOf(contentType, is64)
	profile := types.NewFormatProfile(variant)

	headerSize := types.HeaderSizeANSI
	if is64 {
		headerSize = types.HeaderSizeUnicode
	}
	if len(data) < headerSize {
		return nil, fmt.Errorf("header: only %d bytes available, need %d for variant %s: %w", len(data), headerSize, variant, types.ErrHeaderCorrupt)
	}

	if err := verifyHeaderCRC(data[:headerSize]); err != nil {
		return nil, err
	}

	var encByte byte
	var asciiCPOffset, nbtOffset, bbtOffset int
	if is64 {
		encByte = data[offsetEncryption64]
		asciiCPOffset, nbtOffset, bbtOffset = offsetAsciiCP64, offsetRootNBT64, offsetRootBBT64
	} else {
		encByte = data[offsetEncryption32]
		asciiCPOffset, nbtOffset, bbtOffset = offsetAsciiCP32, offsetRootNBT32, offsetRootBBT32
	}

	encryption, err := encryptionOf(encByte)
	if err != nil {
		return nil, err
	}

	asciiCodepage := int32(binary.LittleEndian.Uint32(data[asciiCPOffset : asciiCPOffset+4]))

	var rootNBT, rootBBT uint64
	if is64 {
		rootNBT = binary.LittleEndian.Uint64(data[nbtOffset : nbtOffset+8])
		rootBBT = binary.LittleEndian.Uint64(data[bbtOffset : bbtOffset+8])
	} else {
		rootNBT = uint64(binary.LittleEndian.Uint32(data[nbtOffset : nbtOffset+4]))
		rootBBT = uint64(binary.LittleEndian.Uint32(data[bbtOffset : bbtOffset+4]))
	}

	return &fileHeaderReader{
		variant:       variant,
		contentType:   contentType,
		encryption:    encryption,
		asciiCodepage: asciiCodepage,
		rootNBTOffset: rootNBT,
		rootBBTOffset: rootBBT,
		profile:       profile,
	}, nil
}

func contentTypeOf(b4, b5 byte) (types.ContentType, error) {
	switch [2]byte{b4, b5} {
	case contentSignaturePST:
		return types.ContentPST, nil
	case contentSignatureOST:
		return types.ContentOST, nil
	case contentSignaturePAB:
		return types.ContentPAB, nil
	default:
		return types.ContentUnknown, fmt.Errorf("header: content signature %02x%02x: %w", b4, b5, types.ErrUnsupportedFormat)
	}
}

func variantOf(contentType types.ContentType, is64 bool) types.FormatVariant {
	switch contentType {
	case types.ContentPST:
		if is64 {
			return types.FormatPST64
		}
		return types.FormatPST32
	case types.ContentOST:
		if is64 {
			return types.FormatOST64
		}
		return types.FormatOST32
	case types.ContentPAB:
		if is64 {
			return types.FormatPAB64
		}
		return types.FormatPAB32
	default:
		return types.FormatUnknown
	}
}

func encryptionOf(b byte) (types.EncryptionType, error) {
	switch b {
	case 0:
		return types.EncryptionNone, nil
	case 1:
		return types.EncryptionPermute, nil
	case 2:
		return types.EncryptionCyclic, nil
	default:
		return types.EncryptionNone, fmt.Errorf("header: encryption byte 0x%02x: %w", b, types.ErrHeaderCorrupt)
	}
}

// verifyHeaderCRC checks the Castagnoli-polynomial CRC stored at
// offsetHeaderCRC against the header body (everything from offsetBodyStart
// to the end of the declared header size), per spec.md §4.1.
func verifyHeaderCRC(header []byte) error {
	stored := binary.LittleEndian.Uint32(header[offsetHeaderCRC : offsetHeaderCRC+4])
	computed := crc32.Checksum(header[offsetBodyStart:], crc32.MakeTable(crc32.Castagnoli))
	if stored != computed {
		return fmt.Errorf("header: CRC mismatch (stored 0x%08x, computed 0x%08x): %w", stored, computed, types.ErrHeaderCorrupt)
	}
	return nil
}

func (r *fileHeaderReader) Variant() types.FormatVariant          { return r.variant }
func (r *fileHeaderReader) ContentType() types.ContentType        { return r.contentType }
func (r *fileHeaderReader) Encryption() types.EncryptionType      { return r.encryption }
func (r *fileHeaderReader) AsciiCodepage() int32                  { return r.asciiCodepage }
func (r *fileHeaderReader) RootNodeBTreeOffset() uint64           { return r.rootNBTOffset }
func (r *fileHeaderReader) RootBlockBTreeOffset() uint64          { return r.rootBBTOffset }
func (r *fileHeaderReader) Profile() types.FormatProfile          { return r.profile }
