package properties

import (
	"github.com/google/uuid"

	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// GUIDBytes returns the 16-byte little-endian-first wire encoding of a GUID
// value as stored inline in a table cell (spec.md §4.8 "GUID"): the first
// three fields (4, 2 and 2 bytes) little-endian, the last 8 bytes in order.
func GUIDBytes(id uuid.UUID) [16]byte {
	var out [16]byte
	b, _ := id.MarshalBinary()
	copy(out[:], b)
	out[0], out[1], out[2], out[3] = out[3], out[2], out[1], out[0]
	out[4], out[5] = out[5], out[4]
	out[6], out[7] = out[7], out[6]
	return out
}

// ParseGUID decodes a 16-byte table cell into a uuid.UUID, reversing the
// byte order of the first three fields.
func ParseGUID(raw [16]byte) (uuid.UUID, error) {
	raw[0], raw[1], raw[2], raw[3] = raw[3], raw[2], raw[1], raw[0]
	raw[4], raw[5] = raw[5], raw[4]
	raw[6], raw[7] = raw[7], raw[6]
	return uuid.FromBytes(raw[:])
}

// NamespaceOf reports which well-known named-property namespace a GUID
// belongs to, for NameToIdMap diagnostics (spec.md §3 NameToIdMap).
func NamespaceOf(id uuid.UUID) (name string, known bool) {
	switch id {
	case types.NamespacePublicStrings:
		return "PS_PUBLIC_STRINGS", true
	case types.NamespaceCommon:
		return "PS_MAPI", true
	case types.NamespaceAddress:
		return "PS_ADDRESS", true
	case types.NamespaceInternetHeaders:
		return "PS_INTERNET_HEADERS", true
	default:
		return "", false
	}
}
