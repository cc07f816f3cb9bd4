package blocks

import "hash/crc32"

// weakChecksum16 is the "weak hash" block checksum named in spec.md §4.2: a
// 16-bit rotate-add checksum over the payload, independent of (and cheaper
// than) the trailing CRC. It exists purely as a fast first-pass integrity
// check; the CRC is authoritative.
func weakChecksum16(data []byte) uint16 {
	var sum uint16
	for _, b := range data {
		sum = (sum << 1) | (sum >> 15) // rotate left 1
		sum += uint16(b)
	}
	return sum
}

// blockCRC32 is the Castagnoli-polynomial CRC over a block's payload,
// matching the header CRC's polynomial choice (spec.md §4.1, §4.2).
func blockCRC32(data []byte) uint32 {
	return crc32.Checksum(data, crc32.MakeTable(crc32.Castagnoli))
}
