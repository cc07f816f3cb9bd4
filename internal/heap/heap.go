// Package heap implements L6 (spec.md §4.6): the Heap-on-Node allocator
// that backs the table formats of L7.
//
// The retrieved corpus does not carry libpff's exact HN byte offsets, so
// this package defines a self-consistent layout: an 8-byte header
// (signature, client signature, root user index, first map's offset)
// followed by a chain of map blocks, each giving (next map offset,
// allocation count, N+1 absolute byte offsets into the stream). Multi-map
// chaining is what lets a stream larger than one allocation table's reach
// still be addressed by a single 16-bit heap index (map index in the high
// bits, allocation index in the low bits, types.HeapIndex). See DESIGN.md.
package heap

import (
	"encoding/binary"
	"fmt"

	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

const headerSize = 8

// Heap implements interfaces.HeapIndexResolver over a decoded stream.
type Heap struct {
	data    []byte
	header  types.HeapHeader
	maps    []types.HeapAllocationMap
}

var _ interfaces.HeapIndexResolver = (*Heap)(nil)

// Parse decodes a Heap-on-Node stream's header and full map chain.
func Parse(data []byte) (*Heap, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("heap: stream too short for header: %w", types.ErrHeapIndexInvalid)
	}
	if data[0] != types.HeapSignature {
		return nil, fmt.Errorf("heap: signature 0x%02x != 0x%02x: %w", data[0], types.HeapSignature, types.ErrHeapIndexInvalid)
	}
	hdr := types.HeapHeader{
		Signature:       data[0],
		ClientSignature: data[1],
		RootUserIndex:   binary.LittleEndian.Uint16(data[2:4]),
		MapOffset:       binary.LittleEndian.Uint16(data[4:6]),
	}

	var maps []types.HeapAllocationMap
	offset := hdr.MapOffset
	seen := map[uint16]bool{}
	for offset != 0 {
		if seen[offset] {
			return nil, fmt.Errorf("heap: map chain cycles back to offset %d: %w", offset, types.ErrHeapIndexInvalid)
		}
		seen[offset] = true

		m, next, err := parseMapBlock(data, offset)
		if err != nil {
			return nil, err
		}
		maps = append(maps, m)
		offset = next
	}

	return &Heap{data: data, header: hdr, maps: maps}, nil
}

func parseMapBlock(data []byte, offset uint16) (types.HeapAllocationMap, uint16, error) {
	o := int(offset)
	if o+4 > len(data) {
		return types.HeapAllocationMap{}, 0, fmt.Errorf("heap: map block at %d truncated: %w", offset, types.ErrHeapIndexInvalid)
	}
	next := binary.LittleEndian.Uint16(data[o : o+2])
	count := binary.LittleEndian.Uint16(data[o+2 : o+4])

	offsetsStart := o + 4
	offsetsEnd := offsetsStart + (int(count)+1)*2
	if offsetsEnd > len(data) {
		return types.HeapAllocationMap{}, 0, fmt.Errorf("heap: map block at %d offsets array truncated: %w", offset, types.ErrHeapIndexInvalid)
	}

	offsets := make([]uint16, count+1)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint16(data[offsetsStart+i*2 : offsetsStart+i*2+2])
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] <= offsets[i-1] {
			return types.HeapAllocationMap{}, 0, fmt.Errorf("heap: map block at %d allocation offsets not increasing at %d: %w", offset, i, types.ErrHeapIndexInvalid)
		}
	}
	if int(offsets[len(offsets)-1]) > len(data) {
		return types.HeapAllocationMap{}, 0, fmt.Errorf("heap: map block at %d final offset %d exceeds stream length %d: %w", offset, offsets[len(offsets)-1], len(data), types.ErrHeapIndexInvalid)
	}

	return types.HeapAllocationMap{Offsets: offsets}, next, nil
}

// RootIndex implements interfaces.HeapIndexResolver.
func (h *Heap) RootIndex() uint16 { return h.header.RootUserIndex }

// Data implements interfaces.HeapIndexResolver.
func (h *Heap) Data() []byte { return h.data }

// Resolve implements interfaces.HeapIndexResolver.
func (h *Heap) Resolve(index uint16) (int, int, error) {
	hi := types.HeapIndex(index)
	mapIdx := int(hi.MapIndex())
	allocIdx := int(hi.AllocationIndex())

	if mapIdx >= len(h.maps) {
		return 0, 0, fmt.Errorf("heap: map index %d out of range (have %d): %w", mapIdx, len(h.maps), types.ErrHeapIndexInvalid)
	}
	m := h.maps[mapIdx]
	if allocIdx+1 >= len(m.Offsets) {
		return 0, 0, fmt.Errorf("heap: allocation index %d out of range (have %d): %w", allocIdx, len(m.Offsets)-1, types.ErrHeapIndexInvalid)
	}

	start := int(m.Offsets[allocIdx])
	end := int(m.Offsets[allocIdx+1])
	return start, end - start, nil
}
