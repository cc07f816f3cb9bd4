package heap

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// buildHeapStream lays out an 8-byte header plus one map block (next=0,
// count, offsets...) followed by the allocation payload itself, whose
// bytes must already sit at the offsets the map declares.
func buildHeapStream(rootIndex uint16, allocations [][]byte) []byte {
	const mapOffset = 8
	count := len(allocations)
	mapSize := 4 + (count+1)*2

	dataStart := mapOffset + mapSize
	offsets := make([]uint16, count+1)
	cursor := dataStart
	for i, a := range allocations {
		offsets[i] = uint16(cursor)
		cursor += len(a)
	}
	offsets[count] = uint16(cursor)

	buf := make([]byte, cursor)
	buf[0] = types.HeapSignature
	buf[1] = 0xbc
	binary.LittleEndian.PutUint16(buf[2:4], rootIndex)
	binary.LittleEndian.PutUint16(buf[4:6], uint16(mapOffset))

	binary.LittleEndian.PutUint16(buf[mapOffset:mapOffset+2], 0) // next = 0
	binary.LittleEndian.PutUint16(buf[mapOffset+2:mapOffset+4], uint16(count))
	for i, o := range offsets {
		off := mapOffset + 4 + i*2
		binary.LittleEndian.PutUint16(buf[off:off+2], o)
	}

	pos := dataStart
	for _, a := range allocations {
		copy(buf[pos:pos+len(a)], a)
		pos += len(a)
	}
	return buf
}

func TestHeap_ResolveAllocations(t *testing.T) {
	stream := buildHeapStream(0x00, [][]byte{[]byte("first"), []byte("second!")})
	h, err := Parse(stream)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	off, length, err := h.Resolve(0x00)
	if err != nil {
		t.Fatalf("resolve 0: %v", err)
	}
	if string(h.Data()[off:off+length]) != "first" {
		t.Fatalf("allocation 0 = %q, want %q", h.Data()[off:off+length], "first")
	}

	off, length, err = h.Resolve(0x01)
	if err != nil {
		t.Fatalf("resolve 1: %v", err)
	}
	if string(h.Data()[off:off+length]) != "second!" {
		t.Fatalf("allocation 1 = %q, want %q", h.Data()[off:off+length], "second!")
	}
}

func TestHeap_RootIndex(t *testing.T) {
	stream := buildHeapStream(0x03, [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")})
	h, err := Parse(stream)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.RootIndex() != 0x03 {
		t.Fatalf("RootIndex() = %d, want 3", h.RootIndex())
	}
}

func TestHeap_AllocationIndexOutOfRange(t *testing.T) {
	stream := buildHeapStream(0, [][]byte{[]byte("only")})
	h, err := Parse(stream)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, _, err = h.Resolve(0x05)
	if !errors.Is(err, types.ErrHeapIndexInvalid) {
		t.Fatalf("expected ErrHeapIndexInvalid, got %v", err)
	}
}

func TestHeap_BadSignature(t *testing.T) {
	stream := buildHeapStream(0, [][]byte{[]byte("x")})
	stream[0] = 0x00
	_, err := Parse(stream)
	if !errors.Is(err, types.ErrHeapIndexInvalid) {
		t.Fatalf("expected ErrHeapIndexInvalid, got %v", err)
	}
}
