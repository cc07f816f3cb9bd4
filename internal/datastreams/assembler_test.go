package datastreams

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

type fakeBlockReader struct {
	blocks map[uint64][]byte
}

func (f *fakeBlockReader) ReadBlock(dataIdentifier uint64) ([]byte, error) {
	b, ok := f.blocks[dataIdentifier]
	if !ok {
		return nil, types.ErrBlockNotFound
	}
	return b, nil
}

func internalBlock(totalSize uint64, childIDs ...uint64) []byte {
	buf := make([]byte, dataStreamHeaderSize+len(childIDs)*8)
	binary.LittleEndian.PutUint64(buf[0:8], totalSize)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(childIDs)))
	for i, id := range childIDs {
		off := dataStreamHeaderSize + i*8
		binary.LittleEndian.PutUint64(buf[off:off+8], id)
	}
	return buf
}

func TestAssemble_SingleExternalBlock(t *testing.T) {
	reader := &fakeBlockReader{blocks: map[uint64][]byte{
		0x21: []byte("hello, world"),
	}}
	a := NewAssembler(reader)
	bt, err := a.Assemble(0x21)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bt.TotalSize != 12 {
		t.Fatalf("TotalSize = %d, want 12", bt.TotalSize)
	}
	if string(bt.Bytes()) != "hello, world" {
		t.Fatalf("Bytes() = %q", bt.Bytes())
	}
}

func TestAssemble_InternalNodeWithTwoChildren(t *testing.T) {
	reader := &fakeBlockReader{blocks: map[uint64][]byte{
		0x20: internalBlock(11, 0x101, 0x103),
		0x101: []byte("hello "),
		0x103: []byte("world"),
	}}
	a := NewAssembler(reader)
	bt, err := a.Assemble(0x20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bt.TotalSize != 11 {
		t.Fatalf("TotalSize = %d, want 11", bt.TotalSize)
	}
	if string(bt.Bytes()) != "hello world" {
		t.Fatalf("Bytes() = %q", bt.Bytes())
	}

	got, err := bt.ReadAt(6, 5)
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(got) != "world" {
		t.Fatalf("ReadAt(6,5) = %q, want %q", got, "world")
	}
}

func TestAssemble_NestedInternalNodes(t *testing.T) {
	reader := &fakeBlockReader{blocks: map[uint64][]byte{
		0x20: internalBlock(10, 0x22, 0x105),
		0x22: internalBlock(4, 0x107, 0x109),
		0x107: []byte("ab"),
		0x109: []byte("cd"),
		0x105: []byte("efgh ab"[:6]),
	}}
	a := NewAssembler(reader)
	bt, err := a.Assemble(0x20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bt.TotalSize != 10 {
		t.Fatalf("TotalSize = %d, want 10", bt.TotalSize)
	}
	if string(bt.Bytes()) != "abcdefgh a" {
		t.Fatalf("Bytes() = %q", bt.Bytes())
	}
}

func TestAssemble_SizeMismatch(t *testing.T) {
	reader := &fakeBlockReader{blocks: map[uint64][]byte{
		0x20: internalBlock(99, 0x101),
		0x101: []byte("short"),
	}}
	a := NewAssembler(reader)
	_, err := a.Assemble(0x20)
	if !errors.Is(err, types.ErrDataStreamTruncated) {
		t.Fatalf("expected ErrDataStreamTruncated, got %v", err)
	}
}

func TestAssemble_TooDeep(t *testing.T) {
	blocks := map[uint64][]byte{}
	const depth = int(types.MaxBlockTreeDepth) + 3
	var id uint64 = 0x1000
	for i := 0; i < depth; i++ {
		next := id + 2
		blocks[id] = internalBlock(0, next)
		id = next
	}
	blocks[id] = []byte{}

	reader := &fakeBlockReader{blocks: blocks}
	a := NewAssembler(reader)
	_, err := a.Assemble(0x1000)
	if !errors.Is(err, types.ErrBlockTreeTooDeep) {
		t.Fatalf("expected ErrBlockTreeTooDeep, got %v", err)
	}
}
