package tables

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// fakeHeap is a minimal interfaces.HeapIndexResolver backed by one
// contiguous buffer, used so table tests don't need a real Heap-on-Node
// encoding around the table bytes.
type fakeHeap struct {
	data      []byte
	rootIndex uint16
}

func (f *fakeHeap) Resolve(index uint16) (int, int, error) {
	if index != f.rootIndex {
		return 0, 0, types.ErrHeapIndexInvalid
	}
	return 0, len(f.data), nil
}
func (f *fakeHeap) RootIndex() uint16 { return f.rootIndex }
func (f *fakeHeap) Data() []byte      { return f.data }

func buildColumn(tag uint32, vt types.ValueType, colOffset uint16, cellSize, maskIndex uint8) []byte {
	b := make([]byte, columnEntrySize)
	binary.LittleEndian.PutUint32(b[0:4], tag)
	binary.LittleEndian.PutUint16(b[4:6], uint16(vt))
	binary.LittleEndian.PutUint16(b[6:8], colOffset)
	b[8] = cellSize
	b[9] = maskIndex
	return b
}

func buildTable(signature byte, columns [][]byte, rowSize uint16, rows [][]byte) []byte {
	header := make([]byte, tableHeaderSize)
	header[0] = signature
	binary.LittleEndian.PutUint16(header[2:4], uint16(len(rows)))
	binary.LittleEndian.PutUint16(header[4:6], uint16(len(columns)))
	binary.LittleEndian.PutUint16(header[6:8], rowSize)

	buf := append([]byte{}, header...)
	for _, c := range columns {
		buf = append(buf, c...)
	}
	for _, r := range rows {
		buf = append(buf, r...)
	}
	return buf
}

func TestDecode_BCTableOneRow(t *testing.T) {
	columns := [][]byte{
		buildColumn(0x30010003, types.ValueTypeInteger32, 0, 4, 0),
		buildColumn(0x10000014, types.ValueTypeInteger64|types.ValueType(types.MultiValueFlag), 4, 2, 1),
		buildColumn(0x10090102, types.ValueTypeBinary, 6, 4, subNodeMaskFlag|2),
	}
	bitmap := byte(0b00000111)
	row := make([]byte, 1+10)
	row[0] = bitmap
	binary.LittleEndian.PutUint32(row[1:5], 42)
	binary.LittleEndian.PutUint16(row[5:7], 0x0005)
	binary.LittleEndian.PutUint32(row[7:11], 0x99)

	buf := buildTable(types.TableSignatureBc, columns, 11, [][]byte{row})

	tbl, err := decode(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.NumberOfSets() != 1 || tbl.NumberOfEntries() != 3 {
		t.Fatalf("unexpected shape: rows=%d cols=%d", tbl.NumberOfSets(), tbl.NumberOfEntries())
	}

	c0 := tbl.Rows[0][0]
	if !c0.Present || c0.Storage != types.StorageInline {
		t.Fatalf("col0 = %+v, want present inline", c0)
	}
	if binary.LittleEndian.Uint32(c0.Inline) != 42 {
		t.Fatalf("col0 inline value = %d, want 42", binary.LittleEndian.Uint32(c0.Inline))
	}

	c1 := tbl.Rows[0][1]
	if !c1.Present || c1.Storage != types.StorageHeapRef {
		t.Fatalf("col1 = %+v, want present heap-ref", c1)
	}
	if c1.HeapIndex != 0x0005 {
		t.Fatalf("col1 heap index = %x, want 5", c1.HeapIndex)
	}

	c2 := tbl.Rows[0][2]
	if !c2.Present || c2.Storage != types.StorageSubNode {
		t.Fatalf("col2 = %+v, want present sub-node", c2)
	}
	if c2.SubDescriptorID != 0x99 {
		t.Fatalf("col2 sub descriptor id = %x, want 0x99", c2.SubDescriptorID)
	}
}

func TestDecode_AbsentCell(t *testing.T) {
	columns := [][]byte{buildColumn(0x1, types.ValueTypeInteger32, 0, 4, 0)}
	row := make([]byte, 1+4) // bitmap byte zero: bit 0 clear
	buf := buildTable(types.TableSignatureBc, columns, 5, [][]byte{row})

	tbl, err := decode(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Rows[0][0].Present {
		t.Fatalf("expected cell absent")
	}
}

func TestDecode_BadSignature(t *testing.T) {
	buf := buildTable(0x11, nil, 0, nil)
	_, err := decode(buf)
	if !errors.Is(err, types.ErrTableMalformed) {
		t.Fatalf("expected ErrTableMalformed, got %v", err)
	}
}

func TestDecode_ColumnArrayOverruns(t *testing.T) {
	header := make([]byte, tableHeaderSize)
	header[0] = types.TableSignature6c
	binary.LittleEndian.PutUint16(header[4:6], 5) // claims 5 columns, none present
	_, err := decode(header)
	if !errors.Is(err, types.ErrTableMalformed) {
		t.Fatalf("expected ErrTableMalformed, got %v", err)
	}
}

func TestDecoder_Decode_ViaHeap(t *testing.T) {
	columns := [][]byte{buildColumn(0x1, types.ValueTypeInteger32, 0, 4, 0)}
	bitmap := byte(0b00000001)
	row := append([]byte{bitmap}, []byte{7, 0, 0, 0}...)
	tableBytes := buildTable(types.TableSignatureBc, columns, 5, [][]byte{row})

	h := &fakeHeap{data: tableBytes, rootIndex: 0}
	d := NewDecoder()
	tbl, err := d.Decode(h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if binary.LittleEndian.Uint32(tbl.Rows[0][0].Inline) != 7 {
		t.Fatalf("unexpected inline value")
	}
}
