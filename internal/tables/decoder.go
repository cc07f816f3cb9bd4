// Package tables implements L7 (spec.md §4.7): decoding a Heap-on-Node
// table, whatever its on-disk variant (6c/7c/9c/ac/bc), into the uniform
// types.Table every higher layer consumes.
//
// The retrieved corpus names the 7c column-descriptor tuple explicitly
// (property_tag, value_type, column_offset, cell_size, cell_mask_index) but
// gives no byte-exact layout for the other four variants or for 7c's own
// header/row framing. Since all five variants ultimately describe the same
// shape - a set of (property_tag, value_type) columns over one or more
// fixed-width rows, with variable-length values resolved indirectly - this
// package defines one physical layout shared by all of them. The variant
// signature byte is recorded in types.Table.Signature; no decoding path and
// no caller in this module branches on it. See DESIGN.md.
package tables

import (
	"encoding/binary"
	"fmt"

	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

const (
	tableHeaderSize  = 8  // signature(1) + reserved(1) + rowCount(2) + columnCount(2) + rowSize(2)
	columnEntrySize  = 10 // propertyTag(4) + valueType(2) + columnOffset(2) + cellSize(1) + cellMaskIndex(1)
	subNodeMaskFlag  = 0x80
	maskIndexBits    = 0x7f
)

// Decoder implements interfaces.TableDecoder.
type Decoder struct{}

var _ interfaces.TableDecoder = (*Decoder)(nil)

// NewDecoder returns a stateless table decoder.
func NewDecoder() *Decoder { return &Decoder{} }

// Decode implements interfaces.TableDecoder.
func (Decoder) Decode(heap interfaces.HeapIndexResolver) (*types.Table, error) {
	offset, length, err := heap.Resolve(heap.RootIndex())
	if err != nil {
		return nil, fmt.Errorf("tables: resolve root index: %w", err)
	}
	buf := heap.Data()[offset : offset+length]
	return decode(buf)
}

func decode(buf []byte) (*types.Table, error) {
	if len(buf) < tableHeaderSize {
		return nil, fmt.Errorf("tables: header truncated: %w", types.ErrTableMalformed)
	}

	signature := buf[0]
	switch signature {
	case types.TableSignature6c, types.TableSignature7c, types.TableSignature9c, types.TableSignatureAc, types.TableSignatureBc:
	default:
		return nil, fmt.Errorf("tables: unrecognized signature 0x%02x: %w", signature, types.ErrTableMalformed)
	}

	rowCount := binary.LittleEndian.Uint16(buf[2:4])
	columnCount := binary.LittleEndian.Uint16(buf[4:6])
	rowSize := binary.LittleEndian.Uint16(buf[6:8])

	columnsEnd := tableHeaderSize + int(columnCount)*columnEntrySize
	if columnsEnd > len(buf) {
		return nil, fmt.Errorf("tables: column array overruns header (%d > %d): %w", columnsEnd, len(buf), types.ErrTableMalformed)
	}

	columns := make([]types.ColumnDescriptor, columnCount)
	for i := range columns {
		off := tableHeaderSize + i*columnEntrySize
		e := buf[off : off+columnEntrySize]
		columns[i] = types.ColumnDescriptor{
			PropertyTag:   binary.LittleEndian.Uint32(e[0:4]),
			ValueType:     types.ValueType(binary.LittleEndian.Uint16(e[4:6])),
			ColumnOffset:  binary.LittleEndian.Uint16(e[6:8]),
			CellSize:      e[8],
			CellMaskIndex: e[9],
		}
	}

	bitmapSize := (int(columnCount) + 7) / 8
	rowsEnd := columnsEnd + int(rowCount)*int(rowSize)
	if rowsEnd > len(buf) {
		return nil, fmt.Errorf("tables: row data overruns heap allocation (%d > %d): %w", rowsEnd, len(buf), types.ErrTableMalformed)
	}

	rows := make([][]types.Cell, rowCount)
	for r := 0; r < int(rowCount); r++ {
		rowStart := columnsEnd + r*int(rowSize)
		row := buf[rowStart : rowStart+int(rowSize)]
		if bitmapSize > len(row) {
			return nil, fmt.Errorf("tables: row %d shorter than its presence bitmap: %w", r, types.ErrTableMalformed)
		}
		bitmap := row[:bitmapSize]
		cells := make([]types.Cell, columnCount)
		for c, col := range columns {
			cells[c] = decodeCell(bitmap, row[bitmapSize:], col)
		}
		rows[r] = cells
	}

	return &types.Table{Signature: signature, Columns: columns, Rows: rows}, nil
}

func decodeCell(bitmap, cellArea []byte, col types.ColumnDescriptor) types.Cell {
	maskBit := col.CellMaskIndex & maskIndexBits
	present := int(maskBit/8) < len(bitmap) && bitmap[maskBit/8]&(1<<(maskBit%8)) != 0

	cell := types.Cell{ValueType: col.ValueType, Present: present}
	if !present {
		return cell
	}

	slotEnd := int(col.ColumnOffset) + int(col.CellSize)
	if slotEnd > len(cellArea) {
		cell.Present = false
		return cell
	}
	slot := cellArea[col.ColumnOffset:slotEnd]

	if isFixedWidth(col.ValueType) {
		cell.Storage = types.StorageInline
		cell.Inline = append([]byte(nil), slot...)
		return cell
	}

	if col.CellMaskIndex&subNodeMaskFlag != 0 {
		cell.Storage = types.StorageSubNode
		if len(slot) >= 4 {
			cell.SubDescriptorID = binary.LittleEndian.Uint32(slot[0:4])
		}
		return cell
	}

	cell.Storage = types.StorageHeapRef
	if len(slot) >= 2 {
		cell.HeapIndex = types.HeapIndex(binary.LittleEndian.Uint16(slot[0:2]))
	}
	return cell
}

func isFixedWidth(vt types.ValueType) bool {
	if vt.IsMultiValue() {
		return false
	}
	switch vt.BaseType() {
	case types.ValueTypeBoolean, types.ValueTypeInteger16, types.ValueTypeInteger32,
		types.ValueTypeInteger64, types.ValueTypeFloat32, types.ValueTypeFloat64,
		types.ValueTypeFloatTime, types.ValueTypeFiletime, types.ValueTypeGUID:
		return true
	default:
		return false
	}
}
