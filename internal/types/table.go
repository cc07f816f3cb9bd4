package types

// StorageKind classifies where a decoded table cell's bytes actually live
// (spec.md §3 Table, §4.7).
type StorageKind int

const (
	StorageInline StorageKind = iota
	StorageHeapRef
	StorageSubNode
)

// ColumnDescriptor is one entry of a 7c/bc table's column/entry layout
// (spec.md §4.7).
type ColumnDescriptor struct {
	PropertyTag     uint32
	ValueType       ValueType
	ColumnOffset    uint16
	CellSize        uint8
	CellMaskIndex   uint8
}

// PropertyID is the high 16 bits of PropertyTag.
func (c ColumnDescriptor) PropertyID() uint16 {
	return uint16(c.PropertyTag >> 16)
}

// Cell is one decoded (row, column) value before typed projection.
type Cell struct {
	Storage        StorageKind
	Inline         []byte    // StorageInline
	HeapIndex      HeapIndex // StorageHeapRef
	SubDescriptorID uint32   // StorageSubNode
	ValueType      ValueType
	Present        bool
}

// Table is the uniform decoded projection of a Heap-on-Node table, whatever
// its on-disk variant (spec.md §3 Table, §4.7).
type Table struct {
	Signature byte
	Columns   []ColumnDescriptor
	// Rows[row][col] indexes into Columns by position.
	Rows [][]Cell
}

// NumberOfSets is the row count (spec.md terminology).
func (t *Table) NumberOfSets() int {
	return len(t.Rows)
}

// NumberOfEntries is the column count.
func (t *Table) NumberOfEntries() int {
	return len(t.Columns)
}

// ColumnIndex returns the column position for a property tag, honoring the
// MatchAnyValueType semantics at the caller (spec.md §4.7 "column discovery").
func (t *Table) ColumnIndex(propertyTag uint32) (int, bool) {
	for i, c := range t.Columns {
		if c.PropertyTag == propertyTag {
			return i, true
		}
	}
	return -1, false
}

// ColumnIndexByID finds a column that matches the property id regardless of
// its stored value type, for MatchAnyValueType lookups.
func (t *Table) ColumnIndexByID(propertyID uint16) (int, bool) {
	for i, c := range t.Columns {
		if c.PropertyID() == propertyID {
			return i, true
		}
	}
	return -1, false
}
