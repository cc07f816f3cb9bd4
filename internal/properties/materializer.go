package properties

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// multiValueHeaderSize is the leading uint32 count of a multi-valued cell;
// count+1 uint32 byte offsets, measured from the start of the cell, follow
// it (spec.md §4.8 "MultiValue").
const multiValueHeaderSize = 4

// Materializer implements get_entry_value (spec.md §4.8): translating a
// (table, row, tag, value_type, flags) query into a typed types.Value.
type Materializer struct {
	nameToID  interfaces.NameToIDResolver // nil if no NameToIdMap is wired
	codepages interfaces.CodepageDecoder
	rtf       interfaces.RTFCodec
}

// NewMaterializer builds a Materializer. nameToID may be nil when the file
// has no usable NameToIdMap; codepages/rtf fall back to sensible defaults
// when nil.
func NewMaterializer(nameToID interfaces.NameToIDResolver, codepages interfaces.CodepageDecoder, rtf interfaces.RTFCodec) *Materializer {
	if codepages == nil {
		codepages = NewCodepageRegistry()
	}
	if rtf == nil {
		rtf = PassthroughRTFCodec{}
	}
	return &Materializer{nameToID: nameToID, codepages: codepages, rtf: rtf}
}

// Query bundles the inputs to GetEntryValue (spec.md §4.8 get_entry_value).
type Query struct {
	Table           *types.Table
	Row             int
	EntryTag        uint32
	NamedKey        *types.NamedPropertyKey // non-nil when EntryTag names a named property
	ValueType       types.ValueType
	Flags           types.EntryFlags
	FileCodepage    int32
	MessageCodepage int32
}

// GetEntryValue implements spec.md §4.8 steps 1-5.
func (m *Materializer) GetEntryValue(source interfaces.PropertySource, q Query) (types.Value, error) {
	tag := q.EntryTag
	if q.NamedKey != nil && q.Flags&types.FlagIgnoreNameToIdMap == 0 {
		if m.nameToID == nil {
			return types.Value{}, fmt.Errorf("properties: named property requested but no NameToIdMap wired: %w", types.ErrPropertyNotPresent)
		}
		mapped, ok := m.nameToID.Resolve(*q.NamedKey)
		if !ok {
			return types.Value{}, types.ErrPropertyNotPresent
		}
		// A PropertyTag packs the property id into its high 16 bits and the
		// value type into its low 16 bits (spec.md §4.7 column discovery);
		// NameToIdMap only resolves the id half.
		tag = uint32(mapped)<<16 | uint32(uint16(q.ValueType))
	}

	if q.Table == nil || q.Row < 0 || q.Row >= q.Table.NumberOfSets() {
		return types.Value{}, types.ErrPropertyNotPresent
	}

	matchAny := q.Flags&types.FlagMatchAnyValueType != 0
	colIdx, ok := q.Table.ColumnIndex(tag)
	if !ok && matchAny {
		colIdx, ok = q.Table.ColumnIndexByID(uint16(tag >> 16))
	}
	if !ok {
		return types.Value{}, types.ErrPropertyNotPresent
	}

	col := q.Table.Columns[colIdx]
	cell := q.Table.Rows[q.Row][colIdx]
	if !cell.Present {
		return types.Value{}, types.ErrPropertyNotPresent
	}

	requestedType := q.ValueType
	if matchAny {
		requestedType = col.ValueType
	} else if col.ValueType.BaseType() != requestedType.BaseType() {
		return types.Value{}, types.ErrTypeMismatch
	}

	raw, err := m.resolveStorage(source, cell)
	if err != nil {
		return types.Value{}, err
	}

	if requestedType.IsMultiValue() {
		return m.decodeMultiValue(source, requestedType.BaseType(), raw, q)
	}
	return m.project(requestedType.BaseType(), raw, q)
}

// resolveStorage implements spec.md §4.8 step 4: Inline/HeapRef/SubNode.
func (m *Materializer) resolveStorage(source interfaces.PropertySource, cell types.Cell) ([]byte, error) {
	switch cell.Storage {
	case types.StorageInline:
		return cell.Inline, nil
	case types.StorageHeapRef:
		heap := source.Heap()
		offset, length, err := heap.Resolve(uint16(cell.HeapIndex))
		if err != nil {
			return nil, fmt.Errorf("properties: resolve heap ref: %w", err)
		}
		data := heap.Data()
		return data[offset : offset+length], nil
	case types.StorageSubNode:
		tree, err := source.LocalDescriptors()
		if err != nil {
			return nil, fmt.Errorf("properties: load local descriptors: %w", err)
		}
		entry, err := tree.Lookup(cell.SubDescriptorID)
		if err != nil {
			return nil, fmt.Errorf("properties: resolve sub-node %d: %w", cell.SubDescriptorID, err)
		}
		bt, err := source.StreamAssembler().Assemble(entry.SubDataIdentifier)
		if err != nil {
			return nil, fmt.Errorf("properties: assemble sub-node stream: %w", err)
		}
		return bt.Bytes(), nil
	default:
		return nil, fmt.Errorf("properties: unknown storage kind %d", cell.Storage)
	}
}

func (m *Materializer) project(vt types.ValueType, raw []byte, q Query) (types.Value, error) {
	switch vt {
	case types.ValueTypeBoolean:
		if len(raw) != 1 {
			return types.Value{}, types.ErrTypeMismatch
		}
		return types.Value{Type: vt, Bool: raw[0] != 0}, nil

	case types.ValueTypeInteger16:
		if len(raw) != 2 {
			return types.Value{}, types.ErrTypeMismatch
		}
		return types.Value{Type: vt, I16: int16(binary.LittleEndian.Uint16(raw))}, nil

	case types.ValueTypeInteger32:
		if len(raw) != 4 {
			return types.Value{}, types.ErrTypeMismatch
		}
		return types.Value{Type: vt, I32: int32(binary.LittleEndian.Uint32(raw))}, nil

	case types.ValueTypeInteger64:
		if len(raw) != 8 {
			return types.Value{}, types.ErrTypeMismatch
		}
		return types.Value{Type: vt, I64: int64(binary.LittleEndian.Uint64(raw))}, nil

	case types.ValueTypeFloat32:
		if len(raw) != 4 {
			return types.Value{}, types.ErrTypeMismatch
		}
		return types.Value{Type: vt, F32: math.Float32frombits(binary.LittleEndian.Uint32(raw))}, nil

	case types.ValueTypeFloat64:
		if len(raw) != 8 {
			return types.Value{}, types.ErrTypeMismatch
		}
		return types.Value{Type: vt, F64: math.Float64frombits(binary.LittleEndian.Uint64(raw))}, nil

	case types.ValueTypeFiletime:
		if len(raw) != 8 {
			return types.Value{}, types.ErrTypeMismatch
		}
		return types.Value{Type: vt, Time: types.FiletimeToTime(binary.LittleEndian.Uint64(raw))}, nil

	case types.ValueTypeGUID:
		if len(raw) != 16 {
			return types.Value{}, types.ErrTypeMismatch
		}
		var g [16]byte
		copy(g[:], raw)
		return types.Value{Type: vt, GUID: g}, nil

	case types.ValueTypeStringASCII:
		cp := CodepagePrecedence(0, q.MessageCodepage, q.FileCodepage)
		s, err := m.codepages.Decode(cp, raw)
		if err != nil {
			return types.Value{}, err
		}
		return types.Value{Type: vt, Str: s}, nil

	case types.ValueTypeStringUnicode:
		s, err := DecodeUTF16LE(raw)
		if err != nil {
			return types.Value{}, err
		}
		return types.Value{Type: vt, Str: s}, nil

	case types.ValueTypeBinary:
		return types.Value{Type: vt, Bin: raw}, nil

	default:
		// Everything else (Currency, ErrorCode, Object, ServerID, Restriction,
		// RuleAction, ...) is returned as opaque bytes; spec.md §9 Non-goals
		// exclude interpreting these beyond exposing their raw payload.
		return types.Value{Type: vt, Bin: raw}, nil
	}
}

// decodeMultiValue implements spec.md §4.8 "MultiValue": a uint32 count
// followed by count+1 uint32 byte offsets measured from the start of the
// cell, each span decoded as one value of the base type.
func (m *Materializer) decodeMultiValue(source interfaces.PropertySource, baseType types.ValueType, raw []byte, q Query) (types.Value, error) {
	if len(raw) < multiValueHeaderSize {
		return types.Value{}, fmt.Errorf("properties: multi-value header truncated: %w", types.ErrTableMalformed)
	}
	count := binary.LittleEndian.Uint32(raw[0:4])
	offsetsEnd := multiValueHeaderSize + int(count+1)*4
	if offsetsEnd > len(raw) {
		return types.Value{}, fmt.Errorf("properties: multi-value offset table overruns cell: %w", types.ErrTableMalformed)
	}

	offsets := make([]uint32, count+1)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(raw[multiValueHeaderSize+i*4 : multiValueHeaderSize+(i+1)*4])
	}

	values := make([]types.Value, count)
	for i := uint32(0); i < count; i++ {
		start, end := offsets[i], offsets[i+1]
		if end < start || int(end) > len(raw) {
			return types.Value{}, fmt.Errorf("properties: multi-value element %d span invalid: %w", i, types.ErrTableMalformed)
		}
		v, err := m.project(baseType, raw[start:end], q)
		if err != nil {
			return types.Value{}, err
		}
		values[i] = v
	}
	return types.Value{Type: baseType | types.MultiValueFlag, Multi: values}, nil
}

// DecompressRTF applies the materializer's wired RTFCodec to a
// PidTagRtfCompressed payload (spec.md §4.8/§9).
func (m *Materializer) DecompressRTF(compressed []byte) ([]byte, error) {
	return m.rtf.Decompress(compressed)
}
