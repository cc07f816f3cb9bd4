package items

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/properties"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// Item is the user-facing handle bundling a descriptor node with its
// decoded table and property source (spec.md §3 Item, §6).
type Item struct {
	builder *Builder
	node    *types.DescriptorNode
	kind    types.ItemType
	table   *types.Table
	source  interfaces.PropertySource
}

// Identifier returns the descriptor id backing this item (spec.md §6
// item.identifier()).
func (it *Item) Identifier() uint32 { return it.node.ID }

// Type reports the item's kind (spec.md §6 item.type()).
func (it *Item) Type() types.ItemType { return it.kind }

// Recovered reports whether this item came from the recovery scanner
// (spec.md §3 invariant 8).
func (it *Item) Recovered() bool { return it.node.Recovered }

// ParentIdentifier returns the containing descriptor's id, or 0 at the
// synthetic root.
func (it *Item) ParentIdentifier() uint32 {
	if it.node.Parent == nil {
		return 0
	}
	return it.node.Parent.ID
}

// NumberOfSets is the row count of this item's own table (spec.md §6
// item.number_of_sets()).
func (it *Item) NumberOfSets() int { return it.table.NumberOfSets() }

// NumberOfEntries is the column count (spec.md §6 item.number_of_entries()).
func (it *Item) NumberOfEntries() int { return it.table.NumberOfEntries() }

// EntryType reports the (tag, value_type) of column i (spec.md §6
// item.entry_type(set, i)). NameToIDEntry is left nil: reverse lookup from
// a numeric tag back to its named-property key is not maintained by
// NameToIdMap (spec.md §3 only requires the forward direction).
func (it *Item) EntryType(i int) (types.EntryTypeInfo, error) {
	if i < 0 || i >= len(it.table.Columns) {
		return types.EntryTypeInfo{}, fmt.Errorf("items: column %d out of range (have %d): %w", i, len(it.table.Columns), types.ErrPropertyNotPresent)
	}
	col := it.table.Columns[i]
	return types.EntryTypeInfo{Tag: col.PropertyTag, ValueType: col.ValueType}, nil
}

// messageCodepage resolves the item's own message/internet codepage hint
// (spec.md §4.8 step 5 (b)), defaulting to 0 (meaning "unset") when absent.
func (it *Item) messageCodepage() int32 {
	if v, err := it.rawValue(0, uint32(types.PidTagMessageCodepage)<<16|uint32(types.ValueTypeInteger32), types.ValueTypeInteger32, 0); err == nil {
		return v.I32
	}
	if v, err := it.rawValue(0, uint32(types.PidTagInternetCodepage)<<16|uint32(types.ValueTypeInteger32), types.ValueTypeInteger32, 0); err == nil {
		return v.I32
	}
	return 0
}

func (it *Item) rawValue(set int, tag uint32, vt types.ValueType, flags types.EntryFlags) (types.Value, error) {
	return it.builder.materializer.GetEntryValue(it.source, properties.Query{
		Table:           it.table,
		Row:             set,
		EntryTag:        tag,
		ValueType:       vt,
		Flags:           flags,
		FileCodepage:    it.builder.fileCodepage,
		MessageCodepage: 0, // resolved below to avoid infinite recursion for the codepage properties themselves
	})
}

// Value implements get_entry_value (spec.md §4.8, §6 item.value()) for a
// plain numeric property id. propertyID is the property's 16-bit id;
// wantType selects the requested projector.
func (it *Item) Value(set int, propertyID uint16, wantType types.ValueType, flags types.EntryFlags) (types.Value, error) {
	tag := uint32(propertyID)<<16 | uint32(wantType)
	return it.builder.materializer.GetEntryValue(it.source, properties.Query{
		Table:           it.table,
		Row:             set,
		EntryTag:        tag,
		ValueType:       wantType,
		Flags:           flags,
		FileCodepage:    it.builder.fileCodepage,
		MessageCodepage: it.messageCodepage(),
	})
}

// NamedValue resolves a named property through the file's NameToIdMap
// before looking it up (spec.md §4.8 step 1).
func (it *Item) NamedValue(set int, key types.NamedPropertyKey, wantType types.ValueType, flags types.EntryFlags) (types.Value, error) {
	return it.builder.materializer.GetEntryValue(it.source, properties.Query{
		Table:           it.table,
		Row:             set,
		NamedKey:        &key,
		ValueType:       wantType,
		Flags:           flags,
		FileCodepage:    it.builder.fileCodepage,
		MessageCodepage: it.messageCodepage(),
	})
}

// Bool reads a Boolean property (spec.md §6 typed accessors).
func (it *Item) Bool(set int, propertyID uint16) (bool, error) {
	v, err := it.Value(set, propertyID, types.ValueTypeBoolean, 0)
	return v.Bool, err
}

// Int32 reads an I32 property.
func (it *Item) Int32(set int, propertyID uint16) (int32, error) {
	v, err := it.Value(set, propertyID, types.ValueTypeInteger32, 0)
	return v.I32, err
}

// Int64 reads an I64 property.
func (it *Item) Int64(set int, propertyID uint16) (int64, error) {
	v, err := it.Value(set, propertyID, types.ValueTypeInteger64, 0)
	return v.I64, err
}

// Filetime reads a Filetime property as a time.Time.
func (it *Item) Filetime(set int, propertyID uint16) (time.Time, error) {
	v, err := it.Value(set, propertyID, types.ValueTypeFiletime, 0)
	return v.Time, err
}

// Float64 reads an F64 property.
func (it *Item) Float64(set int, propertyID uint16) (float64, error) {
	v, err := it.Value(set, propertyID, types.ValueTypeFloat64, 0)
	return v.F64, err
}

// UTF16String reads a StringUnicode property.
func (it *Item) UTF16String(set int, propertyID uint16) (string, error) {
	v, err := it.Value(set, propertyID, types.ValueTypeStringUnicode, 0)
	return v.Str, err
}

// ASCIIString reads a StringASCII property, decoded per spec.md §4.8 step 5
// codepage precedence.
func (it *Item) ASCIIString(set int, propertyID uint16) (string, error) {
	v, err := it.Value(set, propertyID, types.ValueTypeStringASCII, 0)
	return v.Str, err
}

// String reads a display-oriented string property, preferring Unicode and
// falling back to ASCII (most PFF string properties are stored as one or
// the other depending on the writer's codepage; spec.md §6's typed
// accessors distinguish them, this is the convenience most callers want).
func (it *Item) String(set int, propertyID uint16) (string, error) {
	if v, err := it.UTF16String(set, propertyID); err == nil {
		return v, nil
	}
	return it.ASCIIString(set, propertyID)
}

// Binary reads a Binary property's raw bytes.
func (it *Item) Binary(set int, propertyID uint16) ([]byte, error) {
	v, err := it.Value(set, propertyID, types.ValueTypeBinary, 0)
	return v.Bin, err
}

// GUID reads a GUID property.
func (it *Item) GUID(set int, propertyID uint16) (uuid.UUID, error) {
	v, err := it.Value(set, propertyID, types.ValueTypeGUID, 0)
	if err != nil {
		return uuid.UUID{}, err
	}
	return properties.ParseGUID(v.GUID)
}

// MultiValue reads a multi-valued property of the given base type.
func (it *Item) MultiValue(set int, propertyID uint16, baseType types.ValueType) ([]types.Value, error) {
	v, err := it.Value(set, propertyID, baseType|types.MultiValueFlag, 0)
	return v.Multi, err
}
