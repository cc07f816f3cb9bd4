package items

import (
	"fmt"

	"github.com/vound-software/libpff-20120802-sub001/internal/heap"
	"github.com/vound-software/libpff-20120802-sub001/internal/properties"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// Recipient is one row of a message's recipients table (spec.md §9
// supplement #2: "PidTagRecipientType, PidTagDisplayName,
// PidTagEmailAddress, PidTagSendRichInfo").
type Recipient struct {
	Type         int32
	DisplayName  string
	EmailAddress string
	SendRichInfo bool
}

// loadRecipients decodes the recipients table hung off a message's
// local-descriptor tree at LocalDescriptorIDRecipients. Recipients have no
// Node-BTree descriptor of their own: the table's rows ARE the recipients.
func loadRecipients(item *Item) ([]Recipient, error) {
	localTree, err := item.source.LocalDescriptors()
	if err != nil {
		return nil, fmt.Errorf("items: message %d has no local descriptors: %w", item.Identifier(), err)
	}
	entry, err := localTree.Lookup(types.LocalDescriptorIDRecipients)
	if err != nil {
		return nil, fmt.Errorf("items: message %d has no recipients table: %w", item.Identifier(), err)
	}

	bt, err := item.builder.assembler.Assemble(entry.SubDataIdentifier)
	if err != nil {
		return nil, fmt.Errorf("items: assemble recipients stream %d: %w", entry.SubDataIdentifier, err)
	}
	h, err := heap.Parse(bt.Bytes())
	if err != nil {
		return nil, fmt.Errorf("items: parse recipients heap: %w", err)
	}
	table, err := item.builder.decoder.Decode(h)
	if err != nil {
		return nil, fmt.Errorf("items: decode recipients table: %w", err)
	}

	source := &descriptorSource{
		assembler:          item.builder.assembler,
		localDescriptorsID: entry.NestedLocalDescriptorsID,
		heapResolver:       h,
	}

	recipients := make([]Recipient, table.NumberOfSets())
	for row := range recipients {
		recipients[row] = Recipient{
			Type:         readInt32(item.builder.materializer, source, table, row, types.PidTagRecipientType),
			DisplayName:  readString(item.builder.materializer, source, table, row, types.PidTagDisplayName, item.builder.fileCodepage),
			EmailAddress: readString(item.builder.materializer, source, table, row, types.PidTagEmailAddress, item.builder.fileCodepage),
			SendRichInfo: readBool(item.builder.materializer, source, table, row, types.PidTagSendRichInfo),
		}
	}
	return recipients, nil
}

func readInt32(m *properties.Materializer, source *descriptorSource, table *types.Table, row int, propertyID uint16) int32 {
	v, err := m.GetEntryValue(source, properties.Query{Table: table, Row: row, EntryTag: uint32(propertyID)<<16 | uint32(types.ValueTypeInteger32), ValueType: types.ValueTypeInteger32})
	if err != nil {
		return 0
	}
	return v.I32
}

func readBool(m *properties.Materializer, source *descriptorSource, table *types.Table, row int, propertyID uint16) bool {
	v, err := m.GetEntryValue(source, properties.Query{Table: table, Row: row, EntryTag: uint32(propertyID)<<16 | uint32(types.ValueTypeBoolean), ValueType: types.ValueTypeBoolean})
	if err != nil {
		return false
	}
	return v.Bool
}

func readString(m *properties.Materializer, source *descriptorSource, table *types.Table, row int, propertyID uint16, fileCodepage int32) string {
	tagUnicode := uint32(propertyID)<<16 | uint32(types.ValueTypeStringUnicode)
	if v, err := m.GetEntryValue(source, properties.Query{Table: table, Row: row, EntryTag: tagUnicode, ValueType: types.ValueTypeStringUnicode}); err == nil {
		return v.Str
	}
	tagASCII := uint32(propertyID)<<16 | uint32(types.ValueTypeStringASCII)
	if v, err := m.GetEntryValue(source, properties.Query{Table: table, Row: row, EntryTag: tagASCII, ValueType: types.ValueTypeStringASCII, FileCodepage: fileCodepage}); err == nil {
		return v.Str
	}
	return ""
}
