package properties

import (
	"encoding/binary"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

type fakeLocalDescriptorTree struct {
	entries map[uint32]types.LocalDescriptorEntry
}

func (f *fakeLocalDescriptorTree) Lookup(subID uint32) (types.LocalDescriptorEntry, error) {
	e, ok := f.entries[subID]
	if !ok {
		return types.LocalDescriptorEntry{}, types.ErrIndexCorrupt
	}
	return e, nil
}

func (f *fakeLocalDescriptorTree) All() []types.LocalDescriptorEntry {
	out := make([]types.LocalDescriptorEntry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e)
	}
	return out
}

type fakeStreamAssembler struct {
	streams map[uint64][]byte
}

func (f *fakeStreamAssembler) Assemble(dataIdentifier uint64) (*types.BlockTree, error) {
	data, ok := f.streams[dataIdentifier]
	if !ok {
		return nil, types.ErrIndexCorrupt
	}
	return &types.BlockTree{TotalSize: uint64(len(data)), Chunks: []types.StreamChunk{{Offset: 0, Data: data}}}, nil
}

func encodeEntryRecord(identifier uint32, propertyIndex, guidIndex uint16) []byte {
	b := make([]byte, entryRecordSize)
	binary.LittleEndian.PutUint32(b[0:4], identifier)
	binary.LittleEndian.PutUint16(b[4:6], propertyIndex)
	binary.LittleEndian.PutUint16(b[6:8], guidIndex)
	return b
}

func encodeLengthPrefixedUTF16(s string) []byte {
	u := make([]byte, 0, len(s)*2)
	for _, r := range s {
		u = append(u, byte(r), byte(r>>8))
	}
	out := make([]byte, 4+len(u))
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(u)))
	copy(out[4:], u)
	return out
}

func TestNameToIDMap_NumericCommonNamespace(t *testing.T) {
	entries := append([]byte{}, encodeEntryRecord(0x8000, 1, guidIndexMAPI)...)

	tree := &fakeLocalDescriptorTree{entries: map[uint32]types.LocalDescriptorEntry{
		types.LocalDescriptorIDNameToIdEntryStream:  {SubDataIdentifier: 1},
		types.LocalDescriptorIDNameToIdGUIDStream:   {SubDataIdentifier: 2},
		types.LocalDescriptorIDNameToIdStringStream: {SubDataIdentifier: 3},
	}}
	assembler := &fakeStreamAssembler{streams: map[uint64][]byte{
		1: entries,
		2: {},
		3: {},
	}}

	m, err := Load(tree, assembler)
	require.NoError(t, err)

	tag, ok := m.Resolve(types.NamedPropertyKey{Namespace: types.NamespaceCommon, NumericName: 0x8000})
	require.True(t, ok)
	require.Equal(t, uint16(mappedTagBase+1), tag)
}

func TestNameToIDMap_StringPublicNamespace(t *testing.T) {
	stringStream := encodeLengthPrefixedUTF16("Keywords")
	entries := encodeEntryRecord(0, 5, guidIndexPublicStrings)

	tree := &fakeLocalDescriptorTree{entries: map[uint32]types.LocalDescriptorEntry{
		types.LocalDescriptorIDNameToIdEntryStream:  {SubDataIdentifier: 1},
		types.LocalDescriptorIDNameToIdGUIDStream:   {SubDataIdentifier: 2},
		types.LocalDescriptorIDNameToIdStringStream: {SubDataIdentifier: 3},
	}}
	assembler := &fakeStreamAssembler{streams: map[uint64][]byte{
		1: entries,
		2: {},
		3: stringStream,
	}}

	m, err := Load(tree, assembler)
	require.NoError(t, err)

	tag, ok := m.Resolve(types.NamedPropertyKey{Namespace: types.NamespacePublicStrings, IsString: true, StringName: "Keywords"})
	require.True(t, ok)
	require.Equal(t, uint16(mappedTagBase+5), tag)
}

func TestNameToIDMap_CustomGUIDStream(t *testing.T) {
	custom := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	guidBytes, err := custom.MarshalBinary()
	require.NoError(t, err)

	entries := encodeEntryRecord(42, 9, guidIndexStreamBase) // index 0 in the guid stream
	tree := &fakeLocalDescriptorTree{entries: map[uint32]types.LocalDescriptorEntry{
		types.LocalDescriptorIDNameToIdEntryStream:  {SubDataIdentifier: 1},
		types.LocalDescriptorIDNameToIdGUIDStream:   {SubDataIdentifier: 2},
		types.LocalDescriptorIDNameToIdStringStream: {SubDataIdentifier: 3},
	}}
	assembler := &fakeStreamAssembler{streams: map[uint64][]byte{
		1: entries,
		2: guidBytes,
		3: {},
	}}

	m, err := Load(tree, assembler)
	require.NoError(t, err)

	tag, ok := m.Resolve(types.NamedPropertyKey{Namespace: custom, NumericName: 42})
	require.True(t, ok)
	require.Equal(t, uint16(mappedTagBase+9), tag)
}

func TestNameToIDMap_NotFound(t *testing.T) {
	tree := &fakeLocalDescriptorTree{entries: map[uint32]types.LocalDescriptorEntry{
		types.LocalDescriptorIDNameToIdEntryStream:  {SubDataIdentifier: 1},
		types.LocalDescriptorIDNameToIdGUIDStream:   {SubDataIdentifier: 2},
		types.LocalDescriptorIDNameToIdStringStream: {SubDataIdentifier: 3},
	}}
	assembler := &fakeStreamAssembler{streams: map[uint64][]byte{1: {}, 2: {}, 3: {}}}

	m, err := Load(tree, assembler)
	require.NoError(t, err)

	_, ok := m.Resolve(types.NamedPropertyKey{Namespace: types.NamespaceCommon, NumericName: 0x1234})
	require.False(t, ok)
}
