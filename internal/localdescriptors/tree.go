// Package localdescriptors implements L5 (spec.md §4.5): the per-descriptor
// local tree that lets a node reference auxiliary sub-streams (attachments,
// recipients, sub-folder tables, ...).
//
// The local-descriptor tree's stream is reached exactly like any other data
// stream (L3 locates its blocks, L4 assembles them); what is specific to L5
// is how the assembled bytes are structured. The retrieved corpus does not
// carry byte-exact offsets for this inner structure, so this package treats
// it as a flat array of fixed-size, sub_descriptor_id-sorted leaf records -
// a degenerate (single-level) B-tree - which satisfies every behavior
// spec.md §4.5 names (lazy load from local_descriptors_id, keyed lookup by
// 32-bit sub id, yielding sub_data_identifier/sub_local_descriptors_id) and
// keeps the search O(log n). See DESIGN.md.
package localdescriptors

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

const leafRecordSize = 20 // sub_descriptor_id(4) + sub_data_identifier(8) + nested_local_descriptors_id(8)

// Tree implements interfaces.LocalDescriptorTree over a decoded, sorted
// array of leaf records.
type Tree struct {
	entries []types.LocalDescriptorEntry
}

var _ interfaces.LocalDescriptorTree = (*Tree)(nil)

// Load assembles localDescriptorsID's stream (via L3+L4) and decodes it
// into a Tree (spec.md §4.5 "loaded lazily from descriptor.local_
// descriptors_id").
func Load(assembler interfaces.StreamAssembler, localDescriptorsID uint64) (*Tree, error) {
	bt, err := assembler.Assemble(localDescriptorsID)
	if err != nil {
		return nil, fmt.Errorf("localdescriptors: assemble stream %d: %w", localDescriptorsID, err)
	}
	return decode(bt.Bytes())
}

func decode(data []byte) (*Tree, error) {
	if len(data)%leafRecordSize != 0 {
		return nil, fmt.Errorf("localdescriptors: stream length %d not a multiple of record size %d: %w", len(data), leafRecordSize, types.ErrBlockCorrupt)
	}
	count := len(data) / leafRecordSize
	entries := make([]types.LocalDescriptorEntry, count)
	var prevID uint32
	for i := 0; i < count; i++ {
		off := i * leafRecordSize
		e := types.LocalDescriptorEntry{
			SubDescriptorID:         binary.LittleEndian.Uint32(data[off : off+4]),
			SubDataIdentifier:       binary.LittleEndian.Uint64(data[off+4 : off+12]),
			NestedLocalDescriptorsID: binary.LittleEndian.Uint64(data[off+12 : off+20]),
		}
		if i > 0 && e.SubDescriptorID <= prevID {
			return nil, fmt.Errorf("localdescriptors: ids not strictly increasing at entry %d: %w", i, types.ErrIndexCorrupt)
		}
		prevID = e.SubDescriptorID
		entries[i] = e
	}
	return &Tree{entries: entries}, nil
}

// Lookup implements interfaces.LocalDescriptorTree.
func (t *Tree) Lookup(subDescriptorID uint32) (types.LocalDescriptorEntry, error) {
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].SubDescriptorID >= subDescriptorID
	})
	if i < len(t.entries) && t.entries[i].SubDescriptorID == subDescriptorID {
		return t.entries[i], nil
	}
	return types.LocalDescriptorEntry{}, fmt.Errorf("localdescriptors: sub-descriptor %d: %w", subDescriptorID, types.ErrDescriptorNotFound)
}

// All implements interfaces.LocalDescriptorTree.
func (t *Tree) All() []types.LocalDescriptorEntry {
	return t.entries
}
