package items

import (
	"fmt"
	"sync"

	"github.com/vound-software/libpff-20120802-sub001/internal/heap"
	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/localdescriptors"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// descriptorSource implements interfaces.PropertySource for one descriptor:
// the Heap-on-Node stream decoded from its own data stream, and (lazily)
// its local-descriptor tree (spec.md §4.8 step 4).
type descriptorSource struct {
	assembler          interfaces.StreamAssembler
	localDescriptorsID uint64
	heapResolver       interfaces.HeapIndexResolver

	localOnce sync.Once
	localTree interfaces.LocalDescriptorTree
	localErr  error
}

var _ interfaces.PropertySource = (*descriptorSource)(nil)

// Heap implements interfaces.PropertySource.
func (s *descriptorSource) Heap() interfaces.HeapIndexResolver { return s.heapResolver }

// LocalDescriptors implements interfaces.PropertySource, loading the tree on
// first use (spec.md §4.5 "loaded lazily").
func (s *descriptorSource) LocalDescriptors() (interfaces.LocalDescriptorTree, error) {
	s.localOnce.Do(func() {
		if s.localDescriptorsID == 0 {
			s.localErr = fmt.Errorf("items: descriptor has no local-descriptor tree: %w", types.ErrDescriptorNotFound)
			return
		}
		s.localTree, s.localErr = localdescriptors.Load(s.assembler, s.localDescriptorsID)
	})
	return s.localTree, s.localErr
}

// StreamAssembler implements interfaces.PropertySource.
func (s *descriptorSource) StreamAssembler() interfaces.StreamAssembler { return s.assembler }

// loadHeap assembles a descriptor's own data stream and decodes its
// Heap-on-Node (spec.md §4.6); decoding the table itself is the caller's
// job once it has the heap; some descriptors (e.g. a childless local
// descriptor table node) carry no heap and are still valid to open for
// navigation.
func loadHeap(assembler interfaces.StreamAssembler, dataIdentifier uint64) (interfaces.HeapIndexResolver, error) {
	bt, err := assembler.Assemble(dataIdentifier)
	if err != nil {
		return nil, fmt.Errorf("items: assemble descriptor stream %d: %w", dataIdentifier, err)
	}
	h, err := heap.Parse(bt.Bytes())
	if err != nil {
		return nil, fmt.Errorf("items: parse heap for stream %d: %w", dataIdentifier, err)
	}
	return h, nil
}
