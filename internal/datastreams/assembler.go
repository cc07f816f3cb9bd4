// Package datastreams implements L4 (spec.md §4.4): assembling the logical
// byte stream named by a data_identifier out of one or more physical
// blocks, recursing through "internal" block-tree nodes.
package datastreams

import (
	"encoding/binary"
	"fmt"

	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

const dataStreamHeaderSize = 16 // total_size(8) + child_count(4) + pad(4)

// Assembler implements interfaces.StreamAssembler over a BlockReader.
type Assembler struct {
	reader interfaces.BlockReader
}

var _ interfaces.StreamAssembler = (*Assembler)(nil)

// NewAssembler builds a stream assembler on top of an already-constructed
// block reader (L2).
func NewAssembler(reader interfaces.BlockReader) *Assembler {
	return &Assembler{reader: reader}
}

// Assemble implements interfaces.StreamAssembler.
func (a *Assembler) Assemble(dataIdentifier uint64) (*types.BlockTree, error) {
	chunks, size, err := a.assembleNode(dataIdentifier, 0)
	if err != nil {
		return nil, err
	}
	if size > types.MaxStreamSize {
		return nil, fmt.Errorf("datastreams: assembled size %d exceeds cap %d: %w", size, uint64(types.MaxStreamSize), types.ErrStreamTooLarge)
	}
	return &types.BlockTree{TotalSize: size, Chunks: chunks}, nil
}

// assembleNode reads dataIdentifier's primary block and, if it names an
// internal block-tree node, recurses into its children. It returns the
// node's chunks with offsets relative to the node's own start (the caller
// rebases them against the running total as it walks siblings), and the
// node's total size.
func (a *Assembler) assembleNode(dataIdentifier uint64, depth int) ([]types.StreamChunk, uint64, error) {
	if depth > types.MaxBlockTreeDepth {
		return nil, 0, fmt.Errorf("datastreams: block tree depth exceeds %d: %w", types.MaxBlockTreeDepth, types.ErrBlockTreeTooDeep)
	}

	primary, err := a.reader.ReadBlock(dataIdentifier)
	if err != nil {
		return nil, 0, fmt.Errorf("datastreams: read primary block %d: %w", dataIdentifier, err)
	}

	isInternal := dataIdentifier&types.BlockIDInternalFlag == 0
	if !isInternal {
		return []types.StreamChunk{{Data: primary}}, uint64(len(primary)), nil
	}

	if len(primary) < dataStreamHeaderSize {
		return nil, 0, fmt.Errorf("datastreams: internal block %d header truncated: %w", dataIdentifier, types.ErrBlockCorrupt)
	}
	hdr := types.DataStreamHeader{
		TotalDataSize: binary.LittleEndian.Uint64(primary[0:8]),
		ChildCount:    binary.LittleEndian.Uint32(primary[8:12]),
	}

	childIDsEnd := dataStreamHeaderSize + int(hdr.ChildCount)*8
	if childIDsEnd > len(primary) {
		return nil, 0, fmt.Errorf("datastreams: internal block %d child array overruns payload: %w", dataIdentifier, types.ErrBlockCorrupt)
	}

	var chunks []types.StreamChunk
	var sum uint64
	for i := uint32(0); i < hdr.ChildCount; i++ {
		off := dataStreamHeaderSize + int(i)*8
		childID := binary.LittleEndian.Uint64(primary[off : off+8])

		childChunks, childSize, err := a.assembleNode(childID, depth+1)
		if err != nil {
			return nil, 0, err
		}
		for _, c := range childChunks {
			chunks = append(chunks, types.StreamChunk{Offset: c.Offset + sum, Data: c.Data})
		}
		sum += childSize
	}

	if sum != hdr.TotalDataSize {
		return nil, 0, fmt.Errorf("datastreams: block %d children sum to %d, header declares %d: %w", dataIdentifier, sum, hdr.TotalDataSize, types.ErrDataStreamTruncated)
	}

	return chunks, sum, nil
}
