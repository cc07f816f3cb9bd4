// File: internal/interfaces/datastream.go
package interfaces

import "github.com/vound-software/libpff-20120802-sub001/internal/types"

// StreamAssembler builds the logical byte stream a data_identifier names
// (spec.md §4.4), recursing through internal block-tree nodes via a
// BlockReader.
type StreamAssembler interface {
	Assemble(dataIdentifier uint64) (*types.BlockTree, error)
}
