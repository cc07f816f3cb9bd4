// File: internal/interfaces/tables.go
package interfaces

import "github.com/vound-software/libpff-20120802-sub001/internal/types"

// TableDecoder decodes the Heap-on-Node table rooted at a heap's root user
// index into the uniform types.Table representation (spec.md §4.7).
type TableDecoder interface {
	Decode(heap HeapIndexResolver) (*types.Table, error)
}
