// File: internal/interfaces/localdescriptors.go
package interfaces

import "github.com/vound-software/libpff-20120802-sub001/internal/types"

// LocalDescriptorTree resolves a descriptor's local sub-descriptor ids
// (spec.md §4.5) - the attachments/recipients/sub-folder-table pointers
// hung off an individual node.
type LocalDescriptorTree interface {
	Lookup(subDescriptorID uint32) (types.LocalDescriptorEntry, error)
	All() []types.LocalDescriptorEntry
}
