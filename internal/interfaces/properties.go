// File: internal/interfaces/properties.go
package interfaces

import "github.com/vound-software/libpff-20120802-sub001/internal/types"

// PropertySource is the set of collaborators the materializer (L8) needs to
// resolve a cell's bytes, regardless of how they are stored (spec.md §4.8
// step 4).
type PropertySource interface {
	Heap() HeapIndexResolver
	LocalDescriptors() (LocalDescriptorTree, error)
	StreamAssembler() StreamAssembler
}

// NameToIDResolver translates a named property to its numeric tag within a
// single file (spec.md §3 NameToIdMap, §4.8 step 1).
type NameToIDResolver interface {
	Resolve(key types.NamedPropertyKey) (uint16, bool)
}

// CodepageDecoder decodes a single-byte/multi-byte ANSI string given a
// Windows codepage identifier (spec.md §4.8 "String (ASCII)").
type CodepageDecoder interface {
	Decode(codepage int32, raw []byte) (string, error)
}

// RTFCodec is a pluggable decompressor for PidTagRtfCompressed payloads.
// spec.md §4.8/§9 keep LZFU/RTF decompression out of the core's required
// behavior; callers that need decompressed RTF supply an implementation,
// and the core otherwise returns the raw compressed bytes plus a size
// probe like every other binary property.
type RTFCodec interface {
	Decompress(compressed []byte) ([]byte, error)
}
