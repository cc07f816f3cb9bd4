package properties

import "github.com/vound-software/libpff-20120802-sub001/internal/interfaces"

// PassthroughRTFCodec is the default interfaces.RTFCodec: LZFU decompression
// is out of scope for the core (spec.md §9 Non-goals), so callers get the
// raw compressed bytes back unchanged. A real decompressor can be injected
// by callers that need rendered RTF.
type PassthroughRTFCodec struct{}

var _ interfaces.RTFCodec = PassthroughRTFCodec{}

// Decompress returns compressed unmodified.
func (PassthroughRTFCodec) Decompress(compressed []byte) ([]byte, error) {
	return compressed, nil
}
