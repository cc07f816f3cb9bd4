package types

import "errors"

// Sentinel errors for the taxonomy in spec.md §7. Layers wrap these with
// fmt.Errorf("...: %w", ErrX) so callers can still compare with errors.Is
// after the structural context is attached.
var (
	ErrUnsupportedFormat  = errors.New("pff: unrecognized file signature")
	ErrUnsupportedVersion = errors.New("pff: unrecognized format byte")
	ErrHeaderCorrupt      = errors.New("pff: header checksum or layout invalid")
	ErrIndexCorrupt       = errors.New("pff: b-tree page invariant violated")
	ErrBlockCorrupt       = errors.New("pff: block structurally invalid")
	ErrBlockNotFound      = errors.New("pff: block identifier not found in block b-tree")
	ErrBlockChecksum      = errors.New("pff: block checksum mismatch")
	ErrBlockBackpointer   = errors.New("pff: block back-pointer mismatch")
	ErrBlockTooLarge      = errors.New("pff: block exceeds implementation size cap")
	ErrDataStreamTruncated = errors.New("pff: data stream child sizes disagree with declared total")
	ErrHeapIndexInvalid   = errors.New("pff: heap allocation index out of range")
	ErrTableMalformed     = errors.New("pff: table header signature or column layout invalid")
	ErrTypeMismatch       = errors.New("pff: stored value type does not match requested type")
	ErrBufferTooSmall     = errors.New("pff: destination buffer too small")
	ErrPropertyNotPresent = errors.New("pff: property not present")
	ErrAborted            = errors.New("pff: operation aborted")
	ErrDescriptorNotFound = errors.New("pff: descriptor identifier not found in node b-tree")
	ErrNotADirectory      = errors.New("pff: item is not a folder")
	ErrNotAMessage        = errors.New("pff: item is not a message")
	ErrBlockTreeTooDeep   = errors.New("pff: block tree exceeds maximum nesting depth")
	ErrStreamTooLarge     = errors.New("pff: assembled stream exceeds implementation size cap")
)
