package bytesource

import (
	"fmt"

	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
)

// MemoryByteSource serves reads from an in-memory buffer. Used by tests that
// build synthetic PFF fixtures by hand.
type MemoryByteSource struct {
	data []byte
}

var _ interfaces.ByteSource = (*MemoryByteSource)(nil)

// NewMemoryByteSource wraps buf without copying it.
func NewMemoryByteSource(buf []byte) *MemoryByteSource {
	return &MemoryByteSource{data: buf}
}

// ReadAt implements interfaces.ByteSource.
func (s *MemoryByteSource) ReadAt(offset int64, length int) ([]byte, error) {
	if offset < 0 || length < 0 {
		return nil, fmt.Errorf("bytesource: negative offset/length")
	}
	end := offset + int64(length)
	if end > int64(len(s.data)) {
		return nil, fmt.Errorf("bytesource: read %d bytes at %d: out of range (size %d)", length, offset, len(s.data))
	}
	out := make([]byte, length)
	copy(out, s.data[offset:end])
	return out, nil
}

// Size implements interfaces.ByteSource.
func (s *MemoryByteSource) Size() (int64, error) {
	return int64(len(s.data)), nil
}
