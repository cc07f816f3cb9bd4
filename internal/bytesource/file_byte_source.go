// Package bytesource provides concrete ByteSource implementations. The core
// itself treats ByteSource as an external collaborator (spec.md §1); these
// two implementations exist so the CLI and the test suite have something
// concrete to open.
package bytesource

import (
	"fmt"
	"io"
	"os"

	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
)

// FileByteSource reads from an *os.File opened read-only. Concurrent
// ReadAt calls are safe: os.File.ReadAt does not share a seek cursor.
type FileByteSource struct {
	file *os.File
}

var _ interfaces.ByteSource = (*FileByteSource)(nil)

// OpenFile opens path read-only and wraps it as a ByteSource.
func OpenFile(path string) (*FileByteSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bytesource: open %s: %w", path, err)
	}
	return &FileByteSource{file: f}, nil
}

// Close releases the underlying file handle.
func (s *FileByteSource) Close() error {
	return s.file.Close()
}

// ReadAt implements interfaces.ByteSource.
func (s *FileByteSource) ReadAt(offset int64, length int) ([]byte, error) {
	buf := make([]byte, length)
	n, err := s.file.ReadAt(buf, offset)
	if err != nil && !(err == io.EOF && n == length) {
		return nil, fmt.Errorf("bytesource: read %d bytes at %d: %w", length, offset, err)
	}
	return buf, nil
}

// Size implements interfaces.ByteSource.
func (s *FileByteSource) Size() (int64, error) {
	info, err := s.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("bytesource: stat: %w", err)
	}
	return info.Size(), nil
}
