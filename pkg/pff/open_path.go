package pff

import (
	"fmt"

	"github.com/vound-software/libpff-20120802-sub001/internal/bytesource"
)

// OpenPath opens the file at path read-only and wires it through Open. The
// returned File's Close also closes the underlying file handle, unlike
// Open(src) which never takes ownership of a caller-supplied ByteSource.
func OpenPath(path string, opts ...Option) (*File, error) {
	src, err := bytesource.OpenFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Open(src, opts...)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("pff: open %s: %w", path, err)
	}
	f.closer = src
	return f, nil
}
